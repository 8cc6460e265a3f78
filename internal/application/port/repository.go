// Package port defines the interfaces the application services depend
// on. Implementations live under internal/infrastructure.
package port

import (
	"context"

	"github.com/intersul/copimanager/internal/domain/entity"
)

// TransactionManager scopes a function to one database transaction.
// Repository calls made with the context passed to fn join that
// transaction; any error rolls the whole transaction back.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines persistence operations for User. Getters
// return entity.NotFoundError on absence, never (nil, nil); mocks must
// honor the same contract.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// ClientRepository defines persistence operations for Client
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id int64) error
}

// CatalogRepository defines persistence operations for CopyMachineCatalog
type CatalogRepository interface {
	Create(ctx context.Context, machine *entity.CopyMachineCatalog) error
	GetByID(ctx context.Context, id int64) (*entity.CopyMachineCatalog, error)
	List(ctx context.Context) ([]*entity.CopyMachineCatalog, error)
	Update(ctx context.Context, machine *entity.CopyMachineCatalog) error
	SetFile(ctx context.Context, id int64, path string) error
	Delete(ctx context.Context, id int64) error
}

// ClientMachineRepository defines persistence operations for
// ClientCopyMachine
type ClientMachineRepository interface {
	Create(ctx context.Context, machine *entity.ClientCopyMachine) error
	GetByID(ctx context.Context, id int64) (*entity.ClientCopyMachine, error)
	List(ctx context.Context, clientID *int64) ([]*entity.ClientCopyMachine, error)
	Update(ctx context.Context, machine *entity.ClientCopyMachine) error
	Delete(ctx context.Context, id int64) error
}

// ServiceFilter narrows ListServices. All provided fields AND-combine.
type ServiceFilter struct {
	Type      string
	ClientID  *int64
	MachineID *int64
}

// ServiceRepository defines persistence operations for Service.
// Rows are bare; relation loading is composed explicitly by the
// workflow service per operation.
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id int64) (*entity.Service, error)
	List(ctx context.Context, filter ServiceFilter) ([]*entity.Service, error)
	Delete(ctx context.Context, id int64) error
}

// MaintenanceRepository defines persistence operations for Maintenance
type MaintenanceRepository interface {
	Create(ctx context.Context, m *entity.Maintenance) error
	GetByServiceID(ctx context.Context, serviceID int64) (*entity.Maintenance, error)
}

// StepRepository defines persistence operations for ServiceStep
type StepRepository interface {
	Create(ctx context.Context, step *entity.ServiceStep) error
	GetByID(ctx context.Context, id int64) (*entity.ServiceStep, error)
	ListByServiceID(ctx context.Context, serviceID int64) ([]*entity.ServiceStep, error)
	// Update persists status, assignee, completion date and notes.
	// Whole-row, last write wins.
	Update(ctx context.Context, step *entity.ServiceStep) error
}

// ApprovalRepository defines persistence operations for Approval.
// GetByStepID returns entity.NotFoundError for a step with no decision
// yet, never (nil, nil); mocks must honor the same contract.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByStepID(ctx context.Context, stepID int64) (*entity.Approval, error)
}

// ImageRepository defines persistence operations for StepImage
type ImageRepository interface {
	Create(ctx context.Context, image *entity.StepImage) error
	ListByStepID(ctx context.Context, stepID int64) ([]*entity.StepImage, error)
}

// SupplyRepository defines persistence operations for Supply
type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	GetByID(ctx context.Context, id int64) (*entity.Supply, error)
	List(ctx context.Context) ([]*entity.Supply, error)
	Update(ctx context.Context, supply *entity.Supply) error
	UpdateStock(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines persistence operations for Category
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
