package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/application/service"
	"github.com/intersul/copimanager/internal/auth"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

type nopKVLogger struct{}

func (nopKVLogger) Info(string, ...interface{})  {}
func (nopKVLogger) Error(string, ...interface{}) {}

// newTestDB opens an in-memory sqlite database with the real schema
// applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	// One connection, or each pooled conn would see its own empty
	// in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func seedClient(t *testing.T, db *sql.DB, email string) *entity.Client {
	t.Helper()
	repo := NewClientRepository(db, zap.NewNop())
	client := &entity.Client{Name: "ACME Copiers", Email: email}
	require.NoError(t, repo.Create(context.Background(), client))
	return client
}

func seedMachine(t *testing.T, db *sql.DB, clientID int64, serial string) *entity.ClientCopyMachine {
	t.Helper()
	repo := NewClientMachineRepository(db, zap.NewNop())
	machine := &entity.ClientCopyMachine{
		SerialNumber:    serial,
		ClientID:        clientID,
		AcquisitionType: entity.AcquisitionExternal,
		ExternalModel:   "WorkCentre 3345",
	}
	require.NoError(t, repo.Create(context.Background(), machine))
	return machine
}

func seedService(t *testing.T, db *sql.DB, clientID, machineID int64) *entity.Service {
	t.Helper()
	repo := NewServiceRepository(db, zap.NewNop())
	svc := &entity.Service{Type: workflow.ServiceMaintenance, ClientID: clientID, MachineID: machineID}
	require.NoError(t, repo.Create(context.Background(), svc))
	return svc
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	ctx := context.Background()

	user := &entity.User{
		Email:    "tech@intersul.com",
		Password: "hashed",
		Name:     "Technician",
		Role:     entity.RoleTechnician,
		Active:   true,
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.True(t, got.Active)

	byEmail, err := repo.GetByEmail(ctx, "tech@intersul.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_GetByEmailUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user, err := repo.GetByEmail(context.Background(), "nobody@intersul.com")
	assert.True(t, entity.IsNotFound(err), "absence must surface as NotFound, got %v", err)
	assert.Nil(t, user)
}

// Login against the real repository, not a mock, so the two agree on
// how an unknown email is reported.
func TestAuthService_LoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	svc := service.NewAuthService(repo, tokens, nopKVLogger{})

	_, err := svc.Login(context.Background(), "nobody@intersul.com", "whatever")
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	ctx := context.Background()

	first := &entity.User{Email: "dup@intersul.com", Password: "x", Name: "A", Role: entity.RoleAdmin, Active: true}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.User{Email: "dup@intersul.com", Password: "y", Name: "B", Role: entity.RoleAdmin, Active: true}
	err := repo.Create(ctx, second)
	assert.True(t, entity.IsConflict(err), "expected conflict, got %v", err)
}

func TestUserRepository_SetActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db, zap.NewNop())
	ctx := context.Background()

	user := &entity.User{Email: "t@intersul.com", Password: "x", Name: "T", Role: entity.RoleTechnician, Active: true}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.SetActive(ctx, user.ID, false))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	err = repo.SetActive(ctx, 9999, false)
	assert.True(t, entity.IsNotFound(err))
}

func TestClientRepository_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewClientRepository(db, zap.NewNop())

	_, err := repo.GetByID(context.Background(), 404)
	assert.True(t, entity.IsNotFound(err))
}

func TestClientRepository_DeleteWithMachinesConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	seedMachine(t, db, client.ID, "SN-1")

	repo := NewClientRepository(db, zap.NewNop())
	err := repo.Delete(ctx, client.ID)
	assert.True(t, entity.IsConflict(err), "RESTRICT should surface as conflict, got %v", err)
}

func TestServiceRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	clientA := seedClient(t, db, "a@intersul.com")
	clientB := seedClient(t, db, "b@intersul.com")
	machineA := seedMachine(t, db, clientA.ID, "SN-A")
	machineB := seedMachine(t, db, clientB.ID, "SN-B")

	seedService(t, db, clientA.ID, machineA.ID)
	seedService(t, db, clientA.ID, machineA.ID)
	seedService(t, db, clientB.ID, machineB.ID)

	repo := NewServiceRepository(db, zap.NewNop())

	all, err := repo.List(ctx, port.ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byClient, err := repo.List(ctx, port.ServiceFilter{ClientID: &clientA.ID})
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	byBoth, err := repo.List(ctx, port.ServiceFilter{ClientID: &clientA.ID, MachineID: &machineB.ID})
	require.NoError(t, err)
	assert.Empty(t, byBoth, "AND-combined filters should not match across rows")

	byType, err := repo.List(ctx, port.ServiceFilter{Type: "MAINTENANCE", ClientID: &clientB.ID})
	require.NoError(t, err)
	assert.Len(t, byType, 1)
}

func TestServiceRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	machine := seedMachine(t, db, client.ID, "SN-1")
	svc := seedService(t, db, client.ID, machine.ID)

	maintenanceRepo := NewMaintenanceRepository(db, zap.NewNop())
	require.NoError(t, maintenanceRepo.Create(ctx, &entity.Maintenance{
		ServiceID: svc.ID,
		Type:      workflow.MaintenanceInternal,
	}))

	stepRepo := NewStepRepository(db, zap.NewNop())
	for i, desc := range workflow.StepTemplate(workflow.MaintenanceInternal) {
		require.NoError(t, stepRepo.Create(ctx, &entity.ServiceStep{
			ServiceID:   svc.ID,
			ServiceType: workflow.ServiceMaintenance,
			Position:    i + 1,
			Description: desc,
			Status:      workflow.StepPending,
		}))
	}

	serviceRepo := NewServiceRepository(db, zap.NewNop())
	require.NoError(t, serviceRepo.Delete(ctx, svc.ID))

	steps, err := stepRepo.ListByServiceID(ctx, svc.ID)
	require.NoError(t, err)
	assert.Empty(t, steps, "steps should die with their service")

	_, err = maintenanceRepo.GetByServiceID(ctx, svc.ID)
	assert.True(t, entity.IsNotFound(err), "maintenance should die with its service")
}

func TestStepRepository_OrderingAndUniquePosition(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	machine := seedMachine(t, db, client.ID, "SN-1")
	svc := seedService(t, db, client.ID, machine.ID)

	stepRepo := NewStepRepository(db, zap.NewNop())
	descriptions := workflow.StepTemplate(workflow.MaintenanceExternal)

	// Insert out of order; listing must come back by position.
	for i := len(descriptions) - 1; i >= 0; i-- {
		require.NoError(t, stepRepo.Create(ctx, &entity.ServiceStep{
			ServiceID:   svc.ID,
			ServiceType: workflow.ServiceMaintenance,
			Position:    i + 1,
			Description: descriptions[i],
			Status:      workflow.StepPending,
		}))
	}

	steps, err := stepRepo.ListByServiceID(ctx, svc.ID)
	require.NoError(t, err)
	require.Len(t, steps, len(descriptions))
	for i, step := range steps {
		assert.Equal(t, i+1, step.Position)
		assert.Equal(t, descriptions[i], step.Description)
	}

	err = stepRepo.Create(ctx, &entity.ServiceStep{
		ServiceID:   svc.ID,
		ServiceType: workflow.ServiceMaintenance,
		Position:    1,
		Description: "duplicate position",
		Status:      workflow.StepPending,
	})
	assert.True(t, entity.IsConflict(err))
}

func TestStepRepository_UpdateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	machine := seedMachine(t, db, client.ID, "SN-1")
	svc := seedService(t, db, client.ID, machine.ID)

	userRepo := NewUserRepository(db, zap.NewNop())
	tech := &entity.User{Email: "t@intersul.com", Password: "x", Name: "T", Role: entity.RoleTechnician, Active: true}
	require.NoError(t, userRepo.Create(ctx, tech))

	stepRepo := NewStepRepository(db, zap.NewNop())
	step := &entity.ServiceStep{
		ServiceID:   svc.ID,
		ServiceType: workflow.ServiceMaintenance,
		Position:    1,
		Description: "On the Way",
		Status:      workflow.StepPending,
	}
	require.NoError(t, stepRepo.Create(ctx, step))

	step.Status = workflow.StepInProgress
	step.ResponsibleEmployeeID = &tech.ID
	step.Notes = "heading out"
	require.NoError(t, stepRepo.Update(ctx, step))

	got, err := stepRepo.GetByID(ctx, step.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepInProgress, got.Status)
	require.NotNil(t, got.ResponsibleEmployeeID)
	assert.Equal(t, tech.ID, *got.ResponsibleEmployeeID)
	assert.Equal(t, "heading out", got.Notes)
	assert.Nil(t, got.CompletedDate)
}

func TestApprovalRepository_OnePerStep(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	machine := seedMachine(t, db, client.ID, "SN-1")
	svc := seedService(t, db, client.ID, machine.ID)

	userRepo := NewUserRepository(db, zap.NewNop())
	manager := &entity.User{Email: "m@intersul.com", Password: "x", Name: "M", Role: entity.RoleManager, Active: true}
	require.NoError(t, userRepo.Create(ctx, manager))

	stepRepo := NewStepRepository(db, zap.NewNop())
	step := &entity.ServiceStep{
		ServiceID:   svc.ID,
		ServiceType: workflow.ServiceMaintenance,
		Position:    1,
		Description: "Budget Approval",
		Status:      workflow.StepPending,
	}
	require.NoError(t, stepRepo.Create(ctx, step))

	approvalRepo := NewApprovalRepository(db, zap.NewNop())
	first := &entity.Approval{StepID: step.ID, ResponsibleUserID: manager.ID, Approved: true}
	require.NoError(t, approvalRepo.Create(ctx, first))

	second := &entity.Approval{StepID: step.ID, ResponsibleUserID: manager.ID, Approved: false}
	err := approvalRepo.Create(ctx, second)
	assert.True(t, entity.IsConflict(err), "second approval on a step must conflict")

	got, err := approvalRepo.GetByStepID(ctx, step.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved, "original decision must survive")
}

func TestApprovalRepository_NoDecisionYet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := seedClient(t, db, "c@intersul.com")
	machine := seedMachine(t, db, client.ID, "SN-1")
	svc := seedService(t, db, client.ID, machine.ID)

	stepRepo := NewStepRepository(db, zap.NewNop())
	step := &entity.ServiceStep{
		ServiceID:   svc.ID,
		ServiceType: workflow.ServiceMaintenance,
		Position:    1,
		Description: "Technical Evaluation",
		Status:      workflow.StepPending,
	}
	require.NoError(t, stepRepo.Create(ctx, step))

	approvalRepo := NewApprovalRepository(db, zap.NewNop())
	approval, err := approvalRepo.GetByStepID(ctx, step.ID)
	assert.True(t, entity.IsNotFound(err), "undecided step must surface as NotFound, got %v", err)
	assert.Nil(t, approval)

	annexSvc := service.NewAnnexService(approvalRepo, NewImageRepository(db, zap.NewNop()), stepRepo, NewUserRepository(db, zap.NewNop()), nil, nopKVLogger{})
	_, err = annexSvc.GetApproval(ctx, step.ID)
	assert.True(t, entity.IsNotFound(err))
}

func TestCatalogRepository_FeaturesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := NewCatalogRepository(db, zap.NewNop())
	price := 12999.90
	qty := 4
	machine := &entity.CopyMachineCatalog{
		Model:        "imageRUNNER 2630i",
		Manufacturer: "Canon",
		Features:     []string{"duplex", "scanner", "wifi"},
		Price:        &price,
		Quantity:     &qty,
	}
	require.NoError(t, repo.Create(ctx, machine))

	got, err := repo.GetByID(ctx, machine.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"duplex", "scanner", "wifi"}, got.Features)
	require.NotNil(t, got.Price)
	assert.InDelta(t, price, *got.Price, 0.001)
}

func TestSupplyRepository_UpdateStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := NewSupplyRepository(db, zap.NewNop())
	supply := &entity.Supply{Name: "Black toner", QuantityInStock: 10, Price: 199.9, Category: entity.SupplyCategoryToner}
	require.NoError(t, repo.Create(ctx, supply))

	require.NoError(t, repo.UpdateStock(ctx, supply.ID, 7))

	got, err := repo.GetByID(ctx, supply.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.QuantityInStock)
}

func TestCategoryRepository_UniqueName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	repo := NewCategoryRepository(db, zap.NewNop())
	require.NoError(t, repo.Create(ctx, &entity.Category{Name: "Preventive"}))

	err := repo.Create(ctx, &entity.Category{Name: "Preventive"})
	assert.True(t, entity.IsConflict(err))
}
