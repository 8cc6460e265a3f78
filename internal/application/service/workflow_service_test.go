package service

import (
	"context"
	"errors"
	"testing"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

// Mock repositories

type mockServiceRepo struct {
	createFunc  func(ctx context.Context, svc *entity.Service) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Service, error)
	listFunc    func(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error)
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockServiceRepo) Create(ctx context.Context, svc *entity.Service) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, svc)
	}
	svc.ID = 1
	return nil
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Service{ID: id, Type: workflow.ServiceMaintenance, ClientID: 1, MachineID: 1}, nil
}

func (m *mockServiceRepo) List(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.Service{}, nil
}

func (m *mockServiceRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockMaintenanceRepo struct {
	createFunc func(ctx context.Context, mt *entity.Maintenance) error
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, mt *entity.Maintenance) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, mt)
	}
	mt.ID = 1
	return nil
}

func (m *mockMaintenanceRepo) GetByServiceID(ctx context.Context, serviceID int64) (*entity.Maintenance, error) {
	return &entity.Maintenance{ID: 1, ServiceID: serviceID, Type: workflow.MaintenanceInternal}, nil
}

type mockStepRepo struct {
	created     []*entity.ServiceStep
	createFunc  func(ctx context.Context, step *entity.ServiceStep) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.ServiceStep, error)
	updated     *entity.ServiceStep
	updateFunc  func(ctx context.Context, step *entity.ServiceStep) error
}

func (m *mockStepRepo) Create(ctx context.Context, step *entity.ServiceStep) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, step)
	}
	step.ID = int64(len(m.created) + 1)
	m.created = append(m.created, step)
	return nil
}

func (m *mockStepRepo) GetByID(ctx context.Context, id int64) (*entity.ServiceStep, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.ServiceStep{
		ID:          id,
		ServiceID:   1,
		ServiceType: workflow.ServiceMaintenance,
		Position:    1,
		Description: "On the Way",
		Status:      workflow.StepPending,
	}, nil
}

func (m *mockStepRepo) ListByServiceID(ctx context.Context, serviceID int64) ([]*entity.ServiceStep, error) {
	return m.created, nil
}

func (m *mockStepRepo) Update(ctx context.Context, step *entity.ServiceStep) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, step)
	}
	m.updated = step
	return nil
}

type mockClientRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.Client, error)
}

func (m *mockClientRepo) Create(ctx context.Context, client *entity.Client) error { return nil }

func (m *mockClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Client{ID: id, Name: "ACME Copiers"}, nil
}

func (m *mockClientRepo) List(ctx context.Context) ([]*entity.Client, error)        { return nil, nil }
func (m *mockClientRepo) Update(ctx context.Context, client *entity.Client) error   { return nil }
func (m *mockClientRepo) Delete(ctx context.Context, id int64) error                { return nil }

type mockMachineRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.ClientCopyMachine, error)
}

func (m *mockMachineRepo) Create(ctx context.Context, machine *entity.ClientCopyMachine) error {
	return nil
}

func (m *mockMachineRepo) GetByID(ctx context.Context, id int64) (*entity.ClientCopyMachine, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.ClientCopyMachine{ID: id, SerialNumber: "SN-100", ClientID: 1}, nil
}

func (m *mockMachineRepo) List(ctx context.Context, clientID *int64) ([]*entity.ClientCopyMachine, error) {
	return nil, nil
}
func (m *mockMachineRepo) Update(ctx context.Context, machine *entity.ClientCopyMachine) error {
	return nil
}
func (m *mockMachineRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockUserRepo struct {
	getByIDFunc func(ctx context.Context, id int64) (*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, Name: "Tech", Role: entity.RoleTechnician, Active: true}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, entity.NewNotFound("user", 0)
}
func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error)      { return nil, nil }
func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error   { return nil }
func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestWorkflowService(
	serviceRepo *mockServiceRepo,
	stepRepo *mockStepRepo,
	clientRepo *mockClientRepo,
	machineRepo *mockMachineRepo,
	userRepo *mockUserRepo,
) WorkflowService {
	return NewWorkflowService(
		serviceRepo,
		&mockMaintenanceRepo{},
		stepRepo,
		clientRepo,
		machineRepo,
		userRepo,
		&mockTxManager{},
		&mockLogger{},
	)
}

func TestWorkflowService_CreateMaintenance_StepTemplates(t *testing.T) {
	tests := []struct {
		name      string
		mtype     workflow.MaintenanceType
		wantSteps int
		wantFirst string
		wantLast  string
	}{
		{
			name:      "internal maintenance gets three steps",
			mtype:     workflow.MaintenanceInternal,
			wantSteps: 3,
			wantFirst: "On the Way",
			wantLast:  "Completion/Testing",
		},
		{
			name:      "external maintenance gets six steps",
			mtype:     workflow.MaintenanceExternal,
			wantSteps: 6,
			wantFirst: "Technical Evaluation",
			wantLast:  "Billing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepRepo := &mockStepRepo{}
			svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

			created, err := svc.CreateMaintenance(context.Background(), CreateMaintenanceInput{
				ClientID:           1,
				MachineID:          1,
				Type:               tt.mtype,
				ProblemDescription: "paper jam",
			})
			if err != nil {
				t.Fatalf("CreateMaintenance() error = %v", err)
			}

			if len(stepRepo.created) != tt.wantSteps {
				t.Fatalf("created %d steps, want %d", len(stepRepo.created), tt.wantSteps)
			}
			if got := stepRepo.created[0].Description; got != tt.wantFirst {
				t.Errorf("first step = %q, want %q", got, tt.wantFirst)
			}
			if got := stepRepo.created[len(stepRepo.created)-1].Description; got != tt.wantLast {
				t.Errorf("last step = %q, want %q", got, tt.wantLast)
			}

			for i, step := range stepRepo.created {
				if step.Status != workflow.StepPending {
					t.Errorf("step %d status = %s, want PENDING", i, step.Status)
				}
				if step.Position != i+1 {
					t.Errorf("step %d position = %d, want %d", i, step.Position, i+1)
				}
				if step.ServiceType != workflow.ServiceMaintenance {
					t.Errorf("step %d service type = %s, want MAINTENANCE", i, step.ServiceType)
				}
			}

			if created.Maintenance == nil {
				t.Error("created service has no maintenance detail loaded")
			}
			if created.Client == nil || created.Machine == nil {
				t.Error("created service missing client or machine relation")
			}
		})
	}
}

func TestWorkflowService_CreateMaintenance_InvalidReferences(t *testing.T) {
	tests := []struct {
		name        string
		clientRepo  *mockClientRepo
		machineRepo *mockMachineRepo
	}{
		{
			name: "unknown client",
			clientRepo: &mockClientRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.Client, error) {
					return nil, entity.NewNotFound("client", id)
				},
			},
			machineRepo: &mockMachineRepo{},
		},
		{
			name:       "unknown machine",
			clientRepo: &mockClientRepo{},
			machineRepo: &mockMachineRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.ClientCopyMachine, error) {
					return nil, entity.NewNotFound("copy machine", id)
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepRepo := &mockStepRepo{}
			serviceRepo := &mockServiceRepo{}
			svc := newTestWorkflowService(serviceRepo, stepRepo, tt.clientRepo, tt.machineRepo, &mockUserRepo{})

			_, err := svc.CreateMaintenance(context.Background(), CreateMaintenanceInput{
				ClientID:  99,
				MachineID: 99,
				Type:      workflow.MaintenanceInternal,
			})
			if !entity.IsInvalidReference(err) {
				t.Fatalf("CreateMaintenance() error = %v, want InvalidReferenceError", err)
			}
			if len(stepRepo.created) != 0 {
				t.Errorf("steps were created despite the failed reference check")
			}
		})
	}
}

func TestWorkflowService_CreateMaintenance_RollsBackOnStepFailure(t *testing.T) {
	rolledBack := false
	txManager := &mockTxManager{
		withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			err := fn(ctx)
			if err != nil {
				rolledBack = true
			}
			return err
		},
	}
	stepRepo := &mockStepRepo{
		createFunc: func(ctx context.Context, step *entity.ServiceStep) error {
			return errors.New("disk full")
		},
	}

	svc := NewWorkflowService(
		&mockServiceRepo{}, &mockMaintenanceRepo{}, stepRepo,
		&mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{},
		txManager, &mockLogger{},
	)

	_, err := svc.CreateMaintenance(context.Background(), CreateMaintenanceInput{
		ClientID:  1,
		MachineID: 1,
		Type:      workflow.MaintenanceInternal,
	})
	if err == nil {
		t.Fatal("CreateMaintenance() expected error")
	}
	if !rolledBack {
		t.Error("transaction was not rolled back on step creation failure")
	}
}

func TestWorkflowService_UpdateStepStatus_CompletionDate(t *testing.T) {
	stepRepo := &mockStepRepo{}
	svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

	step, err := svc.UpdateStepStatus(context.Background(), 1, workflow.StepCompleted, nil)
	if err != nil {
		t.Fatalf("UpdateStepStatus() error = %v", err)
	}
	if step.CompletedDate == nil {
		t.Fatal("COMPLETED status did not set the completion date")
	}

	completedAt := *step.CompletedDate
	stepRepo.getByIDFunc = func(ctx context.Context, id int64) (*entity.ServiceStep, error) {
		return &entity.ServiceStep{
			ID:            id,
			ServiceID:     1,
			Status:        workflow.StepCompleted,
			CompletedDate: &completedAt,
		}, nil
	}

	step, err = svc.UpdateStepStatus(context.Background(), 1, workflow.StepInProgress, nil)
	if err != nil {
		t.Fatalf("UpdateStepStatus() error = %v", err)
	}
	if step.CompletedDate != nil {
		t.Error("leaving COMPLETED did not clear the completion date")
	}
}

func TestWorkflowService_UpdateStepStatus_NotesOverwrite(t *testing.T) {
	stepRepo := &mockStepRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.ServiceStep, error) {
			return &entity.ServiceStep{ID: id, ServiceID: 1, Status: workflow.StepPending, Notes: "old"}, nil
		},
	}
	svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

	notes := "replaced fuser unit"
	step, err := svc.UpdateStepStatus(context.Background(), 1, workflow.StepInProgress, &notes)
	if err != nil {
		t.Fatalf("UpdateStepStatus() error = %v", err)
	}
	if step.Notes != notes {
		t.Errorf("notes = %q, want %q", step.Notes, notes)
	}

	// Nil notes leave the previous value in place.
	step, err = svc.UpdateStepStatus(context.Background(), 1, workflow.StepInProgress, nil)
	if err != nil {
		t.Fatalf("UpdateStepStatus() error = %v", err)
	}
	if step.Notes != "old" {
		t.Errorf("notes = %q, want the stored value untouched", step.Notes)
	}
}

func TestWorkflowService_AssignEmployee(t *testing.T) {
	tests := []struct {
		name     string
		userRepo *mockUserRepo
		wantErr  bool
	}{
		{
			name:     "active employee",
			userRepo: &mockUserRepo{},
			wantErr:  false,
		},
		{
			name: "unknown employee",
			userRepo: &mockUserRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
					return nil, entity.NewNotFound("user", id)
				},
			},
			wantErr: true,
		},
		{
			name: "deactivated employee",
			userRepo: &mockUserRepo{
				getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
					return &entity.User{ID: id, Active: false}, nil
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stepRepo := &mockStepRepo{}
			svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, tt.userRepo)

			step, err := svc.AssignEmployee(context.Background(), 1, 42)
			if tt.wantErr {
				if !entity.IsInvalidReference(err) {
					t.Fatalf("AssignEmployee() error = %v, want InvalidReferenceError", err)
				}
				if stepRepo.updated != nil {
					t.Error("step was persisted despite the failed employee check")
				}
				return
			}

			if err != nil {
				t.Fatalf("AssignEmployee() error = %v", err)
			}
			if step.ResponsibleEmployeeID == nil || *step.ResponsibleEmployeeID != 42 {
				t.Errorf("responsible employee not set, got %v", step.ResponsibleEmployeeID)
			}
			if step.ResponsibleEmployee == nil {
				t.Error("assignee relation not loaded")
			}
		})
	}
}

func TestWorkflowService_AssignEmployee_Reassignment(t *testing.T) {
	previous := int64(7)
	stepRepo := &mockStepRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.ServiceStep, error) {
			return &entity.ServiceStep{ID: id, ServiceID: 1, ResponsibleEmployeeID: &previous}, nil
		},
	}
	svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

	step, err := svc.AssignEmployee(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("AssignEmployee() error = %v", err)
	}
	if *step.ResponsibleEmployeeID != 42 {
		t.Errorf("reassignment kept employee %d, want 42", *step.ResponsibleEmployeeID)
	}
}

func TestWorkflowService_UpdateNotes(t *testing.T) {
	stepRepo := &mockStepRepo{}
	svc := newTestWorkflowService(&mockServiceRepo{}, stepRepo, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

	step, err := svc.UpdateNotes(context.Background(), 1, "waiting on parts")
	if err != nil {
		t.Fatalf("UpdateNotes() error = %v", err)
	}
	if step.Notes != "waiting on parts" {
		t.Errorf("notes = %q", step.Notes)
	}
	if stepRepo.updated == nil {
		t.Error("step was not persisted")
	}
}

func TestWorkflowService_GetService_NotFound(t *testing.T) {
	serviceRepo := &mockServiceRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Service, error) {
			return nil, entity.NewNotFound("service", id)
		},
	}
	svc := newTestWorkflowService(serviceRepo, &mockStepRepo{}, &mockClientRepo{}, &mockMachineRepo{}, &mockUserRepo{})

	_, err := svc.GetService(context.Background(), 99)
	if !entity.IsNotFound(err) {
		t.Fatalf("GetService() error = %v, want NotFoundError", err)
	}
}
