// Package service contains the application use-cases. Services depend
// only on the port interfaces and compose repository calls; the
// workflow service is the heart of the system.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

// Logger is the minimal logging dependency of the services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateMaintenanceInput carries the request to open a maintenance case
type CreateMaintenanceInput struct {
	ClientID           int64
	MachineID          int64
	Type               workflow.MaintenanceType
	ProblemDescription string
}

// WorkflowService is the maintenance workflow engine: it opens services
// with their maintenance detail and templated steps, and mutates
// individual steps afterwards.
type WorkflowService interface {
	CreateMaintenance(ctx context.Context, in CreateMaintenanceInput) (*entity.Service, error)
	GetService(ctx context.Context, id int64) (*entity.Service, error)
	ListServices(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error)
	DeleteService(ctx context.Context, id int64) error

	ListSteps(ctx context.Context, serviceID int64) ([]*entity.ServiceStep, error)
	GetStep(ctx context.Context, id int64) (*entity.ServiceStep, error)
	UpdateStepStatus(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error)
	AssignEmployee(ctx context.Context, stepID, employeeID int64) (*entity.ServiceStep, error)
	UpdateNotes(ctx context.Context, stepID int64, notes string) (*entity.ServiceStep, error)
}

type workflowServiceImpl struct {
	serviceRepo     port.ServiceRepository
	maintenanceRepo port.MaintenanceRepository
	stepRepo        port.StepRepository
	clientRepo      port.ClientRepository
	machineRepo     port.ClientMachineRepository
	userRepo        port.UserRepository
	txManager       port.TransactionManager
	logger          Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	serviceRepo port.ServiceRepository,
	maintenanceRepo port.MaintenanceRepository,
	stepRepo port.StepRepository,
	clientRepo port.ClientRepository,
	machineRepo port.ClientMachineRepository,
	userRepo port.UserRepository,
	txManager port.TransactionManager,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		serviceRepo:     serviceRepo,
		maintenanceRepo: maintenanceRepo,
		stepRepo:        stepRepo,
		clientRepo:      clientRepo,
		machineRepo:     machineRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// CreateMaintenance opens a maintenance case: one service row, its
// maintenance detail, and the templated steps, all inside a single
// transaction. A failure at any point leaves no partial state behind.
func (s *workflowServiceImpl) CreateMaintenance(ctx context.Context, in CreateMaintenanceInput) (*entity.Service, error) {
	var serviceID int64

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Reference checks come before any write.
		if _, err := s.clientRepo.GetByID(txCtx, in.ClientID); err != nil {
			if entity.IsNotFound(err) {
				return entity.NewInvalidReference("client", in.ClientID)
			}
			return fmt.Errorf("validate client: %w", err)
		}
		if _, err := s.machineRepo.GetByID(txCtx, in.MachineID); err != nil {
			if entity.IsNotFound(err) {
				return entity.NewInvalidReference("copy machine", in.MachineID)
			}
			return fmt.Errorf("validate copy machine: %w", err)
		}

		svc := &entity.Service{
			Type:      workflow.ServiceMaintenance,
			ClientID:  in.ClientID,
			MachineID: in.MachineID,
		}
		if err := s.serviceRepo.Create(txCtx, svc); err != nil {
			return fmt.Errorf("create service: %w", err)
		}

		maintenance := &entity.Maintenance{
			ServiceID:          svc.ID,
			Type:               in.Type,
			ProblemDescription: in.ProblemDescription,
		}
		if err := s.maintenanceRepo.Create(txCtx, maintenance); err != nil {
			return fmt.Errorf("create maintenance: %w", err)
		}

		for i, description := range workflow.StepTemplate(in.Type) {
			step := &entity.ServiceStep{
				ServiceID:   svc.ID,
				ServiceType: workflow.ServiceMaintenance,
				Position:    i + 1,
				Description: description,
				Status:      workflow.StepPending,
			}
			if err := s.stepRepo.Create(txCtx, step); err != nil {
				return fmt.Errorf("create step %d: %w", i+1, err)
			}
		}

		serviceID = svc.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance service created",
		"service_id", serviceID,
		"client_id", in.ClientID,
		"machine_id", in.MachineID,
		"maintenance_type", in.Type.String(),
	)

	// Creation and read-back are one response contract: return the
	// fully hydrated service.
	return s.GetService(ctx, serviceID)
}

// GetService returns a service with client, machine, maintenance detail
// and ordered steps loaded.
func (s *workflowServiceImpl) GetService(ctx context.Context, id int64) (*entity.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices returns hydrated services matching the filter
func (s *workflowServiceImpl) ListServices(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error) {
	services, err := s.serviceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, svc := range services {
		if err := s.hydrateService(ctx, svc); err != nil {
			return nil, err
		}
	}
	return services, nil
}

// DeleteService removes a service and everything it owns
func (s *workflowServiceImpl) DeleteService(ctx context.Context, id int64) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Service deleted", "service_id", id)
	return nil
}

// ListSteps returns the steps of a service in ascending position order,
// each with its assignee loaded.
func (s *workflowServiceImpl) ListSteps(ctx context.Context, serviceID int64) ([]*entity.ServiceStep, error) {
	if _, err := s.serviceRepo.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	steps, err := s.stepRepo.ListByServiceID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	for _, step := range steps {
		if err := s.loadAssignee(ctx, step); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

// GetStep returns a step with its assignee and parent service loaded
func (s *workflowServiceImpl) GetStep(ctx context.Context, id int64) (*entity.ServiceStep, error) {
	step, err := s.stepRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadAssignee(ctx, step); err != nil {
		return nil, err
	}

	parent, err := s.serviceRepo.GetByID(ctx, step.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load parent service: %w", err)
	}
	step.Service = parent
	return step, nil
}

// UpdateStepStatus moves a step to any status. No adjacency is enforced
// between statuses; moving away from COMPLETED erases the completion
// timestamp. Notes, when given, overwrite the previous value.
func (s *workflowServiceImpl) UpdateStepStatus(ctx context.Context, id int64, status workflow.StepStatus, notes *string) (*entity.ServiceStep, error) {
	step, err := s.stepRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	step.Status = status
	if notes != nil {
		step.Notes = *notes
	}
	if status == workflow.StepCompleted {
		now := time.Now().UTC()
		step.CompletedDate = &now
	} else {
		step.CompletedDate = nil
	}

	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, err
	}

	s.logger.Info("Step status updated",
		"step_id", id,
		"service_id", step.ServiceID,
		"status", status.String(),
	)

	if err := s.loadAssignee(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// AssignEmployee sets the step's responsible employee. The employee
// must exist and be active; reassignment overwrites without history.
func (s *workflowServiceImpl) AssignEmployee(ctx context.Context, stepID, employeeID int64) (*entity.ServiceStep, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	employee, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		if entity.IsNotFound(err) {
			return nil, entity.NewInvalidReference("employee", employeeID)
		}
		return nil, fmt.Errorf("validate employee: %w", err)
	}
	if !employee.Active {
		return nil, entity.NewInvalidReference("employee", employeeID)
	}

	step.ResponsibleEmployeeID = &employeeID
	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, err
	}

	s.logger.Info("Step assigned",
		"step_id", stepID,
		"employee_id", employeeID,
	)

	step.ResponsibleEmployee = employee
	return step, nil
}

// UpdateNotes overwrites the step's notes. Last write wins; no history
// is kept.
func (s *workflowServiceImpl) UpdateNotes(ctx context.Context, stepID int64, notes string) (*entity.ServiceStep, error) {
	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	step.Notes = notes
	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, err
	}

	if err := s.loadAssignee(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

func (s *workflowServiceImpl) hydrateService(ctx context.Context, svc *entity.Service) error {
	client, err := s.clientRepo.GetByID(ctx, svc.ClientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	svc.Client = client

	machine, err := s.machineRepo.GetByID(ctx, svc.MachineID)
	if err != nil {
		return fmt.Errorf("load machine: %w", err)
	}
	svc.Machine = machine

	if svc.Type == workflow.ServiceMaintenance {
		maintenance, err := s.maintenanceRepo.GetByServiceID(ctx, svc.ID)
		if err != nil {
			return fmt.Errorf("load maintenance: %w", err)
		}
		svc.Maintenance = maintenance
	}

	steps, err := s.stepRepo.ListByServiceID(ctx, svc.ID)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	for _, step := range steps {
		if err := s.loadAssignee(ctx, step); err != nil {
			return err
		}
	}
	svc.Steps = steps
	return nil
}

func (s *workflowServiceImpl) loadAssignee(ctx context.Context, step *entity.ServiceStep) error {
	if step.ResponsibleEmployeeID == nil {
		return nil
	}
	employee, err := s.userRepo.GetByID(ctx, *step.ResponsibleEmployeeID)
	if err != nil {
		// A deactivated or deleted employee does not make the step
		// unreadable; the reference stays, the detail is dropped.
		if entity.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("load assignee: %w", err)
	}
	step.ResponsibleEmployee = employee
	return nil
}
