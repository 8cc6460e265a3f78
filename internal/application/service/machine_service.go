package service

import (
	"context"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// ClientMachineInput carries the fields of a machine installed at a
// client's site. CatalogMachineID and the External* fields are mutually
// exclusive identities.
type ClientMachineInput struct {
	SerialNumber         string
	ClientID             int64
	CatalogMachineID     *int64
	ExternalModel        string
	ExternalManufacturer string
	ExternalDescription  string
	AcquisitionType      string
}

// MachineService manages machines installed at client sites
type MachineService interface {
	Create(ctx context.Context, in ClientMachineInput) (*entity.ClientCopyMachine, error)
	Get(ctx context.Context, id int64) (*entity.ClientCopyMachine, error)
	List(ctx context.Context, clientID *int64) ([]*entity.ClientCopyMachine, error)
	Update(ctx context.Context, id int64, in ClientMachineInput) (*entity.ClientCopyMachine, error)
	Delete(ctx context.Context, id int64) error
}

type machineServiceImpl struct {
	machineRepo port.ClientMachineRepository
	clientRepo  port.ClientRepository
	catalogRepo port.CatalogRepository
	logger      Logger
}

// NewMachineService creates a new MachineService
func NewMachineService(
	machineRepo port.ClientMachineRepository,
	clientRepo port.ClientRepository,
	catalogRepo port.CatalogRepository,
	logger Logger,
) MachineService {
	return &machineServiceImpl{
		machineRepo: machineRepo,
		clientRepo:  clientRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// Create registers a machine at a client's site. The owning client and,
// when given, the catalog model must exist.
func (s *machineServiceImpl) Create(ctx context.Context, in ClientMachineInput) (*entity.ClientCopyMachine, error) {
	if err := s.validateRefs(ctx, in); err != nil {
		return nil, err
	}

	machine := &entity.ClientCopyMachine{
		SerialNumber:         in.SerialNumber,
		ClientID:             in.ClientID,
		CatalogMachineID:     in.CatalogMachineID,
		ExternalModel:        in.ExternalModel,
		ExternalManufacturer: in.ExternalManufacturer,
		ExternalDescription:  in.ExternalDescription,
		AcquisitionType:      in.AcquisitionType,
	}
	if err := s.machineRepo.Create(ctx, machine); err != nil {
		return nil, err
	}

	s.logger.Info("Client machine created",
		"machine_id", machine.ID,
		"client_id", machine.ClientID,
		"serial_number", machine.SerialNumber,
	)
	return s.Get(ctx, machine.ID)
}

// Get returns one installed machine with its client and catalog model
func (s *machineServiceImpl) Get(ctx context.Context, id int64) (*entity.ClientCopyMachine, error) {
	machine, err := s.machineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

// List returns installed machines, optionally scoped to one client
func (s *machineServiceImpl) List(ctx context.Context, clientID *int64) ([]*entity.ClientCopyMachine, error) {
	machines, err := s.machineRepo.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, machine := range machines {
		if err := s.hydrate(ctx, machine); err != nil {
			return nil, err
		}
	}
	return machines, nil
}

// Update replaces the machine's fields
func (s *machineServiceImpl) Update(ctx context.Context, id int64, in ClientMachineInput) (*entity.ClientCopyMachine, error) {
	machine, err := s.machineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, in); err != nil {
		return nil, err
	}

	machine.SerialNumber = in.SerialNumber
	machine.ClientID = in.ClientID
	machine.CatalogMachineID = in.CatalogMachineID
	machine.ExternalModel = in.ExternalModel
	machine.ExternalManufacturer = in.ExternalManufacturer
	machine.ExternalDescription = in.ExternalDescription
	machine.AcquisitionType = in.AcquisitionType

	if err := s.machineRepo.Update(ctx, machine); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an installed machine. Machines with services on record
// are protected by the store.
func (s *machineServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.machineRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Client machine deleted", "machine_id", id)
	return nil
}

func (s *machineServiceImpl) validateRefs(ctx context.Context, in ClientMachineInput) error {
	if _, err := s.clientRepo.GetByID(ctx, in.ClientID); err != nil {
		if entity.IsNotFound(err) {
			return entity.NewInvalidReference("client", in.ClientID)
		}
		return err
	}
	if in.CatalogMachineID != nil {
		if _, err := s.catalogRepo.GetByID(ctx, *in.CatalogMachineID); err != nil {
			if entity.IsNotFound(err) {
				return entity.NewInvalidReference("catalog machine", *in.CatalogMachineID)
			}
			return err
		}
	}
	return nil
}

func (s *machineServiceImpl) hydrate(ctx context.Context, machine *entity.ClientCopyMachine) error {
	client, err := s.clientRepo.GetByID(ctx, machine.ClientID)
	if err != nil {
		return err
	}
	machine.Client = client

	if machine.CatalogMachineID != nil {
		model, err := s.catalogRepo.GetByID(ctx, *machine.CatalogMachineID)
		if err != nil {
			return err
		}
		machine.CatalogMachine = model
	}
	return nil
}
