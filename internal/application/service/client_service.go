package service

import (
	"context"
	"fmt"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/pkg/utils"
)

// ClientInput carries the client registration fields
type ClientInput struct {
	Name    string
	CNPJ    string
	CPF     string
	Address string
	Phone   string
	Email   string
}

// ClientService manages customer records
type ClientService interface {
	Create(ctx context.Context, in ClientInput) (*entity.Client, error)
	Get(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	Update(ctx context.Context, id int64, in ClientInput) (*entity.Client, error)
	Delete(ctx context.Context, id int64) error
}

type clientServiceImpl struct {
	clientRepo port.ClientRepository
	logger     Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo port.ClientRepository, logger Logger) ClientService {
	return &clientServiceImpl{clientRepo: clientRepo, logger: logger}
}

// Create registers a client. Documents are normalized to digits before
// storage so formatted and unformatted input collide on the same value.
func (s *clientServiceImpl) Create(ctx context.Context, in ClientInput) (*entity.Client, error) {
	client, err := s.buildClient(in)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created", "client_id", client.ID, "name", client.Name)
	return client, nil
}

// Get returns one client
func (s *clientServiceImpl) Get(ctx context.Context, id int64) (*entity.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// List returns all clients
func (s *clientServiceImpl) List(ctx context.Context) ([]*entity.Client, error) {
	return s.clientRepo.List(ctx)
}

// Update replaces the client's fields
func (s *clientServiceImpl) Update(ctx context.Context, id int64, in ClientInput) (*entity.Client, error) {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	client, err := s.buildClient(in)
	if err != nil {
		return nil, err
	}
	client.ID = id

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, id)
}

// Delete removes a client. Clients with machines or services on record
// are protected by the store and surface as a conflict.
func (s *clientServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Client deleted", "client_id", id)
	return nil
}

func (s *clientServiceImpl) buildClient(in ClientInput) (*entity.Client, error) {
	cnpj := utils.NormalizeDocument(in.CNPJ)
	cpf := utils.NormalizeDocument(in.CPF)

	if cnpj != "" {
		if err := utils.ValidateCNPJ(cnpj); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
	}
	if cpf != "" {
		if err := utils.ValidateCPF(cpf); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
	}

	return &entity.Client{
		Name:    in.Name,
		CNPJ:    cnpj,
		CPF:     cpf,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
	}, nil
}
