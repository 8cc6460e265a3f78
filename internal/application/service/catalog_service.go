package service

import (
	"context"
	"io"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// CatalogInput carries the fields of a catalog machine model
type CatalogInput struct {
	Model        string
	Manufacturer string
	Description  string
	Features     []string
	Price        *float64
	Quantity     *int
}

// CatalogService manages the machine models offered for sale or rental
type CatalogService interface {
	Create(ctx context.Context, in CatalogInput) (*entity.CopyMachineCatalog, error)
	Get(ctx context.Context, id int64) (*entity.CopyMachineCatalog, error)
	List(ctx context.Context) ([]*entity.CopyMachineCatalog, error)
	Update(ctx context.Context, id int64, in CatalogInput) (*entity.CopyMachineCatalog, error)
	Delete(ctx context.Context, id int64) error
	AttachDatasheet(ctx context.Context, id int64, filename string, content io.Reader) (*entity.CopyMachineCatalog, error)
	DatasheetPath(ctx context.Context, id int64) (string, error)
}

type catalogServiceImpl struct {
	catalogRepo port.CatalogRepository
	storage     port.FileStorage
	logger      Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogRepo port.CatalogRepository, storage port.FileStorage, logger Logger) CatalogService {
	return &catalogServiceImpl{catalogRepo: catalogRepo, storage: storage, logger: logger}
}

// Create adds a machine model to the catalog
func (s *catalogServiceImpl) Create(ctx context.Context, in CatalogInput) (*entity.CopyMachineCatalog, error) {
	machine := &entity.CopyMachineCatalog{
		Model:        in.Model,
		Manufacturer: in.Manufacturer,
		Description:  in.Description,
		Features:     in.Features,
		Price:        in.Price,
		Quantity:     in.Quantity,
	}
	if err := s.catalogRepo.Create(ctx, machine); err != nil {
		return nil, err
	}

	s.logger.Info("Catalog machine created", "machine_id", machine.ID, "model", machine.Model)
	return machine, nil
}

// Get returns one catalog model
func (s *catalogServiceImpl) Get(ctx context.Context, id int64) (*entity.CopyMachineCatalog, error) {
	return s.catalogRepo.GetByID(ctx, id)
}

// List returns all catalog models
func (s *catalogServiceImpl) List(ctx context.Context) ([]*entity.CopyMachineCatalog, error) {
	return s.catalogRepo.List(ctx)
}

// Update replaces the model's fields, keeping any stored datasheet
func (s *catalogServiceImpl) Update(ctx context.Context, id int64, in CatalogInput) (*entity.CopyMachineCatalog, error) {
	machine, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	machine.Model = in.Model
	machine.Manufacturer = in.Manufacturer
	machine.Description = in.Description
	machine.Features = in.Features
	machine.Price = in.Price
	machine.Quantity = in.Quantity

	if err := s.catalogRepo.Update(ctx, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

// Delete removes a catalog model. Models still referenced by installed
// client machines are protected by the store.
func (s *catalogServiceImpl) Delete(ctx context.Context, id int64) error {
	machine, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		return err
	}
	if machine.File != "" {
		if err := s.storage.Delete(machine.File); err != nil {
			s.logger.Error("Failed to remove datasheet file", "machine_id", id, "error", err)
		}
	}

	s.logger.Info("Catalog machine deleted", "machine_id", id)
	return nil
}

// AttachDatasheet stores the uploaded datasheet and records its path on
// the model. A previous datasheet is replaced.
func (s *catalogServiceImpl) AttachDatasheet(ctx context.Context, id int64, filename string, content io.Reader) (*entity.CopyMachineCatalog, error) {
	machine, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.Save("catalog", filename, content)
	if err != nil {
		return nil, err
	}

	if machine.File != "" {
		if err := s.storage.Delete(machine.File); err != nil {
			s.logger.Error("Failed to remove previous datasheet", "machine_id", id, "error", err)
		}
	}

	if err := s.catalogRepo.SetFile(ctx, id, path); err != nil {
		return nil, err
	}
	machine.File = path

	s.logger.Info("Datasheet attached", "machine_id", id, "path", path)
	return machine, nil
}

// DatasheetPath resolves the on-disk location of the model's datasheet
func (s *catalogServiceImpl) DatasheetPath(ctx context.Context, id int64) (string, error) {
	machine, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if machine.File == "" || !s.storage.Exists(machine.File) {
		return "", entity.NewNotFound("datasheet", id)
	}
	return s.storage.FullPath(machine.File), nil
}
