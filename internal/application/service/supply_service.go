package service

import (
	"context"
	"fmt"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// SupplyInput carries the fields of a stocked supply
type SupplyInput struct {
	Name            string
	Description     string
	QuantityInStock int
	Price           float64
	Category        string
}

// SupplyService manages consumables and spare parts
type SupplyService interface {
	Create(ctx context.Context, in SupplyInput) (*entity.Supply, error)
	Get(ctx context.Context, id int64) (*entity.Supply, error)
	List(ctx context.Context) ([]*entity.Supply, error)
	Update(ctx context.Context, id int64, in SupplyInput) (*entity.Supply, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*entity.Supply, error)
	Delete(ctx context.Context, id int64) error
}

type supplyServiceImpl struct {
	supplyRepo port.SupplyRepository
	logger     Logger
}

// NewSupplyService creates a new SupplyService
func NewSupplyService(supplyRepo port.SupplyRepository, logger Logger) SupplyService {
	return &supplyServiceImpl{supplyRepo: supplyRepo, logger: logger}
}

// Create adds a supply to stock
func (s *supplyServiceImpl) Create(ctx context.Context, in SupplyInput) (*entity.Supply, error) {
	if in.QuantityInStock < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", entity.ErrValidation)
	}

	supply := &entity.Supply{
		Name:            in.Name,
		Description:     in.Description,
		QuantityInStock: in.QuantityInStock,
		Price:           in.Price,
		Category:        in.Category,
	}
	if err := s.supplyRepo.Create(ctx, supply); err != nil {
		return nil, err
	}

	s.logger.Info("Supply created", "supply_id", supply.ID, "name", supply.Name)
	return supply, nil
}

// Get returns one supply
func (s *supplyServiceImpl) Get(ctx context.Context, id int64) (*entity.Supply, error) {
	return s.supplyRepo.GetByID(ctx, id)
}

// List returns all supplies
func (s *supplyServiceImpl) List(ctx context.Context) ([]*entity.Supply, error) {
	return s.supplyRepo.List(ctx)
}

// Update replaces the supply's fields
func (s *supplyServiceImpl) Update(ctx context.Context, id int64, in SupplyInput) (*entity.Supply, error) {
	supply, err := s.supplyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.QuantityInStock < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", entity.ErrValidation)
	}

	supply.Name = in.Name
	supply.Description = in.Description
	supply.QuantityInStock = in.QuantityInStock
	supply.Price = in.Price
	supply.Category = in.Category

	if err := s.supplyRepo.Update(ctx, supply); err != nil {
		return nil, err
	}
	return supply, nil
}

// AdjustStock moves the stock level by delta. Stock never goes below
// zero; an over-draw is a conflict.
func (s *supplyServiceImpl) AdjustStock(ctx context.Context, id int64, delta int) (*entity.Supply, error) {
	supply, err := s.supplyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := supply.QuantityInStock + delta
	if next < 0 {
		return nil, entity.NewConflict("insufficient stock: have %d, requested %d", supply.QuantityInStock, -delta)
	}

	if err := s.supplyRepo.UpdateStock(ctx, id, next); err != nil {
		return nil, err
	}
	supply.QuantityInStock = next

	s.logger.Info("Stock adjusted", "supply_id", id, "delta", delta, "quantity", next)
	return supply, nil
}

// Delete removes a supply
func (s *supplyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.supplyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Supply deleted", "supply_id", id)
	return nil
}
