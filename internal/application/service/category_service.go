package service

import (
	"context"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// CategoryInput carries the fields of a service category label
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService manages the service category labels
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*entity.Category, error)
	Get(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*entity.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	categoryRepo port.CategoryRepository
	logger       Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo port.CategoryRepository, logger Logger) CategoryService {
	return &categoryServiceImpl{categoryRepo: categoryRepo, logger: logger}
}

func (s *categoryServiceImpl) Create(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	category := &entity.Category{
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

func (s *categoryServiceImpl) Get(ctx context.Context, id int64) (*entity.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryServiceImpl) List(ctx context.Context) ([]*entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryServiceImpl) Update(ctx context.Context, id int64, in CategoryInput) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", "category_id", id)
	return nil
}
