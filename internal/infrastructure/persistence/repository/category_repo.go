package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// CategoryRepository implements port.CategoryRepository
type CategoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) port.CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

// Create inserts a new category
func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		category.Name,
		nullString(category.Description),
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "category"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create category", zap.String("name", category.Name), zap.Error(err))
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	category.ID = id
	return nil
}

// GetByID retrieves a category by id
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = ?`

	category, err := r.scanCategory(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Category", id)
	}
	if err != nil {
		r.logger.Error("Failed to get category", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name ASC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*entity.Category{}
	for rows.Next() {
		category, err := r.scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update persists the category's mutable fields
func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()

	query := `UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE id = ?`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		category.Name,
		nullString(category.Description),
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		if cErr := translateConstraint(err, "category"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to update category", zap.Int64("id", category.ID), zap.Error(err))
		return fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Category", category.ID)
	}
	return nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete category", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Category", id)
	}
	return nil
}

func (r *CategoryRepository) scanCategory(row rowScanner) (*entity.Category, error) {
	var category entity.Category
	var description sql.NullString

	err := row.Scan(
		&category.ID,
		&category.Name,
		&description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Description = description.String
	return &category, nil
}

// Verify interface compliance
var _ port.CategoryRepository = (*CategoryRepository)(nil)
