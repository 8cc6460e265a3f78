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

// SupplyRepository implements port.SupplyRepository
type SupplyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSupplyRepository creates a new supply repository
func NewSupplyRepository(db *sql.DB, logger *zap.Logger) port.SupplyRepository {
	return &SupplyRepository{db: db, logger: logger}
}

const supplyColumns = `id, name, description, quantity_in_stock, price, category, created_at, updated_at`

// Create inserts a new supply
func (r *SupplyRepository) Create(ctx context.Context, supply *entity.Supply) error {
	now := time.Now().UTC()
	supply.CreatedAt = now
	supply.UpdatedAt = now

	query := `
		INSERT INTO supplies (name, description, quantity_in_stock, price, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		supply.Name,
		nullString(supply.Description),
		supply.QuantityInStock,
		supply.Price,
		supply.Category,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create supply", zap.String("name", supply.Name), zap.Error(err))
		return fmt.Errorf("failed to create supply: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	supply.ID = id
	return nil
}

// GetByID retrieves a supply by id
func (r *SupplyRepository) GetByID(ctx context.Context, id int64) (*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies WHERE id = ?`

	supply, err := r.scanSupply(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Supply", id)
	}
	if err != nil {
		r.logger.Error("Failed to get supply", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get supply: %w", err)
	}
	return supply, nil
}

// List returns all supplies, newest first
func (r *SupplyRepository) List(ctx context.Context) ([]*entity.Supply, error) {
	query := `SELECT ` + supplyColumns + ` FROM supplies ORDER BY created_at DESC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list supplies", zap.Error(err))
		return nil, fmt.Errorf("failed to list supplies: %w", err)
	}
	defer rows.Close()

	supplies := []*entity.Supply{}
	for rows.Next() {
		supply, err := r.scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supply: %w", err)
		}
		supplies = append(supplies, supply)
	}
	return supplies, rows.Err()
}

// Update persists the supply's mutable fields
func (r *SupplyRepository) Update(ctx context.Context, supply *entity.Supply) error {
	supply.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE supplies
		SET name = ?, description = ?, quantity_in_stock = ?, price = ?, category = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		supply.Name,
		nullString(supply.Description),
		supply.QuantityInStock,
		supply.Price,
		supply.Category,
		supply.UpdatedAt,
		supply.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update supply", zap.Int64("id", supply.ID), zap.Error(err))
		return fmt.Errorf("failed to update supply: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Supply", supply.ID)
	}
	return nil
}

// UpdateStock sets the stock level without touching anything else
func (r *SupplyRepository) UpdateStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE supplies SET quantity_in_stock = ?, updated_at = ? WHERE id = ?`

	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query, quantity, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update supply stock", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update supply stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Supply", id)
	}
	return nil
}

// Delete removes a supply
func (r *SupplyRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM supplies WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete supply", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete supply: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Supply", id)
	}
	return nil
}

func (r *SupplyRepository) scanSupply(row rowScanner) (*entity.Supply, error) {
	var supply entity.Supply
	var description sql.NullString

	err := row.Scan(
		&supply.ID,
		&supply.Name,
		&description,
		&supply.QuantityInStock,
		&supply.Price,
		&supply.Category,
		&supply.CreatedAt,
		&supply.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	supply.Description = description.String
	return &supply, nil
}

// Verify interface compliance
var _ port.SupplyRepository = (*SupplyRepository)(nil)
