package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// CatalogRepository implements port.CatalogRepository
type CatalogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB, logger *zap.Logger) port.CatalogRepository {
	return &CatalogRepository{db: db, logger: logger}
}

const catalogColumns = `id, model, manufacturer, description, features, price, quantity, file, created_at, updated_at`

// Create inserts a new catalog machine
func (r *CatalogRepository) Create(ctx context.Context, machine *entity.CopyMachineCatalog) error {
	now := time.Now().UTC()
	machine.CreatedAt = now
	machine.UpdatedAt = now

	features, err := marshalFeatures(machine.Features)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO copy_machine_catalog (model, manufacturer, description, features, price, quantity, file, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		machine.Model,
		machine.Manufacturer,
		nullString(machine.Description),
		features,
		nullFloat(machine.Price),
		nullInt(machine.Quantity),
		nullString(machine.File),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create catalog machine", zap.String("model", machine.Model), zap.Error(err))
		return fmt.Errorf("failed to create catalog machine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	machine.ID = id
	return nil
}

// GetByID retrieves a catalog machine by id
func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*entity.CopyMachineCatalog, error) {
	query := `SELECT ` + catalogColumns + ` FROM copy_machine_catalog WHERE id = ?`

	machine, err := r.scanMachine(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Copy machine", id)
	}
	if err != nil {
		r.logger.Error("Failed to get catalog machine", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get catalog machine: %w", err)
	}
	return machine, nil
}

// List returns all catalog machines, newest first
func (r *CatalogRepository) List(ctx context.Context) ([]*entity.CopyMachineCatalog, error) {
	query := `SELECT ` + catalogColumns + ` FROM copy_machine_catalog ORDER BY created_at DESC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list catalog machines", zap.Error(err))
		return nil, fmt.Errorf("failed to list catalog machines: %w", err)
	}
	defer rows.Close()

	machines := []*entity.CopyMachineCatalog{}
	for rows.Next() {
		machine, err := r.scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog machine: %w", err)
		}
		machines = append(machines, machine)
	}
	return machines, rows.Err()
}

// Update persists the machine's mutable fields
func (r *CatalogRepository) Update(ctx context.Context, machine *entity.CopyMachineCatalog) error {
	machine.UpdatedAt = time.Now().UTC()

	features, err := marshalFeatures(machine.Features)
	if err != nil {
		return err
	}

	query := `
		UPDATE copy_machine_catalog
		SET model = ?, manufacturer = ?, description = ?, features = ?, price = ?, quantity = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		machine.Model,
		machine.Manufacturer,
		nullString(machine.Description),
		features,
		nullFloat(machine.Price),
		nullInt(machine.Quantity),
		machine.UpdatedAt,
		machine.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update catalog machine", zap.Int64("id", machine.ID), zap.Error(err))
		return fmt.Errorf("failed to update catalog machine: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Copy machine", machine.ID)
	}
	return nil
}

// SetFile records the stored datasheet path
func (r *CatalogRepository) SetFile(ctx context.Context, id int64, path string) error {
	query := `UPDATE copy_machine_catalog SET file = ?, updated_at = ? WHERE id = ?`

	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query, path, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to set catalog machine file", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set catalog machine file: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Copy machine", id)
	}
	return nil
}

// Delete removes a catalog machine. Fails with a conflict while client
// machines still reference it.
func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM copy_machine_catalog WHERE id = ?`, id)
	if err != nil {
		if cErr := translateConstraint(err, "copy machine"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to delete catalog machine", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete catalog machine: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Copy machine", id)
	}
	return nil
}

func (r *CatalogRepository) scanMachine(row rowScanner) (*entity.CopyMachineCatalog, error) {
	var machine entity.CopyMachineCatalog
	var description, features, file sql.NullString
	var price sql.NullFloat64
	var quantity sql.NullInt64

	err := row.Scan(
		&machine.ID,
		&machine.Model,
		&machine.Manufacturer,
		&description,
		&features,
		&price,
		&quantity,
		&file,
		&machine.CreatedAt,
		&machine.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	machine.Description = description.String
	machine.File = file.String
	if price.Valid {
		machine.Price = &price.Float64
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		machine.Quantity = &q
	}
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &machine.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
	}
	return &machine, nil
}

func marshalFeatures(features []string) (sql.NullString, error) {
	if len(features) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(features)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode features: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// Verify interface compliance
var _ port.CatalogRepository = (*CatalogRepository)(nil)
