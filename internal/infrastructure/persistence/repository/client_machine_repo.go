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

// ClientMachineRepository implements port.ClientMachineRepository
type ClientMachineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientMachineRepository creates a new client machine repository
func NewClientMachineRepository(db *sql.DB, logger *zap.Logger) port.ClientMachineRepository {
	return &ClientMachineRepository{db: db, logger: logger}
}

const clientMachineColumns = `id, serial_number, client_id, catalog_machine_id, external_model, external_manufacturer, external_description, acquisition_type, created_at, updated_at`

// Create inserts a new client machine
func (r *ClientMachineRepository) Create(ctx context.Context, machine *entity.ClientCopyMachine) error {
	now := time.Now().UTC()
	machine.CreatedAt = now
	machine.UpdatedAt = now

	query := `
		INSERT INTO client_copy_machines (serial_number, client_id, catalog_machine_id, external_model, external_manufacturer, external_description, acquisition_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		machine.SerialNumber,
		machine.ClientID,
		nullInt64(machine.CatalogMachineID),
		nullString(machine.ExternalModel),
		nullString(machine.ExternalManufacturer),
		nullString(machine.ExternalDescription),
		machine.AcquisitionType,
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "client machine"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create client machine",
			zap.String("serial_number", machine.SerialNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create client machine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	machine.ID = id
	return nil
}

// GetByID retrieves a client machine by id
func (r *ClientMachineRepository) GetByID(ctx context.Context, id int64) (*entity.ClientCopyMachine, error) {
	query := `SELECT ` + clientMachineColumns + ` FROM client_copy_machines WHERE id = ?`

	machine, err := r.scanMachine(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Copy machine", id)
	}
	if err != nil {
		r.logger.Error("Failed to get client machine", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client machine: %w", err)
	}
	return machine, nil
}

// List returns client machines, optionally narrowed to one client,
// newest first
func (r *ClientMachineRepository) List(ctx context.Context, clientID *int64) ([]*entity.ClientCopyMachine, error) {
	query := `SELECT ` + clientMachineColumns + ` FROM client_copy_machines`
	args := []interface{}{}
	if clientID != nil {
		query += ` WHERE client_id = ?`
		args = append(args, *clientID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list client machines", zap.Error(err))
		return nil, fmt.Errorf("failed to list client machines: %w", err)
	}
	defer rows.Close()

	machines := []*entity.ClientCopyMachine{}
	for rows.Next() {
		machine, err := r.scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client machine: %w", err)
		}
		machines = append(machines, machine)
	}
	return machines, rows.Err()
}

// Update persists the machine's mutable fields
func (r *ClientMachineRepository) Update(ctx context.Context, machine *entity.ClientCopyMachine) error {
	machine.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE client_copy_machines
		SET serial_number = ?, client_id = ?, catalog_machine_id = ?, external_model = ?, external_manufacturer = ?, external_description = ?, acquisition_type = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		machine.SerialNumber,
		machine.ClientID,
		nullInt64(machine.CatalogMachineID),
		nullString(machine.ExternalModel),
		nullString(machine.ExternalManufacturer),
		nullString(machine.ExternalDescription),
		machine.AcquisitionType,
		machine.UpdatedAt,
		machine.ID,
	)
	if err != nil {
		if cErr := translateConstraint(err, "client machine"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to update client machine", zap.Int64("id", machine.ID), zap.Error(err))
		return fmt.Errorf("failed to update client machine: %w", err)
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

// Delete removes a client machine. Fails with a conflict while services
// still reference it.
func (r *ClientMachineRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM client_copy_machines WHERE id = ?`, id)
	if err != nil {
		if cErr := translateConstraint(err, "client machine"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to delete client machine", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete client machine: %w", err)
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

func (r *ClientMachineRepository) scanMachine(row rowScanner) (*entity.ClientCopyMachine, error) {
	var machine entity.ClientCopyMachine
	var catalogID sql.NullInt64
	var extModel, extManufacturer, extDescription sql.NullString

	err := row.Scan(
		&machine.ID,
		&machine.SerialNumber,
		&machine.ClientID,
		&catalogID,
		&extModel,
		&extManufacturer,
		&extDescription,
		&machine.AcquisitionType,
		&machine.CreatedAt,
		&machine.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if catalogID.Valid {
		machine.CatalogMachineID = &catalogID.Int64
	}
	machine.ExternalModel = extModel.String
	machine.ExternalManufacturer = extManufacturer.String
	machine.ExternalDescription = extDescription.String
	return &machine, nil
}

// Verify interface compliance
var _ port.ClientMachineRepository = (*ClientMachineRepository)(nil)
