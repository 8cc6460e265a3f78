package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
	"github.com/intersul/copimanager/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ServiceRepository implements port.ServiceRepository
type ServiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *sql.DB, logger *zap.Logger) port.ServiceRepository {
	return &ServiceRepository{db: db, logger: logger}
}

const serviceColumns = `id, type, client_id, machine_id, created_at, updated_at`

// Create inserts a new service row
func (r *ServiceRepository) Create(ctx context.Context, service *entity.Service) error {
	now := time.Now().UTC()
	service.CreatedAt = now
	service.UpdatedAt = now

	query := `
		INSERT INTO services (type, client_id, machine_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		service.Type.String(),
		service.ClientID,
		service.MachineID,
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "service"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create service",
			zap.Int64("client_id", service.ClientID),
			zap.Int64("machine_id", service.MachineID),
			zap.Error(err))
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	service.ID = id
	return nil
}

// GetByID retrieves a bare service row
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`

	service, err := r.scanService(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Service", id)
	}
	if err != nil {
		r.logger.Error("Failed to get service", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

// List returns services matching the filter, newest first. All provided
// filter fields AND-combine.
func (r *ServiceRepository) List(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE 1=1`
	args := []interface{}{}

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.ClientID != nil {
		query += ` AND client_id = ?`
		args = append(args, *filter.ClientID)
	}
	if filter.MachineID != nil {
		query += ` AND machine_id = ?`
		args = append(args, *filter.MachineID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list services", zap.Error(err))
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []*entity.Service{}
	for rows.Next() {
		service, err := r.scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

// Delete removes a service. The maintenance detail, steps, approvals
// and images go with it (FK ON DELETE CASCADE).
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete service", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete service: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Service", id)
	}
	return nil
}

func (r *ServiceRepository) scanService(row rowScanner) (*entity.Service, error) {
	var service entity.Service
	var serviceType string

	err := row.Scan(
		&service.ID,
		&serviceType,
		&service.ClientID,
		&service.MachineID,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	service.Type = workflow.ServiceType(serviceType)
	return &service, nil
}

// Verify interface compliance
var _ port.ServiceRepository = (*ServiceRepository)(nil)
