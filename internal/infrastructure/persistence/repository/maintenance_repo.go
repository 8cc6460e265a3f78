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

// MaintenanceRepository implements port.MaintenanceRepository
type MaintenanceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *sql.DB, logger *zap.Logger) port.MaintenanceRepository {
	return &MaintenanceRepository{db: db, logger: logger}
}

// Create inserts the maintenance detail for a service. The unique
// constraint on service_id enforces the 1:1 relation.
func (r *MaintenanceRepository) Create(ctx context.Context, m *entity.Maintenance) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO maintenance (service_id, type, problem_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		m.ServiceID,
		m.Type.String(),
		nullString(m.ProblemDescription),
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "maintenance"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create maintenance",
			zap.Int64("service_id", m.ServiceID),
			zap.Error(err))
		return fmt.Errorf("failed to create maintenance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	m.ID = id
	return nil
}

// GetByServiceID retrieves the maintenance detail of a service
func (r *MaintenanceRepository) GetByServiceID(ctx context.Context, serviceID int64) (*entity.Maintenance, error) {
	query := `
		SELECT id, service_id, type, problem_description, created_at, updated_at
		FROM maintenance
		WHERE service_id = ?
	`

	var m entity.Maintenance
	var maintenanceType string
	var problemDescription sql.NullString

	err := sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, serviceID).Scan(
		&m.ID,
		&m.ServiceID,
		&maintenanceType,
		&problemDescription,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Maintenance for service", serviceID)
	}
	if err != nil {
		r.logger.Error("Failed to get maintenance", zap.Int64("service_id", serviceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get maintenance: %w", err)
	}

	m.Type = workflow.MaintenanceType(maintenanceType)
	m.ProblemDescription = problemDescription.String
	return &m, nil
}

// Verify interface compliance
var _ port.MaintenanceRepository = (*MaintenanceRepository)(nil)
