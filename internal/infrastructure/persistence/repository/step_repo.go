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

// StepRepository implements port.StepRepository
type StepRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStepRepository creates a new step repository
func NewStepRepository(db *sql.DB, logger *zap.Logger) port.StepRepository {
	return &StepRepository{db: db, logger: logger}
}

const stepColumns = `id, service_id, service_type, position, description, status, responsible_employee_id, completed_date, notes, created_at, updated_at`

// Create inserts a new workflow step
func (r *StepRepository) Create(ctx context.Context, step *entity.ServiceStep) error {
	now := time.Now().UTC()
	step.CreatedAt = now
	step.UpdatedAt = now

	query := `
		INSERT INTO service_steps (service_id, service_type, position, description, status, responsible_employee_id, completed_date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		step.ServiceID,
		step.ServiceType.String(),
		step.Position,
		step.Description,
		step.Status.String(),
		nullInt64(step.ResponsibleEmployeeID),
		nullTime(step.CompletedDate),
		nullString(step.Notes),
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "service step"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create service step",
			zap.Int64("service_id", step.ServiceID),
			zap.Int("position", step.Position),
			zap.Error(err))
		return fmt.Errorf("failed to create service step: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	step.ID = id
	return nil
}

// GetByID retrieves a step by id
func (r *StepRepository) GetByID(ctx context.Context, id int64) (*entity.ServiceStep, error) {
	query := `SELECT ` + stepColumns + ` FROM service_steps WHERE id = ?`

	step, err := r.scanStep(sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Service step", id)
	}
	if err != nil {
		r.logger.Error("Failed to get service step", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get service step: %w", err)
	}
	return step, nil
}

// ListByServiceID returns the steps of a service in ascending position
// order
func (r *StepRepository) ListByServiceID(ctx context.Context, serviceID int64) ([]*entity.ServiceStep, error) {
	query := `SELECT ` + stepColumns + ` FROM service_steps WHERE service_id = ? ORDER BY position ASC`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query, serviceID)
	if err != nil {
		r.logger.Error("Failed to list service steps", zap.Int64("service_id", serviceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list service steps: %w", err)
	}
	defer rows.Close()

	steps := []*entity.ServiceStep{}
	for rows.Next() {
		step, err := r.scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// Update persists the step's mutable fields (status, assignee,
// completion date, notes). Whole-row, last write wins.
func (r *StepRepository) Update(ctx context.Context, step *entity.ServiceStep) error {
	step.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE service_steps
		SET status = ?, responsible_employee_id = ?, completed_date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		step.Status.String(),
		nullInt64(step.ResponsibleEmployeeID),
		nullTime(step.CompletedDate),
		nullString(step.Notes),
		step.UpdatedAt,
		step.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update service step", zap.Int64("id", step.ID), zap.Error(err))
		return fmt.Errorf("failed to update service step: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.NewNotFound("Service step", step.ID)
	}
	return nil
}

func (r *StepRepository) scanStep(row rowScanner) (*entity.ServiceStep, error) {
	var step entity.ServiceStep
	var serviceType, status string
	var employeeID sql.NullInt64
	var completedDate sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&step.ID,
		&step.ServiceID,
		&serviceType,
		&step.Position,
		&step.Description,
		&status,
		&employeeID,
		&completedDate,
		&notes,
		&step.CreatedAt,
		&step.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	step.ServiceType = workflow.ServiceType(serviceType)
	step.Status = workflow.StepStatus(status)
	if employeeID.Valid {
		step.ResponsibleEmployeeID = &employeeID.Int64
	}
	if completedDate.Valid {
		step.CompletedDate = &completedDate.Time
	}
	step.Notes = notes.String
	return &step, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Verify interface compliance
var _ port.StepRepository = (*StepRepository)(nil)
