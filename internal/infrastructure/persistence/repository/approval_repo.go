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

// ApprovalRepository implements port.ApprovalRepository
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{db: db, logger: logger}
}

// Create inserts an approval. The unique constraint on step_id limits a
// step to one approval; a second attempt surfaces as a conflict.
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	now := time.Now().UTC()
	approval.CreatedAt = now
	approval.UpdatedAt = now

	query := `
		INSERT INTO approvals (step_id, responsible_user_id, approved, decided_at, comments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		approval.StepID,
		approval.ResponsibleUserID,
		approval.Approved,
		approval.DecidedAt,
		nullString(approval.Comments),
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "approval"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create approval", zap.Int64("step_id", approval.StepID), zap.Error(err))
		return fmt.Errorf("failed to create approval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	approval.ID = id
	return nil
}

// GetByStepID retrieves the approval of a step
func (r *ApprovalRepository) GetByStepID(ctx context.Context, stepID int64) (*entity.Approval, error) {
	query := `
		SELECT id, step_id, responsible_user_id, approved, decided_at, comments, created_at, updated_at
		FROM approvals
		WHERE step_id = ?
	`

	var approval entity.Approval
	var comments sql.NullString

	err := sqlite.Exec(ctx, r.db).QueryRowContext(ctx, query, stepID).Scan(
		&approval.ID,
		&approval.StepID,
		&approval.ResponsibleUserID,
		&approval.Approved,
		&approval.DecidedAt,
		&comments,
		&approval.CreatedAt,
		&approval.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.NewNotFound("Approval for step", stepID)
	}
	if err != nil {
		r.logger.Error("Failed to get approval", zap.Int64("step_id", stepID), zap.Error(err))
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}

	approval.Comments = comments.String
	return &approval, nil
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
