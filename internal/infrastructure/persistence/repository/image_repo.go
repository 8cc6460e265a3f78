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

// ImageRepository implements port.ImageRepository
type ImageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewImageRepository creates a new step image repository
func NewImageRepository(db *sql.DB, logger *zap.Logger) port.ImageRepository {
	return &ImageRepository{db: db, logger: logger}
}

// Create inserts a step image record
func (r *ImageRepository) Create(ctx context.Context, image *entity.StepImage) error {
	now := time.Now().UTC()
	image.CreatedAt = now
	image.UpdatedAt = now

	query := `
		INSERT INTO step_images (step_id, path, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := sqlite.Exec(ctx, r.db).ExecContext(ctx, query,
		image.StepID,
		image.Path,
		now,
		now,
	)
	if err != nil {
		if cErr := translateConstraint(err, "step image"); cErr != nil {
			return cErr
		}
		r.logger.Error("Failed to create step image", zap.Int64("step_id", image.StepID), zap.Error(err))
		return fmt.Errorf("failed to create step image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	image.ID = id
	return nil
}

// ListByStepID returns the images of a step, oldest first
func (r *ImageRepository) ListByStepID(ctx context.Context, stepID int64) ([]*entity.StepImage, error) {
	query := `
		SELECT id, step_id, path, created_at, updated_at
		FROM step_images
		WHERE step_id = ?
		ORDER BY created_at ASC
	`

	rows, err := sqlite.Exec(ctx, r.db).QueryContext(ctx, query, stepID)
	if err != nil {
		r.logger.Error("Failed to list step images", zap.Int64("step_id", stepID), zap.Error(err))
		return nil, fmt.Errorf("failed to list step images: %w", err)
	}
	defer rows.Close()

	images := []*entity.StepImage{}
	for rows.Next() {
		var image entity.StepImage
		if err := rows.Scan(&image.ID, &image.StepID, &image.Path, &image.CreatedAt, &image.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step image: %w", err)
		}
		images = append(images, &image)
	}
	return images, rows.Err()
}

// Verify interface compliance
var _ port.ImageRepository = (*ImageRepository)(nil)
