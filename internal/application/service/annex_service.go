package service

import (
	"context"
	"io"
	"time"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// ApprovalInput carries an accept/reject decision on a step
type ApprovalInput struct {
	StepID            int64
	ResponsibleUserID int64
	Approved          bool
	Comments          string
}

// AnnexService manages per-step attachments: the single approval
// decision and the photo trail.
type AnnexService interface {
	CreateApproval(ctx context.Context, in ApprovalInput) (*entity.Approval, error)
	GetApproval(ctx context.Context, stepID int64) (*entity.Approval, error)
	AttachImage(ctx context.Context, stepID int64, filename string, content io.Reader) (*entity.StepImage, error)
	ListImages(ctx context.Context, stepID int64) ([]*entity.StepImage, error)
	ImagePath(ctx context.Context, stepID, imageID int64) (string, error)
}

type annexServiceImpl struct {
	approvalRepo port.ApprovalRepository
	imageRepo    port.ImageRepository
	stepRepo     port.StepRepository
	userRepo     port.UserRepository
	storage      port.FileStorage
	logger       Logger
}

// NewAnnexService creates a new AnnexService
func NewAnnexService(
	approvalRepo port.ApprovalRepository,
	imageRepo port.ImageRepository,
	stepRepo port.StepRepository,
	userRepo port.UserRepository,
	storage port.FileStorage,
	logger Logger,
) AnnexService {
	return &annexServiceImpl{
		approvalRepo: approvalRepo,
		imageRepo:    imageRepo,
		stepRepo:     stepRepo,
		userRepo:     userRepo,
		storage:      storage,
		logger:       logger,
	}
}

// CreateApproval records the decision on a step. A second approval for
// the same step is a conflict; decisions are never overwritten.
func (s *annexServiceImpl) CreateApproval(ctx context.Context, in ApprovalInput) (*entity.Approval, error) {
	if _, err := s.stepRepo.GetByID(ctx, in.StepID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, in.ResponsibleUserID)
	if err != nil {
		if entity.IsNotFound(err) {
			return nil, entity.NewInvalidReference("user", in.ResponsibleUserID)
		}
		return nil, err
	}

	approval := &entity.Approval{
		StepID:            in.StepID,
		ResponsibleUserID: in.ResponsibleUserID,
		Approved:          in.Approved,
		DecidedAt:         time.Now().UTC(),
		Comments:          in.Comments,
	}
	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, err
	}

	s.logger.Info("Step approval recorded",
		"step_id", in.StepID,
		"approved", in.Approved,
		"user_id", in.ResponsibleUserID,
	)

	approval.ResponsibleUser = user
	return approval, nil
}

// GetApproval returns the decision recorded on a step, or NotFound
// while the step is still undecided
func (s *annexServiceImpl) GetApproval(ctx context.Context, stepID int64) (*entity.Approval, error) {
	approval, err := s.approvalRepo.GetByStepID(ctx, stepID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, approval.ResponsibleUserID)
	if err == nil {
		approval.ResponsibleUser = user
	} else if !entity.IsNotFound(err) {
		return nil, err
	}
	return approval, nil
}

// AttachImage stores an uploaded photo and links it to the step
func (s *annexServiceImpl) AttachImage(ctx context.Context, stepID int64, filename string, content io.Reader) (*entity.StepImage, error) {
	if _, err := s.stepRepo.GetByID(ctx, stepID); err != nil {
		return nil, err
	}

	path, err := s.storage.Save("steps", filename, content)
	if err != nil {
		return nil, err
	}

	image := &entity.StepImage{
		StepID: stepID,
		Path:   path,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		// Don't leave orphaned files behind.
		if rmErr := s.storage.Delete(path); rmErr != nil {
			s.logger.Error("Failed to remove orphaned image file", "path", path, "error", rmErr)
		}
		return nil, err
	}

	s.logger.Info("Step image attached", "step_id", stepID, "image_id", image.ID)
	return image, nil
}

// ListImages returns the photo trail of a step
func (s *annexServiceImpl) ListImages(ctx context.Context, stepID int64) ([]*entity.StepImage, error) {
	if _, err := s.stepRepo.GetByID(ctx, stepID); err != nil {
		return nil, err
	}
	return s.imageRepo.ListByStepID(ctx, stepID)
}

// ImagePath resolves the on-disk location of one step image
func (s *annexServiceImpl) ImagePath(ctx context.Context, stepID, imageID int64) (string, error) {
	images, err := s.ListImages(ctx, stepID)
	if err != nil {
		return "", err
	}
	for _, image := range images {
		if image.ID == imageID && s.storage.Exists(image.Path) {
			return s.storage.FullPath(image.Path), nil
		}
	}
	return "", entity.NewNotFound("image", imageID)
}
