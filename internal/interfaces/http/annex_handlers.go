package http

import (
	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
)

// CreateApprovalRequest records an accept/reject decision on a step
type CreateApprovalRequest struct {
	ResponsibleUserID int64  `json:"responsible_user_id" binding:"required"`
	Approved          *bool  `json:"approved" binding:"required"`
	Comments          string `json:"comments"`
}

// CreateApproval handles POST /api/steps/:id/approval
func (h *Handlers) CreateApproval(c *gin.Context) {
	stepID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	approval, err := h.services.Annex.CreateApproval(c.Request.Context(), service.ApprovalInput{
		StepID:            stepID,
		ResponsibleUserID: req.ResponsibleUserID,
		Approved:          *req.Approved,
		Comments:          req.Comments,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, approval)
}

// GetApproval handles GET /api/steps/:id/approval
func (h *Handlers) GetApproval(c *gin.Context) {
	stepID, ok := idParam(c, "id")
	if !ok {
		return
	}

	approval, err := h.services.Annex.GetApproval(c.Request.Context(), stepID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, approval)
}

// AttachStepImage handles POST /api/steps/:id/images
func (h *Handlers) AttachStepImage(c *gin.Context) {
	stepID, ok := idParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "unreadable upload")
		return
	}
	defer file.Close()

	image, err := h.services.Annex.AttachImage(c.Request.Context(), stepID, fileHeader.Filename, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondCreated(c, image)
}

// ListStepImages handles GET /api/steps/:id/images
func (h *Handlers) ListStepImages(c *gin.Context) {
	stepID, ok := idParam(c, "id")
	if !ok {
		return
	}

	images, err := h.services.Annex.ListImages(c.Request.Context(), stepID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, images)
}

// DownloadStepImage handles GET /api/steps/:id/images/:imageID
func (h *Handlers) DownloadStepImage(c *gin.Context) {
	stepID, ok := idParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := idParam(c, "imageID")
	if !ok {
		return
	}

	path, err := h.services.Annex.ImagePath(c.Request.Context(), stepID, imageID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.File(path)
}
