package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

type PathwayHandler struct {
	log         *logger.Logger
	pathways    services.PathwayService
	transformer resources.Transformer
}

func NewPathwayHandler(log *logger.Logger, pathways services.PathwayService, transformer resources.Transformer) *PathwayHandler {
	return &PathwayHandler{log: log.With("handler", "PathwayHandler"), pathways: pathways, transformer: transformer}
}

type createPathwayRequest struct {
	ProgramID     string `json:"program_id" binding:"required"`
	AlertableType string `json:"alertable_type" binding:"required"`
}

type stepRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Step        *int           `json:"step" binding:"omitempty,min=0"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type stepPatchRequest struct {
	Name        *string        `json:"name" binding:"omitempty,min=1"`
	Description *string        `json:"description"`
	Step        *int           `json:"step" binding:"omitempty,min=0"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// GET /api/programs/:program_id/pathways
func (h *PathwayHandler) List(c *gin.Context) {
	programID, ok := programID(c)
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	page := q.page()
	rows, total, err := h.pathways.ListPathways(c.Request.Context(), programID, page)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, h.transformer.Pathways(rows), response.NewPageMeta(page.Page, page.PerPage, total))
}

// GET /api/programs/:program_id/pathways/:pathway_id
func (h *PathwayHandler) Get(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	row, err := h.pathways.GetPathway(c.Request.Context(), programID, pathwayID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, h.transformer.Pathway(row))
}

// POST /api/programs/:program_id/pathways
func (h *PathwayHandler) Create(c *gin.Context) {
	programID, ok := programID(c)
	if !ok {
		return
	}
	var req createPathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	bodyProgram, err := uuid.Parse(req.ProgramID)
	if err != nil {
		response.RespondAPIError(c, h.log, apierr.FieldError("program_id", "The program id must be a valid UUID."))
		return
	}
	row, err := h.pathways.CreatePathway(c.Request.Context(), programID, services.PathwayInput{
		ProgramID:     bodyProgram,
		AlertableType: types.AlertableType(req.AlertableType),
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, h.transformer.Pathway(row), "")
}

// DELETE /api/programs/:program_id/pathways/:pathway_id
func (h *PathwayHandler) Delete(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	if err := h.pathways.DeletePathway(c.Request.Context(), programID, pathwayID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/programs/:program_id/pathways/:pathway_id/steps
func (h *PathwayHandler) ListSteps(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	rows, err := h.pathways.ListSteps(c.Request.Context(), programID, pathwayID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, h.transformer.Steps(rows))
}

// GET /api/programs/:program_id/pathways/:pathway_id/steps/:step_id
func (h *PathwayHandler) GetStep(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	stepID, ok := pathUUID(c, "step_id", "step")
	if !ok {
		return
	}
	row, err := h.pathways.GetStep(c.Request.Context(), programID, pathwayID, stepID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, h.transformer.Step(row))
}

// POST /api/programs/:program_id/pathways/:pathway_id/steps
func (h *PathwayHandler) CreateStep(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	in := services.StepInput{
		Name:        req.Name,
		Description: req.Description,
		Metadata:    jsonOrNil(req.Metadata),
	}
	if req.Step != nil {
		in.Step = *req.Step
	}
	row, err := h.pathways.CreateStep(c.Request.Context(), programID, pathwayID, in)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, h.transformer.Step(row), "")
}

// PUT /api/programs/:program_id/pathways/:pathway_id/steps/:step_id
func (h *PathwayHandler) UpdateStep(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	stepID, ok := pathUUID(c, "step_id", "step")
	if !ok {
		return
	}
	var req stepPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	row, err := h.pathways.UpdateStep(c.Request.Context(), programID, pathwayID, stepID, services.StepPatch{
		Name:        req.Name,
		Description: req.Description,
		Step:        req.Step,
		Metadata:    jsonOrNil(req.Metadata),
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, h.transformer.Step(row))
}

// DELETE /api/programs/:program_id/pathways/:pathway_id/steps/:step_id
func (h *PathwayHandler) DeleteStep(c *gin.Context) {
	programID, pathwayID, ok := pathwayParams(c)
	if !ok {
		return
	}
	stepID, ok := pathUUID(c, "step_id", "step")
	if !ok {
		return
	}
	if err := h.pathways.DeleteStep(c.Request.Context(), programID, pathwayID, stepID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

func pathwayParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	programID, ok := programID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	pathwayID, ok := pathUUID(c, "pathway_id", "pathway")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return programID, pathwayID, true
}
