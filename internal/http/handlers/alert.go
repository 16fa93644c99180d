package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

type AlertHandler struct {
	log         *logger.Logger
	alerts      services.AlertService
	transformer resources.Transformer
}

func NewAlertHandler(log *logger.Logger, alerts services.AlertService, transformer resources.Transformer) *AlertHandler {
	return &AlertHandler{log: log.With("handler", "AlertHandler"), alerts: alerts, transformer: transformer}
}

type alertQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page" binding:"omitempty,min=1"`
	Status    string `form:"status" binding:"omitempty,oneof=open resolved all"`
	PathwayID string `form:"pathway_id" binding:"omitempty,uuid"`
}

// GET /api/programs/:program_id/alerts
func (h *AlertHandler) List(c *gin.Context) {
	programID, ok := programID(c)
	if !ok {
		return
	}
	var q alertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	filter := repos.AlertFilter{Status: repos.AlertStatus(q.Status)}
	if filter.Status == "" {
		filter.Status = repos.AlertStatusOpen
	}
	if q.PathwayID != "" {
		id, err := uuid.Parse(q.PathwayID)
		if err != nil {
			response.RespondAPIError(c, h.log, apierr.FieldError("pathway_id", "The pathway id must be a valid UUID."))
			return
		}
		filter.PathwayID = id
	}
	page := pageQuery{Page: q.Page, PerPage: q.PerPage}.page()
	rows, total, err := h.alerts.List(c.Request.Context(), programID, filter, page)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.transformer.Alerts(rows)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondPage(c, out, response.NewPageMeta(page.Page, page.PerPage, total))
}

// GET /api/programs/:program_id/alerts/:alert_id
func (h *AlertHandler) Get(c *gin.Context) {
	programID, ok := programID(c)
	if !ok {
		return
	}
	alertID, ok := pathUUID(c, "alert_id", "alert")
	if !ok {
		return
	}
	row, err := h.alerts.Get(c.Request.Context(), programID, alertID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	out, err := h.transformer.Alert(row)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}
