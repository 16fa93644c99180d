package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

type UsageHandler struct {
	log         *logger.Logger
	usage       services.UsageService
	transformer resources.Transformer
}

func NewUsageHandler(log *logger.Logger, usage services.UsageService, transformer resources.Transformer) *UsageHandler {
	return &UsageHandler{log: log.With("handler", "UsageHandler"), usage: usage, transformer: transformer}
}

type usageRequest struct {
	Timestamp *string         `json:"timestamp"`
	IsManual  *bool           `json:"is_manual"`
	Payload   json.RawMessage `json:"payload"`
}

type usagePayload struct {
	Customer struct {
		ID json.RawMessage `json:"id"`
	} `json:"customer"`
}

// POST /api/webhooks/usage
func (h *UsageHandler) Record(c *gin.Context) {
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}

	var ts time.Time
	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, err := h.transformer.Policy.Parse(*req.Timestamp)
		if err != nil {
			response.RespondAPIError(c, h.log, apierr.FieldError("timestamp", "The timestamp does not match the format "+resources.DefaultTimestampLayout+"."))
			return
		}
		ts = parsed
	}

	customerID, ok := customerIDOf(req.Payload)
	if !ok {
		response.RespondAPIError(c, h.log, apierr.FieldError("payload.customer.id", "The payload.customer.id field is required."))
		return
	}

	row, err := h.usage.Record(c.Request.Context(), services.UsageInput{
		CustomerID: customerID,
		Timestamp:  ts,
		IsManual:   req.IsManual,
		Payload:    datatypes.JSON(req.Payload),
	})
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, h.transformer.Usage(row), "")
}

// customerIDOf reads payload.customer.id, accepting a string or a number.
func customerIDOf(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var p usagePayload
	if err := json.Unmarshal(raw, &p); err != nil || len(p.Customer.ID) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(p.Customer.ID, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(p.Customer.ID, &n); err == nil {
		return n.String(), true
	}
	return "", false
}
