package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/caseline-backend/internal/http/resources"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

const (
	msgNoteCreated = "Note created."
	msgNoteUpdated = "Note updated."
)

type NoteHandler struct {
	log         *logger.Logger
	notes       services.NoteService
	transformer resources.Transformer
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService, transformer resources.Transformer) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes, transformer: transformer}
}

type noteRequest struct {
	Body string `json:"body" binding:"required"`
}

// GET /api/programs/:program_id/users/:user_id/notes
func (h *NoteHandler) List(c *gin.Context) {
	programID, userID, ok := noteParams(c)
	if !ok {
		return
	}
	rows, err := h.notes.List(c.Request.Context(), programID, userID)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondOK(c, h.transformer.Notes(rows))
}

// POST /api/programs/:program_id/users/:user_id/notes
func (h *NoteHandler) Create(c *gin.Context) {
	programID, userID, ok := noteParams(c)
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	row, err := h.notes.Create(c.Request.Context(), programID, userID, req.Body)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondCreated(c, h.transformer.Note(row), msgNoteCreated)
}

// PUT /api/programs/:program_id/users/:user_id/notes/:note_id
func (h *NoteHandler) Update(c *gin.Context) {
	programID, userID, ok := noteParams(c)
	if !ok {
		return
	}
	noteID, ok := pathUUID(c, "note_id", "note")
	if !ok {
		return
	}
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, response.BindError(err))
		return
	}
	row, err := h.notes.Update(c.Request.Context(), programID, userID, noteID, req.Body)
	if err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondUpdated(c, h.transformer.Note(row), msgNoteUpdated)
}

// DELETE /api/programs/:program_id/users/:user_id/notes/:note_id
func (h *NoteHandler) Delete(c *gin.Context) {
	programID, userID, ok := noteParams(c)
	if !ok {
		return
	}
	noteID, ok := pathUUID(c, "note_id", "note")
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), programID, userID, noteID); err != nil {
		response.RespondAPIError(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

func noteParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	programID, ok := programID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := pathUUID(c, "user_id", "user")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return programID, userID, true
}
