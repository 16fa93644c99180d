package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/http/middleware"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
)

type pageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1"`
}

func (q pageQuery) page() repos.Page {
	return repos.Page{Page: q.Page, PerPage: q.PerPage}.Normalize()
}

// programID prefers the program resolved by the role gate.
func programID(c *gin.Context) (uuid.UUID, bool) {
	if p := middleware.ProgramFromContext(c); p != nil {
		return p.ID, true
	}
	return pathUUID(c, "program_id", "program")
}

// pathUUID parses a route id; a malformed id is a 404 for what.
func pathUUID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondAPIError(c, nil, apierr.NotFound(what))
		return uuid.Nil, false
	}
	return id, true
}

// jsonOrNil drops an absent or explicit-null JSON value.
func jsonOrNil(raw datatypes.JSON) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
