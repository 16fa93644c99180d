package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/http/response"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/services"
)

const (
	programPlaceholder = "{program}"
	programContextKey  = "program"
)

// RoleName fills every {program} placeholder in template with slug.
func RoleName(template, slug string) string {
	var b strings.Builder
	b.Grow(len(template) + len(slug))
	for i := 0; i < len(template); {
		if strings.HasPrefix(template[i:], programPlaceholder) {
			b.WriteString(slug)
			i += len(programPlaceholder)
			continue
		}
		b.WriteByte(template[i])
		i++
	}
	return b.String()
}

// RoleNames splits a "a|b|c" expression and templates each entry.
func RoleNames(expr, slug string) []string {
	var out []string
	for _, part := range strings.Split(expr, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, RoleName(part, slug))
	}
	return out
}

type RoleMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewRoleMiddleware(log *logger.Logger, authService services.AuthService) *RoleMiddleware {
	return &RoleMiddleware{log: log.With("middleware", "RoleMiddleware"), authService: authService}
}

// RequireProgramRole admits the actor when it belongs to the route's program
// and holds any of the templated roles. Failures answer 401, then 404, then
// 403, in that order.
func (rm *RoleMiddleware) RequireProgramRole(expr string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if ctxutil.ActorID(ctx) == uuid.Nil {
			response.RespondAPIError(c, rm.log, apierr.Unauthorized())
			return
		}
		programID, err := uuid.Parse(c.Param("program_id"))
		if err != nil {
			response.RespondAPIError(c, rm.log, apierr.NotFound("program"))
			return
		}
		prog, err := rm.authService.ProgramForActor(ctx, programID)
		if err != nil {
			response.RespondAPIError(c, rm.log, err)
			return
		}
		if prog == nil {
			response.RespondAPIError(c, rm.log, apierr.NotFound("program"))
			return
		}
		ok, err := rm.authService.ActorHasAnyRole(ctx, RoleNames(expr, prog.Slug))
		if err != nil {
			response.RespondAPIError(c, rm.log, err)
			return
		}
		if !ok {
			response.RespondAPIError(c, rm.log, apierr.Forbidden("This action is unauthorized."))
			return
		}
		c.Set(programContextKey, prog)
		c.Next()
	}
}

// ProgramFromContext returns the program stored by RequireProgramRole.
func ProgramFromContext(c *gin.Context) *types.Program {
	v, ok := c.Get(programContextKey)
	if !ok {
		return nil
	}
	p, _ := v.(*types.Program)
	return p
}
