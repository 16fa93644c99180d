package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type APIError struct {
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func NewPageMeta(page, perPage int, total int64) PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PageMeta{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

type Envelope struct {
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
	Message string    `json:"message,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err as an error envelope. *apierr.Error values keep
// their status and public message; anything else is logged and hidden behind
// a 500.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok {
		if ae.Err != nil && log != nil {
			log.Warn("request failed", "code", ae.Code, "path", c.FullPath(), "error", ae.Err)
		}
		c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{
			Error: APIError{Message: ae.Message, Code: ae.Code, Fields: ae.Fields},
		})
		return
	}
	if log != nil {
		log.Error("unhandled request error", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
		Error: APIError{Message: "Server error.", Code: "internal"},
	})
}

// BindError converts a gin binding failure into a validation error keyed by
// JSON field name.
func BindError(err error) *apierr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			name := fieldName(fe)
			fields[name] = append(fields[name], ruleMessage(name, fe))
		}
		return apierr.Validation(fields)
	}
	return apierr.FieldError("body", "The request body is not valid JSON.")
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func ruleMessage(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "min", "gte":
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", label, fe.Param())
	case "uuid":
		return fmt.Sprintf("The %s must be a valid UUID.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Data: payload})
}

func RespondCreated(c *gin.Context, payload any, message string) {
	c.JSON(http.StatusCreated, Envelope{Data: payload, Message: message})
}

func RespondUpdated(c *gin.Context, payload any, message string) {
	c.JSON(http.StatusOK, Envelope{Data: payload, Message: message})
}

func RespondPage(c *gin.Context, payload any, meta PageMeta) {
	c.JSON(http.StatusOK, Envelope{Data: payload, Meta: &meta})
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
