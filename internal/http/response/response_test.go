package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caseline-backend/internal/platform/apierr"
)

type bindProbe struct {
	Name    string `json:"name" binding:"required"`
	Payload struct {
		Customer struct {
			ID string `json:"id" binding:"required"`
		} `json:"customer"`
	} `json:"payload"`
}

func TestBindErrorUsesJSONFieldPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	UseJSONFieldNames()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req bindProbe
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	ae := BindError(err)
	require.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	require.Equal(t, []string{"The name field is required."}, ae.Fields["name"])
	require.Contains(t, ae.Fields, "payload.customer.id")
}

func TestRespondAPIErrorHidesUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondAPIError(c, nil, apierr.TransactionFailed("Could not do it.", errAssert("boom")))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "transaction_failed", env.Error.Code)
	require.Equal(t, "Could not do it.", env.Error.Message)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	RespondAPIError(c, nil, errAssert("db exploded"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "exploded")
}

func TestNewPageMeta(t *testing.T) {
	require.Equal(t, 3, NewPageMeta(1, 15, 31).LastPage)
	require.Equal(t, 1, NewPageMeta(1, 15, 0).LastPage)
}

type errAssert string

func (e errAssert) Error() string { return string(e) }
