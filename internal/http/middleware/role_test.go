package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
	"github.com/yungbote/caseline-backend/internal/services"
)

func TestRoleName(t *testing.T) {
	cases := []struct {
		template, slug, want string
	}{
		{"admin-{program}", "acme", "admin-acme"},
		{"{program}-{program}", "x", "x-x"},
		{"superuser", "acme", "superuser"},
		{"{prog}-{program", "acme", "{prog}-{program"},
		{"", "acme", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, RoleName(tc.template, tc.slug), tc.template)
	}
	require.Equal(t, []string{"admin-acme", "editor-acme"}, RoleNames("admin-{program}| editor-{program} |", "acme"))
}

func TestRequireProgramRoleOrdering(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	acme := testutil.SeedProgram(t, ctx, db, "acme")
	other := testutil.SeedProgram(t, ctx, db, "other")
	viewer := testutil.SeedUser(t, ctx, db, "viewer@example.com", []*types.Program{acme}, "viewer-acme")
	editor := testutil.SeedUser(t, ctx, db, "editor@example.com", []*types.Program{acme}, "editor-acme")

	writer := aggregates.NewWriter(aggregates.BaseDeps{DB: db})
	auth := services.NewAuthService(db, log, writer, repos.NewUserRepo(db, log), repos.NewProgramRepo(db, log), "secret", time.Hour)
	rm := NewRoleMiddleware(log, auth)

	newRouter := func(actor uuid.UUID) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if actor != uuid.Nil {
				c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: actor}))
			}
			c.Next()
		})
		r.POST("/programs/:program_id/pathways", rm.RequireProgramRole("admin-{program}|editor-{program}"), func(c *gin.Context) {
			p := ProgramFromContext(c)
			require.NotNil(t, p)
			c.String(http.StatusOK, p.Slug)
		})
		return r
	}
	do := func(actor uuid.UUID, programID string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/programs/"+programID+"/pathways", nil)
		newRouter(actor).ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusUnauthorized, do(uuid.Nil, acme.ID.String()).Code)
	require.Equal(t, http.StatusNotFound, do(editor.ID, "not-a-uuid").Code)
	require.Equal(t, http.StatusNotFound, do(editor.ID, other.ID.String()).Code)
	require.Equal(t, http.StatusForbidden, do(viewer.ID, acme.ID.String()).Code)

	rec := do(editor.ID, acme.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "acme", rec.Body.String())
}
