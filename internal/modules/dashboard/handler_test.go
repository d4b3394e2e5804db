package dashboard

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"waterpermits/internal/database"
	"waterpermits/internal/domain"
	"waterpermits/internal/modules/auth"
	"waterpermits/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type dashFixture struct {
	router *gin.Engine
	db     *gorm.DB
	user   *domain.User
	sess   *domain.Session
}

// signIn puts the fixture user on the request context the way the session
// middleware does, under the same context keys.
func (f *dashFixture) signIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", f.user)
		c.Set("user_id", f.user.ID)
		c.Set("session", f.sess)
	}
}

func setupDashboard(t *testing.T) *dashFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:dash_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Division{}, &domain.User{}, &domain.Session{}))

	users := repository.NewUserRepository(db)
	divisions := repository.NewDivisionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	sessions := auth.NewSessionService(
		sessionRepo,
		users,
		auth.NewTokenCodec("test-secret-123", time.Hour),
		time.Hour,
	)
	cookies := auth.CookieConfig{Name: "wp_session", SameSite: http.SameSiteLaxMode, TTL: time.Hour}

	abbr := "WRD"
	require.NoError(t, divisions.Upsert(t.Context(), []domain.Division{
		{ID: 1, Name: "Water Resources Division", Abbr: &abbr},
		{ID: 2, Name: "Field Operations"},
	}))

	divID := int64(1)
	pos := "Engineer II"
	user := &domain.User{Name: "jdoe", Email: "jdoe@agency.gov.ph", Position: &pos, DivisionID: &divID}
	require.NoError(t, db.Create(user).Error)

	sess := &domain.Session{
		ID: "test-session", UserID: user.ID, CSRFToken: "test-csrf",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, db.Create(sess).Error)

	f := &dashFixture{db: db, user: user, sess: sess}
	h := NewHandler(users, divisions, sessions, cookies)

	f.router = gin.New()
	root := f.router.Group("/")
	h.RegisterPublicRoutes(root)
	authed := root.Group("/")
	authed.Use(f.signIn())
	h.RegisterRoutes(authed)
	return f
}

func (f *dashFixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func TestHomeUnauthenticated(t *testing.T) {
	f := setupDashboard(t)

	w := f.do("GET", "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestDashboardPayload(t *testing.T) {
	f := setupDashboard(t)

	w := f.do("GET", "/dashboard")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"email":"jdoe@agency.gov.ph"`)
	assert.Contains(t, body, `"is_admin":false`)
	assert.Contains(t, body, `"csrf_token":"test-csrf"`)
	// own division resolved, full roster listed alongside
	assert.Contains(t, body, "Water Resources Division")
	assert.Contains(t, body, "Field Operations")
	assert.Contains(t, body, `"users":1`)
}

func TestDashboardAdminFlag(t *testing.T) {
	f := setupDashboard(t)
	f.user.Role = domain.RoleAdmin

	w := f.do("GET", "/dashboard")

	assert.Contains(t, w.Body.String(), `"is_admin":true`)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setupDashboard(t)

	w := f.do("POST", "/logout")

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, f.db.Model(&domain.Session{}).Where("id = ?", f.sess.ID).Count(&count).Error)
	assert.Zero(t, count)

	// the cookie is cleared in the response
	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "wp_session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
