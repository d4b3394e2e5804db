package dashboard

import (
	"errors"
	"net/http"

	"waterpermits/internal/domain"
	"waterpermits/internal/middleware"
	"waterpermits/internal/modules/auth"
	"waterpermits/internal/pkg/response"
	"waterpermits/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	users     *repository.UserRepository
	divisions *repository.DivisionRepository
	sessions  *auth.SessionService
	cookies   auth.CookieConfig
}

func NewHandler(
	users *repository.UserRepository,
	divisions *repository.DivisionRepository,
	sessions *auth.SessionService,
	cookies auth.CookieConfig,
) *Handler {
	return &Handler{
		users:     users,
		divisions: divisions,
		sessions:  sessions,
		cookies:   cookies,
	}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.POST("/logout", h.Logout)
}

// Home is the public landing route. Authenticated visitors go straight to
// the dashboard; everyone else is told to come in through the portal.
func (h *Handler) Home(c *gin.Context) {
	if _, _, ok := middleware.Principal(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"authenticated": false,
		"message":       "Sign in through the agency portal to continue.",
	})
}

func (h *Handler) Dashboard(c *gin.Context) {
	user, sess, _ := middleware.Principal(c)

	var division *domain.Division
	if user.DivisionID != nil {
		d, err := h.divisions.GetByID(c.Request.Context(), *user.DivisionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.Error(err) //nolint:errcheck
			response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not load profile")
			return
		}
		division = d
	}

	userCount, err := h.users.Count(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not load stats")
		return
	}

	divisions, err := h.divisions.List(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not load divisions")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"full_name": user.FullName(),
			"email":     user.Email,
			"position":  user.Position,
			"user_type": user.Role,
			"is_admin":  user.IsAdmin(),
			"division":  division,
		},
		"divisions":  divisions,
		"stats":      gin.H{"users": userCount},
		"csrf_token": sess.CSRFToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	_, sess, _ := middleware.Principal(c)

	if err := h.sessions.Revoke(c.Request.Context(), sess.ID); err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not log out")
		return
	}
	h.cookies.Clear(c)

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out."})
}
