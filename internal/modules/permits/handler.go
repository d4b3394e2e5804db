package permits

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"waterpermits/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/permits", h.List)
	rg.GET("/permits/:id", h.Show)
	rg.POST("/permits/:id", h.Update)
	rg.DELETE("/permits/photos/:photoId", h.DeletePhoto)
}

func (h *Handler) List(c *gin.Context) {
	// every filter binds as a string, so the bind itself cannot fail;
	// paging values that don't parse stay zero and fall back downstream
	var q ListPermitsQuery
	_ = c.ShouldBindQuery(&q)
	q.PerPage, _ = strconv.Atoi(c.Query("per_page"))
	q.Page, _ = strconv.Atoi(c.Query("page"))

	result, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not list permits")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrPermitNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Permit not found")
		return
	}
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not load permit")
		return
	}

	response.Success(c, http.StatusOK, detail)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdatePermitRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Invalid form payload")
		return
	}

	var pdf *multipart.FileHeader
	if f, err := c.FormFile("pdf"); err == nil {
		pdf = f
	}

	var photos []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		photos = form.File["photos"]
		if len(photos) == 0 {
			photos = form.File["photos[]"]
		}
	}

	err := h.service.Update(c.Request.Context(), id, req, pdf, photos)
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrPermitNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Permit not found")
	case errors.As(err, &vErr):
		response.ValidationFailed(c, vErr.Fields)
	case err != nil:
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not update permit")
	default:
		response.Success(c, http.StatusOK, gin.H{"message": "Permit updated successfully."})
	}
}

func (h *Handler) DeletePhoto(c *gin.Context) {
	id, ok := parseID(c, "photoId")
	if !ok {
		return
	}

	err := h.service.DeletePhoto(c.Request.Context(), id)
	if errors.Is(err, ErrPhotoNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Attachment not found")
		return
	}
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not delete attachment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
