package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
)

const (
	imageField      = "image"
	multipartMemory = 8 << 20
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	req, err := h.bindWrite(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	req, err := h.bindWrite(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	p, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// bindWrite reads the form fields and the optional image from a multipart
// or urlencoded body. Only the first file under "image" is used.
func (h *Handler) bindWrite(c *gin.Context) (service.WriteRequest, error) {
	if h.maxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}

	err := c.Request.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.WriteRequest{}, domain.ErrImageTooLarge
		}
		return service.WriteRequest{}, &domain.ValidationError{Message: "malformed form body"}
	}

	req := service.WriteRequest{
		Form: domain.ProjectForm{
			ID:            postForm(c, "id"),
			Name:          postForm(c, "name"),
			Desc:          postForm(c, "desc"),
			Skills:        postForm(c, "skills"),
			Contributions: postForm(c, "contributions"),
			Github:        postForm(c, "github"),
			Devpost:       postForm(c, "devpost"),
		},
		Image: firstFile(c.Request.MultipartForm, imageField),
	}
	return req, nil
}

func postForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func firstFile(mf *multipart.Form, field string) *multipart.FileHeader {
	if mf == nil {
		return nil
	}
	if fhs := mf.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.String(http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrInvalidStructuredField):
		c.String(http.StatusBadRequest, domain.ErrInvalidStructuredField.Error())
	case errors.Is(err, domain.ErrUnsupportedImage):
		c.String(http.StatusBadRequest, domain.ErrUnsupportedImage.Error())
	case errors.Is(err, domain.ErrImageTooLarge):
		c.String(http.StatusBadRequest, domain.ErrImageTooLarge.Error())
	case errors.Is(err, domain.ErrNotFound):
		c.String(http.StatusNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrDuplicateID):
		c.String(http.StatusConflict, domain.ErrDuplicateID.Error())
	default:
		h.logger.Error("project request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "internal server error")
	}
}
