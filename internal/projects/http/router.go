package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
// writeMW runs in front of the mutating routes only.
func (h *Handler) Register(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	rg.GET("", h.list)

	w := rg.Group("", writeMW...)
	w.POST("", h.create)
	w.PUT("/:id", h.update)
	w.DELETE("/:id", h.delete)
}
