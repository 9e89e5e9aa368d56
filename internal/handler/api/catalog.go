package api

import (
	"errors"
	"net/http"

	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogQueries queries.CatalogQueries
}

func NewCatalogHandler(catalogQueries queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{catalogQueries: catalogQueries}
}

// @Summary List services
// @Description List the active service catalog
// @Tags catalog
// @Produce json
// @Success 200 {array} queries.ServiceView
// @Router /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogQueries.ListServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, services)
}

// @Summary Get service
// @Description Get one service by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Service slug"
// @Success 200 {object} queries.ServiceView
// @Failure 404 {object} map[string]string
// @Router /services/{slug} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	service, err := h.catalogQueries.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, service)
}
