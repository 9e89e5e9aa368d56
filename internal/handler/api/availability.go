package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityQueries: availabilityQueries}
}

// @Summary Day availability
// @Description Slot grid for one day; optional service selections refine the duration used for conflict math
// @Tags availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param services query string false "Comma-separated selections, each 'slug' or 'slug:forfait'"
// @Success 200 {object} queries.DayAvailabilityView
// @Failure 400 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) GetDaySlots(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date, expected YYYY-MM-DD",
		})
		return
	}

	selections, err := parseSelections(c.Query("services"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid services parameter",
		})
		return
	}

	view, err := h.availabilityQueries.GetDaySlots(c.Request.Context(), date, selections)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// parseSelections reads "slug" or "slug:forfait" items; package type
// defaults to single.
func parseSelections(raw string) ([]catalog.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	selections := make([]catalog.Selection, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		slug := part
		pkg := catalog.PackageSingle
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			slug = part[:idx]
			parsed, err := catalog.NewPackageType(part[idx+1:])
			if err != nil {
				return nil, err
			}
			pkg = parsed
		}

		selections = append(selections, catalog.Selection{
			Slug:        strings.ToLower(slug),
			PackageType: pkg,
		})
	}
	return selections, nil
}
