package api

import (
	"net/http"

	"groomdesk/internal/domain/scheduling"
	reqdto "groomdesk/internal/handler/dto/request"
	resdto "groomdesk/internal/handler/dto/response"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary List available slots
// @Description Enumerate bookable slots for a service at a location on a date
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param location_id query string true "Location ID"
// @Param service_item_id query string true "Service item ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param staff_id query string false "Restrict to one staff member"
// @Param limit query int false "Maximum number of slots"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/slots [get]
func (h *AvailabilityHandler) GetSlots(c *gin.Context) {
	var req reqdto.GetSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	views, err := h.availability.GetSlots(c.Request.Context(), in)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrServiceItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service item not found",
			})
		case errs.Is(err, errs.ErrLocationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Location not found",
			})
		case errs.Is(err, scheduling.ErrInvalidDuration):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Service has no bookable duration",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}
