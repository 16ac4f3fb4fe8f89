package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	reqdto "groomdesk/internal/handler/dto/request"
	resdto "groomdesk/internal/handler/dto/response"
	"groomdesk/internal/handler/middleware"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/commands"
	"groomdesk/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	booking      commands.BookingCommands
	appointments queries.AppointmentQueries
}

func NewAppointmentHandler(booking commands.BookingCommands, appointments queries.AppointmentQueries) *AppointmentHandler {
	return &AppointmentHandler{
		booking:      booking,
		appointments: appointments,
	}
}

// @Summary Book appointment
// @Description Book a grooming appointment at a computed slot
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookAppointmentRequest true "Booking request"
// @Success 201 {object} resdto.BookAppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	companyID, ok := middleware.GetCompanyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	in, err := req.ToInput(companyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date or time format",
		})
		return
	}

	out, err := h.booking.Book(c.Request.Context(), in)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookOutput(out))
}

func (h *AppointmentHandler) respondBookingError(c *gin.Context, err error) {
	var rejected *commands.SlotRejectedError
	var conflict *commands.CommitConflictError
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Slot is not bookable",
			"reason": string(rejected.Decision.Reason),
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Slot was taken by a concurrent booking",
			"kind":        string(conflict.Conflict.Kind),
			"appointment": conflict.Conflict.AppointmentID.String(),
		})
	case errs.Is(err, errs.ErrServiceItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Service item not found",
		})
	case errs.Is(err, errs.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Location not found",
		})
	case errs.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Get appointment
// @Description Get appointment by ID
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	view, err := h.appointments.GetAppointment(c.Request.Context(), id)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAppointmentView(view))
}

// @Summary List appointments for a day
// @Description List a location's appointments on a date
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param location_id query string true "Location ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param staff_id query string false "Staff ID"
// @Success 200 {array} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Router /appointments [get]
func (h *AppointmentHandler) ListForDay(c *gin.Context) {
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid location ID format",
		})
		return
	}
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}
	var staffID *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid staff ID format",
			})
			return
		}
		staffID = &id
	}

	views, err := h.appointments.ListAppointmentsForDay(c.Request.Context(), locationID, day.UTC(), staffID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.AppointmentResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromAppointmentView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Check in appointment
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Router /appointments/{id}/check-in [post]
func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.booking.CheckIn)
}

// @Summary Start appointment service
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Router /appointments/{id}/start [post]
func (h *AppointmentHandler) Start(c *gin.Context) {
	h.transition(c, h.booking.StartService)
}

// @Summary Complete appointment
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Router /appointments/{id}/complete [post]
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.booking.Complete)
}

// @Summary Cancel appointment
// @Tags appointments
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 204 "No Content"
// @Router /appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.booking.Cancel)
}

func (h *AppointmentHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid appointment ID format",
		})
		return
	}

	if err := apply(c.Request.Context(), id); err != nil {
		switch {
		case errs.Is(err, errs.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Appointment not found",
			})
		case errs.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Appointment status does not allow this transition",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
