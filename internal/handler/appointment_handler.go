package handler

import (
	"net/http"

	"appointment_booking/internal/middleware"
	"appointment_booking/internal/model"
	"appointment_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment related requests
type AppointmentHandler struct {
	service service.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(s service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: s}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create appointment")
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	appointments, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "Failed to retrieve appointments")
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update appointment status")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment status updated",
		"appointment": appointment,
	})
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete appointment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

// RegisterAppointmentRoutes registers appointment routes. Role gates run
// before the body is bound; the service re-checks them.
func (h *AppointmentHandler) RegisterAppointmentRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, roleMW gin.HandlerFunc) {
	studentOnly := middleware.RoleMiddleware(model.RoleStudent)
	teacherOnly := middleware.RoleMiddleware(model.RoleTeacher)

	appointments := rg.Group("/appointments")
	appointments.Use(authMW, roleMW)
	{
		appointments.POST("", studentOnly, h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.PUT("/:id/updateStatus", teacherOnly, h.UpdateStatus)
		appointments.DELETE("/:id", studentOnly, h.DeleteAppointment)
	}
}
