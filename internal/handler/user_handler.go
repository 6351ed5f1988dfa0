package handler

import (
	"net/http"
	"strings"

	"appointment_booking/internal/model"
	"appointment_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the user directory
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListByRole(c.Request.Context(), model.RoleTeacher)
	if err != nil {
		respondError(c, err, "Failed to retrieve teachers")
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// BatchUsers resolves ids to {id, name} pairs, in the order first requested.
func (h *UserHandler) BatchUsers(c *gin.Context) {
	var req model.BatchUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	found, err := h.service.BatchGet(c.Request.Context(), req.UserIDs)
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	out := make([]model.UserSummary, 0, len(found))
	for _, id := range req.UserIDs {
		id = strings.TrimSpace(id)
		if summary, ok := found[id]; ok {
			out = append(out, summary)
			delete(found, id)
		}
	}
	c.JSON(http.StatusOK, out)
}

// RegisterUserRoutes registers the authenticated directory routes
func (h *UserHandler) RegisterUserRoutes(users *gin.RouterGroup, authMW gin.HandlerFunc) {
	users.GET("", authMW, h.ListUsers)
	users.GET("/teachers", authMW, h.ListTeachers)
	users.POST("/batch", authMW, h.BatchUsers)
}
