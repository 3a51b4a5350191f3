package handler

import (
	"errors"
	"net/http"

	"swiftcare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles user profile requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetMe returns the authenticated user's own profile
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// account deleted after the token was issued
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		} else {
			logrus.WithError(err).Error("Failed to load current user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByID returns any user's profile; route is admin-gated
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logrus.WithError(err).Error("Failed to load user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(r gin.IRouter, authMW, adminMW gin.HandlerFunc) {
	userRoutes := r.Group("/users")
	userRoutes.Use(authMW)
	{
		userRoutes.GET("/me", h.GetMe)
		userRoutes.GET("/:id", adminMW, h.GetUserByID)
	}
}
