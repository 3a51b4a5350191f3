package handler

import (
	"errors"
	"net/http"
	"strconv"

	"swiftcare/internal/model"
	"swiftcare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DoctorHandler handles the doctor directory
type DoctorHandler struct {
	service service.UserService
}

// NewDoctorHandler creates a new DoctorHandler
func NewDoctorHandler(s service.UserService) *DoctorHandler {
	return &DoctorHandler{service: s}
}

// SearchDoctors filters the doctor directory
func (h *DoctorHandler) SearchDoctors(c *gin.Context) {
	var filters model.DoctorFilters
	if v := c.Query("specialization"); v != "" {
		filters.Specialization = &v
	}
	if v := c.Query("max_fee"); v != "" {
		fee, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid max_fee"})
			return
		}
		filters.MaxFee = &fee
	}
	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid available flag"})
			return
		}
		filters.Available = &available
	}
	if v := c.Query("search"); v != "" {
		filters.Search = &v
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filters.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	doctors, err := h.service.SearchDoctors(c.Request.Context(), filters)
	if err != nil {
		logrus.WithError(err).Error("Failed to search doctors")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search doctors"})
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// GetAvailability returns a doctor's weekly availability
func (h *DoctorHandler) GetAvailability(c *gin.Context) {
	availability, isAvailable, err := h.service.GetDoctorAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logrus.WithError(err).Error("Failed to get doctor availability")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve availability"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"availability": availability,
		"is_available": isAvailable,
	})
}

// UpdateProfile patches a doctor's profile; self or admin only
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	var req model.DoctorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.service.UpdateDoctorProfile(c.Request.Context(), c.Param("id"), userID, userRole, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDoctorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logrus.WithError(err).Error("Failed to update doctor profile")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update doctor profile"})
		}
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RegisterDoctorRoutes registers doctor directory routes
func (h *DoctorHandler) RegisterDoctorRoutes(r gin.IRouter, authMW gin.HandlerFunc) {
	doctorRoutes := r.Group("/doctors")
	doctorRoutes.Use(authMW)
	{
		doctorRoutes.GET("", h.SearchDoctors)
		doctorRoutes.GET("/:id/availability", h.GetAvailability)
		doctorRoutes.PUT("/:id", h.UpdateProfile)
	}
}
