package api

import (
	"net/http"

	reqdto "groomdesk/internal/handler/dto/request"
	resdto "groomdesk/internal/handler/dto/response"
	"groomdesk/internal/handler/middleware"
	"groomdesk/internal/pkg/errs"
	"groomdesk/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth commands.AuthCommands
}

func NewAuthHandler(auth commands.AuthCommands) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// @Summary Staff login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	out, err := h.auth.Login(c.Request.Context(), req.NormalizedEmail(), req.Password)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoginOutput(out))
}

// @Summary Current staff
// @Description Return the authenticated staff's identity claims
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.MeResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}
	companyID, _ := middleware.GetCompanyID(c)
	role, _ := middleware.GetStaffRole(c)

	c.JSON(http.StatusOK, resdto.MeResponse{
		StaffID:   staffID,
		CompanyID: companyID,
		Role:      string(role),
	})
}

// @Summary Staff logout
// @Description Logout current staff session
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWT: the client discards the token.
	c.Status(http.StatusNoContent)
}
