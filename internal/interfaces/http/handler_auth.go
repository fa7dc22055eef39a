package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"whatsapp_crm/internal/usecases"
)

type registerRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Name          string `json:"name"`
	PhoneNumberID string `json:"phone_number_id"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Name = SanitizeString(req.Name)
	if !ValidUsername(req.Username) || len(req.Password) < MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password (min 6 chars)"})
		return
	}
	if !ValidateLength(req.Name, 0, MaxNameLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name too long"})
		return
	}
	if req.PhoneNumberID != "" && !ValidPhone(req.PhoneNumberID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone_number_id"})
		return
	}

	tenant, err := h.authUsecase.Register(c.Request.Context(), usecases.RegisterInput{
		Username:      req.Username,
		Password:      req.Password,
		Name:          req.Name,
		PhoneNumberID: req.PhoneNumberID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.authUsecase.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, usecases.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if errors.Is(err, usecases.ErrAuthDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is disabled"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
