package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"whatsapp_crm/internal/entities"
)

type createStudentRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	AdmissionDate string `json:"admission_date"`
	Notes         string `json:"notes"`
}

// tenantParam reads the :id path parameter.
func tenantParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetDashboard(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	stats, err := h.dashboardUsecase.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Students

func (h *Handler) ListStudents(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	students, err := h.dashboardUsecase.ListStudents(c.Request.Context(), tenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if students == nil {
		students = []entities.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	student := entities.Student{
		TenantID:      tenantID,
		Name:          SanitizeString(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		AdmissionDate: strings.TrimSpace(req.AdmissionDate),
		Notes:         SanitizeString(req.Notes),
	}
	if err := validateStudent(student); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.dashboardUsecase.CreateStudent(c.Request.Context(), &student); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func validateStudent(s entities.Student) error {
	switch {
	case !ValidateLength(s.Name, 1, MaxNameLength):
		return fmt.Errorf("%w: name is required", entities.ErrInvalidInput)
	case s.Phone != "" && !ValidPhone(s.Phone):
		return fmt.Errorf("%w: phone must be digits", entities.ErrInvalidInput)
	case s.AdmissionDate != "" && !ValidDate(s.AdmissionDate):
		return fmt.Errorf("%w: admission_date must be YYYY-MM-DD", entities.ErrInvalidInput)
	case !ValidateLength(s.Notes, 0, MaxNotesLength):
		return fmt.Errorf("%w: notes too long", entities.ErrInvalidInput)
	}
	return nil
}

// Leads

func (h *Handler) ListLeads(c *gin.Context) {
	tenantID, ok := tenantParam(c)
	if !ok {
		return
	}

	var interest entities.Interest
	if raw := c.Query("interest"); raw != "" {
		parsed, ok := entities.ParseInterest(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown interest " + strconv.Quote(raw)})
			return
		}
		interest = parsed
	}

	leads, err := h.dashboardUsecase.ListLeads(c.Request.Context(), tenantID, interest)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if leads == nil {
		leads = []entities.Message{}
	}
	c.JSON(http.StatusOK, leads)
}

// GetQRCode returns a click-to-chat QR code PNG for the given business phone.
func (h *Handler) GetQRCode(c *gin.Context) {
	if _, ok := tenantParam(c); !ok {
		return
	}

	phone := strings.TrimPrefix(c.Query("phone"), "+")
	if !ValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone must be digits"})
		return
	}

	png, err := qrcode.Encode("https://wa.me/"+phone, qrcode.Medium, 256)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
