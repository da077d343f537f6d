package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
	apperrors "github.com/AnshBhanushali/Healytics/pkg/errors"
	"github.com/AnshBhanushali/Healytics/pkg/metrics"
)

// Handler wires the HTTP transport to the assessment domain.
type Handler struct {
	svc    assessment.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc assessment.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// AssessForm computes a risk assessment from submitted vitals.
func (h *Handler) AssessForm(c *gin.Context) {
	var req assessment.FormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	start := time.Now()
	res, err := h.svc.AssessForm(c.Request.Context(), req)
	if err != nil {
		abortAssessmentError(c, err)
		return
	}

	metrics.ObserveAssessment(string(res.Mode), string(res.Prediction), time.Since(start).Seconds())
	c.JSON(http.StatusOK, res)
}

// AssessPrescription computes a risk assessment from an uploaded prescription photo.
func (h *Handler) AssessPrescription(c *gin.Context) {
	h.assessUpload(c, assessment.ModePrescription)
}

// AssessVision computes a risk assessment from an uploaded symptom photo.
func (h *Handler) AssessVision(c *gin.Context) {
	h.assessUpload(c, assessment.ModeVision)
}

func (h *Handler) assessUpload(c *gin.Context, mode assessment.Mode) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}

	upload := assessment.Upload{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  data,
	}

	start := time.Now()
	res, err := h.svc.AssessImage(c.Request.Context(), mode, upload)
	if err != nil {
		abortAssessmentError(c, err)
		return
	}

	metrics.ObserveAssessment(string(res.Mode), string(res.Prediction), time.Since(start).Seconds())
	c.JSON(http.StatusOK, res)
}

// History lists recent assessments.
func (h *Handler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be an integer", err))
			return
		}
		limit = parsed
	}

	records, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		abortAssessmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

// TrendingFactors returns the most frequent contributing factors.
func (h *Handler) TrendingFactors(c *gin.Context) {
	items, err := h.svc.TrendingFactors(c.Request.Context())
	if err != nil {
		abortAssessmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factors": items})
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func abortAssessmentError(c *gin.Context, err error) {
	var fieldErr *assessment.FieldError
	if errors.As(err, &fieldErr) {
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, "validation_failed", fieldErr.Message, err)
		httpErr.Fields = []FieldDetail{{Field: fieldErr.Field, Message: fieldErr.Message}}
		abortWithError(c, httpErr)
		return
	}

	status := http.StatusInternalServerError
	code := "assessment_failed"
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "analyzer_error"):
		status = http.StatusBadGateway
		code = "analyzer_error"
	case apperrors.IsCode(err, "storage_error"):
		code = "storage_error"
	}
	abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
