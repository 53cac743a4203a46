package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/domain/models"
	"github.com/mamadbah2/matcert/internal/export"
	service "github.com/mamadbah2/matcert/internal/service/certificate"
)

// DocumentService renders and exports validated records.
type DocumentService interface {
	Preview(record models.CertificateRecord) ([]byte, error)
	Export(ctx context.Context, record models.CertificateRecord) (*export.Result, error)
}

// CertificateHandler exposes the record store and exporter over HTTP.
type CertificateHandler struct {
	svc    service.FormService
	docs   DocumentService
	logger *zap.Logger
}

// NewCertificateHandler constructs the HTTP handler adapter.
func NewCertificateHandler(svc service.FormService, docs DocumentService, logger *zap.Logger) *CertificateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateHandler{svc: svc, docs: docs, logger: logger}
}

// Catalog lists material grades and element symbols.
func (h *CertificateHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Catalog())
}

// CreateSession starts a new record.
func (h *CertificateHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.svc.StartSession())
}

// GetSession returns the record and draft.
func (h *CertificateHandler) GetSession(c *gin.Context) {
	state, err := h.svc.State(c.Param("id"))
	h.respond(c, state, err)
}

// DeleteSession ends a session and discards its record.
func (h *CertificateHandler) DeleteSession(c *gin.Context) {
	if err := h.svc.EndSession(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateField sets a header field.
func (h *CertificateHandler) UpdateField(c *gin.Context) {
	req, ok := h.bindValue(c)
	if !ok {
		return
	}
	state, err := h.svc.UpdateField(c.Param("id"), c.Param("name"), req.Value)
	h.respond(c, state, err)
}

// UpdateDraftItem sets a draft item field.
func (h *CertificateHandler) UpdateDraftItem(c *gin.Context) {
	req, ok := h.bindValue(c)
	if !ok {
		return
	}
	state, err := h.svc.UpdateDraftItem(c.Param("id"), c.Param("field"), req.Value)
	h.respond(c, state, err)
}

// UpdateDraftChemical sets a draft element reading.
func (h *CertificateHandler) UpdateDraftChemical(c *gin.Context) {
	req, ok := h.bindValue(c)
	if !ok {
		return
	}
	state, err := h.svc.UpdateDraftChemical(c.Param("id"), c.Param("element"), req.Value)
	h.respond(c, state, err)
}

// CommitItem appends the draft to the item list.
func (h *CertificateHandler) CommitItem(c *gin.Context) {
	state, err := h.svc.CommitDraftItem(c.Param("id"))
	if err == nil {
		c.JSON(http.StatusCreated, state)
		return
	}
	h.fail(c, err)
}

// RemoveItem deletes an item by index.
func (h *CertificateHandler) RemoveItem(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	state, err := h.svc.RemoveItem(c.Param("id"), index)
	h.respond(c, state, err)
}

// EditItem loads an item into the draft.
func (h *CertificateHandler) EditItem(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	state, err := h.svc.EditItem(c.Param("id"), index)
	h.respond(c, state, err)
}

// Reset starts a fresh record in the same session.
func (h *CertificateHandler) Reset(c *gin.Context) {
	state, err := h.svc.ResetRecord(c.Param("id"))
	h.respond(c, state, err)
}

// Preview returns the rendered certificate HTML.
func (h *CertificateHandler) Preview(c *gin.Context) {
	record, err := h.svc.ExportableRecord(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	doc, err := h.docs.Preview(record)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// Export streams the certificate PDF as an attachment.
func (h *CertificateHandler) Export(c *gin.Context) {
	record, err := h.svc.ExportableRecord(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	result, err := h.docs.Export(c.Request.Context(), record)
	if err != nil {
		h.logger.Error("failed exporting certificate",
			zap.String("certificate_number", record.CertificateNumber),
			zap.Error(err))
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

func (h *CertificateHandler) bindValue(c *gin.Context) (models.ValueRequest, bool) {
	var req models.ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid value payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return req, false
	}
	return req, true
}

func (h *CertificateHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item index must be an integer"})
		return 0, false
	}
	return index, true
}

func (h *CertificateHandler) respond(c *gin.Context, state models.SessionState, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CertificateHandler) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrLookup):
		return http.StatusNotFound
	case errors.Is(err, models.ErrExport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
