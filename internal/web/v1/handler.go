package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/paging"
	logicv1 "github.com/duynhne/contact-service/internal/logic/v1"
	"github.com/duynhne/contact-service/middleware"
)

const internalError = "Internal server error"

// ContactHandler handles HTTP requests for contact operations
type ContactHandler struct {
	service         *logicv1.ContactService
	defaultPageSize *int
}

// NewContactHandler creates a new contact handler.
// defaultPageSize applies to searches that omit pageSize; nil returns every match.
func NewContactHandler(service *logicv1.ContactService, defaultPageSize *int) *ContactHandler {
	return &ContactHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// SearchContacts handles GET /api/contact/search
func (h *ContactHandler) SearchContacts(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var criteria domain.ContactSearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn("Invalid search query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeBindError(err)})
		return
	}
	if criteria.PageSize == nil && h.defaultPageSize != nil {
		size := *h.defaultPageSize
		criteria.PageSize = &size
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	result, err := h.service.SearchContacts(ctx, criteria)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, paging.ErrInvalidPageSize) {
			logger.Error("Search rejected by paging configuration", zap.Error(err))
		} else {
			logger.Error("Failed to search contacts", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}

	logger.Info("Contacts searched",
		zap.Int("total", result.Total),
		zap.Int("page", result.Page),
		zap.Int("returned", len(result.Data)),
	)
	c.JSON(http.StatusOK, result)
}

// CreateContact handles POST /api/contact
func (h *ContactHandler) CreateContact(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var dto domain.ContactDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeBindError(err)})
		return
	}

	created, failures, err := h.service.CreateContact(ctx, dto)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to create contact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}
	if len(failures) > 0 {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Info("Contact rejected", zap.Strings("failures", failures.Messages()))
		c.JSON(http.StatusBadRequest, gin.H{"error": failures.Join(), "failures": failures})
		return
	}

	logger.Info("Contact created", zap.Int("contact_id", *created.ContactID))
	c.JSON(http.StatusOK, created)
}

// UpdateContact handles PUT /api/contact
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	var dto domain.ContactDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		logger.Warn("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": sanitizeBindError(err)})
		return
	}

	updated, failures, err := h.service.UpdateContact(ctx, dto)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to update contact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}
	if len(failures) > 0 {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Info("Contact update rejected", zap.Strings("failures", failures.Messages()))
		c.JSON(http.StatusBadRequest, gin.H{"error": failures.Join(), "failures": failures})
		return
	}

	logger.Info("Contact updated", zap.Int("contact_id", *updated.ContactID))
	c.JSON(http.StatusOK, updated)
}

// DeleteContact handles DELETE /api/contact/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()
	logger := middleware.GetLoggerFromGinContext(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contact id must be an integer"})
		return
	}
	span.SetAttributes(attribute.Int("contact.id", id))

	msg, err := h.service.DeleteContact(ctx, id)
	if err != nil {
		span.RecordError(err)
		logger.Error("Failed to delete contact", zap.Int("contact_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}
	if msg != "" {
		logger.Info("Contact not deleted", zap.Int("contact_id", id), zap.String("reason", msg))
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	logger.Info("Contact deleted", zap.Int("contact_id", id))
	c.Status(http.StatusOK)
}

func startRequestSpan(c *gin.Context) (ctx context.Context, span trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.FullPath()),
	))
}
