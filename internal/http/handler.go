package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/document"
	"github.com/nurpe/rfp-quotation/internal/model"
	"github.com/nurpe/rfp-quotation/internal/service"
)

const (
	serviceName = "RFP Quotation Service"
	version     = "1.0.0"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// room for multipart boundaries and part headers on top of the file cap
	multipartOverhead = 64 << 10
)

type Handler struct {
	quotations *service.QuotationService
	log        zerolog.Logger
}

func NewHandler(quotations *service.QuotationService, log zerolog.Logger) *Handler {
	return &Handler{quotations: quotations, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := router.Group("/api/v1")
	api.GET("/health", h.health)

	protected := api.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/upload-rfp", h.uploadRFP)
	protected.POST("/rfp/text", h.processText)
	protected.GET("/quotation/:id", h.getQuotation)
	protected.GET("/quotation/:id/pdf", h.downloadPDF)
	protected.GET("/quotation/:id/xlsx", h.downloadExcel)
	protected.GET("/catalog", h.listCatalog)
	protected.POST("/scrape-web", h.scrapeWeb)
	protected.POST("/generate-pdf", h.generatePDF)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	})
}

func (h *Handler) uploadRFP(c *gin.Context) {
	maxBytes := h.quotations.MaxUploadBytes()
	if maxBytes > 0 {
		limit := maxBytes + multipartOverhead
		if c.Request.ContentLength > limit {
			h.handleError(c, fmt.Errorf("%w: max size %d bytes", service.ErrFileTooLarge, maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleError(c, fmt.Errorf("%w: max size %d bytes", service.ErrFileTooLarge, maxBytes))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	if maxBytes > 0 && header.Size > maxBytes {
		h.handleError(c, fmt.Errorf("%w: max size %d bytes", service.ErrFileTooLarge, maxBytes))
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	result, err := h.quotations.Submit(c.Request.Context(), service.SubmitInput{
		FileName: header.Filename,
		Content:  content,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"request_id": result.RequestID,
		"status":     result.Status,
		"message":    "RFP uploaded successfully. Processing started.",
		"filename":   result.FileName,
	})
}

type processTextRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) processText(c *gin.Context) {
	var req processTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quotations.ProcessText(c.Request.Context(), req.Text)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if !result.Succeeded() {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getQuotation(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}

	record, err := h.quotations.GetResult(id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	unmatched := record.Result.UnmatchedItems
	if unmatched == nil {
		unmatched = []model.RequestedItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id":      record.RequestID,
		"status":          "completed",
		"quotation":       record.Result.Quotation,
		"extracted_data":  record.Result.ExtractedData,
		"unmatched_items": unmatched,
	})
}

func (h *Handler) downloadPDF(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}
	result, err := h.quotations.ExportPDF(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypePDF, result)
}

func (h *Handler) downloadExcel(c *gin.Context) {
	id, ok := parseRequestID(c)
	if !ok {
		return
	}
	result, err := h.quotations.ExportExcel(id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, result)
}

func (h *Handler) listCatalog(c *gin.Context) {
	products := h.quotations.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) scrapeWeb(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	page, err := h.quotations.Scrape(c.Request.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"url":       page.URL,
		"title":     page.Title,
		"content":   page.Content,
		"wordCount": page.WordCount,
		"links":     page.Links,
		"timestamp": page.FetchedAt,
	})
}

type generatePDFRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) generatePDF(c *gin.Context) {
	var req generatePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	result, err := h.quotations.RenderTextPDF(req.Title, req.Content, time.Now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, contentTypePDF, result)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnsupportedFile),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, document.ErrUnsupportedExtension),
		errors.Is(err, document.ErrEmptyDocument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusTooEarly, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRunFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrQueueFull), errors.Is(err, service.ErrWorkerStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseRequestID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return uuid.Nil, false
	}
	return id, true
}

func attachment(c *gin.Context, contentType string, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}
