// Package server exposes the parser, exporters and the signature-validation
// proxy over HTTP. Every endpoint takes the raw XML as the request body;
// nothing is persisted between requests.
package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/facturaview/facturaview/internal/export/excel"
	"github.com/facturaview/facturaview/internal/export/pdf"
	"github.com/facturaview/facturaview/internal/input"
	"github.com/facturaview/facturaview/internal/logger"
	"github.com/facturaview/facturaview/internal/model"
	"github.com/facturaview/facturaview/internal/parser/facturae"
	"github.com/facturaview/facturaview/internal/signature"
)

// Config holds server configuration
type Config struct {
	Address         string
	SignatureAPIURL string
	Locale          model.Locale
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	Debug           bool
}

// Server is the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	sigClient *signature.Client
}

// NewServer creates the API server. The signature proxy is enabled only
// when a service URL is configured.
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.Locale == "" {
		config.Locale = model.LocaleES
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	s := &Server{
		config: config,
		router: router,
	}
	if config.SignatureAPIURL != "" {
		s.sigClient = signature.NewClient(config.SignatureAPIURL)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/parse", s.handleParse)
		v1.POST("/export/excel", s.handleExportExcel)
		v1.POST("/export/pdf", s.handleExportPDF)
		v1.POST("/validate-signature", s.handleValidateSignature)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger tags each request with an ID and logs its outcome
func requestLogger() gin.HandlerFunc {
	log := logger.WithComponent("server")
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readBody reads and size-checks the raw XML body. A nil return means the
// response has already been written.
func (s *Server) readBody(c *gin.Context) []byte {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "failed to read request body"})
		return nil
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "empty request body"})
		return nil
	}
	if err := input.ValidateSize(int64(len(body))); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return nil
	}
	return body
}

// parseBody parses the body, answering 422 with the classified kind and
// the localized friendly message on failure.
func (s *Server) parseBody(c *gin.Context, body []byte) *model.ParsedDocument {
	doc, err := facturae.Parse(body)
	if err != nil {
		kind := model.Classify(err)
		reqLogger := logger.WithRequestID(c.GetString("request_id"))
		reqLogger.Warn().
			Str("kind", string(kind)).
			Err(err).
			Msg("parse failed")
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Kind:    string(kind),
			Message: model.FriendlyMessage(kind, s.config.Locale),
		})
		return nil
	}
	return doc
}

func (s *Server) handleParse(c *gin.Context) {
	body := s.readBody(c)
	if body == nil {
		return
	}
	doc := s.parseBody(c, body)
	if doc == nil {
		return
	}
	c.JSON(http.StatusOK, ParseResponse{
		Document:     doc,
		IsBatch:      facturae.IsBatch(doc),
		InvoiceCount: len(doc.Invoices),
	})
}

// invoiceIndex reads the ?invoice query parameter, defaulting to 0.
// Out-of-range values are clamped by the exporters.
func invoiceIndex(c *gin.Context) int {
	i, err := strconv.Atoi(c.DefaultQuery("invoice", "0"))
	if err != nil {
		return 0
	}
	return i
}

func (s *Server) handleExportExcel(c *gin.Context) {
	body := s.readBody(c)
	if body == nil {
		return
	}
	doc := s.parseBody(c, body)
	if doc == nil {
		return
	}

	index := invoiceIndex(c)
	data, err := excel.Export(doc, index)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+excel.FileName(doc, index)+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleExportPDF(c *gin.Context) {
	body := s.readBody(c)
	if body == nil {
		return
	}
	doc := s.parseBody(c, body)
	if doc == nil {
		return
	}

	index := invoiceIndex(c)
	data, err := pdf.Export(doc, index)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+pdf.FileName(doc, index)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleValidateSignature(c *gin.Context) {
	if s.sigClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Message: "signature validation service not configured"})
		return
	}
	body := s.readBody(c)
	if body == nil {
		return
	}
	// The result is always 200: an unreachable service yields an
	// unverifiable verdict, not a proxy failure.
	c.JSON(http.StatusOK, s.sigClient.Validate(c.Request.Context(), body))
}

func (s *Server) handleInfo(c *gin.Context) {
	body := s.readBody(c)
	if body == nil {
		return
	}

	info := InfoResponse{
		Size:  len(body),
		IsXML: looksLikeXML(body),
	}
	if doc, err := facturae.Parse(body); err == nil {
		info.IsSigned = doc.IsSigned
		info.Version = doc.SchemaVersion
	}
	c.JSON(http.StatusOK, info)
}

func looksLikeXML(data []byte) bool {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	return len(trimmed) > 0 && trimmed[0] == '<'
}
