package server

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rezonia/nfe-wms-connector/internal/config"
	"github.com/rezonia/nfe-wms-connector/internal/model"
	"github.com/rezonia/nfe-wms-connector/internal/processor"
	"github.com/rezonia/nfe-wms-connector/internal/wms"
)

// allowedMIMETypes is the upload allow-list of the inbound boundary.
var allowedMIMETypes = map[string]bool{
	"text/xml":        true,
	"application/xml": true,
}

// Server is the HTTP boundary accepting NF-e uploads.
type Server struct {
	cfg      config.Config
	log      *zap.Logger
	router   *gin.Engine
	pipeline *processor.Pipeline
	jobs     *processor.Jobs
}

// NewServer creates the API server. A nil logger disables logging.
func NewServer(cfg config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	client := wms.NewClient(wms.Config{
		Endpoint: cfg.Endpoint,
		Token:    cfg.Token,
	}, log)

	pipeline := processor.NewPipeline(
		processor.WithLogger(log),
		processor.WithSubmitter(client),
		processor.WithOwnerTaxID(cfg.OperatorTaxID),
		processor.WithForcedInvoiceKey(cfg.ForceInvoiceKey),
	)

	s := &Server{
		cfg:      cfg,
		log:      log,
		router:   router,
		pipeline: pipeline,
		jobs:     processor.NewJobs(pipeline, log),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/integrations", s.handleIntegrate)
		v1.GET("/integrations/:id", s.handleJobStatus)
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleIntegrate accepts one NF-e XML upload under field "xml" (or
// "file") and runs the full pipeline. With ?async=1 the client gets an
// immediate 202 plus a job id to poll; otherwise the call blocks and
// returns the complete report.
func (s *Server) handleIntegrate(c *gin.Context) {
	header, err := c.FormFile("xml")
	if err != nil {
		header, err = c.FormFile("file")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Kind:    string(model.KindInvalidStructure),
			Message: "no XML file uploaded",
		})
		return
	}

	if header.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Kind:    string(model.KindInvalidStructure),
			Message: "file exceeds the upload size limit",
		})
		return
	}

	if mime := header.Header.Get("Content-Type"); !allowedMIMETypes[mime] {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Kind:    string(model.KindMalformedDocument),
			Message: "unsupported file type, only XML is accepted",
		})
		return
	}

	path, err := s.saveUpload(c, header)
	if err != nil {
		s.log.Error("could not store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Kind:    string(model.KindInternal),
			Message: "could not store the uploaded file",
		})
		return
	}

	s.log.Info("XML file received",
		zap.String("name", header.Filename),
		zap.Int64("size", header.Size))

	if c.Query("async") == "1" {
		id := s.jobs.SubmitFile(path, header.Filename)
		c.JSON(http.StatusAccepted, JobAcceptedResponse{
			JobID:     id,
			StatusURL: "/api/v1/integrations/" + id,
			File:      UploadedFile{Name: header.Filename, Size: header.Size},
		})
		return
	}

	// Once a vendor submission starts it must run to completion. An
	// uploader disconnect must not abort an in-flight POST and leave
	// a partial catalog behind.
	res := s.pipeline.RunFile(context.WithoutCancel(c.Request.Context()), path)
	if res.Failed() {
		c.JSON(statusForKind(res.ErrorKind()), ErrorResponse{
			Kind:     string(res.ErrorKind()),
			Message:  res.ErrorMessage(),
			Products: res.Products,
		})
		return
	}

	c.JSON(http.StatusOK, IntegrationResponse{
		Status:   "invoice submitted after product registration",
		Invoice:  res.Document,
		Products: res.Products,
		Receipt:  res.Invoice,
	})
}

func (s *Server) handleJobStatus(c *gin.Context) {
	job, ok := s.jobs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Kind:    string(model.KindInternal),
			Message: "unknown integration job",
		})
		return
	}

	resp := JobStatusResponse{Job: job}
	if job.Result != nil && job.Result.Failed() {
		resp.ErrorKind = string(job.Result.ErrorKind())
		resp.ErrorMessage = job.Result.ErrorMessage()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) saveUpload(c *gin.Context, header *multipart.FileHeader) (string, error) {
	dir := s.cfg.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	tmp, err := os.CreateTemp(dir, "nfe-*.xml")
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	tmp.Close()

	if err := c.SaveUploadedFile(header, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// statusForKind maps the error taxonomy to HTTP status codes: document
// problems are the client's fault, vendor/transport problems are
// upstream failures.
func statusForKind(kind model.Kind) int {
	switch kind {
	case model.KindMalformedDocument,
		model.KindInvalidStructure,
		model.KindMissingInvoiceKey,
		model.KindMissingProductCode:
		return http.StatusBadRequest
	case model.KindVendorError,
		model.KindTransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
