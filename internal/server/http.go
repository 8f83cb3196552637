package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/session"
	"github.com/neckcare/neckscan/internal/version"
)

// AnalyzeRequest is the JSON body of POST /api/analyze
type AnalyzeRequest struct {
	Image string `json:"image" binding:"required"` // data URI or bare base64
	Name  string `json:"name"`
}

// AnalyzeResponse is returned when the analysis ends in Result
type AnalyzeResponse struct {
	Snapshot session.Snapshot `json:"snapshot"`
	View     report.View      `json:"view"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	State   *session.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) newRouter() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		// base64 inflates by 4/3; leave room for the JSON envelope
		requestSizeLimiter(s.config.MaxImageBytes*2),
	)

	r.GET("/healthz", healthCheck)
	r.POST("/api/analyze", s.analyzeImage)
	r.GET(wsPath, s.serveWebSocket)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Full(),
		"time":    time.Now().UTC(),
	})
}

// analyzeImage runs one Idle -> Loading -> Result|Error cycle for the request
func (s *Server) analyzeImage(c *gin.Context) {
	img, err := s.readImage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image", err.Error(), nil)
		return
	}

	machine := s.newMachine("http-" + shortID())
	defer machine.Close()

	updates, unsubscribe := machine.Subscribe()
	defer unsubscribe()

	if err := machine.SubmitImage(img); err != nil {
		respondError(c, http.StatusInternalServerError, "submit failed", err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			machine.Reset()
			logging.Info("Client went away during analysis", zap.String("session_id", machine.ID()))
			return
		case snap, ok := <-updates:
			if !ok {
				respondError(c, http.StatusServiceUnavailable, "session closed", analysis.GenericMessage, nil)
				return
			}
			switch snap.State {
			case session.StateResult:
				view, err := report.BuildView(snap.Result, s.config.Links)
				if err != nil {
					respondError(c, http.StatusBadGateway, "invalid result", analysis.MalformedMessage, &snap)
					return
				}
				c.JSON(http.StatusOK, AnalyzeResponse{Snapshot: snap, View: view})
				return
			case session.StateError:
				respondError(c, http.StatusBadGateway, "analysis failed", snap.Error, &snap)
				return
			}
		}
	}
}

// readImage accepts either a multipart "image" file or a JSON AnalyzeRequest
func (s *Server) readImage(c *gin.Context) (analysis.Image, error) {
	var img analysis.Image

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > s.config.MaxImageBytes {
			return img, fmt.Errorf("image exceeds %d bytes", s.config.MaxImageBytes)
		}
		f, err := file.Open()
		if err != nil {
			return img, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return img, fmt.Errorf("failed to read upload: %w", err)
		}
		if len(data) == 0 {
			return img, errors.New("image payload is empty")
		}
		return analysis.Image{
			Data:     data,
			MIMEType: analysis.DetectMIMEType(data),
			Name:     file.Filename,
		}, nil
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return img, fmt.Errorf("expected a JSON body with an image field or a multipart image upload: %w", err)
	}

	img, err := analysis.ParseDataURI(req.Image)
	if err != nil {
		return img, err
	}
	if int64(img.Size()) > s.config.MaxImageBytes {
		return analysis.Image{}, fmt.Errorf("image exceeds %d bytes", s.config.MaxImageBytes)
	}
	img.Name = req.Name
	return img, nil
}

func respondError(c *gin.Context, status int, errType, message string, snap *session.Snapshot) {
	logging.Warn("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.String("error", errType),
		zap.String("message", message),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
		State:   snap,
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("remote", c.ClientIP()),
		)
	}
}
