// Package server exposes the voice-synthesis HTTP API: catalog listing,
// synthesis, and static audio serving.
package server

import (
	"errors"
	"net/http"

	"github.com/book-expert/logger"
	"github.com/gin-gonic/gin"
	"github.com/ngqkhai/voice-synthesis/internal/catalog"
	"github.com/ngqkhai/voice-synthesis/internal/core"
	"github.com/ngqkhai/voice-synthesis/internal/synthesis"
)

// Route paths.
const (
	routeLanguages  = "/api/v1/voice/languages"
	routeVoices     = "/api/v1/voice/voices"
	routeSynthesize = "/api/v1/voice/synthesize"
	routeHealth     = "/health"
	routeStatic     = "/static"
)

// Response details for the client error class.
const (
	detailLanguageNotSupported = "Language not supported"
	detailLanguageRequired     = "language query parameter is required"
	detailStorageFailure       = "failed to store synthesized audio"
)

// Request body defaults, matching the public API contract.
const (
	defaultVoiceID  = "en-US-Neural2-A"
	defaultLanguage = "en-US"
)

const warningCDNDegraded = "CDN upload failed; audio is available at the local URL only"

// Server wires the catalog, validator and orchestrator into a gin router.
type Server struct {
	catalog      *catalog.Catalog
	validator    *synthesis.Validator
	orchestrator *synthesis.Orchestrator
	log          *logger.Logger
}

// New creates a Server.
func New(
	cat *catalog.Catalog,
	validator *synthesis.Validator,
	orchestrator *synthesis.Orchestrator,
	log *logger.Logger,
) *Server {
	return &Server{
		catalog:      cat,
		validator:    validator,
		orchestrator: orchestrator,
		log:          log,
	}
}

// errorDetail is the uniform error envelope for every failure response.
type errorDetail struct {
	Detail string `json:"detail"`
}

// synthesizeBody is the POST /synthesize request payload. Omitted voice and
// language fall back to the documented defaults; an omitted speed resolves to
// the matched voice's default rate during validation.
type synthesizeBody struct {
	Text     string  `json:"text"`
	VoiceID  string  `json:"voice_id"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

// synthesizeResponse is the POST /synthesize success payload. CloudinaryURL
// is null when the CDN upload degraded.
type synthesizeResponse struct {
	VoiceID       string  `json:"voice_id"`
	AudioURL      string  `json:"audio_url"`
	CloudinaryURL *string `json:"cloudinary_url"`
	Duration      float64 `json:"duration"`
	Warning       string  `json:"warning,omitempty"`
}

// Router builds the gin engine with all routes registered. Static audio is
// served from staticDir under /static.
func (s *Server) Router(staticDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(routeHealth, s.handleHealth)
	router.GET(routeLanguages, s.handleListLanguages)
	router.GET(routeVoices, s.handleListVoices)
	router.POST(routeSynthesize, s.handleSynthesize)
	router.Static(routeStatic, staticDir)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Languages())
}

func (s *Server) handleListVoices(c *gin.Context) {
	language := c.Query("language")
	if language == "" {
		c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: detailLanguageRequired})

		return
	}

	voices, err := s.catalog.Voices(language, c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: detailLanguageNotSupported})

		return
	}

	c.JSON(http.StatusOK, voices)
}

func (s *Server) handleSynthesize(c *gin.Context) {
	var body synthesizeBody

	err := c.ShouldBindJSON(&body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: err.Error()})

		return
	}

	if body.VoiceID == "" {
		body.VoiceID = defaultVoiceID
	}

	if body.Language == "" {
		body.Language = defaultLanguage
	}

	resolved, err := s.validator.Validate(core.SynthesisRequest{
		Text:     body.Text,
		VoiceID:  body.VoiceID,
		Language: body.Language,
		Speed:    body.Speed,
	})
	if err != nil {
		s.respondValidationError(c, err)

		return
	}

	result, err := s.orchestrator.Synthesize(c.Request.Context(), resolved)
	if err != nil {
		s.respondOperationalError(c, err)

		return
	}

	response := synthesizeResponse{
		VoiceID:       result.ArtifactID,
		AudioURL:      result.LocalURL,
		CloudinaryURL: nil,
		Duration:      result.Duration,
		Warning:       "",
	}

	if result.CDNDegraded {
		response.Warning = warningCDNDegraded
	} else {
		response.CloudinaryURL = &result.RemoteURL
	}

	c.JSON(http.StatusOK, response)
}

// respondValidationError maps the client error class: unsupported language is
// 400 per the API contract, everything else in the validation class is 422.
func (s *Server) respondValidationError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrUnsupportedLanguage) {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: detailLanguageNotSupported})

		return
	}

	c.JSON(http.StatusUnprocessableEntity, errorDetail{Detail: err.Error()})
}

// respondOperationalError maps the operational error class to 500. Provider
// errors carry the upstream detail; storage errors answer with a generic
// detail so internal paths never leak.
func (s *Server) respondOperationalError(c *gin.Context, err error) {
	s.log.Error("Synthesis failed: %v", err)

	if errors.Is(err, synthesis.ErrStorage) {
		c.JSON(http.StatusInternalServerError, errorDetail{Detail: detailStorageFailure})

		return
	}

	c.JSON(http.StatusInternalServerError, errorDetail{Detail: err.Error()})
}
