package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/advisor"
)

// ServiceName identifies this service in health responses.
const ServiceName = "smartstock-advisor"

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	UserID  string `json:"user_id,omitempty" validate:"omitempty,max=128"`
}

// ProcessResponse is a successful /process reply.
type ProcessResponse struct {
	Status string `json:"status"`
	Answer string `json:"answer"`
}

// DataResponse wraps the raw widget data returned for a sentinel message.
type DataResponse struct {
	Status string      `json:"status"`
	Answer interface{} `json:"answer"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status               string `json:"status"`
	Service              string `json:"service"`
	CompletionConfigured bool   `json:"completion_configured"`
	Provider             string `json:"provider,omitempty"`
	Version              string `json:"version"`
}

// handleProcess handles POST /process. The reserved sentinel messages return
// raw widget data as the answer; everything else goes through the advisor. Rejected queries
// come back as 200 with status "error" so the chat client can show the message.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ProcessRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()
	if meta := common.RequestMetaFromContext(ctx); meta != nil {
		meta.UserID = req.UserID
	}

	if data, ok := s.app.Advisor.Sentinel(ctx, req.Message); ok {
		WriteJSON(w, http.StatusOK, DataResponse{Status: models.StatusSuccess, Answer: data})
		return
	}

	reply, err := s.app.Advisor.Process(ctx, models.Query{Text: req.Message, UserID: req.UserID})
	if err != nil {
		s.logger.Info().Err(err).
			Str("correlation_id", common.ResolveCorrelationID(ctx)).
			Str("user_id", common.ResolveUserID(ctx)).
			Msg("Query rejected")
		WriteError(w, http.StatusOK, advisor.UserMessage(err))
		return
	}

	WriteJSON(w, http.StatusOK, ProcessResponse{Status: reply.Status, Answer: reply.Answer})
}

// handleIPOs handles GET /ipos.
func (s *Server) handleIPOs(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.Advisor.LiveIPOs(r.Context()))
}

// handleLandingStocks handles GET /landing-stocks.
func (s *Server) handleLandingStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.Advisor.LandingStocks(r.Context()))
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:               "healthy",
		Service:              ServiceName,
		CompletionConfigured: s.app.Advisor.Configured(),
		Provider:             s.app.Advisor.Provider(),
		Version:              common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// validationMessage turns validator output into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Field() == "UserID" {
		field = "user_id"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	}
	return field + " is invalid"
}
