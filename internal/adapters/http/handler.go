package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pverdant/leafval/internal/app/review"
	"github.com/pverdant/leafval/internal/domain"
)

type Server struct {
	svc *review.Service
}

func NewServer(svc *review.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /session  → POST: login (get or create), GET: load by userId
	mux.HandleFunc("/session", s.handleSession)

	// /batch    → POST: allocate a new batch for a session
	mux.HandleFunc("/batch", s.handleBatch)

	// /feedback → POST: autosave progress, PUT: complete the batch
	mux.HandleFunc("/feedback", s.handleFeedback)

	// /download → GET: fetch a completed-batch CSV artifact
	mux.HandleFunc("/download", s.handleDownload)

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	UserName string `json:"userName"`
}

type sessionEnvelope struct {
	Session *domain.Session `json:"session"`
}

type allocateBatchRequest struct {
	UserID string `json:"userId"`
}

type allocateBatchResponse struct {
	Batch   []domain.Item   `json:"batch"`
	Session *domain.Session `json:"session"`
}

type saveFeedbackRequest struct {
	UserID       string            `json:"userId"`
	Feedback     []domain.Feedback `json:"feedback"`
	CurrentIndex int               `json:"currentIndex"`
}

type completeFeedbackRequest struct {
	UserID   string            `json:"userId"`
	Feedback []domain.Feedback `json:"feedback"`
}

type completeFeedbackResponse struct {
	Success       bool   `json:"success"`
	DownloadURL   string `json:"downloadUrl"`
	CSVContent    string `json:"csvContent"`
	ReviewedCount int    `json:"reviewedCount"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleGetSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAllocateBatch(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSaveFeedback(w, r)
	case http.MethodPut:
		s.handleCompleteFeedback(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.UserName) == "" {
		badRequest(w, "User name is required")
		return
	}

	session, err := s.svc.StartSession(r.Context(), req.UserName)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionEnvelope{Session: session})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "User ID is required")
		return
	}

	session, err := s.svc.GetSession(r.Context(), domain.SessionID(userID))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionEnvelope{Session: session})
}

func (s *Server) handleAllocateBatch(w http.ResponseWriter, r *http.Request) {
	var req allocateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}

	batch, session, err := s.svc.AllocateBatch(r.Context(), domain.SessionID(req.UserID))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, allocateBatchResponse{
		Batch:   batch,
		Session: session,
	})
}

func (s *Server) handleSaveFeedback(w http.ResponseWriter, r *http.Request) {
	var req saveFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}

	err := s.svc.SaveProgress(r.Context(), domain.SessionID(req.UserID), req.Feedback, req.CurrentIndex)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleCompleteFeedback(w http.ResponseWriter, r *http.Request) {
	var req completeFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}

	result, err := s.svc.CompleteBatch(r.Context(), domain.SessionID(req.UserID), req.Feedback)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, completeFeedbackResponse{
		Success:       true,
		DownloadURL:   "/download?file=" + result.ArtifactName,
		CSVContent:    result.CSV,
		ReviewedCount: result.ReviewedCount,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	name := r.URL.Query().Get("file")
	if name == "" {
		badRequest(w, "File name is required")
		return
	}
	if name != filepath.Base(name) {
		badRequest(w, "Invalid file name")
		return
	}

	content, err := s.svc.DownloadArtifact(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func respondError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientItemsError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Session not found"})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "Not enough unreviewed images available",
			"available": insufficient.Available,
		})
	default:
		internalError(w, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
