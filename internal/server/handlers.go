package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/card-advisor/internal/advisor"
	"github.com/jonathan/card-advisor/internal/normalize"
	"github.com/jonathan/card-advisor/internal/session"
	"github.com/jonathan/card-advisor/internal/slots"
)

// maxPayloadBytes bounds the free-form payload bodies. Profile updates and
// recommendation requests are small JSON objects; anything bigger is noise.
const maxPayloadBytes = 64 * 1024

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.tools.CreateSession(r.Context())
	if err != nil {
		log.Printf("create session failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.tools.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		log.Printf("delete session failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	s.historyMu.Lock()
	delete(s.histories, r.PathValue("id"))
	s.historyMu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	profile, err := s.tools.Profile(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profile":        profile,
		"missing_fields": slots.Missing(profile),
	})
}

// handleUpdateProfile accepts the raw payload string as the request body and
// applies it through the same path the conversational tool uses.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	raw, ok := s.readPayload(w, r)
	if !ok {
		return
	}

	applied, err := s.tools.ApplyUpdate(r.Context(), sessionID, raw)
	if err != nil {
		s.updateError(w, err)
		return
	}

	missing, err := s.tools.MissingFields(r.Context(), sessionID)
	if err != nil {
		s.sessionError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"updated_fields": applied,
		"missing_fields": missing,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	raw, ok := s.readPayload(w, r)
	if !ok {
		return
	}
	if raw == "" {
		raw = "{}"
	}

	recommendations, err := s.tools.Recommendations(r.Context(), sessionID, raw)
	if err != nil {
		s.updateError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": recommendations,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}
	sessionID := r.PathValue("id")

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	s.historyMu.Lock()
	history := append([]advisor.Turn(nil), s.histories[sessionID]...)
	s.historyMu.Unlock()

	reply, err := s.advisor.Chat(r.Context(), sessionID, history, req.Message)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("chat failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "chat failed")
		return
	}

	s.historyMu.Lock()
	s.histories[sessionID] = append(s.histories[sessionID],
		advisor.Turn{Role: "user", Text: req.Message},
		advisor.Turn{Role: "advisor", Text: reply},
	)
	s.historyMu.Unlock()

	s.jsonResponse(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return "", false
	}
	return string(body), true
}

// updateError maps payload and session failures onto HTTP statuses. Payload
// problems are the client's to fix; everything else is ours.
func (s *Server) updateError(w http.ResponseWriter, err error) {
	var malformed *normalize.MalformedError
	var mismatch *normalize.TypeMismatchError
	var validation *slots.ValidationError
	var unknown *slots.UnknownFieldError
	switch {
	case errors.Is(err, session.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, "session not found")
	case errors.As(err, &malformed), errors.As(err, &mismatch),
		errors.As(err, &validation), errors.As(err, &unknown):
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("request failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNotFound) {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return
	}
	log.Printf("session lookup failed: %v", err)
	s.errorResponse(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
