package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inflx/social-to-lead/internal/agent/model"
	"github.com/inflx/social-to-lead/internal/core/errx"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// TurnRunner runs one conversation turn over a loaded state.
type TurnRunner interface {
	Invoke(ctx context.Context, state *model.ConversationState) error
}

// Server exposes the chat API and the WhatsApp webhook over net/http.
type Server struct {
	wf   TurnRunner
	repo model.StateRepository
}

func New(wf TurnRunner, repo model.StateRepository) *Server {
	return &Server{wf: wf, repo: repo}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/reset", s.handleReset)
	mux.HandleFunc("POST /webhook/whatsapp", s.handleWhatsApp)
	mux.HandleFunc("GET /webhook/whatsapp", s.handleWhatsAppVerify)
	return mux
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	UserID       string `json:"user_id"`
	Response     string `json:"response"`
	LeadCaptured bool   `json:"lead_captured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Social-to-Lead API",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errx.BadRequest("invalid JSON body"))
		return
	}
	if req.UserID == "" || req.Message == "" {
		writeError(w, errx.BadRequest("user_id and message required"))
		return
	}

	state, reply, err := s.runTurn(r.Context(), req.UserID, req.Message)
	if err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("chat turn failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		UserID:       req.UserID,
		Response:     reply,
		LeadCaptured: state.LeadCaptured,
	})
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errx.BadRequest("invalid JSON body"))
		return
	}
	if req.UserID == "" {
		writeError(w, errx.BadRequest("user_id required"))
		return
	}

	if err := s.repo.Clear(r.Context(), req.UserID); err != nil {
		logx.Error().Err(err).Str("user_id", req.UserID).Msg("reset failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "State cleared for " + req.UserID,
	})
}

// runTurn is the load → append → invoke → save cycle shared by both
// channels. State is only saved after the workflow succeeds, so a failed
// turn leaves the persisted state untouched.
func (s *Server) runTurn(ctx context.Context, userID, message string) (*model.ConversationState, string, error) {
	state, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	state.AppendUser(message)

	if err := s.wf.Invoke(ctx, state); err != nil {
		return nil, "", err
	}

	reply := ""
	if n := len(state.Messages); n > 0 {
		reply = state.Messages[n-1].Content
	}

	if err := s.repo.Save(ctx, userID, state); err != nil {
		return nil, "", err
	}
	return state, reply, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	detail := errx.SystemErrorMessage
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		detail = appErr.Message
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}
