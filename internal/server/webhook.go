package server

import (
	"encoding/xml"
	"net/http"
	"strings"

	logx "github.com/inflx/social-to-lead/pkg/logger"
)

const (
	whatsappPrefix = "whatsapp:"

	resetAck       = "Conversation reset! How can I help you today?"
	turnFailureAck = "Sorry, something went wrong. Please try again."
)

// resetKeywords clear the conversation instead of running a turn.
var resetKeywords = map[string]bool{
	"reset":      true,
	"restart":    true,
	"start over": true,
}

// twimlResponse is the Twilio messaging reply envelope.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// handleWhatsApp processes a Twilio-compatible WhatsApp webhook post. The
// sender's number (minus the channel prefix) is the user id. Any failure
// inside the turn degrades to a fixed apology and skips the state save.
func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	userID := strings.TrimSpace(strings.TrimPrefix(from, whatsappPrefix))
	message := strings.TrimSpace(body)
	if userID == "" || message == "" {
		http.Error(w, "Body and From required", http.StatusBadRequest)
		return
	}

	if resetKeywords[strings.ToLower(message)] {
		if err := s.repo.Clear(r.Context(), userID); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Msg("webhook reset failed")
			writeTwiML(w, turnFailureAck)
			return
		}
		writeTwiML(w, resetAck)
		return
	}

	_, reply, err := s.runTurn(r.Context(), userID, message)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("webhook turn failed")
		writeTwiML(w, turnFailureAck)
		return
	}

	writeTwiML(w, reply)
}

// handleWhatsAppVerify answers webhook-setup health checks.
func (s *Server) handleWhatsAppVerify(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logx.Error().Err(err).Msg("failed to write verify response")
	}
}

func writeTwiML(w http.ResponseWriter, message string) {
	b, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		logx.Error().Err(err).Msg("failed to marshal TwiML response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append([]byte(xml.Header), b...)); err != nil {
		logx.Error().Err(err).Msg("failed to write TwiML response")
	}
}
