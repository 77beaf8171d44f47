package leads

import (
	"context"
	"fmt"

	"github.com/inflx/social-to-lead/internal/agent/model"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// LogSink is the stand-in backend for captured leads: it logs the lead and
// returns the confirmation line the lead agent appends to its reply. A CRM
// delivery client implements model.LeadSink the same way.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Capture(_ context.Context, lead model.Lead) (string, error) {
	logx.Info().
		Str("name", lead.Name).
		Str("email", lead.Email).
		Str("platform", lead.Platform).
		Msg("lead captured")
	return fmt.Sprintf("Lead captured: %s, %s, %s", lead.Name, lead.Email, lead.Platform), nil
}

var _ model.LeadSink = (*LogSink)(nil)
