package workflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/inflx/social-to-lead/internal/core/errx"
	logx "github.com/inflx/social-to-lead/pkg/logger"
)

// callPolicy bounds a single generation call: a per-attempt timeout and a
// small retry budget for transient failures.
type callPolicy struct {
	timeout    time.Duration
	maxRetries int
}

func (p callPolicy) generate(ctx context.Context, llm einomodel.BaseChatModel, msgs []*schema.Message) (*schema.Message, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		callCtx := ctx
		cancel := func() {}
		if p.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}

		out, err := llm.Generate(callCtx, msgs)
		cancel()
		if err == nil {
			if out == nil {
				return nil, errx.New(fmt.Errorf("model returned nil message"), http.StatusBadGateway, errx.UpstreamErrorMessage)
			}
			return out, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		logx.Warn().Err(err).Int("attempt", attempt+1).Msg("generation attempt failed")
	}
	return nil, errx.New(lastErr, http.StatusBadGateway, errx.UpstreamErrorMessage)
}
