package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/inflx/social-to-lead/internal/agent/leads"
	"github.com/inflx/social-to-lead/internal/agent/model"
	"github.com/inflx/social-to-lead/internal/agent/repo"
	"github.com/inflx/social-to-lead/internal/agent/retriever"
	"github.com/inflx/social-to-lead/internal/agent/workflow"
	"github.com/inflx/social-to-lead/internal/core"
	"github.com/inflx/social-to-lead/internal/server"
	logx "github.com/inflx/social-to-lead/pkg/logger"
	pkgredis "github.com/inflx/social-to-lead/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        int    `envconfig:"PORT" default:"8000"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Response     model.ResponseModelConfig
	Prompt       model.PromptConfig
	Retriever    model.RetrieverConfig
	Generate     model.GenerateConfig
	Conversation model.ConversationConfig
}

func main() {
	cli := flag.Bool("cli", false, "run the interactive console loop instead of the HTTP server")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	kb, err := retriever.NewKeywordRetriever()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load knowledge base")
	}

	wf, err := workflow.Build(ctx, workflow.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: cfg.Classifier,
		Response:   cfg.Response,
		Prompt:     cfg.Prompt,
		Retrieval:  cfg.Retriever,
		Generate:   cfg.Generate,
		Retriever:  kb,
		LeadSink:   leads.NewLogSink(),
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build workflow")
	}

	if *cli {
		runCLI(ctx, wf)
		return
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.StateTTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", cfg.Conversation.StateTTL).Msg("invalid CONVERSATION_STATE_TTL")
	}

	srv := server.New(wf, repo.NewRedisStateRepository(rdb, ttl))
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	go func() {
		logx.Info().Int("port", cfg.Port).Msg("Social-to-Lead API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("shutdown error")
	}
	logx.Info().Msg("server stopped")
}

// runCLI drives the workflow from the terminal with in-memory state.
func runCLI(ctx context.Context, wf *workflow.Workflow) {
	fmt.Println("---Inflx Social-to-Lead Agentic Workflow is running---")
	fmt.Println(`Type "quit" to exit.`)

	state := model.NewConversationState()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "quit" || lower == "exit" {
			break
		}

		state.AppendUser(input)
		if err := wf.Invoke(ctx, state); err != nil {
			logx.Error().Err(err).Msg("turn failed")
			fmt.Println("Agent: Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Printf("Agent: %s\n", state.Messages[len(state.Messages)-1].Content)
	}
}
