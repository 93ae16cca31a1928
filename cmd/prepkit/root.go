package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amishk599/prepkit/internal/ai"
	"github.com/amishk599/prepkit/internal/config"
	"github.com/amishk599/prepkit/internal/gateway"
	"github.com/amishk599/prepkit/internal/media"
	"github.com/amishk599/prepkit/internal/prep"
	"github.com/amishk599/prepkit/internal/tui"
)

// lineWidth is the wrap width of line-mode output.
const lineWidth = 80

var (
	cfgPath string
	logFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "prepkit",
	Short: "Career prep toolkit: mock interviews, resume optimization, company research",
	Long: "prepkit runs mock interviews against the career toolkit backend, optimizes\n" +
		"resumes for a job description and researches companies and roles.\n" +
		"Without a subcommand it starts the full-screen interface.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: PREPKIT_CONFIG env var or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (the full-screen interface logs nowhere otherwise)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > PREPKIT_CONFIG env var > default path.
// Only the default path may be missing, in which case defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if env := os.Getenv("PREPKIT_CONFIG"); env != "" {
		return config.Load(env)
	}
	return config.LoadOrDefault(config.DefaultPath())
}

// setupLogger returns a slog logger backed by charmbracelet/log. In
// full-screen mode nothing may write to the terminal, so logs go to
// --log-file or are discarded.
func setupLogger(fullScreen bool) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case fullScreen:
		w = io.Discard
	}

	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "prepkit",
	})
	return slog.New(handler), closeFn, nil
}

func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.LLMProvider, error) {
	var (
		p   ai.LLMProvider
		err error
	)
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		p, err = ai.NewGeminiProvider(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
	case config.ProviderOpenAI:
		p, err = ai.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	default:
		p = ai.NewBackendProvider(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.LLM.Timeout})
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.LLM.Provider, err)
	}
	logger.Info("llm provider configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return ai.NewTimeoutProvider(p, cfg.LLM.Timeout, logger), nil
}

func newSource(cfg config.MediaConfig) media.Source {
	switch {
	case cfg.Disabled:
		return media.DeniedSource{}
	case cfg.Command == "":
		return media.DefaultRecorder
	default:
		return media.CommandSource{Name: cfg.Command, Args: cfg.Args}
	}
}

// env is everything a command needs, wired from the config.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	ctrl   *prep.Controller
	close  func()
}

func setup(ctx context.Context, fullScreen bool) (*env, error) {
	logger, closeLog, err := setupLogger(fullScreen)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		closeLog()
		return nil, err
	}
	logger.Debug("config loaded",
		"backend", cfg.Backend.BaseURL,
		"provider", cfg.LLM.Provider,
		"max_follow_ups", cfg.Interview.MaxFollowUps,
		"media_disabled", cfg.Media.Disabled,
	)

	llm, err := newProvider(ctx, cfg, logger)
	if err != nil {
		closeLog()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	gw := gateway.New(cfg.Backend.BaseURL, httpClient, llm, logger, gateway.WithFallbackDelay(cfg.Research.FallbackDelay))
	capture := media.NewCapture(newSource(cfg.Media), logger)
	ctrl := prep.New(gw, capture, cfg.Interview.MaxFollowUps, cfg.Resume.DownloadDir, logger)

	return &env{
		cfg:    cfg,
		logger: logger,
		ctrl:   ctrl,
		close: func() {
			ctrl.Shutdown()
			closeLog()
		},
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	e, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer e.close()

	return tui.Run(ctx, e.ctrl)
}
