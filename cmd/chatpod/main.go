package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/boat-builder/chatpod"
	"github.com/boat-builder/chatpod/llm"
	"github.com/boat-builder/chatpod/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	configPath string
	addr       string
	provider   string
	model      string
	baseURL    string
	tagSession bool
)

var rootCmd = &cobra.Command{
	Use:   "chatpod",
	Short: "Browser chat interface for hosted language models",
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat web server",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	startCmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides config)")
	startCmd.Flags().StringVar(&provider, "provider", "", "Model provider: gemini, openai or mock")
	startCmd.Flags().StringVar(&model, "model", "", "Model name (overrides config)")
	startCmd.Flags().StringVar(&baseURL, "base-url", "", "Model API base URL (overrides config)")
	startCmd.Flags().BoolVar(&tagSession, "tag-sessions", false, "Send the session ID as custom_identifier (OpenAI gateways only)")
	rootCmd.AddCommand(startCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and applies the start flags on top. The
// provider credential is resolved from the final provider, so --provider
// picks up that provider's key.
func loadConfig() (*chatpod.Config, error) {
	cfg, err := chatpod.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if provider != "" {
		cfg.Provider = strings.ToLower(provider)
	}
	if model != "" {
		cfg.Model = model
	}
	if baseURL != "" {
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		cfg.BaseURL = baseURL
	}
	if tagSession {
		cfg.TagSessions = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := llm.New(ctx, cfg.LLMConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}
	defer client.Close()
	logger.Info("Model client ready", "model", client.Name())

	pod := chatpod.NewPod(client, chatpod.WithSessionTTL(cfg.SessionTTL), chatpod.WithLogger(logger))
	pod.Start(ctx)
	defer pod.Close()

	server := web.NewServer(pod, web.Options{
		Addr:         cfg.Addr,
		AllowOrigins: cfg.AllowOrigins,
		ModelName:    client.Name(),
		Logger:       logger,
	})
	return server.Run(ctx)
}
