package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/majordomo-ai/majordomo/internal/api"
	"github.com/majordomo-ai/majordomo/internal/capability"
	"github.com/majordomo-ai/majordomo/internal/capability/desktop"
	"github.com/majordomo-ai/majordomo/internal/capability/gemini"
	"github.com/majordomo-ai/majordomo/internal/capability/langdetect"
	"github.com/majordomo-ai/majordomo/internal/capability/newsapi"
	"github.com/majordomo-ai/majordomo/internal/capability/openweather"
	"github.com/majordomo-ai/majordomo/internal/config"
	"github.com/majordomo-ai/majordomo/internal/digest"
	"github.com/majordomo-ai/majordomo/internal/dispatcher"
	"github.com/majordomo-ai/majordomo/internal/platform/factory"
	"github.com/majordomo-ai/majordomo/internal/platform/logger"
	"github.com/majordomo-ai/majordomo/internal/scheduler"
	"github.com/majordomo-ai/majordomo/internal/state"
)

func main() {
	var dbDriver string

	rootCmd := &cobra.Command{
		Use:   "majordomo",
		Short: "Voice-assistant backend: command interpretation, reminders and chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dbDriver)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Override MAJORDOMO_DB_DRIVER (sqlite, postgres)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assistant HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(dbDriver)
		},
	}
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dbDriverOverride string) error {
	log := logger.New("majordomo")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if dbDriverOverride != "" {
		cfg.DBDriver = dbDriverOverride
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	// -------- Storage layer -----------------
	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage adapter unavailable")
	}
	defer func() { _ = st.Close() }()

	// -------- Capabilities ------------------
	notifier := desktop.NewNotifier(log)
	caps := dispatcher.Capabilities{
		Notifier: notifier,
		System:   desktop.NewSystem(),
		Audio:    desktop.NewAudio(),
		Display:  desktop.NewDisplay(),
		Launcher: desktop.NewLauncher(),
		Browser:  desktop.NewBrowser(),
		Camera:   desktop.NewCamera(log),
	}
	if cfg.WeatherAPIKey != "" {
		caps.Weather = openweather.New(cfg.WeatherAPIKey, "")
	}
	var news capability.News
	if cfg.NewsAPIKey != "" {
		news = newsapi.New(cfg.NewsAPIKey, "")
		caps.News = news
	}
	var completion capability.Completion
	if cfg.GeminiAPIKey != "" {
		completion = gemini.New(cfg.GeminiAPIKey, "")
		caps.Completion = completion
	}

	// -------- Reminder scheduler ------------
	sched := scheduler.New(st, notifier, log)
	if err := sched.Reload(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to reload persisted reminders")
	}
	defer sched.Stop()

	// -------- Daily digest ------------------
	if news != nil {
		interval, err := time.ParseDuration(cfg.DigestPollInterval)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid DIGEST_POLL_INTERVAL")
		}
		runner, err := digest.New(news, notifier, cfg.DigestTime, interval, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid digest configuration")
		}
		runner.Start()
		defer runner.Stop()
	}

	// -------- Dispatcher & Router -----------
	proc := state.New()
	disp := dispatcher.New(st, sched, proc, caps, cfg.WakeName, cfg.DefaultCity, log)
	srv := api.NewServer(disp, st, proc, caps.Camera, completion, langdetect.New(), log)

	server := &http.Server{
		Handler:      srv.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Bind the first free port from the fallback list.
	ports, err := cfg.ParsePorts()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid HTTP_PORTS")
	}
	var ln net.Listener
	var port int
	for _, p := range ports {
		l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Host, p))
		if err != nil {
			log.Warn().Int("port", p).Err(err).Msg("port unavailable, trying next")
			continue
		}
		ln, port = l, p
		break
	}
	if ln == nil {
		log.Fatal().Str("ports", cfg.HTTPPorts).Msg("no free port in HTTP_PORTS")
	}
	proc.SetAddr(cfg.Host, port)

	go func() {
		log.Info().Int("port", port).Str("url", proc.SelfURL()).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
	return nil
}
