package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garsondee/Flattop/internal/server"
)

func main() {
	var configPath string
	var addr string

	flag.StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	flag.StringVar(&addr, "addr", "", "listen address (overrides the config file)")
	flag.Parse()

	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		// The logger is not up yet; this is the one place stderr is it.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	if err := server.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer server.SyncLogger()

	metrics := &server.Metrics{}
	lobby := server.NewLobby()
	go lobby.Run()
	arena := server.NewArena(cfg, metrics, lobby)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS(arena))
	mux.HandleFunc("/ws/lobby", lobby.HandleLobbyWS)
	mux.HandleFunc("/api/matches", arena.HandleMatches)
	mux.HandleFunc("/api/matches/join", arena.HandleJoin)
	mux.HandleFunc("/metricsz", arena.HandleMetricsz)
	mux.HandleFunc("/healthz", server.HandleHealthz)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		server.Log.Infow("listening", "addr", cfg.Addr,
			"turn_timeout", cfg.TurnTimeout().String(), "bot_difficulty", cfg.BotDifficulty)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalw("serve", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	server.Log.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnw("shutdown", "err", err)
	}
}
