package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/smoradi/zargar/internal/config"
	"github.com/smoradi/zargar/internal/stub"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	server := stub.NewServer(stub.NewStore(), stub.Options{
		Username:  cfg.API.Username,
		Password:  cfg.API.Password,
		JWTSecret: cfg.Stub.JWTSecret,
		TokenTTL:  cfg.Stub.TokenTTL,
	})

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	slog.Info("starting stub backend", "addr", addr)

	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
