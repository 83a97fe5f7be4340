package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/shared/config"
	"github.com/h2w/wager-platform/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New("api-gateway", cfg.Env)
	defer log.Sync()

	// targets
	wagerURL := os.Getenv("WAGER_URL")
	if wagerURL == "" {
		wagerURL = "http://localhost:8082"
	}
	accountURL := os.Getenv("ACCOUNT_URL")
	if accountURL == "" {
		accountURL = "http://localhost:8083"
	}
	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		feedURL = "http://localhost:8084"
	}
	wagerProxy := rp(wagerURL)
	accountProxy := rp(accountURL)
	feedProxy := rp(feedURL)

	mux := http.NewServeMux()

	// auth (ex.: /api/auth/* -> account-service)
	mux.Handle("/api/auth/", http.StripPrefix("/api", accountProxy))

	// apostas e carteira (ex.: /api/wagers, /api/wallet/* -> wager-service)
	mux.Handle("/api/wagers", http.StripPrefix("/api", wagerProxy))
	mux.Handle("/api/wagers/", http.StripPrefix("/api", wagerProxy))
	mux.Handle("/api/wallet", http.StripPrefix("/api", wagerProxy))
	mux.Handle("/api/wallet/", http.StripPrefix("/api", wagerProxy))

	// feed de saldo (ws upgrade passa pelo proxy)
	mux.Handle("/ws/balance", feedProxy)

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway", zap.Error(err))
	}
}
