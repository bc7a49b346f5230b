package httpserver

import (
	"net/http"
	"time"

	"hospital-admin-go/internal/config"
)

// New builds the HTTP server. No read or write timeout is set on the server
// itself: uploads and the realtime websocket are long-lived, and regular API
// routes get their deadline from the router's timeout middleware.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 16,
	}
}
