package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/serisow/abstractor/config"
)

// StatusHandler reports that the service is up.
type StatusHandler struct {
	cfg config.Config
}

func NewStatusHandler(cfg config.Config) *StatusHandler {
	return &StatusHandler{cfg: cfg}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "online",
		"service": h.cfg.ServiceName,
		"version": h.cfg.ServiceVersion,
	})
}
