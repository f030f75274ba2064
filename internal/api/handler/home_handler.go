package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/view"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HomeHandler struct {
	pageRenderer
	health HealthChecker
}

func NewHomeHandler(renderer *view.Renderer, health HealthChecker) *HomeHandler {
	if renderer == nil {
		panic("renderer cannot be nil")
	}
	return &HomeHandler{
		pageRenderer: pageRenderer{renderer: renderer},
		health:       health,
	}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", "", nil)
}

// Healthz 有設定 HealthChecker 時一併檢查資料庫
func (h *HomeHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
	}
	_, _ = w.Write([]byte("ok"))
}
