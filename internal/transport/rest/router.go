package rest

import (
	"net/http"

	"github.com/heartmarshall/slide-atlas/internal/transport/middleware"
)

// Routes groups the handlers and per-route middleware served by NewRouter.
type Routes struct {
	Slides *SlideHandler
	Health *HealthHandler

	// Loaders installs per-request DataLoaders on the listing route.
	Loaders middleware.Middleware
	// ViewportLimit throttles viewport resolution.
	ViewportLimit middleware.Middleware
}

// NewRouter registers every endpoint on a fresh ServeMux.
func NewRouter(rt Routes) *http.ServeMux {
	loaders := orIdentity(rt.Loaders)
	limit := orIdentity(rt.ViewportLimit)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.Handle("GET /api/slides", loaders(http.HandlerFunc(rt.Slides.Search)))
	mux.HandleFunc("GET /api/slides/{id}", rt.Slides.Get)
	mux.Handle("GET /api/slides/{id}/viewport", limit(http.HandlerFunc(rt.Slides.Viewport)))
	mux.Handle("POST /api/slides/{id}/viewport", limit(http.HandlerFunc(rt.Slides.Viewport)))

	return mux
}

func orIdentity(mw middleware.Middleware) middleware.Middleware {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
