package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gocab/config"
	"gocab/internal/adapter/http/handler"
	"gocab/internal/adapter/http/middleware"
	"gocab/pkg/logger"
	wrap "gocab/pkg/logger/wrapper"
	wshub "gocab/pkg/wsHub"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	auth   *handler.Auth
	ride   *handler.Ride
	driver *handler.Driver
	maps   *handler.Maps
	ws     *handler.WS
	health *handler.Health
}

type Deps struct {
	Auth     handler.AuthService
	AuthMid  middleware.AuthService
	Rides    handler.RideService
	Presence handler.PresenceService
	Maps     handler.RouteProvider
	Hub      *wshub.ConnectionHub
	Version  string
}

func New(cfg config.Config, deps Deps, log logger.Logger) (*API, error) {
	if deps.Auth == nil || deps.AuthMid == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		auth:   handler.NewAuth(deps.Auth, log),
		ride:   handler.NewRide(deps.Rides, log),
		driver: handler.NewDriver(deps.Presence, log),
		maps:   handler.NewMaps(deps.Maps, log),
		ws:     handler.NewWS(deps.Hub, log),
		health: handler.NewHealth(deps.Version),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(deps.AuthMid, log),
		addr:   cfg.HTTP.Addr(),
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),

		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	api.setupRoutes()

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies the global middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(a.m.Logging(a.m.Auth(a.mux)))))
}
