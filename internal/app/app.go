package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"gocab/config"
	"gocab/internal/adapter/googlemaps"
	"gocab/internal/adapter/http/server"
	repo "gocab/internal/adapter/postgres"
	rabbitadapter "gocab/internal/adapter/rabbit"
	"gocab/internal/adapter/redisdb"
	wsadapter "gocab/internal/adapter/ws"
	"gocab/internal/service/auth"
	"gocab/internal/service/ride"
	"gocab/pkg/logger"
	"gocab/pkg/postgres"
	"gocab/pkg/rabbit"
	"gocab/pkg/trm"
	wshub "gocab/pkg/wsHub"
)

const version = "1.0.0"

// App owns every long-lived resource: the connection pools, the broker,
// the websocket hub, the HTTP server and the matcher consumer.
type App struct {
	db       *pgxpool.Pool
	redis    *goredis.Client
	broker   *rabbit.RabbitMQ
	hub      *wshub.ConnectionHub
	server   *server.API
	consumer *rabbitadapter.RideConsumer
	rides    *ride.RideService

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgres.New(ctx, postgres.Options{
		DSN:             cfg.Database.GetDSN(),
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Error(ctx, "failed to setup database", err)
		return nil, err
	}

	redisClient, err := redisdb.NewClient(ctx, cfg.Redis.Addr())
	if err != nil {
		log.Error(ctx, "failed to setup redis", err)
		db.Close()
		return nil, err
	}

	broker, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "failed to setup rabbitmq", err)
		db.Close()
		_ = redisClient.Close()
		return nil, err
	}

	routeProvider, err := googlemaps.NewRouteProvider(cfg.Maps.GoogleAPIKey, log)
	if err != nil {
		log.Error(ctx, "failed to setup maps client", err)
		db.Close()
		_ = redisClient.Close()
		_ = broker.Close(ctx)
		return nil, err
	}

	hub := wshub.NewConnHub(log)
	txManager := trm.New(db)

	userRepo := repo.NewUserRepo(db)
	rideRepo := repo.NewRideRepo(db)
	presence := redisdb.NewPresenceIndex(redisClient)
	blacklist := redisdb.NewTokenBlacklist(redisClient)
	dispatcher := wsadapter.NewDispatcher(hub, log)
	publisher := rabbitadapter.NewRideBroker(broker, log)

	authService := auth.NewAuthService(userRepo, blacklist, log, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	rideService := ride.NewRideService(
		rideRepo, userRepo, routeProvider, presence, dispatcher, publisher,
		txManager, log,
		ride.MatchingOptions{
			RadiusKm:             cfg.Matching.RadiusKm,
			FilterByVehicleClass: cfg.Matching.FilterByVehicleClass,
		},
	)

	httpServer, err := server.New(cfg, server.Deps{
		Auth:     authService,
		AuthMid:  authService,
		Rides:    rideService,
		Presence: presence,
		Maps:     routeProvider,
		Hub:      hub,
		Version:  version,
	}, log)
	if err != nil {
		log.Error(ctx, "failed to setup http server", err)
		db.Close()
		_ = redisClient.Close()
		_ = broker.Close(ctx)
		return nil, err
	}

	return &App{
		db:       db,
		redis:    redisClient,
		broker:   broker,
		hub:      hub,
		server:   httpServer,
		consumer: rabbitadapter.NewRideConsumer(broker, log),
		rides:    rideService,
		cfg:      cfg,
		log:      log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	a.server.Run(ctx, errCh)

	go func() {
		if err := a.consumer.ConsumeRideRequested(ctx, a.rides.HandleRideRequested); err != nil {
			errCh <- err
		}
	}()

	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started", "addr", a.cfg.HTTP.Addr())

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn(ctx, "failed to gracefully close http server", "error", err.Error())
	}

	a.hub.Close()

	if err := a.broker.Close(ctx); err != nil {
		a.log.Warn(ctx, "failed to close rabbitmq", "error", err.Error())
	}

	if err := a.redis.Close(); err != nil {
		a.log.Warn(ctx, "failed to close redis", "error", err.Error())
	}

	a.db.Close()
}
