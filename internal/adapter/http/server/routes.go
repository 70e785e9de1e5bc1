package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"gocab/internal/domain/types"

	_ "gocab/docs" // swagger spec registration
)

func (a *API) setupRoutes() {
	mux, routes, m := a.mux, a.routes, a.m

	// System
	mux.HandleFunc("GET /health", routes.health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Auth
	mux.HandleFunc("POST /v1/auth/register", routes.auth.Register)
	mux.HandleFunc("POST /v1/auth/login", routes.auth.Login)
	mux.HandleFunc("POST /v1/auth/logout", routes.auth.Logout)
	mux.HandleFunc("GET /v1/auth/me", routes.auth.Profile)

	// Rides
	mux.Handle("POST /v1/rides", m.RequireRoles(routes.ride.CreateRide, types.RoleRider))
	mux.Handle("GET /v1/rides/fare", m.RequireRoles(routes.ride.GetFare, types.RoleRider, types.RoleDriver))
	mux.Handle("GET /v1/rides/{ride_id}", m.RequireRoles(routes.ride.GetRide, types.RoleRider, types.RoleDriver))
	mux.Handle("POST /v1/rides/{ride_id}/confirm", m.RequireRoles(routes.ride.ConfirmRide, types.RoleDriver))
	mux.Handle("POST /v1/rides/{ride_id}/start", m.RequireRoles(routes.ride.StartRide, types.RoleDriver))
	mux.Handle("POST /v1/rides/{ride_id}/end", m.RequireRoles(routes.ride.EndRide, types.RoleDriver))

	// Driver presence
	mux.Handle("POST /v1/drivers/location", m.RequireRoles(routes.driver.UpdateLocation, types.RoleDriver))
	mux.Handle("POST /v1/drivers/offline", m.RequireRoles(routes.driver.GoOffline, types.RoleDriver))

	// Maps
	mux.Handle("GET /v1/maps/geocode", m.RequireRoles(routes.maps.Geocode, types.RoleRider, types.RoleDriver))
	mux.Handle("GET /v1/maps/route", m.RequireRoles(routes.maps.Route, types.RoleRider, types.RoleDriver))

	// Live notifications
	mux.HandleFunc("GET /v1/ws", routes.ws.Connect)
}
