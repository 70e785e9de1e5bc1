package docs

// @title           gocab API
// @version         1.0
// @description     Ride-hailing backend: rider and driver accounts, fare quotes, ride lifecycle (request, confirm, start with OTP, end) and live websocket notifications.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @Summary      Register a new user
// @Description  Creates a rider or driver account and returns an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      409  "email already registered"
// @Failure      422  "validation failed"
// @Router       /v1/auth/register [post]

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      401  "invalid email or password"
// @Router       /v1/auth/login [post]

// @Summary      Logout
// @Description  Revokes the presented token for its remaining lifetime.
// @Tags         auth
// @Security     BearerAuth
// @Success      200
// @Router       /v1/auth/logout [post]

// @Summary      Current user profile
// @Tags         auth
// @Security     BearerAuth
// @Success      200
// @Router       /v1/auth/me [get]

// @Summary      Create a ride request
// @Description  Prices the route, stores the ride and returns it with the rider's OTP.
// @Tags         rides
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      422  "validation failed"
// @Router       /v1/rides [post]

// @Summary      Quote fares for a route
// @Tags         rides
// @Security     BearerAuth
// @Param        pickup       query  string  true  "pickup address"
// @Param        destination  query  string  true  "destination address"
// @Success      200
// @Router       /v1/rides/fare [get]

// @Summary      Confirm a ride
// @Description  Assigns the calling driver. First driver wins; later calls get 409.
// @Tags         rides
// @Security     BearerAuth
// @Success      200
// @Failure      409  "ride already accepted"
// @Router       /v1/rides/{ride_id}/confirm [post]

// @Summary      Start a ride
// @Description  Requires the rider's OTP. Only the assigned driver may start.
// @Tags         rides
// @Security     BearerAuth
// @Success      200
// @Failure      400  "invalid otp"
// @Failure      403  "not the assigned driver"
// @Router       /v1/rides/{ride_id}/start [post]

// @Summary      End a ride
// @Description  Completes an ongoing ride. Repeating the call is idempotent.
// @Tags         rides
// @Security     BearerAuth
// @Success      200
// @Failure      409  "ride not eligible to end"
// @Router       /v1/rides/{ride_id}/end [post]

// @Summary      Update driver location
// @Tags         drivers
// @Security     BearerAuth
// @Success      200
// @Router       /v1/drivers/location [post]

// @Summary      Driver goes offline
// @Tags         drivers
// @Security     BearerAuth
// @Success      200
// @Router       /v1/drivers/offline [post]

// @Summary      Websocket notifications
// @Description  Upgrades to a websocket session delivering new-ride, ride-started and ride-ended events.
// @Tags         ws
// @Security     BearerAuth
// @Router       /v1/ws [get]
