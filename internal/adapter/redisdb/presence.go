package redisdb

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gocab/internal/domain/models"
	"gocab/pkg/uuid"
)

const driverGeoKey = "drivers:geo"

// PresenceIndex keeps online drivers in a Redis geo set so the matcher can
// answer radius queries without touching the database.
type PresenceIndex struct {
	client *redis.Client
}

func NewPresenceIndex(client *redis.Client) *PresenceIndex {
	return &PresenceIndex{client: client}
}

// Update upserts a driver's position. Called on every location ping.
func (p *PresenceIndex) Update(ctx context.Context, driverID uuid.UUID, loc models.Location) error {
	err := p.client.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: loc.Longitude,
		Latitude:  loc.Latitude,
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd driver location: %w", err)
	}
	return nil
}

// Remove takes a driver out of the index when they go offline.
func (p *PresenceIndex) Remove(ctx context.Context, driverID uuid.UUID) error {
	if err := p.client.ZRem(ctx, driverGeoKey, driverID.String()).Err(); err != nil {
		return fmt.Errorf("remove driver location: %w", err)
	}
	return nil
}

// Nearby returns every online driver within radiusKm of center, closest
// first.
func (p *PresenceIndex) Nearby(ctx context.Context, center models.Location, radiusKm float64) ([]models.DriverPresence, error) {
	locations, err := p.client.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Longitude,
			Latitude:   center.Latitude,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch drivers: %w", err)
	}

	drivers := make([]models.DriverPresence, 0, len(locations))
	for _, loc := range locations {
		id, err := uuid.Parse(loc.Name)
		if err != nil {
			// A malformed member should not break matching for the rest.
			continue
		}
		drivers = append(drivers, models.DriverPresence{
			DriverID: id,
			Location: models.Location{
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			},
		})
	}
	return drivers, nil
}
