package ride

import (
	"context"
	"errors"
	"math"

	"gocab/internal/domain/types"
)

// Pricing tables, fixed per vehicle class.
type fareRate struct {
	base   float64
	perKm  float64
	perMin float64
}

var fareTable = map[types.VehicleClass]fareRate{
	types.VehicleAuto: {base: 30, perKm: 10, perMin: 1},
	types.VehicleCar:  {base: 50, perKm: 15, perMin: 2},
	types.VehicleMoto: {base: 20, perKm: 8, perMin: 1},
}

var ErrEmptyAddress = errors.New("pickup and destination are required")

// calculateFare prices a single class: base + km*perKm + min*perMin,
// rounded to the nearest integer currency unit.
func calculateFare(class types.VehicleClass, distanceKm, durationMin float64) int64 {
	rate := fareTable[class]
	return int64(math.Round(rate.base + distanceKm*rate.perKm + durationMin*rate.perMin))
}

// calculateFares prices every class from one distance/duration lookup.
func calculateFares(distanceKm, durationMin float64) map[types.VehicleClass]int64 {
	fares := make(map[types.VehicleClass]int64, len(fareTable))
	for _, class := range types.VehicleClasses() {
		fares[class] = calculateFare(class, distanceKm, durationMin)
	}
	return fares
}

// distanceTime validates the addresses before spending a provider call.
func (s *RideService) distanceTime(ctx context.Context, pickup, destination string) (float64, float64, error) {
	if pickup == "" || destination == "" {
		return 0, 0, ErrEmptyAddress
	}
	return s.maps.DistanceTime(ctx, pickup, destination)
}
