package ride

import (
	"testing"

	"gocab/internal/domain/types"
)

func TestCalculateFare(t *testing.T) {
	tests := []struct {
		name        string
		class       types.VehicleClass
		distanceKm  float64
		durationMin float64
		want        int64
	}{
		{"auto short hop", types.VehicleAuto, 2, 6, 56},
		{"auto zero route", types.VehicleAuto, 0, 0, 30},
		{"car long haul", types.VehicleCar, 1000, 900, 16850},
		{"car rounds up", types.VehicleCar, 1.5, 2.1, 77},  // 50 + 22.5 + 4.2 = 76.7
		{"moto rounds down", types.VehicleMoto, 3.3, 7, 53}, // 20 + 26.4 + 7 = 53.4
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateFare(tt.class, tt.distanceKm, tt.durationMin); got != tt.want {
				t.Errorf("calculateFare(%s, %v, %v) = %d, want %d",
					tt.class, tt.distanceKm, tt.durationMin, got, tt.want)
			}
		})
	}
}

func TestCalculateFaresCoversEveryClass(t *testing.T) {
	fares := calculateFares(10, 30)

	if len(fares) != len(types.VehicleClasses()) {
		t.Fatalf("got %d classes, want %d", len(fares), len(types.VehicleClasses()))
	}
	for _, class := range types.VehicleClasses() {
		if _, ok := fares[class]; !ok {
			t.Errorf("missing fare for class %q", class)
		}
	}
	// moto is always the cheapest tier.
	if fares[types.VehicleMoto] >= fares[types.VehicleAuto] || fares[types.VehicleAuto] >= fares[types.VehicleCar] {
		t.Errorf("expected moto < auto < car ordering, got %v", fares)
	}
}
