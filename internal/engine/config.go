package engine

import "time"

// Weights holds the objective coefficients for the MILP model.
type Weights struct {
	Size           float64
	RoomPreference float64
	DayPreference  float64
}

// Config carries every tunable the engine needs: the time grid, the
// objective weights, the default room capacity, and solver tuning knobs.
// There is no package-level global state; every call site threads its own
// Config through.
type Config struct {
	Days                []string
	HourMin             int
	HourEnd             int
	DefaultRoomCapacity int
	Weights             Weights
	TimeLimit           time.Duration
}

// DefaultConfig returns the grid and weights named in the scheduling rules:
// Monday through Friday, 09:00 to 18:00, with the default reward/penalty
// weights used unless overridden by pkg/config.
func DefaultConfig() Config {
	return Config{
		Days:                []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		HourMin:             9,
		HourEnd:             18,
		DefaultRoomCapacity: 40,
		Weights: Weights{
			Size:           50,
			RoomPreference: 100,
			DayPreference:  25,
		},
		TimeLimit: 30 * time.Second,
	}
}
