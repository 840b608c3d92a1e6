package engine

// Grid exposes the time-slot enumeration derived from a Config: days as
// 0-indexed positions into Config.Days and hours on the half-open
// [HourMin, HourEnd) range. Built fresh per call, never shared mutable
// state.
type Grid struct {
	cfg   Config
	hours []int
}

// NewGrid derives the enumerable hour range from cfg.
func NewGrid(cfg Config) Grid {
	hours := make([]int, 0, cfg.HourEnd-cfg.HourMin)
	for h := cfg.HourMin; h < cfg.HourEnd; h++ {
		hours = append(hours, h)
	}
	return Grid{cfg: cfg, hours: hours}
}

// Days returns the 0-indexed day positions, Monday first.
func (g Grid) Days() []int {
	days := make([]int, len(g.cfg.Days))
	for i := range days {
		days[i] = i
	}
	return days
}

// Hours returns every hour in the grid, in ascending order.
func (g Grid) Hours() []int {
	return g.hours
}

// NumHours reports how many hour slots the grid has per day.
func (g Grid) NumHours() int {
	return len(g.hours)
}

// ValidStarts returns every hour at which a block of the given duration
// can start without running past the end of the day.
func (g Grid) ValidStarts(duration int) []int {
	var starts []int
	for _, h := range g.hours {
		if h+duration <= g.cfg.HourEnd {
			starts = append(starts, h)
		}
	}
	return starts
}

// DayName returns the configured label for a 0-indexed day position.
func (g Grid) DayName(day int) string {
	if day < 0 || day >= len(g.cfg.Days) {
		return ""
	}
	return g.cfg.Days[day]
}
