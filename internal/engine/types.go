package engine

import "fmt"

// CourseRow is one raw course record as parsed by the ingestion adapter.
// A field the adapter cannot parse is the adapter's SchemaError to raise;
// the Normalizer raises SchemaError for empty text fields and non-positive
// grade, credit_hours, or enrollment.
type CourseRow struct {
	Department  string
	Subject     string
	Grade       int
	ProfessorID string
	CreditHours int
	Enrollment  int
}

// RoomRow is one raw room record.
type RoomRow struct {
	RoomID   string
	Capacity int
}

// PreferredRoomRow is one raw preferred-room preference record.
type PreferredRoomRow struct {
	ProfessorID string
	RoomID      string
}

// PreferredDayRow is one raw preferred-day preference record.
type PreferredDayRow struct {
	ProfessorID string
	Day         string
}

// Course is a normalized, uniquely identified course section.
type Course struct {
	ID            string
	SubjectName   string
	Grade         int
	Section       string
	Department    string
	ProfessorID   string
	Enrollment    int
	DurationHours int
	GroupID       string
}

// Room is a normalized classroom.
type Room struct {
	ID       string
	Capacity int
}

// PreferredRoomKey identifies a professor's preference for a room.
type PreferredRoomKey struct {
	ProfessorID string
	RoomID      string
}

// PreferredDayKey identifies a professor's preference for a day.
type PreferredDayKey struct {
	ProfessorID string
	Day         int
}

// PreferredRoomSet is the set of (professor, room) preference pairs.
type PreferredRoomSet map[PreferredRoomKey]struct{}

// PreferredDaySet is the set of (professor, day) preference pairs.
type PreferredDaySet map[PreferredDayKey]struct{}

// Warning is a non-fatal condition surfaced during normalization, such as a
// malformed preference row that was ignored.
type Warning struct {
	Kind    string
	Message string
}

// Placement is one committed (course, room, day, start hour) assignment.
type Placement struct {
	CourseID      string
	RoomID        string
	Day           int
	StartHour     int
	DurationHours int
}

// UnassignedCourse records a course the solver could not place, along with
// the reason.
type UnassignedCourse struct {
	CourseID    string
	SubjectName string
	Grade       int
	Reason      string
}

// Status is the terminal state of a solve attempt.
type Status int

const (
	// StatusOptimal means the solver proved optimality within the time limit.
	StatusOptimal Status = iota
	// StatusFeasible means the solver returned a feasible, not provably
	// optimal, incumbent when the time limit was reached.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies every hard constraint.
	StatusInfeasible
	// StatusSolverError means the solver itself failed (no incumbent, no
	// proof of infeasibility).
	StatusSolverError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusSolverError:
		return "solver_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// SolveResult is the outcome of a single Solve call.
type SolveResult struct {
	Status           Status
	Placements       []Placement
	Unassigned       []UnassignedCourse
	ObjectiveValue   float64
	SolverStatusText string
	Warnings         []Warning
}

func indexCoursesByID(courses []Course) map[string]Course {
	out := make(map[string]Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}

func indexRoomsByID(rooms []Room) map[string]Room {
	out := make(map[string]Room, len(rooms))
	for _, r := range rooms {
		out[r.ID] = r
	}
	return out
}
