package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/classplan/timetable/pkg/errors"
)

func requireInvariantError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrInvariant.Code, appErr.Code)
}

func TestValidatePlacements_DetectsRoomConflict(t *testing.T) {
	courses := []Course{
		{ID: "c1", ProfessorID: "p1", GroupID: "g1", Enrollment: 10},
		{ID: "c2", ProfessorID: "p2", GroupID: "g2", Enrollment: 10},
	}
	rooms := []Room{{ID: "R1", Capacity: 30}}
	placements := []Placement{
		{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 2},
		{CourseID: "c2", RoomID: "R1", Day: 0, StartHour: 10, DurationHours: 1},
	}

	err := validatePlacements(placements, courses, rooms, DefaultConfig())
	requireInvariantError(t, err)
}

func TestValidatePlacements_DetectsProfessorConflict(t *testing.T) {
	courses := []Course{
		{ID: "c1", ProfessorID: "shared", GroupID: "g1", Enrollment: 10},
		{ID: "c2", ProfessorID: "shared", GroupID: "g2", Enrollment: 10},
	}
	rooms := []Room{{ID: "R1", Capacity: 30}, {ID: "R2", Capacity: 30}}
	placements := []Placement{
		{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 1},
		{CourseID: "c2", RoomID: "R2", Day: 0, StartHour: 9, DurationHours: 1},
	}

	err := validatePlacements(placements, courses, rooms, DefaultConfig())
	require.Error(t, err)
}

func TestValidatePlacements_DetectsCapacityViolation(t *testing.T) {
	courses := []Course{{ID: "c1", ProfessorID: "p1", GroupID: "g1", Enrollment: 50}}
	rooms := []Room{{ID: "R1", Capacity: 30}}
	placements := []Placement{{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 1}}

	err := validatePlacements(placements, courses, rooms, DefaultConfig())
	require.Error(t, err)
}

func TestValidatePlacements_DetectsEndOfDayOverrun(t *testing.T) {
	cfg := DefaultConfig()
	courses := []Course{{ID: "c1", ProfessorID: "p1", GroupID: "g1", Enrollment: 10}}
	rooms := []Room{{ID: "R1", Capacity: 30}}
	placements := []Placement{{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: cfg.HourEnd - 1, DurationHours: 2}}

	err := validatePlacements(placements, courses, rooms, cfg)
	require.Error(t, err)
}

func TestValidatePlacements_NonOverlappingIsFine(t *testing.T) {
	courses := []Course{
		{ID: "c1", ProfessorID: "p1", GroupID: "g1", Enrollment: 10},
		{ID: "c2", ProfessorID: "p1", GroupID: "g2", Enrollment: 10},
	}
	rooms := []Room{{ID: "R1", Capacity: 30}}
	placements := []Placement{
		{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 1},
		{CourseID: "c2", RoomID: "R1", Day: 0, StartHour: 10, DurationHours: 1},
	}

	err := validatePlacements(placements, courses, rooms, DefaultConfig())
	require.NoError(t, err)
}
