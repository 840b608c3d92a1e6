package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classplan/timetable/pkg/solver"
	"github.com/classplan/timetable/pkg/solver/solvertest"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Days = []string{"Mon", "Tue"}
	cfg.HourMin = 9
	cfg.HourEnd = 11
	return cfg
}

func solveModel(t *testing.T, courses []Course, rooms []Room, prefRooms PreferredRoomSet, prefDays PreferredDaySet, cfg Config) (*Model, solver.Solution) {
	t.Helper()
	problem := solvertest.NewProblem()
	model := BuildModel(problem, courses, rooms, prefRooms, prefDays, cfg)
	sol, err := solvertest.New().Solve(context.Background(), problem, solver.SolveOptions{})
	require.NoError(t, err)
	return model, sol
}

func TestBuildModel_SingleCourseSingleRoomPlacesIt(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 20, DurationHours: 1}}
	rooms := []Room{{ID: "R1", Capacity: 30}}

	model, sol := solveModel(t, courses, rooms, nil, nil, cfg)
	require.Equal(t, solver.StatusOptimal, sol.Status())

	placements, unassigned, err := Extract(model, sol, courses, rooms, cfg)
	require.NoError(t, err)
	require.Empty(t, unassigned)
	require.Len(t, placements, 1)
	require.Equal(t, "c1", placements[0].CourseID)
	require.Equal(t, "R1", placements[0].RoomID)
}

func TestBuildModel_CapacityExcludesVariables(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 40, DurationHours: 1}}
	rooms := []Room{{ID: "R1", Capacity: 30}}

	problem := solvertest.NewProblem()
	model := BuildModel(problem, courses, rooms, nil, nil, cfg)
	require.Empty(t, model.validRoomsForCourse[0], "a room smaller than enrollment must never become a candidate")
}

func TestBuildModel_RoomConflictForcesDifferentSlots(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{
		{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 20, DurationHours: 1},
		{ID: "c2", SubjectName: "Biology", ProfessorID: "p2", GroupID: "g2", Enrollment: 20, DurationHours: 1},
	}
	rooms := []Room{{ID: "R1", Capacity: 30}}

	model, sol := solveModel(t, courses, rooms, nil, nil, cfg)
	require.Equal(t, solver.StatusOptimal, sol.Status())

	placements, unassigned, err := Extract(model, sol, courses, rooms, cfg)
	require.NoError(t, err)
	require.Empty(t, unassigned)
	require.Len(t, placements, 2)
	require.False(t, placements[0].Day == placements[1].Day && placements[0].StartHour == placements[1].StartHour,
		"the only shared room forces the two courses apart")
}

func TestBuildModel_TooManyCoursesForOneRoomIsInfeasible(t *testing.T) {
	cfg := smallConfig() // 2 days * 2 hours = 4 one-hour slots
	var courses []Course
	for i := 0; i < 5; i++ {
		courses = append(courses, Course{
			ID: courseID("Subject", 1, string(rune('A'+i))), SubjectName: "Subject",
			ProfessorID: "shared", GroupID: "shared", Enrollment: 10, DurationHours: 1,
		})
	}
	rooms := []Room{{ID: "R1", Capacity: 30}}

	_, sol := solveModel(t, courses, rooms, nil, nil, cfg)
	require.Equal(t, solver.StatusInfeasible, sol.Status())
}

func TestBuildModel_RoomPreferenceLowersObjective(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 20, DurationHours: 1}}
	rooms := []Room{{ID: "R1", Capacity: 30}, {ID: "R2", Capacity: 30}}

	withoutPref, solWithout := solveModel(t, courses, rooms, nil, nil, cfg)
	withPref, solWith := solveModel(t, courses, rooms, PreferredRoomSet{{ProfessorID: "p1", RoomID: "R2"}: {}}, nil, cfg)

	objWithout := computeObjective(withoutPref, solWithout)
	objWith := computeObjective(withPref, solWith)
	require.Less(t, objWith, objWithout, "preferring a room the course can use should only lower the objective")
}
