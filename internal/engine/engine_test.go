package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/classplan/timetable/pkg/solver"
	"github.com/classplan/timetable/pkg/solver/solvertest"
)

type fakeRecorder struct {
	solveCalls     []string
	objectiveCalls []float64
}

func (f *fakeRecorder) ObserveSolve(status string, _ time.Duration) {
	f.solveCalls = append(f.solveCalls, status)
}

func (f *fakeRecorder) ObserveObjective(value float64) {
	f.objectiveCalls = append(f.objectiveCalls, value)
}

func testDeps(recorder MetricsRecorder) Deps {
	return Deps{
		Problem: func() solver.Problem { return solvertest.NewProblem() },
		Solver:  solvertest.New(),
		Metrics: recorder,
	}
}

func TestSolve_EndToEndFeasibleCase(t *testing.T) {
	cfg := smallConfig()
	input := Input{
		Courses: []CourseRow{
			{Department: "Math", Subject: "Algebra", Grade: 1, ProfessorID: "p1", CreditHours: 1, Enrollment: 20},
		},
		Rooms:    []RoomRow{{RoomID: "R1", Capacity: 30}},
		Semester: 1,
	}
	recorder := &fakeRecorder{}

	result, err := Solve(context.Background(), input, cfg, testDeps(recorder))
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
	require.Len(t, result.Placements, 1)
	require.Empty(t, result.Unassigned)
	require.Len(t, recorder.solveCalls, 1)
	require.Len(t, recorder.objectiveCalls, 1)
}

func TestSolve_InfeasibleCaseReportsEveryCourseUnassigned(t *testing.T) {
	cfg := smallConfig() // 4 one-hour slots total
	var courses []CourseRow
	for i := 0; i < 5; i++ {
		courses = append(courses, CourseRow{
			Department: "Math", Subject: "Algebra", Grade: 1,
			ProfessorID: "shared", CreditHours: 1, Enrollment: 10,
		})
	}
	input := Input{Courses: courses, Rooms: []RoomRow{{RoomID: "R1", Capacity: 30}}, Semester: 1}

	result, err := Solve(context.Background(), input, cfg, testDeps(nil))
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, result.Status)
	require.Len(t, result.Unassigned, 5)
}

func TestSolve_SchemaErrorShortCircuitsBeforeSolving(t *testing.T) {
	input := Input{
		Courses:  []CourseRow{{Department: "", Subject: "Algebra", Grade: 1, ProfessorID: "p1", CreditHours: 1, Enrollment: 20}},
		Rooms:    []RoomRow{{RoomID: "R1", Capacity: 30}},
		Semester: 1,
	}

	_, err := Solve(context.Background(), input, smallConfig(), testDeps(nil))
	require.Error(t, err)
}

func TestSolve_UnknownProfessorPreferenceIsIgnoredNotAnError(t *testing.T) {
	cfg := smallConfig()
	input := Input{
		Courses: []CourseRow{
			{Department: "Math", Subject: "Algebra", Grade: 1, ProfessorID: "p1", CreditHours: 1, Enrollment: 20},
		},
		Rooms:          []RoomRow{{RoomID: "R1", Capacity: 30}},
		PreferredRooms: []PreferredRoomRow{{ProfessorID: "nobody", RoomID: "R1"}},
		Semester:       1,
	}

	result, err := Solve(context.Background(), input, cfg, testDeps(nil))
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, result.Status)
}
