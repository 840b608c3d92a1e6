package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderReport_GroupsByGroupAndMarksStartsAndCovered(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{
		{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 10, DurationHours: 2},
	}
	placements := []Placement{
		{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 2},
	}

	report := RenderReport(placements, nil, courses, cfg)
	require.Len(t, report.Groups, 1)
	require.Equal(t, "g1", report.Groups[0].GroupID)

	cells := report.Groups[0].Rows
	require.Equal(t, "start", cells[0].Cells[0].State)
	require.Equal(t, "covered", cells[1].Cells[0].State)
	require.Equal(t, "free", cells[0].Cells[1].State)
}

func TestRenderReport_BucketsUnassignedByGrade(t *testing.T) {
	unassigned := []UnassignedCourse{
		{CourseID: "c1", SubjectName: "Algebra", Grade: 2, Reason: "infeasible"},
		{CourseID: "c2", SubjectName: "Biology", Grade: 1, Reason: "infeasible"},
		{CourseID: "c3", SubjectName: "Chemistry", Grade: 2, Reason: "infeasible"},
	}

	report := RenderReport(nil, unassigned, nil, smallConfig())
	require.Len(t, report.Unassigned, 2)
	require.Equal(t, 1, report.Unassigned[0].Grade)
	require.Equal(t, []string{"Biology"}, report.Unassigned[0].Subjects)
	require.Equal(t, 2, report.Unassigned[1].Grade)
	require.Equal(t, []string{"Algebra", "Chemistry"}, report.Unassigned[1].Subjects)
}

func TestParseGrid_RoundTripsPlacements(t *testing.T) {
	cfg := smallConfig()
	courses := []Course{
		{ID: "c1", SubjectName: "Algebra", ProfessorID: "p1", GroupID: "g1", Enrollment: 10, DurationHours: 2},
		{ID: "c2", SubjectName: "Biology", ProfessorID: "p2", GroupID: "g1", Enrollment: 10, DurationHours: 1},
	}
	placements := []Placement{
		{CourseID: "c1", RoomID: "R1", Day: 0, StartHour: 9, DurationHours: 2},
		{CourseID: "c2", RoomID: "R2", Day: 1, StartHour: 10, DurationHours: 1},
	}

	report := RenderReport(placements, nil, courses, cfg)
	roundTripped := ParseGrid(report)

	require.ElementsMatch(t, placements, roundTripped)
}
