package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/classplan/timetable/pkg/errors"
)

func requireSchemaError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrSchema.Code, appErr.Code)
}

func TestNormalizeCourses_DerivesSectionsInOrder(t *testing.T) {
	rows := []CourseRow{
		{Department: "Math", Subject: "Algebra", Grade: 1, ProfessorID: "p1", CreditHours: 3, Enrollment: 20},
		{Department: "Math", Subject: "Algebra", Grade: 1, ProfessorID: "p2", CreditHours: 3, Enrollment: 25},
		{Department: "Math", Subject: "Geometry", Grade: 1, ProfessorID: "p1", CreditHours: 2, Enrollment: 18},
	}

	courses, err := NormalizeCourses(rows, 1)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	require.Equal(t, "A", courses[0].Section)
	require.Equal(t, "B", courses[1].Section)
	require.Equal(t, "A", courses[2].Section, "different subject starts its own section sequence")
	require.NotEqual(t, courses[0].ID, courses[1].ID)
}

func TestNormalizeCourses_DoublesGrade3DurationInSemesterTwo(t *testing.T) {
	rows := []CourseRow{
		{Department: "Science", Subject: "Biology", Grade: 3, ProfessorID: "p1", CreditHours: 2, Enrollment: 20},
	}

	semesterOne, err := NormalizeCourses(rows, 1)
	require.NoError(t, err)
	require.Equal(t, 2, semesterOne[0].DurationHours)

	semesterTwo, err := NormalizeCourses(rows, 2)
	require.NoError(t, err)
	require.Equal(t, 4, semesterTwo[0].DurationHours)
}

func TestNormalizeCourses_DoesNotDoubleOtherGradesInSemesterTwo(t *testing.T) {
	rows := []CourseRow{
		{Department: "Science", Subject: "Biology", Grade: 2, ProfessorID: "p1", CreditHours: 2, Enrollment: 20},
	}
	courses, err := NormalizeCourses(rows, 2)
	require.NoError(t, err)
	require.Equal(t, 2, courses[0].DurationHours)
}

func TestNormalizeCourses_MissingFieldIsSchemaError(t *testing.T) {
	rows := []CourseRow{
		{Department: "", Subject: "Algebra", Grade: 1, ProfessorID: "p1", CreditHours: 3, Enrollment: 20},
	}
	_, err := NormalizeCourses(rows, 1)
	requireSchemaError(t, err)
}

func TestNormalizeRooms_FillsDefaultCapacity(t *testing.T) {
	cfg := DefaultConfig()
	rooms, err := NormalizeRooms([]RoomRow{{RoomID: "R1", Capacity: 0}, {RoomID: "R2", Capacity: 15}}, cfg)
	require.NoError(t, err)
	require.Equal(t, cfg.DefaultRoomCapacity, rooms[0].Capacity)
	require.Equal(t, 15, rooms[1].Capacity)
}

func TestNormalizeRooms_MissingRoomIDIsSchemaError(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NormalizeRooms([]RoomRow{{RoomID: "", Capacity: 10}}, cfg)
	requireSchemaError(t, err)
}

func TestNormalizePreferences_UnknownProfessorIsSilentlyIgnored(t *testing.T) {
	cfg := DefaultConfig()
	courses := []Course{{ProfessorID: "p1"}}

	rooms, days, warnings := NormalizePreferences(
		[]PreferredRoomRow{{ProfessorID: "unknown", RoomID: "R1"}},
		[]PreferredDayRow{{ProfessorID: "unknown", Day: "Mon"}},
		courses, cfg,
	)

	require.Empty(t, rooms)
	require.Empty(t, days)
	require.Empty(t, warnings, "unknown professor is ignored, not warned about")
}

func TestNormalizePreferences_MalformedRowWarns(t *testing.T) {
	cfg := DefaultConfig()
	courses := []Course{{ProfessorID: "p1"}}

	_, days, warnings := NormalizePreferences(
		nil,
		[]PreferredDayRow{{ProfessorID: "p1", Day: "Funday"}},
		courses, cfg,
	)

	require.Empty(t, days)
	require.Len(t, warnings, 1)
	require.Equal(t, "PreferenceFormatWarning", warnings[0].Kind)
}

func TestNormalizePreferences_KnownProfessorIsRecorded(t *testing.T) {
	cfg := DefaultConfig()
	courses := []Course{{ProfessorID: "p1"}}

	rooms, days, warnings := NormalizePreferences(
		[]PreferredRoomRow{{ProfessorID: "p1", RoomID: "R1"}},
		[]PreferredDayRow{{ProfessorID: "p1", Day: "tue"}},
		courses, cfg,
	)

	require.Empty(t, warnings)
	_, ok := rooms[PreferredRoomKey{ProfessorID: "p1", RoomID: "R1"}]
	require.True(t, ok)
	_, ok = days[PreferredDayKey{ProfessorID: "p1", Day: 1}]
	require.True(t, ok)
}
