package engine

import (
	"fmt"
	"strings"
)

// NormalizeCourses validates raw course rows and derives Course identities:
// a section letter assigned per (department, subject, grade) bucket in
// input order, and a course_id / group_id built from those fields. Grade-3
// sections in the second semester have their weekly duration doubled.
func NormalizeCourses(rows []CourseRow, semester int) ([]Course, error) {
	type bucketKey struct {
		department string
		subject    string
		grade      int
	}
	nextSection := map[bucketKey]int{}

	courses := make([]Course, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Department) == "" {
			return nil, schemaError(i, "department", "is required")
		}
		if strings.TrimSpace(row.Subject) == "" {
			return nil, schemaError(i, "subject", "is required")
		}
		if strings.TrimSpace(row.ProfessorID) == "" {
			return nil, schemaError(i, "professor_id", "is required")
		}
		if row.Grade <= 0 {
			return nil, schemaError(i, "grade", "must be a positive integer")
		}
		if row.CreditHours <= 0 {
			return nil, schemaError(i, "credit_hours", "must be at least 1")
		}
		if row.Enrollment <= 0 {
			return nil, schemaError(i, "enrollment", "must be at least 1")
		}

		key := bucketKey{row.Department, row.Subject, row.Grade}
		section := nextSection[key]
		nextSection[key] = section + 1
		letter := string(rune('A' + section))

		duration := row.CreditHours
		if semester == 2 && row.Grade == 3 {
			duration *= 2
		}

		course := Course{
			SubjectName:   row.Subject,
			Grade:         row.Grade,
			Section:       letter,
			Department:    row.Department,
			ProfessorID:   row.ProfessorID,
			Enrollment:    row.Enrollment,
			DurationHours: duration,
		}
		course.ID = courseID(course.SubjectName, course.Grade, course.Section)
		course.GroupID = groupID(course.Department, course.Grade, course.Section)
		courses = append(courses, course)
	}
	return courses, nil
}

func courseID(subject string, grade int, section string) string {
	return fmt.Sprintf("%s-%d%s", subject, grade, section)
}

func groupID(department string, grade int, section string) string {
	return fmt.Sprintf("%s-%d%s", department, grade, section)
}

// NormalizeRooms validates raw room rows and fills in the configured
// default capacity where a row left it unset.
func NormalizeRooms(rows []RoomRow, cfg Config) ([]Room, error) {
	rooms := make([]Room, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.RoomID) == "" {
			return nil, schemaError(i, "room_id", "is required")
		}
		capacity := row.Capacity
		if capacity <= 0 {
			capacity = cfg.DefaultRoomCapacity
		}
		rooms = append(rooms, Room{ID: row.RoomID, Capacity: capacity})
	}
	return rooms, nil
}

// NormalizePreferences builds the preferred-room and preferred-day sets.
// A malformed row (missing professor, unrecognized day name) is dropped and
// reported as a Warning. A row naming a professor_id with no matching
// course is silently ignored — it is never consulted for objective
// weighting, and it is not an error.
func NormalizePreferences(roomRows []PreferredRoomRow, dayRows []PreferredDayRow, courses []Course, cfg Config) (PreferredRoomSet, PreferredDaySet, []Warning) {
	knownProfessors := map[string]struct{}{}
	for _, c := range courses {
		knownProfessors[c.ProfessorID] = struct{}{}
	}

	dayIndex := map[string]int{}
	for i, d := range cfg.Days {
		dayIndex[strings.ToLower(d)] = i
	}

	var warnings []Warning

	rooms := PreferredRoomSet{}
	for i, row := range roomRows {
		if strings.TrimSpace(row.ProfessorID) == "" || strings.TrimSpace(row.RoomID) == "" {
			warnings = append(warnings, Warning{
				Kind:    "PreferenceFormatWarning",
				Message: fmt.Sprintf("preferred-room row %d is malformed, ignoring", i),
			})
			continue
		}
		if _, ok := knownProfessors[row.ProfessorID]; !ok {
			continue
		}
		rooms[PreferredRoomKey{ProfessorID: row.ProfessorID, RoomID: row.RoomID}] = struct{}{}
	}

	days := PreferredDaySet{}
	for i, row := range dayRows {
		idx, known := dayIndex[strings.ToLower(strings.TrimSpace(row.Day))]
		if strings.TrimSpace(row.ProfessorID) == "" || !known {
			warnings = append(warnings, Warning{
				Kind:    "PreferenceFormatWarning",
				Message: fmt.Sprintf("preferred-day row %d is malformed, ignoring", i),
			})
			continue
		}
		if _, ok := knownProfessors[row.ProfessorID]; !ok {
			continue
		}
		days[PreferredDayKey{ProfessorID: row.ProfessorID, Day: idx}] = struct{}{}
	}

	return rooms, days, warnings
}
