package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/classplan/timetable/internal/engine"
	apperrors "github.com/classplan/timetable/pkg/errors"
)

// loadInput reads the CSV files named by opts into an engine.Input. This is
// the tabular-ingestion collaborator spec.md names only by interface: an
// unparseable numeric course field becomes a SchemaError here, at the
// boundary; missing required fields are left for the engine's Normalizer to
// reject. An unparseable room capacity is read as unset.
func loadInput(opts solveFlags) (engine.Input, error) {
	courseRecords, err := readCSV(opts.coursesPath)
	if err != nil {
		return engine.Input{}, err
	}
	courses := make([]engine.CourseRow, 0, len(courseRecords))
	for i, rec := range courseRecords {
		grade, err := strconv.Atoi(rec["grade"])
		if err != nil {
			return engine.Input{}, schemaReadError(opts.coursesPath, i, "grade", err)
		}
		credit, err := strconv.Atoi(rec["credit_hours"])
		if err != nil {
			return engine.Input{}, schemaReadError(opts.coursesPath, i, "credit_hours", err)
		}
		enrollment, err := strconv.Atoi(rec["enrollment"])
		if err != nil {
			return engine.Input{}, schemaReadError(opts.coursesPath, i, "enrollment", err)
		}
		courses = append(courses, engine.CourseRow{
			Department:  rec["department"],
			Subject:     rec["subject"],
			Grade:       grade,
			ProfessorID: rec["professor_id"],
			CreditHours: credit,
			Enrollment:  enrollment,
		})
	}

	roomRecords, err := readCSV(opts.roomsPath)
	if err != nil {
		return engine.Input{}, err
	}
	rooms := make([]engine.RoomRow, 0, len(roomRecords))
	for _, rec := range roomRecords {
		capacity, _ := strconv.Atoi(rec["capacity"])
		rooms = append(rooms, engine.RoomRow{RoomID: rec["room_id"], Capacity: capacity})
	}

	var prefRooms []engine.PreferredRoomRow
	if opts.preferredRooms != "" {
		records, err := readCSV(opts.preferredRooms)
		if err != nil {
			return engine.Input{}, err
		}
		for _, rec := range records {
			prefRooms = append(prefRooms, engine.PreferredRoomRow{ProfessorID: rec["professor_id"], RoomID: rec["room_id"]})
		}
	}

	var prefDays []engine.PreferredDayRow
	if opts.preferredDays != "" {
		records, err := readCSV(opts.preferredDays)
		if err != nil {
			return engine.Input{}, err
		}
		for _, rec := range records {
			prefDays = append(prefDays, engine.PreferredDayRow{ProfessorID: rec["professor_id"], Day: rec["day"]})
		}
	}

	return engine.Input{
		Courses:        courses,
		Rooms:          rooms,
		PreferredRooms: prefRooms,
		PreferredDays:  prefDays,
		Semester:       opts.semester,
	}, nil
}

func schemaReadError(path string, rowIndex int, field string, cause error) error {
	return apperrors.Wrap(cause, engine.ErrSchema.Code, engine.ErrSchema.Status, fmt.Sprintf("%s: row %d: field %q", path, rowIndex, field))
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
