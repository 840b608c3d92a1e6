package engine

import "sort"

// Cell is one (day, hour) position in a rendered grid.
type Cell struct {
	State       string // "start", "covered", or "free"
	CourseID    string
	RoomID      string
	SubjectName string
	ProfessorID string
}

// GridRow is one hour's worth of cells across every day.
type GridRow struct {
	Hour  int
	Cells []Cell
}

// GroupGrid is the weekly grid for one student group.
type GroupGrid struct {
	GroupID string
	Rows    []GridRow
}

// UnassignedGroup lists the subjects left unplaced for one grade.
type UnassignedGroup struct {
	Grade    int
	Subjects []string
}

// Report is the neutral tree the Report Renderer produces: a grid per
// student group plus the unassigned-by-grade breakdown. Translating it to
// HTML, CSV, or PDF is a thin adapter over this structure; pkg/export
// supplies the CSV and PDF backends.
type Report struct {
	Groups     []GroupGrid
	Unassigned []UnassignedGroup
}

// RenderReport groups placements by student group into a grid and buckets
// unassigned courses by grade.
func RenderReport(placements []Placement, unassigned []UnassignedCourse, courses []Course, cfg Config) Report {
	grid := NewGrid(cfg)
	courseByID := indexCoursesByID(courses)

	byGroup := map[string][]Placement{}
	var groupOrder []string
	for _, p := range placements {
		c := courseByID[p.CourseID]
		if _, ok := byGroup[c.GroupID]; !ok {
			groupOrder = append(groupOrder, c.GroupID)
		}
		byGroup[c.GroupID] = append(byGroup[c.GroupID], p)
	}
	sort.Strings(groupOrder)

	report := Report{}
	for _, gid := range groupOrder {
		report.Groups = append(report.Groups, buildGroupGrid(gid, byGroup[gid], courseByID, grid, cfg))
	}
	report.Unassigned = buildUnassignedReport(unassigned)
	return report
}

func buildGroupGrid(groupID string, placements []Placement, courseByID map[string]Course, grid Grid, cfg Config) GroupGrid {
	numDays := len(cfg.Days)
	rows := make([]GridRow, 0, grid.NumHours())
	rowIndex := map[int]int{}
	for _, hour := range grid.Hours() {
		rowIndex[hour] = len(rows)
		cells := make([]Cell, numDays)
		for d := range cells {
			cells[d] = Cell{State: "free"}
		}
		rows = append(rows, GridRow{Hour: hour, Cells: cells})
	}

	for _, p := range placements {
		c := courseByID[p.CourseID]
		for k := 0; k < p.DurationHours; k++ {
			ri, ok := rowIndex[p.StartHour+k]
			if !ok {
				continue
			}
			state := "covered"
			if k == 0 {
				state = "start"
			}
			rows[ri].Cells[p.Day] = Cell{
				State:       state,
				CourseID:    p.CourseID,
				RoomID:      p.RoomID,
				SubjectName: c.SubjectName,
				ProfessorID: c.ProfessorID,
			}
		}
	}

	return GroupGrid{GroupID: groupID, Rows: rows}
}

func buildUnassignedReport(unassigned []UnassignedCourse) []UnassignedGroup {
	byGrade := map[int][]string{}
	var grades []int
	for _, u := range unassigned {
		if _, ok := byGrade[u.Grade]; !ok {
			grades = append(grades, u.Grade)
		}
		byGrade[u.Grade] = append(byGrade[u.Grade], u.SubjectName)
	}
	sort.Ints(grades)

	out := make([]UnassignedGroup, 0, len(grades))
	for _, g := range grades {
		out = append(out, UnassignedGroup{Grade: g, Subjects: byGrade[g]})
	}
	return out
}

// ParseGrid reverses RenderReport's grid back into Placements, recovering
// every (course_id, room, day, start_hour, duration) tuple it encodes. Used
// to test that rendering is lossless.
func ParseGrid(report Report) []Placement {
	var placements []Placement
	for _, group := range report.Groups {
		numDays := 0
		if len(group.Rows) > 0 {
			numDays = len(group.Rows[0].Cells)
		}
		for d := 0; d < numDays; d++ {
			for ri := 0; ri < len(group.Rows); ri++ {
				cell := group.Rows[ri].Cells[d]
				if cell.State != "start" {
					continue
				}
				duration := 1
				for rj := ri + 1; rj < len(group.Rows); rj++ {
					next := group.Rows[rj].Cells[d]
					if next.State == "covered" && next.CourseID == cell.CourseID {
						duration++
						continue
					}
					break
				}
				placements = append(placements, Placement{
					CourseID:      cell.CourseID,
					RoomID:        cell.RoomID,
					Day:           d,
					StartHour:     group.Rows[ri].Hour,
					DurationHours: duration,
				})
			}
		}
	}
	return placements
}
