package engine

import (
	"fmt"

	"github.com/classplan/timetable/pkg/solver"
)

// Extract reads the chosen Y variable per course out of sol and turns it
// into Placements, cross-checking every hard constraint on the resulting
// schedule. A course with no Y at 1 is reported as unassigned rather than
// treated as an error — that is the Infeasible/partial-result boundary, not
// a bug. A course with more than one Y at 1, or a placement that violates a
// hard constraint the model should have enforced, is an InvariantViolation:
// a defect in the model or extractor, never a user-facing condition.
func Extract(model *Model, sol solver.Solution, courses []Course, rooms []Room, cfg Config) ([]Placement, []UnassignedCourse, error) {
	chosen := make(map[int]startRef, len(courses))
	for _, sr := range model.starts {
		if sol.Value(sr.v) > 0.5 {
			if _, exists := chosen[sr.courseIdx]; exists {
				return nil, nil, invariantError(fmt.Sprintf("course %s has more than one start assigned", courses[sr.courseIdx].ID))
			}
			chosen[sr.courseIdx] = sr
		}
	}

	var placements []Placement
	var unassigned []UnassignedCourse
	for ci, c := range courses {
		sr, ok := chosen[ci]
		if !ok {
			unassigned = append(unassigned, UnassignedCourse{
				CourseID:    c.ID,
				SubjectName: c.SubjectName,
				Grade:       c.Grade,
				Reason:      "no feasible placement found",
			})
			continue
		}
		placements = append(placements, Placement{
			CourseID:      c.ID,
			RoomID:        rooms[sr.roomIdx].ID,
			Day:           sr.day,
			StartHour:     sr.hour,
			DurationHours: c.DurationHours,
		})
	}

	if err := validatePlacements(placements, courses, rooms, cfg); err != nil {
		return nil, nil, err
	}
	return placements, unassigned, nil
}

type dayGroupKey struct {
	id  string
	day int
}

func validatePlacements(placements []Placement, courses []Course, rooms []Room, cfg Config) error {
	courseByID := indexCoursesByID(courses)
	roomByID := indexRoomsByID(rooms)

	for _, p := range placements {
		if p.StartHour+p.DurationHours > cfg.HourEnd || p.StartHour < cfg.HourMin {
			return invariantError(fmt.Sprintf("placement for %s runs outside the configured day", p.CourseID))
		}
	}

	byRoomDay := map[dayGroupKey][]Placement{}
	byProfessorDay := map[dayGroupKey][]Placement{}
	byGroupDay := map[dayGroupKey][]Placement{}
	for _, p := range placements {
		c := courseByID[p.CourseID]
		byRoomDay[dayGroupKey{p.RoomID, p.Day}] = append(byRoomDay[dayGroupKey{p.RoomID, p.Day}], p)
		byProfessorDay[dayGroupKey{c.ProfessorID, p.Day}] = append(byProfessorDay[dayGroupKey{c.ProfessorID, p.Day}], p)
		byGroupDay[dayGroupKey{c.GroupID, p.Day}] = append(byGroupDay[dayGroupKey{c.GroupID, p.Day}], p)

		r := roomByID[p.RoomID]
		if c.Enrollment > r.Capacity {
			return invariantError(fmt.Sprintf("placement for %s exceeds room %s capacity", p.CourseID, p.RoomID))
		}
	}

	if group, ok := firstOverlap(byRoomDay); ok {
		return invariantError(fmt.Sprintf("room conflict detected among %v", courseIDs(group)))
	}
	if group, ok := firstOverlap(byProfessorDay); ok {
		return invariantError(fmt.Sprintf("professor conflict detected among %v", courseIDs(group)))
	}
	if group, ok := firstOverlap(byGroupDay); ok {
		return invariantError(fmt.Sprintf("student group conflict detected among %v", courseIDs(group)))
	}
	return nil
}

func firstOverlap(groups map[dayGroupKey][]Placement) ([]Placement, bool) {
	for _, group := range groups {
		if overlaps(group) {
			return group, true
		}
	}
	return nil, false
}

func overlaps(placements []Placement) bool {
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			a, b := placements[i], placements[j]
			if a.StartHour < b.StartHour+b.DurationHours && b.StartHour < a.StartHour+a.DurationHours {
				return true
			}
		}
	}
	return false
}

func courseIDs(placements []Placement) []string {
	ids := make([]string, len(placements))
	for i, p := range placements {
		ids[i] = p.CourseID
	}
	return ids
}
