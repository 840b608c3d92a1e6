package engine

import "github.com/classplan/timetable/pkg/solver"

type occKey struct {
	course, room, day, hour int
}

type startRef struct {
	courseIdx int
	roomIdx   int
	day       int
	hour      int
	v         solver.Var
}

// Model is the built MILP instance plus the bookkeeping the Assignment
// Extractor needs to read it back: which Y variable corresponds to which
// (course, room, day, start hour) tuple, and the per-X objective weight so
// the engine can report the realized objective value without depending on
// the solver backend's own accounting.
type Model struct {
	courses []Course
	rooms   []Room
	grid    Grid

	starts      []startRef
	startsByIdx map[int][]int // courseIdx -> indices into starts

	// occupancy/weights are keyed by (course, room, day, hour) rather than a
	// flat array: a (course,room) pair is skipped entirely when the course
	// cannot fit the room, so the valid key space is sparse and irregular
	// per course, and a struct key keeps that sparseness without a separate
	// offset table per course.
	occupancy map[occKey]solver.Var
	weights   map[occKey]float64

	validRoomsForCourse [][]int
}

// BuildModel materializes binary X (occupy), Y (start), Z (room-use)
// variables and constraints 1 through 9 on problem, keyed by
// (course, room, day, hour) rather than string identifiers, and the
// aggregated linking form for constraint 5 (in place of Big-M, to avoid its
// numerical sensitivity). Capacity (constraint 9) is enforced by never
// creating variables for a (course, room) pair the course cannot fit in,
// which is equivalent to forcing Z[c,r]=0 for that pair.
func BuildModel(problem solver.Problem, courses []Course, rooms []Room, prefRooms PreferredRoomSet, prefDays PreferredDaySet, cfg Config) *Model {
	grid := NewGrid(cfg)
	m := &Model{
		courses:     courses,
		rooms:       rooms,
		grid:        grid,
		startsByIdx: map[int][]int{},
		occupancy:   map[occKey]solver.Var{},
		weights:     map[occKey]float64{},
	}

	problem.Objective().SetMinimize()

	m.validRoomsForCourse = make([][]int, len(courses))
	for ci, c := range courses {
		for ri, r := range rooms {
			if c.Enrollment <= r.Capacity {
				m.validRoomsForCourse[ci] = append(m.validRoomsForCourse[ci], ri)
			}
		}
	}

	zVars := map[[2]int]solver.Var{}

	for ci, c := range courses {
		starts := grid.ValidStarts(c.DurationHours)
		for _, ri := range m.validRoomsForCourse[ci] {
			r := rooms[ri]
			zVars[[2]int{ci, ri}] = problem.NewBool()

			for _, day := range grid.Days() {
				weight := capacityPenalty(c, r, cfg) + roomPreferenceTerm(c, r, prefRooms, cfg) + dayPreferenceTerm(c, day, prefDays, cfg)
				for _, hour := range grid.Hours() {
					xVar := problem.NewBool()
					key := occKey{ci, ri, day, hour}
					m.occupancy[key] = xVar
					m.weights[key] = weight
					problem.Objective().NewTerm(weight, xVar)
				}

				for _, h0 := range starts {
					yVar := problem.NewBool()
					idx := len(m.starts)
					m.starts = append(m.starts, startRef{courseIdx: ci, roomIdx: ri, day: day, hour: h0, v: yVar})
					m.startsByIdx[ci] = append(m.startsByIdx[ci], idx)
				}
			}
		}
	}

	// 1. Exactly one start per course.
	for ci := range courses {
		con := problem.NewConstraint(solver.Equal, 1)
		for _, idx := range m.startsByIdx[ci] {
			con.NewTerm(1, m.starts[idx].v)
		}
	}
	// 2. End-of-day is enforced by construction: ValidStarts never offers a
	// start whose block would run past HourEnd.

	// 3 & 4. Start<->occupy linking.
	for _, sr := range m.starts {
		duration := courses[sr.courseIdx].DurationHours
		for k := 0; k < duration; k++ {
			xVar := m.occupancy[occKey{sr.courseIdx, sr.roomIdx, sr.day, sr.hour + k}]
			// 3. Y <= X for every hour the block covers.
			startOccupy := problem.NewConstraint(solver.LessThanOrEqual, 0)
			startOccupy.NewTerm(1, sr.v)
			startOccupy.NewTerm(-1, xVar)
		}
	}
	for ci, c := range courses {
		for _, ri := range m.validRoomsForCourse[ci] {
			for _, day := range grid.Days() {
				for _, hour := range grid.Hours() {
					xVar, ok := m.occupancy[occKey{ci, ri, day, hour}]
					if !ok {
						continue
					}
					// 4. X <= sum of starts covering this hour.
					con := problem.NewConstraint(solver.LessThanOrEqual, 0)
					con.NewTerm(1, xVar)
					for h0 := hour - c.DurationHours + 1; h0 <= hour; h0++ {
						if idx, ok := startIndex(m, ci, ri, day, h0); ok {
							con.NewTerm(-1, m.starts[idx].v)
						}
					}
				}
			}
		}
	}

	// 5. Single room per course, aggregated linking form.
	for ci, c := range courses {
		roomChoice := problem.NewConstraint(solver.Equal, 1)
		for _, ri := range m.validRoomsForCourse[ci] {
			zVar := zVars[[2]int{ci, ri}]
			roomChoice.NewTerm(1, zVar)

			link := problem.NewConstraint(solver.LessThanOrEqual, 0)
			for _, day := range grid.Days() {
				for _, hour := range grid.Hours() {
					link.NewTerm(1, m.occupancy[occKey{ci, ri, day, hour}])
				}
			}
			link.NewTerm(-float64(c.DurationHours), zVar)
		}
	}

	// 6. Room conflict: at most one course occupies a room at a given slot.
	roomUsers := map[int][]int{}
	for ci := range courses {
		for _, ri := range m.validRoomsForCourse[ci] {
			roomUsers[ri] = append(roomUsers[ri], ci)
		}
	}
	for ri, users := range roomUsers {
		for _, day := range grid.Days() {
			for _, hour := range grid.Hours() {
				con := problem.NewConstraint(solver.LessThanOrEqual, 1)
				for _, ci := range users {
					if xVar, ok := m.occupancy[occKey{ci, ri, day, hour}]; ok {
						con.NewTerm(1, xVar)
					}
				}
			}
		}
	}

	// 7. Professor conflict: a professor teaches at most one course per slot.
	professorCourses := map[string][]int{}
	for ci, c := range courses {
		professorCourses[c.ProfessorID] = append(professorCourses[c.ProfessorID], ci)
	}
	for _, cis := range professorCourses {
		for _, day := range grid.Days() {
			for _, hour := range grid.Hours() {
				con := problem.NewConstraint(solver.LessThanOrEqual, 1)
				for _, ci := range cis {
					for _, ri := range m.validRoomsForCourse[ci] {
						if xVar, ok := m.occupancy[occKey{ci, ri, day, hour}]; ok {
							con.NewTerm(1, xVar)
						}
					}
				}
			}
		}
	}

	// 8. Group conflict: a student group attends at most one course per slot.
	groupCourses := map[string][]int{}
	for ci, c := range courses {
		groupCourses[c.GroupID] = append(groupCourses[c.GroupID], ci)
	}
	for _, cis := range groupCourses {
		for _, day := range grid.Days() {
			for _, hour := range grid.Hours() {
				con := problem.NewConstraint(solver.LessThanOrEqual, 1)
				for _, ci := range cis {
					for _, ri := range m.validRoomsForCourse[ci] {
						if xVar, ok := m.occupancy[occKey{ci, ri, day, hour}]; ok {
							con.NewTerm(1, xVar)
						}
					}
				}
			}
		}
	}

	return m
}

func startIndex(m *Model, courseIdx, roomIdx, day, hour int) (int, bool) {
	for _, idx := range m.startsByIdx[courseIdx] {
		sr := m.starts[idx]
		if sr.roomIdx == roomIdx && sr.day == day && sr.hour == hour {
			return idx, true
		}
	}
	return 0, false
}

// capacityPenalty prices a room choice relative to the course's enrollment:
// a heavy penalty for exceeding capacity (unreachable in practice, since
// constraint 9 excludes those pairs from ever getting a variable) and a
// light penalty for a room far larger than the class needs.
func capacityPenalty(c Course, r Room, cfg Config) float64 {
	if c.Enrollment > r.Capacity {
		return float64(c.Enrollment-r.Capacity) * cfg.Weights.Size * 5
	}
	if float64(r.Capacity) > 1.5*float64(c.Enrollment) {
		return float64(r.Capacity-c.Enrollment) * cfg.Weights.Size * 0.1
	}
	return 0
}

func roomPreferenceTerm(c Course, r Room, prefRooms PreferredRoomSet, cfg Config) float64 {
	if _, ok := prefRooms[PreferredRoomKey{ProfessorID: c.ProfessorID, RoomID: r.ID}]; ok {
		return -cfg.Weights.RoomPreference
	}
	return 0
}

func dayPreferenceTerm(c Course, day int, prefDays PreferredDaySet, cfg Config) float64 {
	if _, ok := prefDays[PreferredDayKey{ProfessorID: c.ProfessorID, Day: day}]; ok {
		return -cfg.Weights.DayPreference
	}
	return 0
}
