// Package engine implements the timetable optimization core: schema
// normalization, the time grid, MILP model construction, solver invocation,
// assignment extraction, and report rendering. Tabular ingestion, the HTTP
// front-end, and persistence of raw input rows are external collaborators
// named only by the interfaces this package exposes.
package engine

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/classplan/timetable/pkg/errors"
	"github.com/classplan/timetable/pkg/solver"
)

// Input is everything a Solve call needs: the raw rows an ingestion
// adapter parsed, and the semester the timetable is being built for.
type Input struct {
	Courses        []CourseRow `validate:"required,min=1"`
	Rooms          []RoomRow   `validate:"required,min=1"`
	PreferredRooms []PreferredRoomRow
	PreferredDays  []PreferredDayRow
	Semester       int `validate:"required,oneof=1 2"`
}

var validate = validator.New()

// MetricsRecorder is the subset of pkg/metrics.Recorder the engine needs;
// kept as an interface so the engine package never imports pkg/metrics
// directly.
type MetricsRecorder interface {
	ObserveSolve(status string, d time.Duration)
	ObserveObjective(value float64)
}

// Deps are the collaborators a Solve call is wired with. Problem is a
// factory rather than a single instance because the engine is not reentrant
// on one Model/Problem (see the concurrency note) — each call builds its
// own.
type Deps struct {
	Problem func() solver.Problem
	Solver  solver.Solver
	Logger  *zap.Logger
	Metrics MetricsRecorder
}

// Solve normalizes input, builds the MILP, invokes the solver, extracts the
// assignment, and returns the result. It holds no state across calls.
func Solve(ctx context.Context, input Input, cfg Config, deps Deps) (SolveResult, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	if err := validate.Struct(input); err != nil {
		return SolveResult{}, apperrors.Wrap(err, ErrSchema.Code, ErrSchema.Status, "invalid solve input")
	}

	courses, err := NormalizeCourses(input.Courses, input.Semester)
	if err != nil {
		return SolveResult{}, err
	}

	rooms, err := NormalizeRooms(input.Rooms, cfg)
	if err != nil {
		return SolveResult{}, err
	}

	prefRooms, prefDays, warnings := NormalizePreferences(input.PreferredRooms, input.PreferredDays, courses, cfg)
	for _, w := range warnings {
		logger.Warn(w.Message, zap.String("kind", w.Kind))
	}

	problem := deps.Problem()
	model := BuildModel(problem, courses, rooms, prefRooms, prefDays, cfg)

	start := time.Now()
	sol, status, statusText, err := runSolver(ctx, deps.Solver, problem, cfg)
	elapsed := time.Since(start)
	if deps.Metrics != nil {
		deps.Metrics.ObserveSolve(status.String(), elapsed)
	}

	if err != nil {
		logger.Error("solve failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return SolveResult{Status: StatusSolverError, SolverStatusText: statusText, Warnings: warnings},
			apperrors.Wrap(err, ErrSolver.Code, ErrSolver.Status, "solver failed")
	}

	logger.Info("solve finished", zap.String("status", statusText), zap.Duration("elapsed", elapsed), zap.Int("courses", len(courses)))

	if status == StatusInfeasible {
		return SolveResult{
			Status:           StatusInfeasible,
			Unassigned:       allUnassigned(courses),
			SolverStatusText: statusText,
			Warnings:         warnings,
		}, nil
	}

	placements, unassigned, err := Extract(model, sol, courses, rooms, cfg)
	if err != nil {
		return SolveResult{}, err
	}

	objective := computeObjective(model, sol)
	if deps.Metrics != nil {
		deps.Metrics.ObserveObjective(objective)
	}

	return SolveResult{
		Status:           status,
		Placements:       placements,
		Unassigned:       unassigned,
		ObjectiveValue:   objective,
		SolverStatusText: statusText,
		Warnings:         warnings,
	}, nil
}

func allUnassigned(courses []Course) []UnassignedCourse {
	out := make([]UnassignedCourse, 0, len(courses))
	for _, c := range courses {
		out = append(out, UnassignedCourse{CourseID: c.ID, SubjectName: c.SubjectName, Grade: c.Grade, Reason: "infeasible"})
	}
	return out
}

func computeObjective(model *Model, sol solver.Solution) float64 {
	total := 0.0
	for key, xVar := range model.occupancy {
		total += model.weights[key] * sol.Value(xVar)
	}
	return total
}
