package engine

import (
	"context"
	"fmt"

	"github.com/classplan/timetable/pkg/solver"
)

// runSolver invokes the solver adapter, translating its Status into the
// engine's own Status and a human-readable status string. It does not wrap
// Infeasible as an error: spec.md treats "no feasible assignment exists" as
// a reported status, not a failure of the solve call itself.
func runSolver(ctx context.Context, slv solver.Solver, problem solver.Problem, cfg Config) (solver.Solution, Status, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, StatusSolverError, "cancelled before solve started", err
	}

	sol, err := slv.Solve(ctx, problem, solver.SolveOptions{TimeLimit: cfg.TimeLimit})
	if err != nil {
		return nil, StatusSolverError, err.Error(), err
	}

	switch sol.Status() {
	case solver.StatusOptimal:
		return sol, StatusOptimal, "optimal", nil
	case solver.StatusFeasible:
		return sol, StatusFeasible, "feasible", nil
	case solver.StatusInfeasible:
		return sol, StatusInfeasible, "infeasible", nil
	default:
		return nil, StatusSolverError, fmt.Sprintf("solver returned unrecognized status %v", sol.Status()), fmt.Errorf("solver: unrecognized status")
	}
}
