// Package highs binds pkg/solver's adapter interfaces to
// github.com/nextmv-io/sdk/mip, solving with the mip.Highs provider. This is
// the only file in the module that imports the MILP library directly — the
// rest of the engine speaks the solver package's narrow interfaces.
package highs

import (
	"context"
	"fmt"

	"github.com/nextmv-io/sdk/mip"

	"github.com/classplan/timetable/pkg/solver"
)

type problem struct {
	model mip.Model
}

// NewProblem constructs a fresh MILP instance backed by the HiGHS model.
func NewProblem() solver.Problem {
	return &problem{model: mip.NewModel()}
}

func (p *problem) NewBool() solver.Var {
	return p.model.NewBool()
}

func (p *problem) NewConstraint(sense solver.Sense, rhs float64) solver.Constraint {
	return &constraint{c: p.model.NewConstraint(toMIPSense(sense), rhs)}
}

func (p *problem) Objective() solver.Objective {
	return &objective{obj: p.model.Objective()}
}

type objective struct {
	obj mip.Objective
}

func (o *objective) NewTerm(coef float64, v solver.Var) {
	o.obj.NewTerm(coef, v.(mip.Bool))
}

func (o *objective) SetMinimize() {
	o.obj.SetMinimize()
}

type constraint struct {
	c mip.Constraint
}

func (c *constraint) NewTerm(coef float64, v solver.Var) {
	c.c.NewTerm(coef, v.(mip.Bool))
}

func toMIPSense(s solver.Sense) mip.Sense {
	switch s {
	case solver.LessThanOrEqual:
		return mip.LessThanOrEqual
	case solver.GreaterThanOrEqual:
		return mip.GreaterThanOrEqual
	default:
		return mip.Equal
	}
}

// Solver runs a Problem built via NewProblem through HiGHS.
type Solver struct{}

// New constructs a HiGHS-backed solver.
func New() *Solver {
	return &Solver{}
}

func (s *Solver) Solve(ctx context.Context, p solver.Problem, opts solver.SolveOptions) (solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("highs: %w", err)
	}

	pr, ok := p.(*problem)
	if !ok {
		return nil, fmt.Errorf("highs: problem was not created by highs.NewProblem")
	}

	mipSolver, err := mip.NewSolver(mip.Highs, pr.model)
	if err != nil {
		return nil, fmt.Errorf("highs: new solver: %w", err)
	}

	solveOptions := mipSolver.NewOptions()
	if opts.TimeLimit > 0 {
		solveOptions.Common.MaximumDuration = opts.TimeLimit
	}

	sol, err := mipSolver.Solve(solveOptions)
	if err != nil {
		return nil, fmt.Errorf("highs: solve: %w", err)
	}

	return &solution{sol: sol}, nil
}

type solution struct {
	sol mip.Solution
}

func (s *solution) Status() solver.Status {
	switch {
	case s.sol.IsOptimal():
		return solver.StatusOptimal
	case s.sol.HasValues():
		return solver.StatusFeasible
	default:
		return solver.StatusInfeasible
	}
}

func (s *solution) Value(v solver.Var) float64 {
	return s.sol.Value(v.(mip.Bool))
}
