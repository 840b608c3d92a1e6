// Package solvertest provides a deterministic, dependency-free MILP double
// conforming to pkg/solver's interfaces, for use in internal/engine's unit
// tests — standing in for the real HiGHS-backed solver the way the teacher
// corpus substitutes sqlmock and fake repositories for Postgres in service
// tests.
//
// It solves 0/1 problems exactly via branch and bound with feasibility and
// objective-bound pruning. It is intended for the small fixtures unit tests
// build, not for production-sized models.
package solvertest

import (
	"context"
	"math"

	"github.com/classplan/timetable/pkg/solver"
)

type varID int

type constraintDef struct {
	sense solver.Sense
	rhs   float64
	terms map[varID]float64
}

// Problem is an in-memory MILP instance solvertest.Solver can introspect.
type Problem struct {
	nVars       int
	objective   map[varID]float64
	constraints []*constraintDef
	byVar       map[varID][]*constraintDef
}

// NewProblem constructs an empty in-memory problem.
func NewProblem() *Problem {
	return &Problem{
		objective: map[varID]float64{},
		byVar:     map[varID][]*constraintDef{},
	}
}

func (p *Problem) NewBool() solver.Var {
	id := varID(p.nVars)
	p.nVars++
	return id
}

func (p *Problem) NewConstraint(sense solver.Sense, rhs float64) solver.Constraint {
	def := &constraintDef{sense: sense, rhs: rhs, terms: map[varID]float64{}}
	p.constraints = append(p.constraints, def)
	return &constraintHandle{p: p, def: def}
}

func (p *Problem) Objective() solver.Objective {
	return &objectiveHandle{p: p}
}

type constraintHandle struct {
	p   *Problem
	def *constraintDef
}

func (c *constraintHandle) NewTerm(coef float64, v solver.Var) {
	id := v.(varID)
	c.def.terms[id] += coef
	c.p.byVar[id] = append(c.p.byVar[id], c.def)
}

type objectiveHandle struct {
	p *Problem
}

func (o *objectiveHandle) NewTerm(coef float64, v solver.Var) {
	o.p.objective[v.(varID)] += coef
}

func (o *objectiveHandle) SetMinimize() {
	// Minimize is the only sense this double implements.
}

// Solver solves Problem instances built via NewProblem.
type Solver struct {
	// MaxNodes bounds the branch-and-bound search. Zero selects a default
	// large enough for the fixtures this package is meant for.
	MaxNodes int
}

// New constructs a solvertest.Solver.
func New() *Solver {
	return &Solver{MaxNodes: 2_000_000}
}

func (s *Solver) Solve(ctx context.Context, p solver.Problem, _ solver.SolveOptions) (solver.Solution, error) {
	prob := p.(*Problem)
	maxNodes := s.MaxNodes
	if maxNodes <= 0 {
		maxNodes = 2_000_000
	}

	bb := &branchAndBound{
		p:        prob,
		ctx:      ctx,
		bestObj:  math.Inf(1),
		maxNodes: maxNodes,
	}
	assignment := make([]int8, prob.nVars)
	for i := range assignment {
		assignment[i] = -1
	}
	bb.search(assignment, 0)

	if bb.best == nil {
		return &Solution{feasible: false}, nil
	}
	return &Solution{feasible: true, values: bb.best, objective: bb.bestObj}, nil
}

// Solution is the outcome of a solvertest.Solver run.
type Solution struct {
	feasible  bool
	values    []int8
	objective float64
}

func (s *Solution) Status() solver.Status {
	if !s.feasible {
		return solver.StatusInfeasible
	}
	return solver.StatusOptimal
}

func (s *Solution) Value(v solver.Var) float64 {
	id := int(v.(varID))
	if id < 0 || id >= len(s.values) {
		return 0
	}
	return float64(s.values[id])
}

// ObjectiveValue exposes the optimal objective value this double found, for
// tests that want to assert on it directly rather than recomputing it.
func (s *Solution) ObjectiveValue() float64 {
	return s.objective
}

type branchAndBound struct {
	p        *Problem
	ctx      context.Context
	best     []int8
	bestObj  float64
	nodes    int
	maxNodes int
}

func (bb *branchAndBound) search(assignment []int8, idx int) {
	bb.nodes++
	if bb.nodes > bb.maxNodes {
		return
	}
	if bb.ctx != nil && bb.ctx.Err() != nil {
		return
	}

	if idx == len(assignment) {
		if !bb.feasible(assignment) {
			return
		}
		obj := bb.objectiveValue(assignment)
		if obj < bb.bestObj {
			bb.bestObj = obj
			bb.best = append([]int8(nil), assignment...)
		}
		return
	}

	for _, val := range [2]int8{0, 1} {
		assignment[idx] = val
		if bb.partiallyFeasible(assignment, varID(idx)) {
			if bb.objectiveLowerBound(assignment) < bb.bestObj {
				bb.search(assignment, idx+1)
			}
		}
	}
	assignment[idx] = -1
}

// partiallyFeasible checks only the constraints touching the just-assigned
// variable, pruning branches that can never satisfy them regardless of how
// the remaining variables are assigned.
func (bb *branchAndBound) partiallyFeasible(assignment []int8, changed varID) bool {
	for _, def := range bb.p.byVar[changed] {
		lo, hi := rangeOf(def, assignment)
		switch def.sense {
		case solver.LessThanOrEqual:
			if lo > def.rhs+1e-9 {
				return false
			}
		case solver.GreaterThanOrEqual:
			if hi < def.rhs-1e-9 {
				return false
			}
		default: // Equal
			if def.rhs < lo-1e-9 || def.rhs > hi+1e-9 {
				return false
			}
		}
	}
	return true
}

func (bb *branchAndBound) feasible(assignment []int8) bool {
	for _, def := range bb.p.constraints {
		sum := 0.0
		for id, coef := range def.terms {
			sum += coef * float64(assignment[id])
		}
		switch def.sense {
		case solver.LessThanOrEqual:
			if sum > def.rhs+1e-6 {
				return false
			}
		case solver.GreaterThanOrEqual:
			if sum < def.rhs-1e-6 {
				return false
			}
		default:
			if sum < def.rhs-1e-6 || sum > def.rhs+1e-6 {
				return false
			}
		}
	}
	return true
}

func (bb *branchAndBound) objectiveValue(assignment []int8) float64 {
	total := 0.0
	for id, coef := range bb.p.objective {
		total += coef * float64(assignment[id])
	}
	return total
}

func (bb *branchAndBound) objectiveLowerBound(assignment []int8) float64 {
	total := 0.0
	for id, coef := range bb.p.objective {
		if assignment[id] >= 0 {
			total += coef * float64(assignment[id])
		} else if coef < 0 {
			total += coef
		}
	}
	return total
}

// rangeOf computes the [lo, hi] range the constraint's sum can still reach
// given the current partial assignment: assigned terms contribute exactly,
// unassigned terms contribute their full [min(0,coef), max(0,coef)] span.
func rangeOf(def *constraintDef, assignment []int8) (lo, hi float64) {
	for id, coef := range def.terms {
		v := assignment[id]
		if v >= 0 {
			lo += coef * float64(v)
			hi += coef * float64(v)
			continue
		}
		if coef > 0 {
			hi += coef
		} else {
			lo += coef
		}
	}
	return lo, hi
}
