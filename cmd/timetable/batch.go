package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/classplan/timetable/internal/engine"
	"github.com/classplan/timetable/pkg/config"
	apperrors "github.com/classplan/timetable/pkg/errors"
	"github.com/classplan/timetable/pkg/jobs"
	"github.com/classplan/timetable/pkg/logger"
	"github.com/classplan/timetable/pkg/metrics"
	"github.com/classplan/timetable/pkg/solver"
	"github.com/classplan/timetable/pkg/solver/highs"
)

// batchFlags configures the batch subcommand: solve every job directory
// under dir concurrently instead of one timetable per invocation.
type batchFlags struct {
	dir              string
	workers          int
	semester         int
	timeLimitSeconds int
	format           string
}

func bindBatchFlags(cmd *cobra.Command, opts *batchFlags) {
	cmd.Flags().StringVar(&opts.dir, "dir", "", "directory containing one subdirectory per job, each with courses.csv and rooms.csv")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "number of concurrent solves")
	cmd.Flags().IntVar(&opts.semester, "semester", 1, "semester (1 or 2), applied to every job")
	cmd.Flags().IntVar(&opts.timeLimitSeconds, "time-limit", 0, "solver time limit in seconds per job (0 = use configured default)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "report format: text, csv, or pdf")
	_ = cmd.MarkFlagRequired("dir")
}

// batchResult is one job directory's outcome: either a rendered SolveResult
// or the error that kept it from solving.
type batchResult struct {
	jobID  string
	input  engine.Input
	result engine.SolveResult
	err    error
}

// runBatch dispatches one engine.Solve call per subdirectory of opts.dir
// through a pkg/jobs.Queue, so jobs solve concurrently across opts.workers
// goroutines instead of serially.
func runBatch(opts batchFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	engineCfg := cfg.Engine
	if opts.timeLimitSeconds > 0 {
		engineCfg.TimeLimit = time.Duration(opts.timeLimitSeconds) * time.Second
	}

	jobDirs, err := listJobDirs(opts.dir)
	if err != nil {
		return err
	}
	if len(jobDirs) == 0 {
		return exitError(1, fmt.Sprintf("no job subdirectories found under %s", opts.dir))
	}

	var (
		mu      sync.Mutex
		results = make(map[string]batchResult, len(jobDirs))
	)
	done := make(chan struct{}, len(jobDirs))

	handler := func(ctx context.Context, job jobs.Job) error {
		dir := job.Payload.(string)
		res, input, err := solveJobDir(ctx, dir, opts, engineCfg, zapLogger)

		mu.Lock()
		results[job.ID] = batchResult{jobID: job.ID, input: input, result: res, err: err}
		mu.Unlock()
		done <- struct{}{}

		// The error is recorded above for reporting; returning nil here
		// keeps the queue's built-in retry from re-running and
		// overwriting a result already delivered to the caller.
		return nil
	}

	queue := jobs.NewQueue("batch-solve", handler, jobs.QueueConfig{
		Workers:    opts.workers,
		BufferSize: len(jobDirs),
		Logger:     zapLogger,
	})
	queue.Start(context.Background())
	defer queue.Stop()

	for _, dir := range jobDirs {
		if err := queue.Enqueue(jobs.Job{ID: filepath.Base(dir), Type: "solve", Payload: dir}); err != nil {
			return err
		}
	}
	for range jobDirs {
		<-done
	}

	return printBatchResults(jobDirs, results, engineCfg, opts.format)
}

func solveJobDir(ctx context.Context, dir string, opts batchFlags, engineCfg engine.Config, zapLogger *zap.Logger) (engine.SolveResult, engine.Input, error) {
	jobOpts := solveFlags{
		coursesPath:    filepath.Join(dir, "courses.csv"),
		roomsPath:      filepath.Join(dir, "rooms.csv"),
		preferredRooms: optionalPath(dir, "preferred_rooms.csv"),
		preferredDays:  optionalPath(dir, "preferred_days.csv"),
		semester:       opts.semester,
		format:         opts.format,
	}

	input, err := loadInput(jobOpts)
	if err != nil {
		return engine.SolveResult{}, engine.Input{}, err
	}

	recorder := metrics.New()
	deps := engine.Deps{
		Problem: func() solver.Problem { return highs.NewProblem() },
		Solver:  highs.New(),
		Logger:  zapLogger,
		Metrics: recorder,
	}

	result, err := engine.Solve(ctx, input, engineCfg, deps)
	return result, input, err
}

func printBatchResults(jobDirs []string, results map[string]batchResult, cfg engine.Config, format string) error {
	failed := false
	for _, dir := range jobDirs {
		id := filepath.Base(dir)
		res, ok := results[id]
		fmt.Printf("== job %s ==\n", id)
		if !ok {
			fmt.Println("no result recorded")
			failed = true
			continue
		}
		if res.err != nil {
			fmt.Fprintln(os.Stderr, res.err)
			failed = true
			continue
		}
		if res.result.Status == engine.StatusInfeasible {
			printUnassigned(res.result)
			failed = true
			continue
		}
		if err := renderResult(res.result, res.input, cfg, format); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}
	if failed {
		return exitError(1, "one or more batch jobs failed")
	}
	return nil
}

// listJobDirs returns the immediate subdirectories of root, sorted by name.
func listJobDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.New("BATCH_DIR_UNREADABLE", 1, fmt.Sprintf("read %s: %v", root, err))
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// optionalPath returns path joined to dir if it exists, or "" otherwise.
func optionalPath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
