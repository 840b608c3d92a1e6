// Command timetable solves a weekly course timetable from CSV input and
// prints a report in text, CSV, or PDF form.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/classplan/timetable/internal/engine"
	"github.com/classplan/timetable/pkg/config"
	apperrors "github.com/classplan/timetable/pkg/errors"
	"github.com/classplan/timetable/pkg/export"
	"github.com/classplan/timetable/pkg/logger"
	"github.com/classplan/timetable/pkg/metrics"
	"github.com/classplan/timetable/pkg/solver"
	"github.com/classplan/timetable/pkg/solver/highs"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts solveFlags

	root := &cobra.Command{Use: "timetable"}
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a weekly course timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return solveAndReport(opts)
		},
	}
	bindSolveFlags(solveCmd, &opts)
	root.AddCommand(solveCmd)

	var batchOpts batchFlags
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Solve every job directory under --dir concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(batchOpts)
		},
	}
	bindBatchFlags(batchCmd, &batchOpts)
	root.AddCommand(batchCmd)

	exitCode := 0
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = apperrors.FromError(err).Status
	}
	return exitCode
}

type solveFlags struct {
	coursesPath      string
	roomsPath        string
	preferredRooms   string
	preferredDays    string
	semester         int
	timeLimitSeconds int
	format           string
}

func bindSolveFlags(cmd *cobra.Command, opts *solveFlags) {
	cmd.Flags().StringVar(&opts.coursesPath, "courses", "", "path to the courses CSV")
	cmd.Flags().StringVar(&opts.roomsPath, "rooms", "", "path to the rooms CSV")
	cmd.Flags().StringVar(&opts.preferredRooms, "prefs-rooms", "", "path to the preferred-rooms CSV")
	cmd.Flags().StringVar(&opts.preferredDays, "prefs-days", "", "path to the preferred-days CSV")
	cmd.Flags().IntVar(&opts.semester, "semester", 1, "semester (1 or 2)")
	cmd.Flags().IntVar(&opts.timeLimitSeconds, "time-limit", 0, "solver time limit in seconds (0 = use configured default)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "report format: text, csv, or pdf")
	_ = cmd.MarkFlagRequired("courses")
	_ = cmd.MarkFlagRequired("rooms")
}

func solveAndReport(opts solveFlags) error {
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

	input, err := loadInput(opts)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	deps := engine.Deps{
		Problem: func() solver.Problem { return highs.NewProblem() },
		Solver:  highs.New(),
		Logger:  zapLogger,
		Metrics: recorder,
	}

	result, err := engine.Solve(context.Background(), input, engineCfg, deps)
	if err != nil {
		return err
	}

	switch result.Status {
	case engine.StatusInfeasible:
		printUnassigned(result)
		return exitError(2, "no feasible timetable exists")
	default:
		return renderResult(result, input, engineCfg, opts.format)
	}
}

func exitError(code int, message string) error {
	return apperrors.New("NO_FEASIBLE_SCHEDULE", code, message)
}

func renderResult(result engine.SolveResult, input engine.Input, cfg engine.Config, format string) error {
	courses, err := engine.NormalizeCourses(input.Courses, input.Semester)
	if err != nil {
		return err
	}
	report := engine.RenderReport(result.Placements, result.Unassigned, courses, cfg)

	switch format {
	case "csv":
		return writeCSV(report, cfg)
	case "pdf":
		return writePDF(report, cfg)
	default:
		printTextReport(result, report, cfg)
		return nil
	}
}

func writeCSV(report engine.Report, cfg engine.Config) error {
	data, err := export.NewCSVExporter().Render(export.ToDataset(report, cfg))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func writePDF(report engine.Report, cfg engine.Config) error {
	data, err := export.NewPDFExporter().Render(export.ToDataset(report, cfg), "Weekly Timetable")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func printUnassigned(result engine.SolveResult) {
	fmt.Fprintln(os.Stderr, "no feasible timetable exists; unassigned courses:")
	for _, u := range result.Unassigned {
		fmt.Fprintf(os.Stderr, "  grade %d: %s (%s)\n", u.Grade, u.SubjectName, u.Reason)
	}
}

func printTextReport(result engine.SolveResult, report engine.Report, cfg engine.Config) {
	grid := engine.NewGrid(cfg)
	fmt.Printf("status: %s  objective: %.2f\n\n", result.SolverStatusText, result.ObjectiveValue)
	for _, group := range report.Groups {
		fmt.Printf("== %s ==\n", group.GroupID)
		for _, row := range group.Rows {
			fmt.Printf("%02d:00", row.Hour)
			for d, cell := range row.Cells {
				label := "-"
				switch cell.State {
				case "start":
					label = fmt.Sprintf("%s@%s", cell.SubjectName, cell.RoomID)
				case "covered":
					label = "↓"
				}
				fmt.Printf("\t%s:%s", grid.DayName(d), label)
			}
			fmt.Println()
		}
		fmt.Println()
	}
	if len(report.Unassigned) > 0 {
		fmt.Println("== unassigned ==")
		for _, group := range report.Unassigned {
			fmt.Printf("grade %d: %v\n", group.Grade, group.Subjects)
		}
	}
}
