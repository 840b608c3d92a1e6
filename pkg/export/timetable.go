package export

import (
	"fmt"

	"github.com/classplan/timetable/internal/engine"
)

// ToDataset flattens a rendered Report into the tabular Dataset shape
// CSVExporter and PDFExporter already know how to render: one row per
// (group, hour), one column per day.
func ToDataset(report engine.Report, cfg engine.Config) Dataset {
	grid := engine.NewGrid(cfg)
	headers := append([]string{"Group", "Hour"}, cfg.Days...)
	rows := make([]map[string]string, 0)

	for _, group := range report.Groups {
		for _, row := range group.Rows {
			record := map[string]string{
				"Group": group.GroupID,
				"Hour":  fmt.Sprintf("%02d:00", row.Hour),
			}
			for d, cell := range row.Cells {
				if name := grid.DayName(d); name != "" {
					record[name] = formatCell(cell)
				}
			}
			rows = append(rows, record)
		}
	}

	return Dataset{Headers: headers, Rows: rows}
}

func formatCell(cell engine.Cell) string {
	switch cell.State {
	case "start":
		return fmt.Sprintf("%s (%s)", cell.SubjectName, cell.RoomID)
	case "covered":
		return "↓"
	default:
		return ""
	}
}

// UnassignedDataset flattens the unassigned-by-grade report into a Dataset.
func UnassignedDataset(report engine.Report) Dataset {
	rows := make([]map[string]string, 0, len(report.Unassigned))
	for _, group := range report.Unassigned {
		for _, subject := range group.Subjects {
			rows = append(rows, map[string]string{
				"Grade":   fmt.Sprintf("%d", group.Grade),
				"Subject": subject,
			})
		}
	}
	return Dataset{Headers: []string{"Grade", "Subject"}, Rows: rows}
}
