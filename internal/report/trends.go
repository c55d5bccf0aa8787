package report

import (
	"fmt"
	"strings"

	"metascan/internal/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tCommit\tFiles\tFunctions\tDecorated\tBindings\tConflicts\tParseErrors\tDeltaFunctions\tDeltaDecorated\tDeltaBindings\tDeltaConflicts\tAvgConflicts\tAvgParseErrors\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.CommitHash,
			point.FileCount,
			point.FunctionCount,
			point.DecoratedCount,
			point.BindingCount,
			point.ConflictCount,
			point.ParseErrorCount,
			point.DeltaFunctions,
			point.DeltaDecorated,
			point.DeltaBindings,
			point.DeltaConflicts,
			point.AvgConflicts,
			point.AvgParseErrors,
			point.WindowHours,
		))
	}

	return []byte(buf.String()), nil
}
