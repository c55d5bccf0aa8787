package history

import (
	"fmt"
	"math"
	"time"
)

func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:       current.Timestamp,
			RunID:           current.RunID,
			CommitHash:      current.CommitHash,
			FileCount:       current.FileCount,
			FunctionCount:   current.FunctionCount,
			DecoratedCount:  current.DecoratedCount,
			BindingCount:    current.BindingCount,
			ConflictCount:   current.ConflictCount,
			ParseErrorCount: current.ParseErrorCount,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFunctions = current.FunctionCount - prev.FunctionCount
			point.DeltaDecorated = current.DecoratedCount - prev.DecoratedCount
			point.DeltaBindings = current.BindingCount - prev.BindingCount
			point.DeltaConflicts = current.ConflictCount - prev.ConflictCount
		}

		avgConflicts, avgParseErrors := movingAverages(snapshots, i, window)
		point.AvgConflicts = round2(avgConflicts)
		point.AvgParseErrors = round2(avgParseErrors)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].ConflictCount), float64(snapshots[index].ParseErrorCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var conflictTotal int
	var errorTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		conflictTotal += snapshots[i].ConflictCount
		errorTotal += snapshots[i].ParseErrorCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(conflictTotal) / float64(count), float64(errorTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
