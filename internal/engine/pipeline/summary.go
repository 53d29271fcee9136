package pipeline

import (
	"fmt"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/ui/style"
)

func splitSummary(r domain.SplitReport) string {
	return fmt.Sprintf("%s split %d inputs: %s %d cached, %s %d to translate, %d repeated",
		style.Check, r.Inputs, style.Dot, r.Resolved, style.Circle, r.Pending, r.Deduplicated)
}

func joinSummary(r domain.JoinReport) string {
	return fmt.Sprintf("%s joined %d records: %d cached, %d translated, %d reused, %d missing, %d surplus",
		style.Check, r.Records, r.Resolved, r.Translated, r.Reused, r.Missing, r.Surplus)
}

func importSummary(n int) string {
	return fmt.Sprintf("%s imported %d pairs", style.Check, n)
}
