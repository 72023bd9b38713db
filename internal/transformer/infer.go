package transformer

import (
	"strconv"

	"github.com/dylantanyz/zoomcamp2024/internal/ddl"
)

// InferKinds picks a kind for every header column from the sample rows:
// float when each non-empty value parses as float64, text otherwise. Integer
// looking columns are float too, so a decimal in a later chunk still fits.
// Columns with no non-empty value are text. Columns named in timestampCols
// are always timestamp.
func InferKinds(header []string, rows [][]string, timestampCols []string) []ddl.Kind {
	forced := make(map[string]struct{}, len(timestampCols))
	for _, c := range timestampCols {
		forced[c] = struct{}{}
	}

	kinds := make([]ddl.Kind, len(header))
	for j, name := range header {
		if _, ok := forced[name]; ok {
			kinds[j] = ddl.KindTimestamp
			continue
		}
		kinds[j] = inferColumn(rows, j)
	}
	return kinds
}

// OverrideKinds replaces the kind of every column named in overrides.
func OverrideKinds(header []string, kinds []ddl.Kind, overrides map[string]ddl.Kind) {
	for j, name := range header {
		if k, ok := overrides[name]; ok {
			kinds[j] = k
		}
	}
}

func inferColumn(rows [][]string, j int) ddl.Kind {
	seen := false
	for _, r := range rows {
		if j >= len(r) {
			continue
		}
		s := r[j]
		if s == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return ddl.KindText
		}
	}
	if !seen {
		return ddl.KindText
	}
	return ddl.KindFloat
}
