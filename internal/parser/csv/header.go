package csv

import (
	"fmt"
	"strconv"
	"strings"
)

// cleanHeader applies TrimSpace, HeaderMap and normalization to each cell,
// names empty cells "Unnamed: <i>", and de-duplicates repeats as name.1,
// name.2 so every column in the destination table is distinct. Without
// TrimSpace names keep their surrounding spaces.
func cleanHeader(raw []string, opt Options) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int)

	for i, h := range raw {
		if opt.TrimSpace {
			h = strings.TrimSpace(h)
		}
		if m, ok := opt.HeaderMap[h]; ok {
			h = m
		}
		if opt.NormalizeHeaders {
			h = strings.ReplaceAll(strings.ToLower(h), " ", "_")
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}

		name := h
		for used[name] {
			suffix[h]++
			name = h + "." + strconv.Itoa(suffix[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
