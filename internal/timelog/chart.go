package timelog

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	maxBarWidth  = 20
	maxLabelLen  = 20
	noDataNotice = "No data."
)

// BarChart renders per-project minute totals as a monospace bar chart,
// largest first, wrapped in a code fence for the chat.
func BarChart(totals map[string]int) string {
	if len(totals) == 0 {
		return noDataNotice
	}

	type row struct {
		label   string
		minutes int
	}
	rows := make([]row, 0, len(totals))
	maxv := 0
	for label, minutes := range totals {
		rows = append(rows, row{label: label, minutes: minutes})
		if minutes > maxv {
			maxv = minutes
		}
	}
	if maxv == 0 {
		return noDataNotice
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].minutes != rows[j].minutes {
			return rows[i].minutes > rows[j].minutes
		}
		return rows[i].label < rows[j].label
	})

	var b strings.Builder
	b.WriteString("```\n")
	for _, r := range rows {
		barLen := int(math.Ceil(float64(maxBarWidth) * float64(r.minutes) / float64(maxv)))
		if barLen < 1 {
			barLen = 1
		}
		label := r.label
		if len([]rune(label)) > maxLabelLen {
			label = string([]rune(label)[:maxLabelLen])
		}
		b.WriteString(fmt.Sprintf("%-20s | %s %s\n", label, strings.Repeat("█", barLen), formatMinutes(r.minutes)))
	}
	b.WriteString("```")
	return b.String()
}

func formatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
