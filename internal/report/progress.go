package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

// BarWidth is the number of cells in a progress bar.
const BarWidth = 15

// Target is the number of stored matches wanted on a platform.
type Target struct {
	Platform string
	Target   int
}

// ProgressBar renders count/target as filled and empty cells. The bar is
// full once count reaches target; a non-positive target renders empty.
func ProgressBar(count, target, width int) string {
	filled := 0
	if target > 0 {
		filled = count * width / target
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Percent returns count as a percentage of target, capped at 100.
func Percent(count, target int) float64 {
	if target <= 0 {
		return 0
	}
	p := 100 * float64(count) / float64(target)
	if p > 100 {
		p = 100
	}
	return p
}

// PrintMonitor prints one progress line per target platform, followed by any
// stored platform without a target, and a grand total.
func PrintMonitor(w io.Writer, counts []model.PlatformCount, targets []Target, now time.Time) {
	byPlatform := make(map[string]int, len(counts))
	for _, c := range counts {
		byPlatform[strings.ToLower(c.Platform)] += c.Matches
	}

	bold := color.New(color.Bold)
	bold.Fprintf(w, "Collection progress  %s\n\n", now.Format("2006-01-02 15:04:05"))

	total, wanted := 0, 0
	listed := make(map[string]bool, len(targets))
	for _, t := range targets {
		n := byPlatform[t.Platform]
		listed[t.Platform] = true
		total += n
		wanted += t.Target
		printProgressLine(w, t.Platform, n, t.Target)
	}
	for _, c := range counts {
		p := strings.ToLower(c.Platform)
		if listed[p] {
			continue
		}
		listed[p] = true
		total += byPlatform[p]
		printProgressLine(w, p, byPlatform[p], 0)
	}

	fmt.Fprintln(w)
	bold.Fprintf(w, "%-6s %6d / %-6d %5.1f%%\n", "TOTAL", total, wanted, Percent(total, wanted))
}

func printProgressLine(w io.Writer, platform string, count, target int) {
	pct := Percent(count, target)
	bar := ProgressBar(count, target, BarWidth)
	c := color.New(color.FgRed)
	switch {
	case target > 0 && count >= target:
		c = color.New(color.FgGreen)
	case pct >= 50:
		c = color.New(color.FgYellow)
	}
	fmt.Fprintf(w, "%-6s %s %6d / %-6d %5.1f%%\n", strings.ToUpper(platform), c.Sprint(bar), count, target, pct)
}
