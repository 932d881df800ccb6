package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

func init() {
	color.NoColor = true
}

func TestProgressBar(t *testing.T) {
	cases := []struct {
		count, target int
		want          string
	}{
		{0, 100, strings.Repeat("░", 15)},
		{50, 100, strings.Repeat("█", 7) + strings.Repeat("░", 8)},
		{100, 100, strings.Repeat("█", 15)},
		{250, 100, strings.Repeat("█", 15)},
		{10, 0, strings.Repeat("░", 15)},
	}
	for _, c := range cases {
		if got := ProgressBar(c.count, c.target, BarWidth); got != c.want {
			t.Errorf("ProgressBar(%d, %d) = %q, want %q", c.count, c.target, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(3000, 6000); got != 50 {
		t.Errorf("expected 50, got %f", got)
	}
	if got := Percent(7000, 6000); got != 100 {
		t.Errorf("expected cap at 100, got %f", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("expected 0 for no target, got %f", got)
	}
}

func TestPrintMonitor(t *testing.T) {
	var buf bytes.Buffer
	counts := []model.PlatformCount{
		{Platform: "br1", Matches: 3000},
		{Platform: "jp1", Matches: 12},
	}
	targets := []Target{{Platform: "na1", Target: 6000}, {Platform: "br1", Target: 6000}}
	PrintMonitor(&buf, counts, targets, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"NA1", "BR1", "JP1"}
	idx := 0
	for _, l := range lines {
		if idx < len(want) && strings.HasPrefix(l, want[idx]) {
			idx++
		}
	}
	if idx != len(want) {
		t.Fatalf("expected platform lines in order %v, got:\n%s", want, out)
	}
	if !strings.Contains(out, "2024-05-01 12:00:00") {
		t.Errorf("missing timestamp:\n%s", out)
	}
	if !strings.Contains(out, "3012 / 12000") {
		t.Errorf("expected grand total 3012 / 12000:\n%s", out)
	}
}

func TestQueueAndFormatHelpers(t *testing.T) {
	if QueueName(420) != "SOLO" || QueueName(440) != "FLEX" || QueueName(450) != "450" {
		t.Error("unexpected queue names")
	}
	if got := FormatDuration(1865); got != "31:05" {
		t.Errorf("FormatDuration: got %q", got)
	}
	if got := FormatDate(1704067200000); got != "2024-01-01" {
		t.Errorf("FormatDate: got %q", got)
	}
	if got := FormatDate(0); got != "—" {
		t.Errorf("FormatDate(0): got %q", got)
	}
}

func TestPrintMatchListIncludesEveryMatch(t *testing.T) {
	var buf bytes.Buffer
	PrintMatchList(&buf, []model.MatchSummary{
		{MatchID: "BR1_1", Platform: "br1", QueueID: 420, BlueWin: true, BlueKills: 20, RedKills: 11},
		{MatchID: "KR_2", Platform: "kr", QueueID: 440},
	})
	out := buf.String()
	for _, want := range []string{"BR1_1", "KR_2", "SOLO", "FLEX", "20-11"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
