package sim

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	sparkChars   = " .:-=+*#%@"
	chartHeight  = 10
	minChartCols = 10
)

// MovingAverage computes a rolling mean over the window.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline, resampled to width
// characters when width is positive.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = resample(values, width)
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// resample averages values into width buckets.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// SummaryLines formats the summary as an aligned two-column table.
func SummaryLines(s Summary) []string {
	accuracy := 0.0
	if s.Shots > 0 {
		accuracy = float64(s.Hits) / float64(s.Shots) * 100
	}
	rows := [][]string{
		{"Ticks", fmt.Sprintf("%d", s.Ticks)},
		{"Duration", fmt.Sprintf("%.2fs", s.Duration)},
		{"Shots", fmt.Sprintf("%d", s.Shots)},
		{"Hits", fmt.Sprintf("%d", s.Hits)},
		{"Accuracy", fmt.Sprintf("%.1f%%", accuracy)},
		{"Score", fmt.Sprintf("%d-%d", s.Score.Left, s.Score.Right)},
		{"Max height", fmt.Sprintf("%.2f", s.MaxHeight)},
		{"Max speed", fmt.Sprintf("%.2f", s.MaxSpeed)},
	}
	return formatTable([]string{"Metric", "Value"}, rows, map[int]bool{1: true})
}

// EventLines lists the launch and hit ticks of a trace.
func EventLines(t Trace) []string {
	rows := make([][]string, 0)
	for _, s := range t.Samples {
		event := s.Event()
		if event == "" {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Tick),
			fmt.Sprintf("%.2f", s.Time),
			event,
			fmt.Sprintf("%.2f", s.Pos.X),
			fmt.Sprintf("%.2f", s.Pos.Y),
			fmt.Sprintf("%.2f", s.Speed),
			fmt.Sprintf("%d-%d", s.Score.Left, s.Score.Right),
		})
	}
	if len(rows) == 0 {
		return nil
	}
	headers := []string{"Tick", "Time", "Event", "X", "Y", "Speed", "Score"}
	return formatTable(headers, rows, map[int]bool{0: true, 1: true, 3: true, 4: true, 5: true})
}

// HeightChart plots ball height over time.
func HeightChart(t Trace, width int) string {
	heights := t.Heights()
	if len(heights) < 2 {
		return ""
	}
	width = max(width, minChartCols)
	return asciigraph.Plot(heights,
		asciigraph.Height(chartHeight),
		asciigraph.Width(width),
		asciigraph.Caption("Ball height"),
	)
}

// WriteReport prints the summary, the event list and the height chart.
func WriteReport(w io.Writer, t Trace, width int) error {
	summary := t.Summarize()
	sections := [][]string{SummaryLines(summary)}
	if events := EventLines(t); len(events) > 0 {
		sections = append(sections, events)
	}
	speed := MovingAverage(t.Speeds(), 10)
	sections = append(sections, []string{"Speed " + Sparkline(speed, max(width-6, minChartCols))})
	if chart := HeightChart(t, width); chart != "" {
		sections = append(sections, strings.Split(chart, "\n"))
	}
	for i, lines := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
