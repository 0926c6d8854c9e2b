package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes an interactive line chart of every recorded curve.
// The x axis runs to the longest run; shorter curves are padded with
// gaps ("-").
func (r *TrainingRecorder) RenderHTML(w io.Writer) error {
	hands, curves := r.snapshot()
	if len(hands) == 0 {
		return ErrNoData
	}

	longest := 0
	for _, hand := range hands {
		s := curves[hand]
		if last := s[len(s)-1].Iteration; last > longest {
			longest = last
		}
	}

	x := make([]int, longest)
	for i := range x {
		x[i] = i + 1
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Spellbook training", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Training error", Subtitle: fmt.Sprintf("networks=%d iterations=%d", len(hands), longest)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Iteration", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Error", Min: 0}),
	)
	line.SetXAxis(x)

	for _, hand := range hands {
		data := make([]opts.LineData, longest)
		for i := range data {
			data[i] = opts.LineData{Value: "-"}
		}
		for _, s := range curves[hand] {
			if s.Iteration >= 1 && s.Iteration <= longest {
				data[s.Iteration-1] = opts.LineData{Value: s.Error}
			}
		}
		line.AddSeries(handLabel(hand), data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
