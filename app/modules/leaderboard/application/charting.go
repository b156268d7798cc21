package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soloq-club/soloq-tracker/app/shared/results"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 900
	chartHeight = 420
	lpPadding   = 10
	timePadding = 30 * time.Minute
)

type chartResult = results.OperationResult[[]byte, error]

// RenderLPChart draws the LP timeline of a challenge as a PNG.
func (s *LeaderboardService) RenderLPChart(ctx context.Context, challengeID uuid.UUID, playerID *uuid.UUID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "RenderLPChart", challengeID.String(), func(ctx context.Context) (chartResult, error) {
		snaps, err := s.listSnapshots(ctx, challengeID, playerID)
		if err != nil {
			if errors.Is(err, ErrChallengeNotFound) {
				return results.FailureResult[[]byte, error](err), nil
			}
			return chartResult{}, err
		}
		png, err := GenerateLPChart(snaps, s.palette)
		if err != nil {
			return chartResult{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	return unwrap(result, err)
}

// GenerateLPChart produces a PNG line chart with one series per player.
// Snapshots are expected oldest first.
func GenerateLPChart(snaps []PlayerSnapshot, palette ChartPalette) ([]byte, error) {
	if len(palette.Lines) == 0 {
		palette.Lines = DefaultPalette.Lines
	}
	if len(snaps) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	type seriesData struct {
		name string
		xs   []time.Time
		ys   []float64
	}
	var order []uuid.UUID
	byPlayer := make(map[uuid.UUID]*seriesData)

	minT, maxT := snaps[0].TakenAt, snaps[0].TakenAt
	minLP, maxLP := snaps[0].LP, snaps[0].LP
	for _, snap := range snaps {
		sd, ok := byPlayer[snap.PlayerID]
		if !ok {
			name := snap.PlayerName
			if name == "" {
				name = unknownPlayerName
			}
			sd = &seriesData{name: name}
			byPlayer[snap.PlayerID] = sd
			order = append(order, snap.PlayerID)
		}
		sd.xs = append(sd.xs, snap.TakenAt)
		sd.ys = append(sd.ys, float64(snap.LP))

		if snap.TakenAt.Before(minT) {
			minT = snap.TakenAt
		}
		if snap.TakenAt.After(maxT) {
			maxT = snap.TakenAt
		}
		minLP = min(minLP, snap.LP)
		maxLP = max(maxLP, snap.LP)
	}

	series := make([]chart.Series, 0, len(order))
	for i, id := range order {
		sd := byPlayer[id]
		color := drawing.ColorFromHex(palette.Lines[i%len(palette.Lines)])
		series = append(series, chart.TimeSeries{
			Name:    sd.name,
			XValues: sd.xs,
			YValues: sd.ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	background := drawing.ColorFromHex(palette.Background)
	text := drawing.ColorFromHex(palette.Text)

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			FillColor: background,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: background,
		},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat(historyTimeLayout),
			Style:          chart.Style{FontColor: text},
			// Explicit ranges keep single-point timelines renderable.
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(minT.Add(-timePadding)),
				Max: chart.TimeToFloat64(maxT.Add(timePadding)),
			},
		},
		YAxis: chart.YAxis{
			Name:  "LP",
			Style: chart.Style{FontColor: text},
			Range: &chart.ContinuousRange{
				Min: float64(minLP - lpPadding),
				Max: float64(maxLP + lpPadding),
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor: background,
		FontColor: text,
	})}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No LP history yet"
	)

	background := drawing.ColorFromHex(palette.Background)
	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: background,
		},
		Canvas: chart.Style{
			FillColor: background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// go-chart needs at least one visible series.
		Series: []chart.Series{chart.ContinuousSeries{
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				FillColor:   drawing.ColorTransparent,
			},
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(drawing.ColorFromHex(palette.Text))
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
