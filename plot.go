package autoforecast

import (
	"io"
	"os"

	"github.com/forecastlab/autoforecast/forecast"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineSeries generates an echart multi-line chart for some arbitrary set of
// series sharing an integer sample index.
func LineSeries(title string, seriesName []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	var maxLen int
	for _, series := range y {
		if len(series) > maxLen {
			maxLen = len(series)
		}
	}
	x := make([]int, maxLen)
	for i := range x {
		x[i] = i
	}
	line = line.SetXAxis(x)

	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// LineForecast generates an echart line chart plotting the observed values
// along with the forecasted, upper, and lower values appended after the
// training window.
func LineForecast(y []float64, res *forecast.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    "Forecast",
				Subtitle: string(res.Method),
			},
		),
	)

	total := len(y) + len(res.Forecast)
	x := make([]int, total)
	for i := range x {
		x[i] = i
	}
	line = line.SetXAxis(x)

	actualData := make([]opts.LineData, 0, total)
	for _, v := range y {
		actualData = append(actualData, opts.LineData{Value: v})
	}

	// horizon-only series are padded in the training window so they start
	// where the observations end
	horizonData := func(vals []float64) []opts.LineData {
		data := make([]opts.LineData, 0, total)
		for i := 0; i < len(y); i++ {
			data = append(data, opts.LineData{Value: "-"})
		}
		for _, v := range vals {
			data = append(data, opts.LineData{Value: v})
		}
		return data
	}

	line = line.AddSeries("Actual", actualData).
		AddSeries("Forecast", horizonData(res.Forecast)).
		AddSeries("Upper", horizonData(res.Upper)).
		AddSeries("Lower", horizonData(res.Lower))
	return line
}

// WriteHTML renders the forecast chart to an html file at path.
func WriteHTML(path string, y []float64, res *forecast.Result) error {
	page := components.NewPage()
	page.AddCharts(LineForecast(y, res))

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
