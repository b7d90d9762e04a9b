// Command autoforecast generates a synthetic series, forecasts it with the
// requested method, and prints the result as JSON. An optional html chart of
// the forecast can be written alongside.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/forecastlab/autoforecast"
	"github.com/forecastlab/autoforecast/decompose"
	"github.com/forecastlab/autoforecast/forecast"
	"github.com/forecastlab/autoforecast/holtwinters"
	"github.com/forecastlab/autoforecast/linear"
	"github.com/forecastlab/autoforecast/sarima"
	"github.com/forecastlab/autoforecast/seriesgen"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/rs/zerolog"
)

func main() {
	var (
		n          = flag.Int("n", 120, "number of training observations to generate")
		horizon    = flag.Int("horizon", 12, "number of steps to forecast")
		period     = flag.Float64("period", 12, "seasonal period of the generated series")
		amp        = flag.Float64("amp", 10, "seasonal amplitude of the generated series")
		slope      = flag.Float64("slope", 0.5, "trend slope of the generated series")
		noise      = flag.Float64("noise", 2, "noise scale of the generated series")
		confidence = flag.Float64("confidence", 0.95, "confidence level for bounds")
		method     = flag.String("method", "auto", "forecast method: auto, linear, sarima, holtwinters, decompose")
		plotPath   = flag.String("plot", "", "write an html forecast chart to this path")
		profiling  = flag.Bool("profile", false, "write a cpu profile to the working directory")
	)
	flag.Parse()

	if *profiling {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	y := seriesgen.Line(*n, 100, *slope).
		Add(seriesgen.Wave(*n, *amp, *period)).
		Add(seriesgen.Noise(*n, *noise, 42))

	res, err := run(*method, y, *horizon, *confidence, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("forecast failed")
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to marshal result")
	}
	fmt.Println(string(out))

	if *plotPath != "" {
		if err := autoforecast.WriteHTML(*plotPath, y, res); err != nil {
			logger.Fatal().Err(err).Msg("unable to render chart")
		}
		logger.Info().Str("path", *plotPath).Msg("wrote forecast chart")
	}
}

func run(method string, y []float64, horizon int, confidence float64, logger zerolog.Logger) (*forecast.Result, error) {
	switch method {
	case "auto":
		opt := autoforecast.NewDefaultOptions()
		opt.ConfidenceLevel = confidence
		opt.Logger = logger
		s, err := autoforecast.NewSelector(opt)
		if err != nil {
			return nil, err
		}
		return s.Forecast(y, horizon)
	case "linear":
		f, err := linear.New(&linear.Options{ConfidenceLevel: confidence})
		if err != nil {
			return nil, err
		}
		return f.Forecast(y, horizon)
	case "sarima":
		f, err := sarima.New(&sarima.Options{ConfidenceLevel: confidence})
		if err != nil {
			return nil, err
		}
		return f.Forecast(y, horizon)
	case "holtwinters":
		f, err := holtwinters.New(&holtwinters.Options{ConfidenceLevel: confidence})
		if err != nil {
			return nil, err
		}
		return f.Forecast(y, horizon)
	case "decompose":
		f, err := decompose.New(&decompose.Options{
			Frequency:       decompose.Daily,
			ConfidenceLevel: confidence,
			Holidays:        []*cal.Holiday{us.ThanksgivingDay, us.ChristmasDay},
		})
		if err != nil {
			return nil, err
		}
		return f.Forecast(y, horizon)
	}
	return nil, fmt.Errorf("unknown method %q", method)
}
