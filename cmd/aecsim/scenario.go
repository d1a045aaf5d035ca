package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-aec/dsp/core"
	"github.com/cwbudde/algo-aec/dsp/filter/adaptive"
	"github.com/cwbudde/algo-aec/dsp/filter/fir"
	"github.com/cwbudde/algo-aec/internal/testutil"
	"github.com/cwbudde/algo-aec/measure/erle"
)

var errUnknownAlgorithm = errors.New("aecsim: unknown algorithm")

// scenario is a synthetic far-end signal, the room it travels through and
// what the microphone records.
type scenario struct {
	reference []float32
	mic       []float32
	path      []float64
}

type scenarioConfig struct {
	samples   int
	seed      int64
	delay     int
	pathLen   int
	level     float64
	nearLevel float64
	selfEcho  bool
}

// newScenario renders the loudspeaker signal through the echo path and adds
// near-end noise. A self-echo scenario uses the reference as the microphone
// signal, which a perfect canceller removes completely.
func newScenario(cfg scenarioConfig) scenario {
	ref := testutil.GaussianNoise[float32](cfg.seed, cfg.level, cfg.samples)
	if cfg.selfEcho {
		path := make([]float64, max(cfg.pathLen, 1))
		path[0] = 1
		return scenario{reference: ref, mic: ref, path: path}
	}

	path := testutil.EchoPath(cfg.seed+1, cfg.delay, cfg.pathLen)
	mic := fir.Apply(path, ref)
	if cfg.nearLevel > 0 {
		near := testutil.GaussianNoise[float32](cfg.seed+2, cfg.nearLevel, cfg.samples)
		for i := range mic {
			mic[i] += near[i]
		}
	}
	return scenario{reference: ref, mic: mic, path: path}
}

type engineConfig struct {
	algo      string
	proc      core.ProcessorConfig
	stepSizes []float64
	step      float64
	lambda    float64
	reg       float64
	safe      bool
	parallel  int
}

// report collects the outcome of one run.
type report struct {
	algo         string
	stepSize     float64
	totalError   float64
	residual     []float32
	coefficients []float32
	erle         float64
	tailRatio    float64
	misalignment float64
	smoothed     float64 // stream runs only
}

func run(sc scenario, cfg engineConfig) (report, error) {
	initial := make([]float32, cfg.proc.Taps)
	var (
		res adaptive.Result[float32]
		err error
		rep = report{algo: cfg.algo}
	)

	switch cfg.algo {
	case "lms":
		opts := []adaptive.Option{adaptive.WithParallelism(cfg.parallel)}
		if cfg.safe {
			opts = append(opts, adaptive.WithSafe())
		}
		res, err = adaptive.LMS(sc.mic, sc.reference, initial, cfg.stepSizes, opts...)
	case "nlms":
		res, err = adaptive.NLMS(sc.mic, sc.reference, initial, cfg.step)
	case "rls":
		res, err = adaptive.RLS(sc.mic, sc.reference, initial, cfg.reg, cfg.lambda)
	case "stream":
		res, rep.smoothed, err = runStream(sc, cfg)
	default:
		return report{}, fmt.Errorf("%w: %q", errUnknownAlgorithm, cfg.algo)
	}
	if err != nil {
		return report{}, err
	}

	rep.stepSize = res.StepSize
	rep.totalError = res.TotalError
	rep.residual = res.Error
	rep.coefficients = res.Coefficients

	if rep.erle, err = erle.ERLE(sc.mic, res.Error); err != nil {
		return report{}, err
	}
	if rep.tailRatio, err = erle.TailRatio(sc.mic, res.Error, 0.1); err != nil {
		return report{}, err
	}
	if rep.misalignment, err = erle.Misalignment(sc.path, res.Coefficients); err != nil {
		return report{}, err
	}
	return rep, nil
}

// runStream feeds the scenario block by block through a streaming adapter,
// as a capture callback would, and reassembles the residual.
func runStream(sc scenario, cfg engineConfig) (adaptive.Result[float32], float64, error) {
	if err := cfg.proc.Validate(); err != nil {
		return adaptive.Result[float32]{}, 0, err
	}

	mu := cfg.step
	if len(cfg.stepSizes) > 0 {
		mu = cfg.stepSizes[0]
	}
	s, err := adaptive.NewStream[float32](cfg.proc.Taps, mu, cfg.safe)
	if err != nil {
		return adaptive.Result[float32]{}, 0, err
	}
	meter := erle.NewMeter[float32](cfg.proc.BlockSize, erle.DefaultSmoothing)

	residual := make([]float32, len(sc.mic))
	for off := 0; off < len(sc.mic); off += cfg.proc.BlockSize {
		end := min(off+cfg.proc.BlockSize, len(sc.mic))
		out := residual[off:end]
		if err := s.ProcessBlockTo(out, sc.reference[off:end], sc.mic[off:end]); err != nil {
			return adaptive.Result[float32]{}, 0, fmt.Errorf("aecsim: block at %d: %w", off, err)
		}
		if err := meter.ProcessBlock(sc.mic[off:end], out); err != nil {
			return adaptive.Result[float32]{}, 0, err
		}
	}

	return adaptive.Result[float32]{
		Error:        residual,
		Coefficients: s.Coefficients(),
		StepSize:     s.StepSize(),
		TotalError:   core.SumSquares(residual),
	}, meter.ERLE(), nil
}

// parseStepSizes parses a comma separated list such as "1e-4,5e-4,1e-3".
func parseStepSizes(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("aecsim: step size %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}
