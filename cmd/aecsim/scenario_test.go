package main

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-aec/dsp/core"
)

func TestParseStepSizes(t *testing.T) {
	got, err := parseStepSizes(" 1e-4, 5e-4 ,1e-3,")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1e-4, 5e-4, 1e-3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := parseStepSizes("1e-4,fast"); err == nil {
		t.Fatal("expected error for non-numeric step size")
	}
}

func TestRun_AllEngines(t *testing.T) {
	sc := newScenario(scenarioConfig{
		samples: 4000,
		seed:    3,
		delay:   2,
		pathLen: 8,
		level:   0.3,
	})

	// Stream windows stop at the block start, so echo from the previous
	// block leaves a residual floor.
	tests := []struct {
		algo    string
		proc    core.ProcessorConfig
		minERLE float64
	}{
		{"lms", core.ProcessorConfig{SampleRate: 8000, BlockSize: 16, Taps: 16}, 10},
		{"nlms", core.ProcessorConfig{SampleRate: 8000, BlockSize: 16, Taps: 16}, 10},
		{"rls", core.ProcessorConfig{SampleRate: 8000, BlockSize: 16, Taps: 8}, 10},
		{"stream", core.ProcessorConfig{SampleRate: 8000, BlockSize: 64, Taps: 64}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			rep, err := run(sc, engineConfig{
				algo:      tt.algo,
				proc:      tt.proc,
				stepSizes: []float64{0.05, 0.2},
				step:      0.5,
				lambda:    0.999,
				reg:       0.01,
				safe:      true,
				parallel:  2,
			})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(rep.residual) != len(sc.mic) {
				t.Fatalf("residual length %d, want %d", len(rep.residual), len(sc.mic))
			}
			if len(rep.coefficients) != tt.proc.Taps {
				t.Fatalf("coefficients length %d, want %d", len(rep.coefficients), tt.proc.Taps)
			}
			if rep.erle < tt.minERLE {
				t.Fatalf("ERLE %.2f dB, want at least %.0f dB", rep.erle, tt.minERLE)
			}
		})
	}
}

func TestRun_SelfEcho(t *testing.T) {
	sc := newScenario(scenarioConfig{samples: 4000, seed: 4, pathLen: 16, level: 0.3, selfEcho: true})
	rep, err := run(sc, engineConfig{
		algo:      "lms",
		proc:      core.ProcessorConfig{SampleRate: 8000, BlockSize: 16, Taps: 16},
		stepSizes: []float64{0.01, 0.1},
		safe:      true,
		parallel:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.stepSize != 0.1 {
		t.Fatalf("step size %v, want 0.1", rep.stepSize)
	}
	if rep.tailRatio >= 0.01 {
		t.Fatalf("tail ratio %v, want < 0.01", rep.tailRatio)
	}
}

func TestRun_Errors(t *testing.T) {
	sc := newScenario(scenarioConfig{samples: 100, seed: 5, pathLen: 4, level: 0.3})

	_, err := run(sc, engineConfig{algo: "kalman", proc: core.DefaultProcessorConfig()})
	if !errors.Is(err, errUnknownAlgorithm) {
		t.Fatalf("unknown algorithm: err = %v", err)
	}

	_, err = run(sc, engineConfig{
		algo: "stream",
		proc: core.ProcessorConfig{SampleRate: 8000, BlockSize: 32, Taps: 16},
		step: 0.1,
	})
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("block larger than taps: err = %v", err)
	}
}
