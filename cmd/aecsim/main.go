// Command aecsim runs a synthetic echo cancellation scenario through one of
// the adaptive engines and prints how much echo was removed.
//
// Usage:
//
//	aecsim [flags]
//
// A Gaussian far-end signal is played through a random decaying room
// response and recorded by a virtual microphone, optionally with near-end
// noise. The chosen engine learns the room from the loopback and the
// microphone signal.
//
// Examples:
//
//	aecsim -algo lms -self -taps 1024 -mu 1e-4,5e-4,1e-3
//	aecsim -algo nlms -taps 256 -delay 32 -near 0.01
//	aecsim -algo rls -taps 32 -path 32 -duration 200ms
//	aecsim -algo stream -block 512 -taps 1024 -mu 5e-4
//	aecsim -algo lms -response 64
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-aec/dsp/core"
	"github.com/cwbudde/algo-aec/dsp/filter/fir"
	"github.com/cwbudde/algo-aec/measure/erle"
)

func main() {
	algo := flag.String("algo", "lms", "engine: lms, nlms, rls or stream")
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	block := flag.Int("block", 1024, "block size for the stream engine")
	taps := flag.Int("taps", 1024, "adaptive filter length in samples")
	tail := flag.Duration("tail", 0, "adaptive filter length as echo tail duration (overrides -taps)")
	duration := flag.Duration("duration", time.Second, "length of the simulated recording")
	mus := flag.String("mu", "1e-4,5e-4,1e-3", "comma separated LMS step size candidates (stream uses the first)")
	step := flag.Float64("step", 0.5, "NLMS step size")
	lambda := flag.Float64("lambda", 0.999, "RLS forgetting factor")
	reg := flag.Float64("reg", 0.01, "RLS regularisation")
	safe := flag.Bool("safe", true, "clip errors to the safe bound (lms, stream)")
	par := flag.Int("par", 1, "LMS candidates evaluated concurrently (0 = GOMAXPROCS)")
	seed := flag.Int64("seed", 1, "random seed")
	delay := flag.Int("delay", 16, "bulk delay of the echo path in samples")
	pathLen := flag.Int("path", 256, "echo path length in samples")
	level := flag.Float64("level", 0.3, "far-end signal RMS")
	near := flag.Float64("near", 0, "near-end noise RMS")
	self := flag.Bool("self", false, "use the reference itself as microphone signal")
	segment := flag.Int("segment", 0, "print ERLE per segment of this many samples")
	response := flag.Int("response", 0, "print learned echo path response with this FFT size")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: aecsim [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a synthetic echo scenario through an adaptive filter and prints metrics.\n")
		fmt.Fprintf(os.Stderr, "RLS costs taps^2 per sample; keep -taps small for it.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  aecsim -algo lms -self -taps 1024\n")
		fmt.Fprintf(os.Stderr, "  aecsim -algo nlms -taps 256 -near 0.01\n")
		fmt.Fprintf(os.Stderr, "  aecsim -algo rls -taps 32 -path 32 -duration 200ms\n")
		fmt.Fprintf(os.Stderr, "  aecsim -algo stream -block 512 -mu 5e-4\n")
	}
	flag.Parse()

	opts := []core.ProcessorOption{
		core.WithSampleRate(*rate),
		core.WithBlockSize(*block),
		core.WithTaps(*taps),
	}
	if *tail > 0 {
		opts = append(opts, core.WithTapDuration(*tail))
	}
	proc := core.ApplyProcessorOptions(opts...)

	stepSizes, err := parseStepSizes(*mus)
	if err != nil {
		fail(err)
	}

	sc := newScenario(scenarioConfig{
		samples:   proc.SamplesFor(*duration),
		seed:      *seed,
		delay:     *delay,
		pathLen:   *pathLen,
		level:     *level,
		nearLevel: *near,
		selfEcho:  *self,
	})

	start := time.Now()
	rep, err := run(sc, engineConfig{
		algo:      *algo,
		proc:      proc,
		stepSizes: stepSizes,
		step:      *step,
		lambda:    *lambda,
		reg:       *reg,
		safe:      *safe,
		parallel:  *par,
	})
	if err != nil {
		fail(err)
	}
	elapsed := time.Since(start)

	printSummary(rep, proc, len(sc.mic), elapsed)
	if *segment > 0 {
		printSegments(sc.mic, rep.residual, *segment, proc.SampleRate)
	}
	if *response > 0 {
		printResponse(sc.path, rep.coefficients, *response, proc.SampleRate)
	}
}

func fail(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func printSummary(rep report, proc core.ProcessorConfig, samples int, elapsed time.Duration) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := []struct {
		key string
		val string
	}{
		{"algorithm", rep.algo},
		{"samples", fmt.Sprintf("%d (%.2f s)", samples, float64(samples)/proc.SampleRate)},
		{"taps", fmt.Sprintf("%d (%.1f ms)", proc.Taps, 1000*float64(proc.Taps)/proc.SampleRate)},
		{"step size", fmt.Sprintf("%g", rep.stepSize)},
		{"total error", fmt.Sprintf("%.6g", rep.totalError)},
		{"ERLE [dB]", fmt.Sprintf("%.2f", rep.erle)},
		{"tail ratio", fmt.Sprintf("%.3g", rep.tailRatio)},
		{"misalignment [dB]", fmt.Sprintf("%.2f", rep.misalignment)},
		{"elapsed", elapsed.Round(time.Microsecond).String()},
	}
	if rep.algo == "stream" {
		rows = append(rows,
			struct{ key, val string }{"block", fmt.Sprintf("%d (%s budget)", proc.BlockSize, proc.BlockDuration())},
			struct{ key, val string }{"smoothed ERLE [dB]", fmt.Sprintf("%.2f", rep.smoothed)},
		)
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.key, r.val); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printSegments(mic, residual []float32, segment int, sampleRate float64) {
	segs, err := erle.Segmental(mic, residual, segment)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: segmental ERLE: %v\n", err)
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "\nSegment\tStart [s]\tERLE [dB]\n")
	_, _ = fmt.Fprintf(tw, "-------\t---------\t---------\n")
	for i, db := range segs {
		_, _ = fmt.Fprintf(tw, "%d\t%.3f\t%.2f\n", i, float64(i*segment)/sampleRate, db)
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printResponse(path []float64, learned []float32, fftSize int, sampleRate float64) {
	// The FFT needs to cover the learned filter.
	size := fftSize
	for size < len(learned) {
		size *= 2
	}
	bins, err := erle.EchoPathResponse(learned, size)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: echo path response: %v\n", err)
		return
	}

	room := fir.New[float32](path)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "\nFrequency [Hz]\tLearned [dB]\tRoom [dB]\n")
	_, _ = fmt.Fprintf(tw, "--------------\t------------\t---------\n")
	stride := max(len(bins)/(fftSize/2+1), 1)
	for k := 0; k < len(bins); k += stride {
		f := float64(k) * sampleRate / float64(size)
		_, _ = fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\n", f, bins[k], room.MagnitudeDB(f, sampleRate))
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
