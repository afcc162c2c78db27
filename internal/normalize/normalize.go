// Package normalize drives the two-pass EBU R128 loudness protocol
// against the external codec engine.
//
// Single-pass loudness normalization is input-dependent and can clip or
// under-correct. Measuring first makes the correction deterministic: the
// second pass is given the first pass's measured statistics and runs the
// filter in linear mode, which is only sample-accurate when both passes
// share those measurements.
package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/airchive/aircheck/internal/tool"
)

// ErrNoReport is returned when the engine's diagnostic stream does not
// contain a parsable loudness measurement report. The report format is
// load-bearing; without it the second pass cannot be constructed, so
// this is fatal to the pipeline.
var ErrNoReport = errors.New("no loudness measurement report in engine output")

// Targets are the loudness goals shared by both passes.
type Targets struct {
	// IntegratedLUFS is the target integrated loudness.
	IntegratedLUFS float64

	// TruePeakDB is the true-peak ceiling in dBTP.
	TruePeakDB float64

	// RangeLU is the loudness-range window in LU.
	RangeLU float64
}

// DefaultTargets returns the streaming-platform targets used for all
// exports: -14 LUFS integrated, -1.5 dBTP ceiling, 11 LU range.
func DefaultTargets() Targets {
	return Targets{IntegratedLUFS: -14, TruePeakDB: -1.5, RangeLU: 11}
}

// Measurement holds the pass-1 statistics fed back into pass 2.
type Measurement struct {
	InputI       float64 // measured integrated loudness (LUFS)
	InputTP      float64 // measured true peak (dBTP)
	InputLRA     float64 // measured loudness range (LU)
	InputThresh  float64 // measured gating threshold (LUFS)
	TargetOffset float64 // computed target offset for pass 2
}

// Controller runs the measure/apply protocol through a tool.Runner.
//
// Example:
//
//	ctrl := normalize.NewController(runner, logger)
//	err := ctrl.Normalize(ctx, rawPath, normalizedPath)
type Controller struct {
	runner  tool.Runner
	log     zerolog.Logger
	targets Targets

	// codec and bitrate fix the pass-2 re-encode.
	codec   string
	bitrate string
}

// NewController creates a Controller with the default targets and the
// fixed MP3 192k re-encode used by every export.
func NewController(runner tool.Runner, log zerolog.Logger) *Controller {
	return &Controller{
		runner:  runner,
		log:     log,
		targets: DefaultTargets(),
		codec:   "libmp3lame",
		bitrate: "192k",
	}
}

// Normalize measures inPath and writes the loudness-corrected re-encode
// to outPath.
func (c *Controller) Normalize(ctx context.Context, inPath, outPath string) error {
	meas, err := c.measure(ctx, inPath)
	if err != nil {
		return err
	}

	c.log.Info().
		Float64("input_i", meas.InputI).
		Float64("input_tp", meas.InputTP).
		Float64("input_lra", meas.InputLRA).
		Float64("input_thresh", meas.InputThresh).
		Float64("target_offset", meas.TargetOffset).
		Msg("loudness measured")

	return c.apply(ctx, inPath, outPath, meas)
}

// measure runs the engine in analysis mode and parses its report.
func (c *Controller) measure(ctx context.Context, inPath string) (Measurement, error) {
	filter := fmt.Sprintf("loudnorm=I=%s:TP=%s:LRA=%s:print_format=json",
		ffNum(c.targets.IntegratedLUFS), ffNum(c.targets.TruePeakDB), ffNum(c.targets.RangeLU))

	output, err := c.runner.Run(ctx, "ffmpeg",
		"-hide_banner", "-nostats",
		"-i", inPath,
		"-af", filter,
		"-f", "null", "-",
	)
	if err != nil {
		return Measurement{}, fmt.Errorf("loudness measurement pass: %w", err)
	}

	return parseReport(output)
}

// apply re-invokes the engine with the measured statistics in linear
// correction mode, re-encoding to the fixed codec and bitrate.
func (c *Controller) apply(ctx context.Context, inPath, outPath string, meas Measurement) error {
	filter := fmt.Sprintf(
		"loudnorm=I=%s:TP=%s:LRA=%s:measured_I=%s:measured_TP=%s:measured_LRA=%s:measured_thresh=%s:offset=%s:linear=true",
		ffNum(c.targets.IntegratedLUFS), ffNum(c.targets.TruePeakDB), ffNum(c.targets.RangeLU),
		ffNum(meas.InputI), ffNum(meas.InputTP), ffNum(meas.InputLRA),
		ffNum(meas.InputThresh), ffNum(meas.TargetOffset))

	// The engine writes to a staging name; only a fully encoded file is
	// renamed onto the path the stage guard checks.
	staging := outPath + ".part"
	_, err := c.runner.Run(ctx, "ffmpeg",
		"-hide_banner", "-nostats", "-y",
		"-i", inPath,
		"-af", filter,
		"-ar", "44100",
		"-c:a", c.codec,
		"-b:a", c.bitrate,
		"-f", "mp3",
		staging,
	)
	if err != nil {
		return fmt.Errorf("loudness correction pass: %w", err)
	}
	if err := os.Rename(staging, outPath); err != nil {
		return fmt.Errorf("finalize normalized audio: %w", err)
	}
	return nil
}

// loudnormReport mirrors the engine's JSON report; every value arrives
// as a string.
type loudnormReport struct {
	InputI       string `json:"input_i"`
	InputTP      string `json:"input_tp"`
	InputLRA     string `json:"input_lra"`
	InputThresh  string `json:"input_thresh"`
	TargetOffset string `json:"target_offset"`
}

// parseReport locates the measurement JSON in the engine's combined
// output. The report is anchored on its "input_i" key rather than bare
// braces, since the surrounding diagnostics may contain braces of their
// own.
func parseReport(output string) (Measurement, error) {
	anchor := strings.LastIndex(output, `"input_i"`)
	if anchor == -1 {
		return Measurement{}, ErrNoReport
	}

	start := strings.LastIndex(output[:anchor], "{")
	rel := strings.Index(output[anchor:], "}")
	if start == -1 || rel == -1 {
		return Measurement{}, ErrNoReport
	}
	end := anchor + rel + 1

	var report loudnormReport
	if err := json.Unmarshal([]byte(output[start:end]), &report); err != nil {
		return Measurement{}, fmt.Errorf("%w: %v", ErrNoReport, err)
	}

	meas := Measurement{}
	fields := []struct {
		raw  string
		dest *float64
	}{
		{report.InputI, &meas.InputI},
		{report.InputTP, &meas.InputTP},
		{report.InputLRA, &meas.InputLRA},
		{report.InputThresh, &meas.InputThresh},
		{report.TargetOffset, &meas.TargetOffset},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return Measurement{}, fmt.Errorf("%w: bad value %q", ErrNoReport, f.raw)
		}
		*f.dest = v
	}
	return meas, nil
}

// ffNum formats a filter number the way the engine prints its own
// defaults: no trailing zeros, no scientific notation.
func ffNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
