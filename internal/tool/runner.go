// Package tool models the external media tools (ffmpeg, yt-dlp) as a
// narrow synchronous capability interface.
//
// Everything the pipeline needs from a tool is "run it, give me the
// combined output": the normalization controller parses measurement
// reports out of that output, and error paths preserve it verbatim so a
// human can diagnose environment or network failures. Depending only on
// Runner also lets tests substitute a Fake with canned reports.
package tool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runner executes an external tool and returns its combined
// stdout/stderr output. A nonzero exit is reported as an error that
// still carries the full output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs tools as subprocesses, relaying their output to the
// diagnostic log line by line as it arrives.
type ExecRunner struct {
	log zerolog.Logger
}

// NewExecRunner creates an ExecRunner that streams tool output through
// the given logger at debug level.
func NewExecRunner(log zerolog.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

// Run implements Runner.
//
// stdout and stderr are drained concurrently into one combined buffer;
// ffmpeg writes everything of interest to stderr, yt-dlp to stdout, and
// interleaving between the two does not matter to any consumer.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", err
	}

	var mu sync.Mutex
	var combined strings.Builder

	drain := func(pipe io.Reader) func() error {
		return func() error {
			scanner := bufio.NewScanner(pipe)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				line := scanner.Text()
				mu.Lock()
				combined.WriteString(line)
				combined.WriteByte('\n')
				mu.Unlock()
				r.log.Debug().Str("tool", name).Msg(line)
			}
			return scanner.Err()
		}
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start %s: %w", name, err)
	}

	var g errgroup.Group
	g.Go(drain(stdout))
	g.Go(drain(stderr))
	drainErr := g.Wait()

	waitErr := cmd.Wait()
	output := combined.String()

	if waitErr != nil {
		return output, fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), waitErr, output)
	}
	if drainErr != nil {
		return output, fmt.Errorf("reading %s output: %w", name, drainErr)
	}
	return output, nil
}

// CheckDependencies verifies the named tools are present on PATH.
// Called by the CLI before any pipeline work starts.
func CheckDependencies(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
