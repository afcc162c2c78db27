package tool

import (
	"context"
	"strings"
)

// FakeResponse is one scripted reply for a Fake runner. The first
// response whose Match substring appears in the joined command line is
// used; an empty Match matches anything.
type FakeResponse struct {
	Match  string
	Output string
	Err    error
}

// Fake is a scriptable Runner for tests. It records every invocation
// and replies from its scripted responses, so normalization and
// assembly logic can be exercised without ffmpeg installed.
type Fake struct {
	Responses []FakeResponse

	// Calls records each invocation as name followed by its arguments.
	Calls [][]string
}

var _ Runner = (*Fake)(nil)

// Run implements Runner.
func (f *Fake) Run(_ context.Context, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	f.Calls = append(f.Calls, call)

	joined := strings.Join(call, " ")
	for _, resp := range f.Responses {
		if resp.Match == "" || strings.Contains(joined, resp.Match) {
			return resp.Output, resp.Err
		}
	}
	return "", nil
}

// CallCount returns how many recorded calls contain the given substring.
func (f *Fake) CallCount(substr string) int {
	n := 0
	for _, call := range f.Calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			n++
		}
	}
	return n
}
