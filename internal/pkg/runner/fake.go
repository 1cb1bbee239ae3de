package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// HandlerFunc produces the outcome of a faked command.
type HandlerFunc func(cmd Command) (*Result, error)

type fakeRoute struct {
	prefix  string
	handler HandlerFunc
}

// Fake is an in-memory Runner. Commands are matched by their command line:
// the longest registered prefix (on word boundaries) wins. Unmatched commands
// fail with an error.
type Fake struct {
	mu     sync.Mutex
	routes []fakeRoute
	calls  []Command
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{}
}

// Stub registers a canned result for commands starting with line.
func (f *Fake) Stub(line string, result Result) *Fake {
	return f.StubFunc(line, func(Command) (*Result, error) {
		r := result
		return &r, nil
	})
}

// StubFunc registers a handler for commands starting with line.
func (f *Fake) StubFunc(line string, fn HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, fakeRoute{prefix: line, handler: fn})
	return f
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, cmd Command) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	line := cmd.String()
	var match *fakeRoute
	for i := range f.routes {
		r := &f.routes[i]
		if line != r.prefix && !strings.HasPrefix(line, r.prefix+" ") {
			continue
		}
		if match == nil || len(r.prefix) > len(match.prefix) {
			match = r
		}
	}
	f.mu.Unlock()

	if match == nil {
		return nil, fmt.Errorf("runner: unexpected command %q", line)
	}
	return match.handler(cmd)
}

// Calls returns the commands run so far.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Lines returns the command lines run so far.
func (f *Fake) Lines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Ran reports whether a command starting with line was run.
func (f *Fake) Ran(line string) bool {
	for _, l := range f.Lines() {
		if l == line || strings.HasPrefix(l, line+" ") {
			return true
		}
	}
	return false
}
