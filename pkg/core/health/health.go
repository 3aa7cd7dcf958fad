// Package health aggregates readiness checks of a jackc process.
//
// A check is a function returning nil when its component works. Errors
// wrapped with Degraded mark a component as impaired without taking the
// process out of service.
package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Status of a single check or of a whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check probes one component
type Check func(ctx context.Context) error

type degradedError struct{ err error }

func (d degradedError) Error() string { return d.err.Error() }
func (d degradedError) Unwrap() error { return d.err }

// Degraded marks err as a non-fatal failure
func Degraded(err error) error {
	if err == nil {
		return nil
	}
	return degradedError{err: err}
}

// Result is the outcome of one check
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Registry holds the checks of a process
type Registry struct {
	service string
	version string
	started time.Time

	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry returns an empty registry for service at version
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service: service,
		version: version,
		started: time.Now(),
		checks:  make(map[string]Check),
	}
}

// Add registers check under name, replacing an earlier one
func (r *Registry) Add(name string, check Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

// Remove drops the check called name
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checks, name)
}

// Run executes all checks in parallel and waits for them. A check that
// panics counts as unhealthy.
func (r *Registry) Run(ctx context.Context) *Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]Check, len(names))
	for i, name := range names {
		checks[i] = r.checks[name]
	}
	r.mu.RUnlock()

	report := &Report{
		Service: r.service,
		Version: r.version,
		Uptime:  time.Since(r.started),
		Checked: time.Now(),
		Status:  StatusHealthy,
		Results: make([]Result, len(names)),
	}

	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.Results[i] = runOne(ctx, names[i], checks[i])
		}(i)
	}
	wg.Wait()

	for _, res := range report.Results {
		if res.Status.rank() > report.Status.rank() {
			report.Status = res.Status
		}
	}
	return report
}

func runOne(ctx context.Context, name string, check Check) (res Result) {
	start := time.Now()
	res = Result{Name: name, Status: StatusHealthy}
	defer func() {
		if p := recover(); p != nil {
			res.Status = StatusUnhealthy
			res.Error = fmt.Sprintf("check panicked: %v", p)
		}
		res.Duration = time.Since(start)
	}()

	err := check(ctx)
	if err == nil {
		return res
	}
	res.Error = err.Error()
	res.Status = StatusUnhealthy
	var d degradedError
	if errors.As(err, &d) {
		res.Status = StatusDegraded
	}
	return res
}

// Report is the outcome of Registry.Run
type Report struct {
	Service string        `json:"service"`
	Version string        `json:"version"`
	Status  Status        `json:"status"`
	Uptime  time.Duration `json:"uptime"`
	Checked time.Time     `json:"checked"`
	Results []Result      `json:"results"`
}

// Serving reports whether the process can take requests. Degraded counts
// as serving.
func (r *Report) Serving() bool {
	return r.Status != StatusUnhealthy
}

// Failing lists the names of all checks that are not healthy
func (r *Report) Failing() []string {
	var names []string
	for _, res := range r.Results {
		if res.Status != StatusHealthy {
			names = append(names, res.Name)
		}
	}
	return names
}

func (r *Report) String() string {
	s := fmt.Sprintf("%s %s: %s", r.Service, r.Version, r.Status)
	if failing := r.Failing(); len(failing) > 0 {
		s += " (" + strings.Join(failing, ", ") + ")"
	}
	return s
}
