package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 2 * time.Second

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Ping calls f.
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Report is the health payload. OK reflects the console itself; dependency failures are
// reported per check without failing the console.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	timeout time.Duration
	names   []string
	checks  map[string]Checker
}

// NewService constructs a new health service.
func NewService(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &Service{timeout: timeout, checks: map[string]Checker{}}
}

// Register adds a named dependency check.
func (s *Service) Register(name string, c Checker) {
	if _, exists := s.checks[name]; !exists {
		s.names = append(s.names, name)
		sort.Strings(s.names)
	}
	s.checks[name] = c
}

// Status runs every check concurrently and returns the report.
func (s *Service) Status(ctx context.Context) Report {
	report := Report{OK: true}
	if len(s.checks) == 0 {
		return report
	}
	report.Checks = make(map[string]string, len(s.checks))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, name := range s.names {
		name, check := name, s.checks[name]
		g.Go(func() error {
			result := "ok"
			if err := check.Ping(ctx); err != nil {
				result = "error: " + err.Error()
			}
			mu.Lock()
			report.Checks[name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}
