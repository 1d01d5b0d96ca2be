// internal/scenario/runner.go
package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/driver"
	"github.com/xkilldash9x/uitest-cli/internal/wait"
)

// Status classifies a scenario outcome.
type Status string

const (
	// StatusPassed means the body returned nil.
	StatusPassed Status = "passed"
	// StatusFailed means an assertion did not hold.
	StatusFailed Status = "failed"
	// StatusErrored means the run broke before or beside its assertions:
	// session trouble, timeouts, panics.
	StatusErrored Status = "errored"
)

// Result is the record of one scenario run.
type Result struct {
	Name       string
	Status     Status
	Err        error
	Start      time.Time
	Duration   time.Duration
	SessionID  string
	Screenshot string
}

// Runner executes scenarios against a shared driver. It owns the per-run
// lifecycle: session open, body, artifact capture, session close.
type Runner struct {
	driver   driver.Driver
	logger   *zap.Logger
	policy   wait.Policy
	arts     config.ArtifactsConfig
	limiter  *rate.Limiter
	parallel int
}

// NewRunner builds a runner from configuration.
func NewRunner(d driver.Driver, logger *zap.Logger, cfg *config.Config) *Runner {
	return &Runner{
		driver:   d,
		logger:   logger.Named("runner"),
		policy:   wait.Policy{Timeout: cfg.Wait.Timeout, Interval: cfg.Wait.PollInterval},
		arts:     cfg.Artifacts,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Runner.SessionsPerSecond), 1),
		parallel: cfg.Runner.Concurrency,
	}
}

// Run executes a single scenario and always returns a Result; errors are
// carried inside it. The session is closed exactly once on every path,
// including panics in the body.
func (r *Runner) Run(ctx context.Context, sc Scenario) Result {
	res := Result{Name: sc.Name, Start: time.Now()}
	log := r.logger.With(zap.String("scenario", sc.Name))

	if err := r.limiter.Wait(ctx); err != nil {
		res.Status = StatusErrored
		res.Err = fmt.Errorf("waiting for session slot: %w", err)
		res.Duration = time.Since(res.Start)
		return res
	}

	sess, err := r.driver.NewSession(ctx)
	if err != nil {
		res.Status = StatusErrored
		res.Err = fmt.Errorf("opening session: %w", err)
		res.Duration = time.Since(res.Start)
		log.Error("Session open failed", zap.Error(err))
		return res
	}
	res.SessionID = sess.ID()

	ex := newExecution(sess, r.policy, log)

	runErr := r.runBody(ctx, sc, ex)
	res.Status = classify(runErr)
	res.Err = runErr

	// Capture before the tab goes away. Capture failures are logged, never
	// promoted over the scenario's own outcome.
	if r.shouldCapture(res.Status) {
		if path, err := r.capture(ctx, sc.Name, sess); err != nil {
			log.Warn("Screenshot capture failed", zap.Error(err))
		} else {
			res.Screenshot = path
		}
	}

	if err := ex.close(ctx); err != nil {
		log.Warn("Session close failed", zap.Error(err))
		if res.Err == nil {
			res.Status = StatusErrored
			res.Err = fmt.Errorf("closing session: %w", err)
		}
	}

	res.Duration = time.Since(res.Start)
	switch res.Status {
	case StatusPassed:
		log.Info("Scenario passed", zap.Duration("duration", res.Duration))
	default:
		log.Error("Scenario did not pass",
			zap.String("status", string(res.Status)),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
	}
	return res
}

// runBody invokes the scenario body, converting panics into errors so the
// deferred cleanup in Run still happens exactly once.
func (r *Runner) runBody(ctx context.Context, sc Scenario, ex *Execution) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scenario panicked: %v", rec)
		}
	}()
	return sc.Run(ctx, ex)
}

// RunAll executes the scenarios with the configured concurrency and returns
// results in input order. A failing scenario never stops its siblings.
func (r *Runner) RunAll(ctx context.Context, scs []Scenario) []Result {
	results := make([]Result, len(scs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, sc := range scs {
		g.Go(func() error {
			results[i] = r.Run(gctx, sc)
			return nil
		})
	}
	// Workers only report through the results slice.
	_ = g.Wait()
	return results
}

// shouldCapture applies the screenshot policy to an outcome.
func (r *Runner) shouldCapture(st Status) bool {
	if r.arts.Dir == "" {
		return false
	}
	if r.arts.OnFailureOnly {
		return st != StatusPassed
	}
	return true
}

// capture writes a screenshot artifact and returns its path.
func (r *Runner) capture(ctx context.Context, name string, sess driver.Session) (string, error) {
	png, err := sess.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.arts.Dir, 0o755); err != nil {
		return "", err
	}
	file := fmt.Sprintf("%s-%s.png", sanitize(name), time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(r.arts.Dir, file)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// classify maps a body error onto a result status.
func classify(err error) Status {
	if err == nil {
		return StatusPassed
	}
	var aerr *AssertionError
	if errors.As(err, &aerr) {
		return StatusFailed
	}
	return StatusErrored
}

// sanitize makes a scenario name safe for filenames.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
