// internal/driver/cdp/driver.go
package cdp

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/driver"
)

var _ driver.Driver = (*Driver)(nil)

// Driver owns the headless browser process. Sessions are tabs derived from
// the shared allocator context; the driver tracks them so Shutdown can wait
// for stragglers before killing the process.
type Driver struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCtx    context.Context
	allocCancel context.CancelFunc

	// wg tracks open sessions for a graceful shutdown.
	wg sync.WaitGroup
}

// New launches the browser process and verifies it responds.
func New(ctx context.Context, logger *zap.Logger, cfg config.BrowserConfig) (*Driver, error) {
	d := &Driver{
		logger: logger.Named("cdp"),
		cfg:    cfg,
	}

	opts := d.buildAllocatorOptions()
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	d.allocCtx = allocCtx
	d.allocCancel = cancel

	// Probe with a throwaway tab so a broken browser install fails fast
	// here instead of inside the first scenario.
	probeCtx, cancelProbe := context.WithTimeout(allocCtx, 30*time.Second)
	probeCtx, cancelProbeTab := chromedp.NewContext(probeCtx)
	defer cancelProbeTab()
	defer cancelProbe()

	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		d.allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	d.logger.Info("Browser launched and responsive")
	return d, nil
}

// buildAllocatorOptions assembles the browser launch flags.
func (d *Driver) buildAllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	opts = append(opts,
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.Flag("ignore-certificate-errors", d.cfg.IgnoreTLSErrors),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", d.cfg.Headless),
	)

	// Custom flags from configuration, "--name=value" or "--name".
	for _, arg := range d.cfg.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(name, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Flags required when running inside containers.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	return opts
}

// NewSession opens a fresh, isolated tab.
func (d *Driver) NewSession(ctx context.Context) (driver.Session, error) {
	d.wg.Add(1)
	sess := newSession(d.allocCtx, d.logger, d.wg.Done)

	// Materialize the tab now; chromedp would otherwise defer it to the
	// first action, hiding launch failures inside the scenario.
	if err := sess.run(ctx, "open", chromedp.Navigate("about:blank")); err != nil {
		_ = sess.Close(ctx)
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	d.logger.Debug("Session opened", zap.String("session_id", sess.ID()))
	return sess, nil
}

// Shutdown waits for open sessions and terminates the browser process.
func (d *Driver) Shutdown(ctx context.Context) error {
	d.logger.Info("Driver shutdown initiated; waiting for open sessions")

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("Shutdown deadline exceeded; forcing browser termination", zap.Error(ctx.Err()))
	}

	if d.allocCancel != nil {
		d.allocCancel()
		<-d.allocCtx.Done()
	}
	return nil
}
