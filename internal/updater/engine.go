package updater

import (
	"adhan/internal/providers"
	"adhan/internal/store"
	"adhan/internal/structures"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

var ErrVersionUnavailable = errors.New("remote version unavailable")

type State int32

const (
	StateCurrent State = iota
	StateUpdatePending
	StateRestarting
)

func (s State) String() string {
	switch s {
	case StateCurrent:
		return "current"
	case StateUpdatePending:
		return "update_pending"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// OnlineChecker reports whether the network is reachable.
type OnlineChecker interface {
	Online(ctx context.Context) bool
}

type CheckResult struct {
	Local           string
	Remote          string
	UpdateAvailable bool
}

type Report struct {
	CheckResult
	Attempted []string
	Failed    []string
	Skipped   []string
	Advanced  bool
	Restarted bool
}

type EngineInterface interface {
	State() State
	Check(ctx context.Context) (CheckResult, error)
	Reconcile(ctx context.Context) (Report, error)
	EnsureLocal(ctx context.Context) int
}

// Engine mirrors a fixed set of remote resources into the data directory.
// A differing version token moves it from Current to UpdatePending; once
// every resource has been attempted the token is persisted and the engine
// enters Restarting.
type Engine struct {
	conf      *structures.Config
	store     store.ResourceStoreInterface
	fetcher   FetcherInterface
	restarter Restarter
	online    OnlineChecker
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger

	state atomic.Int32
	mu    sync.Mutex
}

func NewEngine(
	conf *structures.Config,
	st store.ResourceStoreInterface,
	fetcher FetcherInterface,
	restarter Restarter,
	online OnlineChecker,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) EngineInterface {
	e := &Engine{
		conf:      conf,
		store:     st,
		fetcher:   fetcher,
		restarter: restarter,
		online:    online,
		metrics:   metrics,
		logger:    logger,
	}
	e.setState(StateCurrent)
	return e
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	e.metrics.SetSyncState(s.String())
}

// Check compares the remote and local version tokens without side effects.
func (e *Engine) Check(ctx context.Context) (CheckResult, error) {
	local := e.store.LoadVersion()

	remote, err := e.fetcher.FetchText(ctx, e.conf.Sync.VersionPath)
	if err != nil {
		return CheckResult{Local: local}, fmt.Errorf("%w: %s", ErrVersionUnavailable, err)
	}
	if remote == "" {
		return CheckResult{Local: local}, fmt.Errorf("%w: empty token", ErrVersionUnavailable)
	}

	return CheckResult{
		Local:           local,
		Remote:          remote,
		UpdateAvailable: remote != local,
	}, nil
}

// Reconcile downloads every managed resource when the remote token differs
// from the local one, then persists the remote token and restarts the
// process. Individual download failures never abort the batch.
func (e *Engine) Reconcile(ctx context.Context) (Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	check, err := e.Check(ctx)
	report := Report{CheckResult: check}
	if err != nil {
		e.metrics.IncSyncRuns("unavailable")
		return report, err
	}
	if !check.UpdateAvailable {
		e.logger.Debugf(providers.TypeSync, "Version %s is current", check.Local)
		e.metrics.IncSyncRuns("current")
		return report, nil
	}

	e.logger.Infof(providers.TypeSync, "Update available: local %s, remote %s", check.Local, check.Remote)
	e.setState(StateUpdatePending)

	requiredFailed := false
	for _, res := range e.conf.Sync.Resources {
		report.Attempted = append(report.Attempted, res.Name)
		fetched, err := e.download(ctx, res)
		if err != nil {
			report.Failed = append(report.Failed, res.Name)
			if !res.Optional {
				requiredFailed = true
			}
			continue
		}
		if !fetched {
			report.Skipped = append(report.Skipped, res.Name)
		}
	}

	if requiredFailed && e.conf.Sync.Strict {
		e.logger.Warnf(providers.TypeSync, "Keeping version %s: %d resource(s) failed, retrying next cycle", check.Local, len(report.Failed))
		e.metrics.IncSyncRuns("incomplete")
		e.setState(StateCurrent)
		return report, nil
	}
	if len(report.Failed) > 0 {
		e.logger.Warnf(providers.TypeSync, "Advancing to version %s with failed resources: %v", check.Remote, report.Failed)
	}

	if err = e.store.SaveVersion(check.Remote); err != nil {
		e.metrics.IncSyncRuns("failed")
		e.setState(StateCurrent)
		return report, fmt.Errorf("persist version %s: %w", check.Remote, err)
	}
	report.Advanced = true
	e.metrics.IncSyncRuns("updated")

	if !e.conf.Sync.Restart || e.restarter == nil {
		e.logger.Infof(providers.TypeSync, "Version %s applied, restart disabled", check.Remote)
		e.setState(StateCurrent)
		return report, nil
	}

	e.setState(StateRestarting)
	e.logger.Infof(providers.TypeSync, "Restarting process to load version %s", check.Remote)
	if err = e.restarter.Restart(); err != nil {
		e.logger.Errorf(providers.TypeSync, "Restart failed: %s", err)
		e.setState(StateCurrent)
		return report, fmt.Errorf("restart: %w", err)
	}
	report.Restarted = true
	return report, nil
}

// EnsureLocal downloads non-payload resources that are missing locally.
// It returns the number of files written.
func (e *Engine) EnsureLocal(ctx context.Context) int {
	var missing []structures.Resource
	for _, res := range e.conf.Sync.Resources {
		if res.Payload || e.store.Exists(res.Name) {
			continue
		}
		missing = append(missing, res)
	}
	if len(missing) == 0 {
		return 0
	}

	if e.online != nil && !e.online.Online(ctx) {
		e.logger.Warnf(providers.TypeSync, "Offline, %d local resource(s) missing", len(missing))
		return 0
	}

	written := 0
	for _, res := range missing {
		fetched, err := e.download(ctx, res)
		if err == nil && fetched {
			written++
		}
	}
	return written
}

// download places one resource. It returns false without error when an
// optional resource is not published.
func (e *Engine) download(ctx context.Context, res structures.Resource) (bool, error) {
	body, err := e.fetcher.Fetch(ctx, res.Path)
	if err != nil {
		if res.Optional && errors.Is(err, ErrNotFound) {
			e.logger.Infof(providers.TypeSync, "Optional resource %s not published", res.Name)
			e.metrics.IncResourceDownloads(res.Name, "absent")
			return false, nil
		}
		e.logger.Errorf(providers.TypeSync, "Download of %s failed: %s", res.Name, err)
		e.metrics.IncResourceDownloads(res.Name, "failed")
		return false, err
	}
	defer body.Close()

	n, err := e.store.Replace(res.Name, body)
	if err != nil {
		e.logger.Errorf(providers.TypeSync, "Replacing %s failed: %s", res.Name, err)
		e.metrics.IncResourceDownloads(res.Name, "failed")
		return false, err
	}

	e.logger.Infof(providers.TypeSync, "Updated %s (%d bytes)", res.Name, n)
	e.metrics.IncResourceDownloads(res.Name, "ok")
	return true, nil
}
