// Package scheduler runs the periodic stats refresh.
package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RefreshFunc recomputes the stats of every active agency.
type RefreshFunc func(ctx context.Context) error

// Refresher calls a RefreshFunc on a fixed interval until stopped, then
// invokes OnRefreshed so listeners can reload.
type Refresher struct {
	refresh     RefreshFunc
	onRefreshed func()
	interval    time.Duration
	logger      *logrus.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // one refresh at a time
	once     sync.Once
	cancel   context.CancelFunc
}

// NewRefresher creates a refresher. onRefreshed may be nil.
func NewRefresher(refresh RefreshFunc, onRefreshed func(), interval time.Duration, logger *logrus.Logger) *Refresher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Refresher{
		refresh:     refresh,
		onRefreshed: onRefreshed,
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start begins ticking. The first refresh runs one interval after Start.
func (r *Refresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(ctx)
}

// Stop halts the ticker, cancels an in-flight refresh and waits for it.
func (r *Refresher) Stop() {
	r.once.Do(func() {
		close(r.stopChan)
		if r.cancel != nil {
			r.cancel()
		}
	})
	r.wg.Wait()
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single refresh cycle.
func (r *Refresher) RunOnce(ctx context.Context) {
	r.jobMutex.Lock()
	defer r.jobMutex.Unlock()

	logger := r.logger.WithField("job", "stats_refresh")
	started := time.Now()
	if err := r.refresh(ctx); err != nil {
		// Partial failures still refreshed the other agencies.
		logger.WithError(err).Warn("stats refresh finished with errors")
	} else {
		logger.WithField("took", time.Since(started).String()).Debug("stats refresh completed")
	}

	if ctx.Err() == nil && r.onRefreshed != nil {
		r.onRefreshed()
	}
}
