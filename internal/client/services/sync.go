package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/kv"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// DefaultSyncInterval is used when SyncConfig.Interval is not positive.
const DefaultSyncInterval = 5 * time.Minute

// ErrPushFailed is returned when no gateway tier accepted a snapshot.
var ErrPushFailed = errors.New("failed to push snapshot")

// SyncState is the coordinator state.
type SyncState int32

const (
	StateIdle SyncState = iota
	StateSyncing
)

func (s SyncState) String() string {
	if s == StateSyncing {
		return "syncing"
	}
	return "idle"
}

// SyncResult describes one synchronization run.
type SyncResult struct {
	Success  bool
	Message  string
	Pulled   int
	Merged   int
	Pushed   int
	Duration time.Duration
}

// SyncConfig controls the background schedule.
type SyncConfig struct {
	Interval time.Duration
	// RunTimeout bounds a single scheduled run. Zero means no bound.
	RunTimeout time.Duration
}

// Coordinator reconciles the local store with the gateway on a timer and on
// demand. Overlapping requests share a single run.
type Coordinator struct {
	store   RecordStore
	gateway SnapshotGateway
	kv      kv.Store
	config  SyncConfig
	logger  logging.Logger
	now     func() int64

	group singleflight.Group
	state atomic.Int32

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	onSynced []func(ctx context.Context, res SyncResult)
}

func NewCoordinator(store RecordStore, gateway SnapshotGateway, kvs kv.Store, cfg SyncConfig, logger logging.Logger) *Coordinator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncInterval
	}
	return &Coordinator{
		store:   store,
		gateway: gateway,
		kv:      kvs,
		config:  cfg,
		logger:  logger.With("module", "sync"),
		now:     models.NowMillis,
	}
}

// OnSynced registers fn to be called after every run. Must be called before Start.
func (c *Coordinator) OnSynced(fn func(ctx context.Context, res SyncResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSynced = append(c.onSynced, fn)
}

// State reports whether a run is in flight.
func (c *Coordinator) State() SyncState {
	return SyncState(c.state.Load())
}

// Start runs an initial sync and then one per interval until ctx is done or
// Stop is called. Calling Start on a running coordinator is a no-op.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.loop(ctx, c.done)
}

// Stop cancels the schedule and waits for the loop to exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Coordinator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	c.logger.Info(ctx, "sync scheduler started", "interval", c.config.Interval)

	c.scheduled(ctx)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info(context.Background(), "sync scheduler stopped")
			return
		case <-ticker.C:
			c.scheduled(ctx)
		}
	}
}

func (c *Coordinator) scheduled(ctx context.Context) {
	if c.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RunTimeout)
		defer cancel()
	}
	if res := c.Trigger(ctx); !res.Success {
		c.logger.Warn(ctx, "scheduled sync failed", "message", res.Message)
	}
}

// Trigger runs a sync now, or joins the one already in flight.
func (c *Coordinator) Trigger(ctx context.Context) SyncResult {
	v, _, _ := c.group.Do("sync", func() (any, error) {
		res := c.run(ctx)
		c.notify(ctx, res)
		return res, nil
	})
	return v.(SyncResult)
}

func (c *Coordinator) notify(ctx context.Context, res SyncResult) {
	c.mu.Lock()
	hooks := append([]func(context.Context, SyncResult){}, c.onSynced...)
	c.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx, res)
	}
}

func (c *Coordinator) run(ctx context.Context) SyncResult {
	c.state.Store(int32(StateSyncing))
	defer c.state.Store(int32(StateIdle))

	start := time.Now()
	res := SyncResult{}
	fail := func(step string, err error) SyncResult {
		res.Duration = time.Since(start)
		res.Message = fmt.Sprintf("%s: %v", step, err)
		c.logger.Warn(ctx, "sync failed", "step", step, "error", err)
		return res
	}

	since, err := c.Watermark(ctx)
	if err != nil {
		return fail("read watermark", err)
	}

	snap, err := c.gateway.Pull(ctx, since)
	if err != nil {
		return fail("pull", err)
	}

	if snap != nil {
		res.Pulled = len(snap.Products)
		merged, err := c.merge(ctx, snap.Products)
		if err != nil {
			return fail("merge", err)
		}
		res.Merged = merged
	}

	all, err := c.store.ListAll(ctx)
	if err != nil {
		return fail("read store", err)
	}

	now := c.now()
	if !c.gateway.Push(ctx, all, now) {
		return fail("push", ErrPushFailed)
	}
	res.Pushed = len(all)

	if err := c.setWatermark(ctx, now); err != nil {
		return fail("write watermark", err)
	}

	res.Success = true
	res.Duration = time.Since(start)
	res.Message = "sync completed"
	c.logger.Info(ctx, "sync completed",
		"pulled", res.Pulled, "merged", res.Merged, "pushed", res.Pushed, "duration", res.Duration)
	return res
}

// merge inserts pulled products whose ids are unknown locally. Existing
// records are never touched.
func (c *Coordinator) merge(ctx context.Context, pulled []models.Product) (int, error) {
	local, err := c.store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	known := models.IDSet(local)
	fresh := make([]models.Product, 0, len(pulled))
	for _, p := range pulled {
		if p.ID == "" {
			continue
		}
		if _, ok := known[p.ID]; ok {
			continue
		}
		known[p.ID] = struct{}{}
		fresh = append(fresh, p)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	inserted, err := c.store.BulkInsert(ctx, fresh)
	if err != nil {
		return 0, err
	}
	return len(inserted), nil
}

// Publish pushes the whole local store and advances the watermark.
func (c *Coordinator) Publish(ctx context.Context) error {
	all, err := c.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}
	now := c.now()
	if !c.gateway.Push(ctx, all, now) {
		return ErrPushFailed
	}
	return c.setWatermark(ctx, now)
}

// Watermark returns the time of the last successful sync, 0 if none.
func (c *Coordinator) Watermark(ctx context.Context) (int64, error) {
	data, err := c.kv.Get(ctx, kv.KeySyncTimestamp)
	if err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, nil
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.logger.Warn(ctx, "ignoring corrupt sync watermark", "value", raw)
		return 0, nil
	}
	return ts, nil
}

func (c *Coordinator) setWatermark(ctx context.Context, ts int64) error {
	return c.kv.Set(ctx, kv.KeySyncTimestamp, []byte(strconv.FormatInt(ts, 10)))
}
