// Package daemon wires the bot together and enforces single-instance
// execution: one process owns the snapshot file, the IPC socket, and the
// long-poll loop at a time.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"turntable/internal/config"
	"turntable/internal/logging"
	"turntable/internal/playback"
	"turntable/internal/registry"
	"turntable/internal/resolver"
	"turntable/internal/router"
	"turntable/internal/store"
	"turntable/internal/telegram"
)

// Daemon coordinates the bot services.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	registry *registry.Registry
	engine   *playback.Engine
	client   *telegram.Client
	router   *router.Router
	poller   *telegram.Poller

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	botUser atomic.Value // string
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	BotUsername  string
	Chats        int
	SnapshotPath string
	LockFilePath string
}

// ChatSummary is one chat's queue at a glance.
type ChatSummary struct {
	ChatID  int64
	Playing bool
	Current *playback.Track
	Queued  int
}

// New constructs a daemon with initialized dependencies. The registry is
// seeded from the snapshot file; a missing or corrupt snapshot starts empty.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	st := store.New(cfg.SnapshotPath(), logger)
	reg := registry.FromSnapshots(st.Load())

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		registry: reg,
		client:   telegram.NewClient(cfg),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}

	titles := resolver.New(cfg, logger)
	d.engine = playback.NewEngine(titles, persisterFunc(d.persist), logger, cfg.Queue.InspectLimit)
	d.router = router.New(reg, d.engine, d.client, logger)
	d.poller = telegram.NewPoller(d.client, d.router, cfg.Telegram.PollTimeoutSeconds, logger)
	return d, nil
}

type persisterFunc func(ctx context.Context)

func (f persisterFunc) Persist(ctx context.Context) { f(ctx) }

// persist writes the full registry snapshot. Failures are logged, never
// propagated: the in-memory registry stays authoritative.
func (d *Daemon) persist(context.Context) {
	if err := d.store.Save(d.registry.Snapshot()); err != nil {
		d.logger.Error("snapshot write failed", logging.Error(err))
	}
}

// Start validates the bot token, acquires the daemon lock, and launches the
// poll loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another turntable daemon instance is already running")
	}

	me, err := d.client.GetMe(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("validate bot token: %w", err)
	}
	d.botUser.Store(me.Username)

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	go func() {
		defer close(d.done)
		if err := d.poller.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("poll loop exited", logging.Error(err))
		}
	}()

	d.logger.Info("turntable daemon started",
		logging.String("bot", me.Username),
		logging.String("lock", d.lockPath),
		logging.Int("chats", d.registry.Len()))
	return nil
}

// Stop halts polling, writes a final snapshot, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.cancel()
	<-d.done

	d.persist(context.Background())
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("turntable daemon stopped")
}

// Close releases resources; safe to call whether or not Start succeeded.
func (d *Daemon) Close() {
	if d.running.Load() {
		d.Stop()
	}
}

// Status reports runtime information for the CLI.
func (d *Daemon) Status() Status {
	username, _ := d.botUser.Load().(string)
	return Status{
		Running:      d.running.Load(),
		BotUsername:  username,
		Chats:        d.registry.Len(),
		SnapshotPath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
}

// Chats summarizes every known chat, ordered by chat id.
func (d *Daemon) Chats() []ChatSummary {
	ids := d.registry.Chats()
	summaries := make([]ChatSummary, 0, len(ids))
	for _, chatID := range ids {
		state := d.registry.Get(chatID)
		if state == nil {
			continue
		}
		snap := state.Snapshot()
		summaries = append(summaries, ChatSummary{
			ChatID:  chatID,
			Playing: snap.Playing,
			Current: snap.Current,
			Queued:  len(snap.Queue),
		})
	}
	return summaries
}

// QueueView returns the inspect view for one chat. Unknown chats yield an
// empty view; an operator-side read does not create chat state.
func (d *Daemon) QueueView(chatID int64) playback.View {
	state := d.registry.Get(chatID)
	if state == nil {
		return playback.View{}
	}
	return d.engine.Inspect(state)
}

// StopChat clears a chat's queue from the operator side. Reports whether the
// chat was known.
func (d *Daemon) StopChat(ctx context.Context, chatID int64) bool {
	state := d.registry.Get(chatID)
	if state == nil {
		return false
	}
	d.engine.Stop(ctx, state)
	return true
}

// Registry exposes the chat registry for wiring and tests.
func (d *Daemon) Registry() *registry.Registry {
	return d.registry
}

// Engine exposes the queue engine for wiring and tests.
func (d *Daemon) Engine() *playback.Engine {
	return d.engine
}
