package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"draft-assistant/internal/domain"

	"github.com/rs/zerolog"
)

type Mode string

const (
	ModePrimary  Mode = "primary"
	ModeDegraded Mode = "degraded"
)

// Backend routes every call to the primary store until the primary fails as
// unavailable, then pins all traffic (reads included) to the fallback until
// an explicit reconnect probe succeeds. Pinning both directions avoids
// split-brain reads within a session. Writes in healthy mode go through to
// the fallback as well so it is current when failover happens.
//
// The pool-level RW lock serializes mutations against in-flight reads:
// concurrent queries proceed together, a put, draft flip or bulk update
// blocks them.
type Backend struct {
	primary  Store
	fallback Store
	logger   zerolog.Logger
	timeout  time.Duration

	mu sync.RWMutex

	modeMu        sync.Mutex
	degraded      bool
	fallbackStale bool
}

func NewBackend(primary, fallback Store, timeout time.Duration, logger zerolog.Logger) *Backend {
	return &Backend{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		timeout:  timeout,
	}
}

func (b *Backend) Mode() Mode {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	if b.degraded {
		return ModeDegraded
	}
	return ModePrimary
}

func (b *Backend) degrade(op string, err error) {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	if !b.degraded {
		b.logger.Warn().
			Err(err).
			Str("op", op).
			Msg("primary store unavailable, switching to fallback")
		if b.fallbackStale {
			b.logger.Warn().Msg("fallback snapshot missed earlier writes, serving it anyway")
		}
	}
	b.degraded = true
}

func (b *Backend) restore() {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	if b.degraded {
		b.logger.Info().Msg("primary store restored")
	}
	b.degraded = false
}

func (b *Backend) markFallbackStale(err error) {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	if !b.fallbackStale {
		b.logger.Warn().Err(err).Msg("write-through to fallback failed, snapshot is stale")
	}
	b.fallbackStale = true
}

func (b *Backend) fallbackIsStale() bool {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	return b.fallbackStale
}

func (b *Backend) clearFallbackStale() {
	b.modeMu.Lock()
	defer b.modeMu.Unlock()
	if b.fallbackStale {
		b.logger.Info().Msg("fallback snapshot repaired")
	}
	b.fallbackStale = false
}

// unavailable treats every store failure other than a lookup miss as a
// reachability problem worth failing over.
func unavailable(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrNotFound)
}

func exhausted(op string, primaryErr, fallbackErr error) error {
	return fmt.Errorf("%s: %w: primary: %v, fallback: %v",
		op, domain.ErrStoreExhausted, primaryErr, fallbackErr)
}

func (b *Backend) primaryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// mirrorPut keeps the fallback current after a successful primary write. If
// an earlier mirror write was missed, the whole pool is re-copied from the
// primary instead of applying just this delta. Must be called with the pool
// lock held.
func (b *Backend) mirrorPut(ctx context.Context, players []domain.Player) {
	if b.fallbackIsStale() {
		b.repairFallback(ctx)
		return
	}
	if err := b.fallback.Put(ctx, players); err != nil {
		b.markFallbackStale(err)
	}
}

func (b *Backend) mirrorSetDrafted(ctx context.Context, id, owner string, drafted bool) {
	if b.fallbackIsStale() {
		b.repairFallback(ctx)
		return
	}
	if err := b.fallback.SetDrafted(ctx, id, owner, drafted); err != nil {
		b.markFallbackStale(err)
	}
}

func (b *Backend) repairFallback(ctx context.Context) {
	pctx, cancel := b.primaryCtx(ctx)
	players, err := b.primary.GetAll(pctx)
	cancel()
	if err != nil {
		b.logger.Warn().Err(err).Msg("fallback repair: failed to read primary")
		return
	}
	if err := b.fallback.Put(ctx, players); err != nil {
		b.logger.Warn().Err(err).Msg("fallback repair: failed to write snapshot")
		return
	}
	b.clearFallbackStale()
}

func (b *Backend) Put(ctx context.Context, players []domain.Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.put(ctx, players)
}

// put is Put without the pool lock; callers hold it.
func (b *Backend) put(ctx context.Context, players []domain.Player) error {
	if b.Mode() == ModeDegraded {
		if err := b.fallback.Put(ctx, players); err != nil {
			return exhausted("put", domain.ErrStorageUnavailable, err)
		}
		return nil
	}

	pctx, cancel := b.primaryCtx(ctx)
	err := b.primary.Put(pctx, players)
	cancel()
	if err == nil {
		b.mirrorPut(ctx, players)
		return nil
	}

	b.degrade("put", err)
	if ferr := b.fallback.Put(ctx, players); ferr != nil {
		return exhausted("put", err, ferr)
	}
	return nil
}

func (b *Backend) SetDrafted(ctx context.Context, id, owner string, drafted bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Mode() == ModeDegraded {
		err := b.fallback.SetDrafted(ctx, id, owner, drafted)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return exhausted("set_drafted", domain.ErrStorageUnavailable, err)
		}
		return err
	}

	pctx, cancel := b.primaryCtx(ctx)
	err := b.primary.SetDrafted(pctx, id, owner, drafted)
	cancel()
	if err == nil {
		b.mirrorSetDrafted(ctx, id, owner, drafted)
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}

	b.degrade("set_drafted", err)
	ferr := b.fallback.SetDrafted(ctx, id, owner, drafted)
	if ferr != nil && !errors.Is(ferr, domain.ErrNotFound) {
		return exhausted("set_drafted", err, ferr)
	}
	return ferr
}

// Update applies a read-modify-write as one operation: the snapshot read,
// the caller's merge and the write-back all happen under the pool's write
// lock, so a draft flip cannot land in between and be lost. apply returns
// the records to write; returning an empty slice writes nothing.
func (b *Backend) Update(ctx context.Context, apply func(pool []domain.Player) ([]domain.Player, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool, err := b.getAll(ctx)
	if err != nil {
		return err
	}

	changed, err := apply(pool)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}
	return b.put(ctx, changed)
}

func (b *Backend) GetAll(ctx context.Context) ([]domain.Player, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.getAll(ctx)
}

// getAll is GetAll without the pool lock; callers hold it.
func (b *Backend) getAll(ctx context.Context) ([]domain.Player, error) {
	if b.Mode() == ModeDegraded {
		players, err := b.fallback.GetAll(ctx)
		if err != nil {
			return nil, exhausted("get_all", domain.ErrStorageUnavailable, err)
		}
		return players, nil
	}

	pctx, cancel := b.primaryCtx(ctx)
	players, err := b.primary.GetAll(pctx)
	cancel()
	if err == nil {
		return players, nil
	}

	b.degrade("get_all", err)
	players, ferr := b.fallback.GetAll(ctx)
	if ferr != nil {
		return nil, exhausted("get_all", err, ferr)
	}
	return players, nil
}

func (b *Backend) Get(ctx context.Context, id string) (domain.Player, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.Mode() == ModeDegraded {
		p, err := b.fallback.Get(ctx, id)
		if unavailable(err) {
			return domain.Player{}, exhausted("get", domain.ErrStorageUnavailable, err)
		}
		return p, err
	}

	pctx, cancel := b.primaryCtx(ctx)
	p, err := b.primary.Get(pctx, id)
	cancel()
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return p, err
	}

	b.degrade("get", err)
	p, ferr := b.fallback.Get(ctx, id)
	if unavailable(ferr) {
		return domain.Player{}, exhausted("get", err, ferr)
	}
	return p, ferr
}

// Reconnect probes the primary store. On success the backend routes to the
// primary again. It does not reconcile data; a degraded session's writes
// only reach the primary through an explicit Resync.
func (b *Backend) Reconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pctx, cancel := b.primaryCtx(ctx)
	err := b.primary.Ping(pctx)
	cancel()
	if err != nil {
		b.logger.Warn().Err(err).Msg("primary reconnect probe failed")
		return fmt.Errorf("reconnect probe: %w: %v", domain.ErrStorageUnavailable, err)
	}

	b.restore()
	return nil
}

// Resync re-puts the fallback's current pool into the primary. It never runs
// automatically: a degraded session's fallback may be poorer than the
// primary, so the caller decides when overwriting is safe.
func (b *Backend) Resync(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	players, err := b.fallback.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("resync: failed to read fallback: %w", err)
	}

	pctx, cancel := b.primaryCtx(ctx)
	err = b.primary.Put(pctx, players)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("resync: %w: %v", domain.ErrStorageUnavailable, err)
	}

	b.restore()
	b.clearFallbackStale()
	b.logger.Info().Int("players", len(players)).Msg("fallback pool resynced into primary")
	return len(players), nil
}
