// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/turbine"
	"github.com/luxfi/turbine/metrics"
)

// entry is one epoch's cached view, guarded by its own mutex so that, when
// needed, only one goroutine recomputes it — other callers targeting the
// same epoch wait on this mutex and observe the result (spec §4.6, §5).
type entry struct {
	mu      sync.Mutex
	builtAt time.Time
	view    *turbine.ClusterView
	has     bool
}

// ViewCache is a bounded LRU of per-epoch ClusterViews with a TTL
// eviction/refresh policy. The outer LRU lock is held only long enough to
// look up or install an entry's mutex; the (potentially expensive) view
// construction happens while holding only that entry's lock, so
// concurrent traffic for other epochs is never blocked.
type ViewCache struct {
	byEpoch *lru[turbine.Epoch, *entry]
	ttl     time.Duration
	role    turbine.Role
	metrics *metrics.Metrics
	log     log.Logger
}

// New returns a ViewCache holding at most capEpochs distinct epochs, each
// refreshed at most once per ttl.
func New(capEpochs int, ttl time.Duration, role turbine.Role, m *metrics.Metrics, logger log.Logger) *ViewCache {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &ViewCache{
		byEpoch: newLRU[turbine.Epoch, *entry](capEpochs),
		ttl:     ttl,
		role:    role,
		metrics: m,
		log:     logger,
	}
}

// Get resolves shredSlot to its leader-schedule epoch on rootBank, and
// returns that epoch's ClusterView — rebuilding it if absent or stale
// (spec §4.6). ctx is checked once, after the entry lock is acquired and
// before a rebuild starts; it is not passed to the Bank or ClusterInfo
// calls, so a rebuild already under way is not interrupted. If ctx is
// already done at that point, no rebuild is made: the cached view is
// returned even when it is older than the TTL, and when there is none a
// view built with an empty stake map is returned without being cached.
func (c *ViewCache) Get(ctx context.Context, ci turbine.ClusterInfo, rootBank, workingBank turbine.Bank, shredSlot turbine.Slot) *turbine.ClusterView {
	epoch := rootBank.LeaderScheduleEpoch(shredSlot)
	e := c.byEpoch.getOrInsert(epoch, func() *entry { return &entry{} })

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.has && time.Since(e.builtAt) < c.ttl {
		return e.view
	}
	if err := ctx.Err(); err != nil {
		c.log.Debug("view rebuild aborted", "epoch", epoch, "err", err)
		if e.has {
			return e.view
		}
		return turbine.NewClusterView(ci, nil, c.role)
	}

	stakes := c.resolveStakes(ctx, epoch, rootBank, workingBank)
	view := turbine.NewClusterView(ci, stakes, c.role)
	e.view = view
	e.builtAt = time.Now()
	e.has = true
	c.log.Debug("rebuilt cluster view", "epoch", epoch, "nodes", len(view.Nodes), "peers", view.NumPeers())
	if c.metrics != nil {
		c.metrics.ViewRebuilds.Inc()
		live := view.NumPeersLive(uint64(time.Now().UnixMilli()))
		c.metrics.PeersLive.WithLabelValues(roleLabel(c.role)).Set(float64(live))
	}
	return view
}

func roleLabel(role turbine.Role) string {
	if role == turbine.RoleBroadcast {
		return "broadcast"
	}
	return "retransmit"
}

// resolveStakes sources the epoch stake map from rootBank, falling back to
// workingBank, then — if both report nothing and epoch differs from
// rootBank's own current leader-schedule epoch — retries once against
// rootBank's own slot. If still nothing, an empty map is used (spec §4.6,
// §7).
func (c *ViewCache) resolveStakes(ctx context.Context, epoch turbine.Epoch, rootBank, workingBank turbine.Bank) map[turbine.Pubkey]uint64 {
	if stakes := rootBank.EpochStakedNodes(epoch); len(stakes) > 0 {
		return stakes
	}
	if c.metrics != nil {
		c.metrics.EpochStakedNodesFallbacks.Inc()
	}
	if stakes := workingBank.EpochStakedNodes(epoch); len(stakes) > 0 {
		return stakes
	}
	rootEpoch := rootBank.LeaderScheduleEpoch(rootBank.Slot())
	if epoch != rootEpoch {
		return c.resolveStakes(ctx, rootEpoch, rootBank, workingBank)
	}
	if c.metrics != nil {
		c.metrics.EpochStakedNodesFallbacksAtRoot.Inc()
	}
	return map[turbine.Pubkey]uint64{}
}
