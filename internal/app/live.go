package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ggonzalez94/intents/internal/cache"
	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/providers"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/ggonzalez94/intents/internal/route"
)

type liveResult struct {
	data      route.Data
	providers []model.ProviderStatus
	warnings  []string
	cache     model.CacheStatus
	partial   bool
}

type rowsResult[T any] struct {
	rows  []T
	cache model.CacheStatus
	stale bool
}

// fetchLive requests the rows the resolution's routes can use. A failing
// source becomes a warning; routes are built from whatever was obtained.
func (s *runtimeState) fetchLive(ctx context.Context, res intent.Resolution, amount string) (liveResult, error) {
	result := liveResult{cache: cacheMetaBypass()}
	if res.Flow == nil {
		return result, nil
	}
	if err := s.openCache(); err != nil {
		return result, err
	}

	plan := providers.PlanRequests(res.Kind, *res.Flow, amount)
	s.log.Debug("live fetch plan", "kind", res.Kind, "swaps", len(plan.Swaps), "bridges", len(plan.Bridges))

	var statuses []model.CacheStatus
	for _, req := range plan.Swaps {
		for _, q := range s.swapQuoters {
			name := q.Info().Name
			if !s.allow.Allows(registry.Protocol(name)) {
				continue
			}
			key := cache.Key(name, "swap", strconv.FormatInt(req.ChainID, 10), req.TokenIn.Hex(), req.TokenOut.Hex(), req.AmountBaseUnits, req.Swapper.Hex())
			start := time.Now()
			got, err := fetchRows(ctx, s, key, func(ctx context.Context) ([]route.SwapQuote, error) {
				return q.SwapQuotes(ctx, req)
			})
			result.providers = append(result.providers, model.ProviderStatus{Name: name, Status: statusFromErr(err), LatencyMS: time.Since(start).Milliseconds()})
			if err != nil {
				result.partial = true
				result.warnings = append(result.warnings, fmt.Sprintf("%s swap quotes on chain %d unavailable: %v", name, req.ChainID, err))
				s.log.Warn("swap quote source failed", "provider", name, "chain", req.ChainID, "err", err)
				continue
			}
			result.data.SwapQuotes = append(result.data.SwapQuotes, got.rows...)
			statuses = append(statuses, got.cache)
			if got.stale {
				result.warnings = append(result.warnings, fmt.Sprintf("%s swap quotes on chain %d served from stale cache", name, req.ChainID))
			}
		}
	}
	for _, req := range plan.Bridges {
		for _, b := range s.bridgeRouters {
			name := b.Info().Name
			if !s.allow.Allows(registry.Protocol(name)) {
				continue
			}
			key := cache.Key(name, "bridge", strconv.FormatInt(req.FromChainID, 10), strconv.FormatInt(req.ToChainID, 10), req.FromToken.Hex(), req.ToToken.Hex(), req.FromAddress.Hex(), req.ToAddress.Hex(), req.AmountBaseUnits)
			start := time.Now()
			got, err := fetchRows(ctx, s, key, func(ctx context.Context) ([]route.BridgeRouteRow, error) {
				return b.BridgeRoutes(ctx, req)
			})
			result.providers = append(result.providers, model.ProviderStatus{Name: name, Status: statusFromErr(err), LatencyMS: time.Since(start).Milliseconds()})
			if err != nil {
				result.partial = true
				result.warnings = append(result.warnings, fmt.Sprintf("%s bridge routes %d->%d unavailable: %v", name, req.FromChainID, req.ToChainID, err))
				s.log.Warn("bridge route source failed", "provider", name, "from", req.FromChainID, "to", req.ToChainID, "err", err)
				continue
			}
			result.data.BridgeRoutes = append(result.data.BridgeRoutes, got.rows...)
			statuses = append(statuses, got.cache)
			if got.stale {
				result.warnings = append(result.warnings, fmt.Sprintf("%s bridge routes %d->%d served from stale cache", name, req.FromChainID, req.ToChainID))
			}
		}
	}
	if s.cache != nil {
		result.cache = mergeCacheStatus(statuses)
	}
	return result, nil
}

// fetchRows serves fresh cached rows, otherwise fetches and caches them.
// Stale rows stand in when the provider is unavailable or rate limited and
// the entry is still inside the max-stale budget.
func fetchRows[T any](ctx context.Context, s *runtimeState, key string, fetch func(context.Context) ([]T, error)) (rowsResult[T], error) {
	var stale *rowsResult[T]
	var staleAge time.Duration
	if s.cache != nil {
		rows, cached, err := cache.Load[[]T](s.cache, key, s.settings.MaxStale)
		if err != nil {
			s.log.Debug("cache read failed", "key", key, "err", err)
		}
		if err == nil && cached.Hit {
			status := model.CacheStatus{Status: "hit", AgeMS: cached.Age.Milliseconds(), Stale: cached.Stale}
			if !cached.Stale {
				return rowsResult[T]{rows: rows, cache: status}, nil
			}
			stale = &rowsResult[T]{rows: rows, cache: status, stale: true}
			staleAge = cached.Age
			if cached.TooStale {
				stale = nil
			}
		}
	}

	rows, err := fetch(ctx)
	if err != nil {
		if stale == nil || !staleFallbackAllowed(err) {
			return rowsResult[T]{}, err
		}
		if s.settings.NoStale {
			return rowsResult[T]{}, clierr.Wrap(clierr.CodeStale, "fresh provider fetch failed and stale fallback is disabled (--no-stale)", err)
		}
		s.log.Warn("serving stale rows", "key", key, "age", staleAge, "err", err)
		return *stale, nil
	}

	status := cacheMetaMiss()
	if s.cache != nil {
		if err := cache.Save(ctx, s.cache, key, rows, cache.RowTTL); err != nil {
			s.log.Debug("cache write failed", "key", key, "err", err)
		} else {
			status = model.CacheStatus{Status: "write"}
		}
	}
	return rowsResult[T]{rows: rows, cache: status}, nil
}

func (s *runtimeState) openCache() error {
	if s.cache != nil || !s.settings.CacheEnabled {
		return nil
	}
	store, err := cache.Open(s.settings.CachePath, s.settings.CacheLockPath)
	if err != nil {
		return clierr.Wrap(clierr.CodeInternal, "open cache", err)
	}
	s.cache = store
	return nil
}

// mergeCacheStatus summarises per-source cache outcomes: any write wins,
// then any miss, and a hit reports the oldest entry.
func mergeCacheStatus(statuses []model.CacheStatus) model.CacheStatus {
	if len(statuses) == 0 {
		return cacheMetaMiss()
	}
	merged := model.CacheStatus{Status: "hit"}
	for _, st := range statuses {
		switch st.Status {
		case "write":
			merged.Status = "write"
		case "miss":
			if merged.Status == "hit" {
				merged.Status = "miss"
			}
		}
		if st.AgeMS > merged.AgeMS {
			merged.AgeMS = st.AgeMS
		}
		merged.Stale = merged.Stale || st.Stale
	}
	return merged
}

func staleFallbackAllowed(err error) bool {
	cErr, ok := clierr.As(err)
	if !ok {
		return false
	}
	return cErr.Code == clierr.CodeUnavailable || cErr.Code == clierr.CodeRateLimited
}
