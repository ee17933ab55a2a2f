package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ggonzalez94/intents/internal/cache"
	"github.com/ggonzalez94/intents/internal/config"
	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/logging"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/google/go-cmp/cmp"
)

func TestRunnerRoutesLiveDegradesPerSource(t *testing.T) {
	var lifiCalls atomic.Int32
	lifi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/quote" {
			t.Errorf("unexpected lifi path %s", r.URL.Path)
		}
		lifiCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"lq1","tool":"1inch","estimate":{"fromAmount":"1000000","toAmount":"400000000000000"}}`))
	}))
	defer lifi.Close()

	cfg := writeFile(t, "config.yaml", "providers:\n  lifi:\n    base_url: "+lifi.URL+"/v1\n")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("INTENTS_UNISWAP_API_KEY", "")

	invoke := func() (int, map[string]any, string) {
		var stdout, stderr bytes.Buffer
		code := NewRunnerWithWriters(&stdout, &stderr).Run([]string{
			"--config", cfg,
			"routes",
			"--from", actorCoin(alice, 1, usdcMain),
			"--to", actorCoin(alice, 1, wethMain),
			"--live", "--amount", "1000000",
		})
		var env map[string]any
		if code == 0 {
			if err := json.Unmarshal(stdout.Bytes(), &env); err != nil {
				t.Fatalf("failed to parse envelope: %v output=%s", err, stdout.String())
			}
		}
		return code, env, stderr.String()
	}

	code, env, stderr := invoke()
	if code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", code, stderr)
	}
	routes := env["data"].([]any)
	if len(routes) != 1 || routes[0].(map[string]any)["id"] != "swap:lq1-0" {
		t.Fatalf("unexpected routes %v", routes)
	}
	meta := env["meta"].(map[string]any)
	if meta["partial"] != true {
		t.Fatalf("missing uniswap key must mark the result partial: %v", meta)
	}
	if meta["cache"].(map[string]any)["status"] != "write" {
		t.Fatalf("expected cache write, got %v", meta["cache"])
	}
	warnings := env["warnings"].([]any)
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the uniswap source, got %v", warnings)
	}

	code, env, stderr = invoke()
	if code != 0 {
		t.Fatalf("expected exit 0 on second run, got %d stderr=%s", code, stderr)
	}
	if lifiCalls.Load() != 1 {
		t.Fatalf("expected the second run to be served from cache, lifi called %d times", lifiCalls.Load())
	}
	if env["meta"].(map[string]any)["cache"].(map[string]any)["status"] != "hit" {
		t.Fatalf("expected cache hit, got %v", env["meta"])
	}
}

func TestRunnerRejectsForeignProviderURL(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "providers:\n  lifi:\n    base_url: https://example.com/v1\n")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := NewRunnerWithWriters(&stdout, &stderr).Run([]string{"--config", cfg, "protocols", "list"})
	if code != 2 {
		t.Fatalf("expected exit 2, got %d stderr=%s", code, stderr.String())
	}
}

func newCacheState(t *testing.T) *runtimeState {
	t.Helper()
	dir := t.TempDir()
	store, err := cache.Open(filepath.Join(dir, "quotes.db"), filepath.Join(dir, "quotes.lock"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return &runtimeState{
		settings: config.Settings{MaxStale: 5 * time.Minute, CacheEnabled: true},
		log:      logging.Discard(),
		cache:    store,
	}
}

func TestFetchRowsFreshHitSkipsFetch(t *testing.T) {
	s := newCacheState(t)
	ctx := context.Background()
	if err := cache.Save(ctx, s.cache, "k", []string{"cached"}, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	got, err := fetchRows(ctx, s, "k", func(context.Context) ([]string, error) {
		t.Fatal("fetch must not run on a fresh hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("fetchRows failed: %v", err)
	}
	if diff := cmp.Diff([]string{"cached"}, got.rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	if got.cache.Status != "hit" || got.stale {
		t.Fatalf("unexpected cache status %+v", got)
	}
}

func TestFetchRowsStaleFallback(t *testing.T) {
	s := newCacheState(t)
	ctx := context.Background()
	if err := cache.Save(ctx, s.cache, "k", []string{"old"}, time.Second); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	time.Sleep(2100 * time.Millisecond)

	unavailable := func(context.Context) ([]string, error) {
		return nil, clierr.New(clierr.CodeUnavailable, "provider down")
	}
	got, err := fetchRows(ctx, s, "k", unavailable)
	if err != nil {
		t.Fatalf("expected stale fallback, got %v", err)
	}
	if !got.stale || got.rows[0] != "old" {
		t.Fatalf("unexpected fallback result %+v", got)
	}

	auth := func(context.Context) ([]string, error) {
		return nil, clierr.New(clierr.CodeAuth, "bad key")
	}
	if _, err := fetchRows(ctx, s, "k", auth); clierr.ExitCode(err) != 10 {
		t.Fatalf("auth errors must not fall back to stale rows, got %v", err)
	}

	s.settings.NoStale = true
	_, err = fetchRows(ctx, s, "k", unavailable)
	cErr, ok := clierr.As(err)
	if !ok || cErr.Code != clierr.CodeStale {
		t.Fatalf("expected stale error with --no-stale, got %v", err)
	}
}

func TestFetchRowsWritesOnSuccess(t *testing.T) {
	s := newCacheState(t)
	ctx := context.Background()
	got, err := fetchRows(ctx, s, "k", func(context.Context) ([]string, error) {
		return []string{"new"}, nil
	})
	if err != nil {
		t.Fatalf("fetchRows failed: %v", err)
	}
	if got.cache.Status != "write" {
		t.Fatalf("expected write status, got %+v", got.cache)
	}
	rows, res, err := cache.Load[[]string](s.cache, "k", time.Minute)
	if err != nil || !res.Hit || rows[0] != "new" {
		t.Fatalf("rows not persisted: rows=%v res=%+v err=%v", rows, res, err)
	}
}

func TestFetchRowsWithoutCache(t *testing.T) {
	s := &runtimeState{log: logging.Discard()}
	_, err := fetchRows(context.Background(), s, "k", func(context.Context) ([]string, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

func TestMergeCacheStatus(t *testing.T) {
	cases := []struct {
		name string
		in   []model.CacheStatus
		want model.CacheStatus
	}{
		{name: "empty", in: nil, want: cacheMetaMiss()},
		{name: "hits keep oldest age", in: []model.CacheStatus{{Status: "hit", AgeMS: 10}, {Status: "hit", AgeMS: 40, Stale: true}}, want: model.CacheStatus{Status: "hit", AgeMS: 40, Stale: true}},
		{name: "write wins", in: []model.CacheStatus{{Status: "hit", AgeMS: 5}, {Status: "miss"}, {Status: "write"}}, want: model.CacheStatus{Status: "write", AgeMS: 5}},
		{name: "miss over hit", in: []model.CacheStatus{{Status: "hit"}, {Status: "miss"}}, want: model.CacheStatus{Status: "miss"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, mergeCacheStatus(tc.in)); diff != "" {
			t.Fatalf("%s: unexpected status (-want +got):\n%s", tc.name, diff)
		}
	}
}
