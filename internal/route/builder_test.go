package route

import (
	"testing"

	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/google/go-cmp/cmp"
)

const (
	alice    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob      = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	usdcMain = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	usdcOP   = "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"
	wethMain = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	wethOP   = "0x4200000000000000000000000000000000000006"
	dai      = "0x6b175474e89094c44da98b954eedeac495271d0f"
)

func resolve(t *testing.T, fromActor string, fromChain int64, fromToken, toActor string, toChain int64, toToken string) intent.Resolution {
	t.Helper()
	from := entity.NewRef(entity.ActorCoin{Address: fromActor, ChainID: fromChain, TokenAddress: fromToken})
	to := entity.NewRef(entity.ActorCoin{Address: toActor, ChainID: toChain, TokenAddress: toToken})
	res := intent.NewResolver(nil, nil, false).Resolve(from, to)
	if !res.Valid() {
		t.Fatalf("expected a valid resolution, got %+v", res)
	}
	return res
}

func ids(routes []Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.ID)
	}
	return out
}

func fixture() Data {
	return Data{
		SwapQuotes: []SwapQuote{
			{ID: "q1", ChainID: 1, TokenIn: "0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", TokenOut: wethMain, Protocol: registry.ProtocolLiFi},
			{ID: "q2", ChainID: 10, TokenIn: usdcOP, TokenOut: wethOP, Protocol: registry.ProtocolUniswap},
			{ID: "q3", ChainID: 1, TokenIn: dai, TokenOut: wethMain, Protocol: registry.ProtocolLiFi},
			{ID: "q4", ChainID: 1, TokenIn: usdcMain, TokenOut: dai, Protocol: registry.ProtocolUniswap},
		},
		BridgeRoutes: []BridgeRouteRow{
			{
				RowID: RowID{FromChainID: 1, ToChainID: 10, FromAddress: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
				Route: BridgeRoute{ID: "r1", FromChainID: 1, ToChainID: 10, Protocol: registry.ProtocolLiFi},
			},
			{
				RowID: RowID{FromChainID: 1, ToChainID: 10, FromAddress: bob},
				Route: BridgeRoute{ID: "r2", FromChainID: 1, ToChainID: 10, Protocol: registry.ProtocolLiFi},
			},
			{
				RowID: RowID{FromChainID: 10, ToChainID: 1, FromAddress: alice},
				Route: BridgeRoute{ID: "r3", FromChainID: 10, ToChainID: 1, Protocol: registry.ProtocolLiFi},
			},
		},
	}
}

func TestBuildSwapFiltersByChainAndTokens(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 1, wethMain)
	routes := NewBuilder(nil, false).Build(res, fixture(), nil)
	if diff := cmp.Diff([]string{"swap:q1-0"}, ids(routes)); diff != "" {
		t.Fatalf("unexpected routes (-want +got):\n%s", diff)
	}
	if routes[0].Label != "swap" || routes[0].Summary != "Swap via LI.FI" {
		t.Fatalf("unexpected label/summary: %+v", routes[0])
	}
	if routes[0].Steps[0].Swap == nil || routes[0].Steps[0].Swap.ID != "q1" {
		t.Fatalf("swap step must be bound to its quote: %+v", routes[0].Steps[0])
	}
}

func TestBuildSwapBridgeCartesianProduct(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, wethOP)
	if res.Kind != intent.KindSwapBridge {
		t.Fatalf("expected swap+bridge, got %s", res.Kind)
	}
	routes := NewBuilder(nil, false).Build(res, fixture(), nil)
	want := []string{
		"swap:q1|bridge:r1-0",
		"swap:q4|bridge:r1-1",
		"bridge:r1|swap:q2-0",
		"gateway:1->10|swap:q2-1",
	}
	if diff := cmp.Diff(want, ids(routes)); diff != "" {
		t.Fatalf("unexpected routes (-want +got):\n%s", diff)
	}
	if routes[0].Label != "swap → bridge" || routes[2].Label != "bridge → swap" {
		t.Fatalf("unexpected labels %q / %q", routes[0].Label, routes[2].Label)
	}
	if routes[0].Summary != "Swap then bridge via LI.FI" {
		t.Fatalf("unexpected summary %q", routes[0].Summary)
	}
	if routes[3].Summary != "Bridge via Circle Gateway, swap via Uniswap V4" {
		t.Fatalf("unexpected summary %q", routes[3].Summary)
	}
	gateway := routes[3].Steps[0]
	if gateway.Bridge == nil || gateway.Bridge.Route != nil || gateway.Protocol != registry.ProtocolGateway {
		t.Fatalf("gateway steps carry no live route: %+v", gateway)
	}
}

func TestBuildSingleAssetBridgeOnlyCarriesItsAsset(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, wethOP)
	data := fixture()
	data.BridgeRoutes = append(data.BridgeRoutes, BridgeRouteRow{
		RowID: RowID{FromChainID: 1, ToChainID: 10, FromAddress: alice},
		Route: BridgeRoute{ID: "c1", FromChainID: 1, ToChainID: 10, Protocol: registry.ProtocolCCTP},
	})
	for _, r := range NewBuilder(nil, false).Build(res, data, nil) {
		for i, s := range r.Steps {
			if s.Type != StepBridge {
				continue
			}
			if _, restricted := registry.BridgedAsset(s.Protocol); restricted && i > 0 {
				t.Fatalf("%s bridges WETH after the source swap in %s", s.Protocol, r.ID)
			}
		}
	}
}

func TestBuildTransferStepsTaggedByMode(t *testing.T) {
	res := resolve(t, alice, 1, wethMain, bob, 10, wethMain)
	if res.Kind != intent.KindTransferBridge {
		t.Fatalf("expected transfer+bridge, got %s", res.Kind)
	}
	routes := NewBuilder(nil, false).Build(res, fixture(), nil)
	if len(routes) == 0 {
		t.Fatal("expected routes")
	}
	want := "bridge → transfer:direct"
	if routes[0].Label != want {
		t.Fatalf("got label %q, want %q", routes[0].Label, want)
	}
	if routes[1].Label != "bridge → transfer:channel" {
		t.Fatalf("unexpected second label %q", routes[1].Label)
	}
}

func TestBuildDropsTemplatesWithoutCandidates(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, wethOP)
	data := fixture()
	data.SwapQuotes = nil
	if routes := NewBuilder(nil, false).Build(res, data, nil); len(routes) != 0 {
		t.Fatalf("expected no routes without swap quotes, got %v", ids(routes))
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, bob, 10, wethOP)
	b := NewBuilder(nil, false)
	first := b.Build(res, fixture(), nil)
	second := b.Build(res, fixture(), nil)
	if len(first) == 0 {
		t.Fatal("expected routes")
	}
	if diff := cmp.Diff(ids(first), ids(second)); diff != "" {
		t.Fatalf("route ids differ between identical builds (-first +second):\n%s", diff)
	}
}

func TestBuildRestrictsToChosenOption(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, wethOP)
	var chosen *intent.Option
	for i := range res.Options {
		if res.Options[i].Label == "Bridge via Circle Gateway, swap via Uniswap V4" {
			chosen = &res.Options[i]
		}
	}
	if chosen == nil {
		t.Fatalf("gateway option missing from %+v", res.Options)
	}
	routes := NewBuilder(nil, false).Build(res, fixture(), chosen)
	want := []string{"gateway:1->10|swap:q2-0"}
	if diff := cmp.Diff(want, ids(routes)); diff != "" {
		t.Fatalf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestBuildTwinTokensUseBridgeTemplate(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, usdcOP)
	if res.Kind != intent.KindBridge {
		t.Fatalf("expected bridge, got %s", res.Kind)
	}
	data := fixture()
	data.SwapQuotes = nil
	data.BridgeRoutes = append(data.BridgeRoutes, BridgeRouteRow{
		RowID: RowID{FromChainID: 1, ToChainID: 10, FromAddress: alice},
		Route: BridgeRoute{ID: "c1", FromChainID: 1, ToChainID: 10, Protocol: registry.ProtocolCCTP},
	})
	for i := range res.Options {
		routes := NewBuilder(nil, false).Build(res, data, &res.Options[i])
		if len(routes) == 0 {
			t.Fatalf("option %q yields no routes from matching bridge rows", res.Options[i].Label)
		}
	}
	routes := NewBuilder(nil, false).Build(res, data, &res.Options[0])
	if diff := cmp.Diff([]string{"bridge:r1-0"}, ids(routes)); diff != "" {
		t.Fatalf("unexpected routes (-want +got):\n%s", diff)
	}
}

func TestBuildUsesInjectedPairSupport(t *testing.T) {
	res := resolve(t, alice, 1, usdcMain, alice, 10, wethOP)
	never := func(registry.Protocol, int64, int64, bool) bool { return false }
	routes := NewBuilder(nil, false).WithPairSupport(never).Build(res, fixture(), nil)
	for _, r := range routes {
		for _, s := range r.Steps {
			if s.Protocol == registry.ProtocolGateway {
				t.Fatalf("gateway step injected despite unsupported pair: %s", r.ID)
			}
		}
	}
}

func TestBuildInvalidResolutionYieldsNothing(t *testing.T) {
	from := entity.NewRef(entity.ActorCoin{Address: alice, ChainID: 1, TokenAddress: usdcMain})
	res := intent.NewResolver(nil, nil, false).Resolve(from, from)
	routes := NewBuilder(nil, false).Build(res, fixture(), nil)
	if routes == nil || len(routes) != 0 {
		t.Fatalf("expected an empty route list, got %#v", routes)
	}
}

func TestTemplatesAreCopies(t *testing.T) {
	got := Templates(intent.KindSwapBridge)
	got[0][0] = TagTransfer
	if Templates(intent.KindSwapBridge)[0][0] != TagSwapSource {
		t.Fatal("mutating returned templates must not change the builder")
	}
}
