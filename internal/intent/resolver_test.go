package intent

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/google/go-cmp/cmp"
)

const (
	alice     = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob       = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	usdcMain  = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	usdcOP    = "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"
	wethMain  = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	wethOP    = "0x4200000000000000000000000000000000000006"
	unlisted  = "0x1111111111111111111111111111111111111111"
	usdcTwins = "usdc@interop"
)

func coin(actor string, chainID int64, token string) entity.Ref {
	return entity.NewRef(entity.ActorCoin{Address: actor, ChainID: chainID, TokenAddress: token})
}

func resolve(from, to entity.Ref) Resolution {
	return NewResolver(nil, nil, false).Resolve(from, to)
}

func labels(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Label)
	}
	return out
}

func TestResolveSwapSameChain(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(alice, 1, wethMain))
	if res.Status != StatusValid || res.Kind != KindSwap {
		t.Fatalf("expected valid swap, got %+v", res)
	}
	if diff := cmp.Diff([]string{"Swap via LI.FI", "Swap via Uniswap V4"}, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	for _, o := range res.Options {
		if len(o.Actions) != 1 {
			t.Fatalf("expected a single action in %q, got %d", o.Label, len(o.Actions))
		}
	}
}

func TestResolveBridgeSameToken(t *testing.T) {
	from := entity.NewRef(entity.ActorCoin{Address: alice, ChainID: 1, TokenAddress: usdcMain, TokenInteropAddress: usdcTwins})
	to := entity.NewRef(entity.ActorCoin{Address: alice, ChainID: 10, TokenAddress: usdcOP, TokenInteropAddress: usdcTwins})
	res := resolve(from, to)
	if res.Kind != KindBridge {
		t.Fatalf("expected bridge, got %s (%s)", res.Kind, res.Reason)
	}
	want := []string{"Bridge via LI.FI", "Bridge via Circle CCTP", "Bridge via Circle Gateway"}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestResolveBridgeSkipsGatewayOffItsChains(t *testing.T) {
	res := resolve(coin(alice, 1, wethMain), entity.NewRef(entity.ActorCoin{Address: alice, ChainID: 56, TokenAddress: wethMain}))
	if res.Kind != KindBridge {
		t.Fatalf("expected bridge, got %s", res.Kind)
	}
	if diff := cmp.Diff([]string{"Bridge via LI.FI"}, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestResolveTransferSwapBridge(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(bob, 10, wethOP))
	if res.Kind != KindTransferSwapBridge {
		t.Fatalf("expected transfer+swap+bridge, got %s", res.Kind)
	}
	want := []string{
		"Swap then bridge via LI.FI",
		"Bridge via Circle CCTP, swap via Uniswap V4, and transfer via Wallet",
		"Bridge via Circle Gateway, swap via Uniswap V4, and transfer via Wallet",
	}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}

	lifi := res.Options[0]
	swap := lifi.Actions[0].Payload.(SwapPayload)
	if swap.ChainID != 1 || swap.TokenOut != common.HexToAddress(wethMain) {
		t.Fatalf("aggregator swap must target the source-chain twin, got %+v", swap)
	}
	bridge := lifi.Actions[1].Payload.(BridgePayload)
	if bridge.Recipient == nil || *bridge.Recipient != common.HexToAddress(bob) {
		t.Fatalf("aggregator bridge must deliver to bob, got %v", bridge.Recipient)
	}

	for _, o := range res.Options[1:] {
		bridge := o.Actions[0].Payload.(BridgePayload)
		if bridge.TokenIn != common.HexToAddress(usdcMain) || bridge.TokenOut != common.HexToAddress(usdcOP) {
			t.Fatalf("%q: USDC-only bridges must carry USDC, got %s -> %s", o.Label, bridge.TokenIn.Hex(), bridge.TokenOut.Hex())
		}
		swap := o.Actions[1].Payload.(SwapPayload)
		if swap.ChainID != 10 || swap.TokenIn != common.HexToAddress(usdcOP) || swap.TokenOut != common.HexToAddress(wethOP) {
			t.Fatalf("%q: destination swap must run on chain 10, got %+v", o.Label, swap)
		}
		transfer := o.Actions[2].Payload.(TransferPayload)
		if transfer.To != common.HexToAddress(bob) || transfer.ChainID != 10 {
			t.Fatalf("%q: unexpected transfer %+v", o.Label, transfer)
		}
	}
}

func TestResolveSwapBridgeIntoUSDCSwapsBeforeBridging(t *testing.T) {
	res := resolve(coin(alice, 1, wethMain), coin(alice, 10, usdcOP))
	want := []string{
		"Swap then bridge via LI.FI",
		"Swap via Uniswap V4, bridge via Circle CCTP",
		"Swap via Uniswap V4, bridge via Circle Gateway",
	}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	swap := res.Options[1].Actions[0].Payload.(SwapPayload)
	if swap.ChainID != 1 || swap.TokenOut != common.HexToAddress(usdcMain) {
		t.Fatalf("native swap must target source-chain USDC, got %+v", swap)
	}
}

func TestResolveSingleAssetBridgesRejectOtherTokens(t *testing.T) {
	res := resolve(coin(alice, 1, wethMain), coin(alice, 10, wethOP))
	if res.Kind != KindBridge {
		t.Fatalf("listed twins across chains must bridge, got %s", res.Kind)
	}
	if diff := cmp.Diff([]string{"Bridge via LI.FI"}, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestResolveTwinTokensAcrossChainsIsBridge(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(alice, 10, usdcOP))
	if res.Kind != KindBridge {
		t.Fatalf("expected bridge for USDC twins, got %s", res.Kind)
	}
	if res.Equality.Token != entity.False {
		t.Fatalf("raw token equality is still reported, got %s", res.Equality.Token)
	}
	want := []string{"Bridge via LI.FI", "Bridge via Circle CCTP", "Bridge via Circle Gateway"}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}

	withBob := resolve(coin(alice, 1, usdcMain), coin(bob, 10, usdcOP))
	if withBob.Kind != KindTransferBridge {
		t.Fatalf("expected transfer+bridge, got %s", withBob.Kind)
	}
}

func TestResolveChannelCreate(t *testing.T) {
	res := resolve(entity.NewRef(entity.Actor{Address: alice}), entity.NewRef(entity.Actor{Address: bob}))
	if res.Kind != KindChannelCreate || len(res.Options) != 1 {
		t.Fatalf("expected one channel option, got %+v", res)
	}
	actions := res.Options[0].ProtocolActions()
	want := []registry.ProtocolAction{
		{Action: registry.ActionCreateChannel, Protocol: registry.ProtocolYellow},
		{Action: registry.ActionAddChannelMember, Protocol: registry.ProtocolYellow},
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("unexpected actions (-want +got):\n%s", diff)
	}
	if res.Options[0].Label != "Create channel then add member via Yellow" {
		t.Fatalf("unexpected label %q", res.Options[0].Label)
	}
}

func TestResolveIdenticalIsInvalid(t *testing.T) {
	ref := coin(alice, 1, usdcMain)
	res := resolve(ref, ref)
	if res.Status != StatusInvalid || res.Reason != ReasonIdentical {
		t.Fatalf("expected identical no-op, got %+v", res)
	}
	if !strings.Contains(res.Reason, "identical actor, chain, and token") {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
	if res.Options == nil || len(res.Options) != 0 {
		t.Fatalf("expected an empty option list, got %#v", res.Options)
	}
}

func TestResolveMissingDetailsBeforeNoop(t *testing.T) {
	from := entity.NewRef(entity.Coin{ChainID: 1, TokenAddress: usdcMain})
	res := resolve(from, coin(alice, 1, usdcMain))
	if res.Status != StatusInvalid || res.Reason != ReasonMissingDetails {
		t.Fatalf("expected missing details, got %+v", res)
	}
	raw, err := json.Marshal(res.Equality)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"actor":null,"chain":true,"token":true}` {
		t.Fatalf("unknown equality must stay null, got %s", raw)
	}
}

func TestPredicateRejectionFallsThrough(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), entity.NewRef(entity.Network{Name: "unnamed"}))
	if res.Status != StatusInvalid || res.Reason != ReasonMissingDetails || res.Error != "" {
		t.Fatalf("rejected predicate must fall through to classification, got %+v", res)
	}
}

func TestResolveErrorIsCapturedOnMatch(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), entity.NewRef(entity.Network{ChainID: 1}))
	if res.Status != StatusValid || res.Kind != KindBridge {
		t.Fatalf("expected matched bridge intent, got %+v", res)
	}
	if res.Error == "" || len(res.Options) != 0 {
		t.Fatalf("expected error with no options, got error=%q options=%d", res.Error, len(res.Options))
	}
}

func TestResolveToAccountOnNetwork(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), entity.NewRef(entity.ActorNetwork{Address: bob, ChainID: 10}))
	if res.Kind != KindTransferBridge {
		t.Fatalf("expected transfer+bridge, got %s", res.Kind)
	}
	if res.Flow == nil || res.Flow.To.Token != common.HexToAddress(usdcOP) {
		t.Fatalf("destination token must be the chain twin, got %+v", res.Flow)
	}
	if len(res.Options) != 3 {
		t.Fatalf("expected lifi, cctp and gateway options, got %v", labels(res.Options))
	}
}

func TestResolveToListedCoinAcrossChainsIsBridge(t *testing.T) {
	to := entity.NewRef(entity.TokenListCoin{ChainID: 10, Address: usdcOP, Symbol: "USDC"})
	res := resolve(coin(alice, 1, usdcMain), to)
	if res.Kind != KindBridge {
		t.Fatalf("twin tokens across chains bridge, got %s", res.Kind)
	}
	other := resolve(coin(alice, 1, usdcMain), entity.NewRef(entity.Coin{ChainID: 1, TokenAddress: wethMain}))
	if other.Kind != KindSwap || other.Label != "Swap into token" {
		t.Fatalf("expected catalog swap, got %+v", other)
	}
}

func TestResolvePureTransfer(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(bob, 1, usdcMain))
	if res.Kind != KindTransfer {
		t.Fatalf("expected transfer, got %s", res.Kind)
	}
	if diff := cmp.Diff([]string{"Transfer via Wallet", "Transfer via Yellow"}, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	payload := res.Options[1].Actions[0].Payload.(TransferPayload)
	if payload.Mode != registry.TransferModeChannel {
		t.Fatalf("yellow transfers run over a channel, got %q", payload.Mode)
	}
}

func TestResolveTransferSwapAppendsTransferWhenNoRecipient(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(bob, 1, wethMain))
	want := []string{"Swap via LI.FI", "Swap via Uniswap V4, transfer via Wallet"}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	swap := res.Options[0].Actions[0].Payload.(SwapPayload)
	if swap.Recipient == nil {
		t.Fatal("lifi swaps must carry the recipient")
	}
}

func TestResolveSwapBridgeWithoutSourceTwin(t *testing.T) {
	res := resolve(coin(alice, 1, usdcMain), coin(alice, 10, unlisted))
	if res.Kind != KindSwapBridge {
		t.Fatalf("expected swap+bridge, got %s", res.Kind)
	}
	want := []string{
		"Bridge via LI.FI",
		"Bridge via Circle CCTP, swap via Uniswap V4",
		"Bridge via Circle Gateway, swap via Uniswap V4",
	}
	if diff := cmp.Diff(want, labels(res.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}

	hop := res.Options[0].Actions[0].Payload.(BridgePayload)
	wantHop := BridgePayload{
		Actor:       common.HexToAddress(alice),
		FromChainID: 1,
		ToChainID:   10,
		TokenIn:     common.HexToAddress(usdcMain),
		TokenOut:    common.HexToAddress(unlisted),
	}
	if diff := cmp.Diff(wantHop, hop); diff != "" {
		t.Fatalf("aggregator hop must pair each chain with its own token (-want +got):\n%s", diff)
	}

	// No source-chain action may carry the destination-only token.
	for _, o := range res.Options {
		for _, a := range o.Actions {
			switch p := a.Payload.(type) {
			case SwapPayload:
				if p.ChainID == 1 && (p.TokenIn == common.HexToAddress(unlisted) || p.TokenOut == common.HexToAddress(unlisted)) {
					t.Fatalf("%q: chain 1 swap uses a chain 10 token: %+v", o.Label, p)
				}
			case BridgePayload:
				if p.TokenIn == common.HexToAddress(unlisted) {
					t.Fatalf("%q: bridge input is a chain 10 token: %+v", o.Label, p)
				}
			}
		}
	}
}

func TestResolveLiquidity(t *testing.T) {
	pool := entity.NewRef(entity.UniswapPool{ChainID: 1, PoolID: "0xpool", Token0: usdcMain, Token1: wethMain})
	res := resolve(coin(alice, 1, usdcMain), pool)
	if res.Kind != KindLiquidityAdd || len(res.Options) != 1 || res.Error != "" {
		t.Fatalf("expected add liquidity, got %+v", res)
	}

	wrongChain := resolve(coin(alice, 10, usdcOP), pool)
	if wrongChain.Kind != KindLiquidityAdd || wrongChain.Error == "" {
		t.Fatalf("expected matched intent with error, got %+v", wrongChain)
	}

	position := entity.NewRef(entity.UniswapPosition{ChainID: 1, TokenID: "42", Owner: alice, PoolID: "0xpool", Token0: usdcMain, Token1: wethMain})
	removed := resolve(position, coin(alice, 1, wethMain))
	if diff := cmp.Diff([]string{"Remove liquidity via Uniswap V4", "Collect fees via Uniswap V4"}, labels(removed.Options)); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestResolveRoomIntents(t *testing.T) {
	room := entity.NewRef(entity.Room{RoomID: "room-1"})
	shared := resolve(entity.NewRef(entity.Network{ChainID: 10}), room)
	if shared.Kind != KindRoomShare || shared.Options[0].Label != "Share via Rooms" {
		t.Fatalf("expected share, got %+v", shared)
	}
	invited := resolve(entity.NewRef(entity.Actor{Address: bob}), room)
	if invited.Kind != KindRoomInvite {
		t.Fatalf("expected invite, got %s", invited.Kind)
	}
	peer := entity.NewRef(entity.RoomPeer{RoomID: "room-1", PeerID: "p1", Address: bob})
	verify := resolve(entity.NewRef(entity.Actor{Address: alice}), peer)
	if verify.Kind != KindPeerVerify || verify.Options[0].Label != "Request verification via Rooms" {
		t.Fatalf("expected verification, got %+v", verify)
	}
	sent := resolve(coin(alice, 1, usdcMain), peer)
	if sent.Kind != KindPeerTransfer || len(sent.Options) != 2 {
		t.Fatalf("expected peer transfer options, got %+v", sent)
	}
}

func TestClassifyTruthTable(t *testing.T) {
	seen := map[Kind]bool{}
	for _, actor := range []bool{true, false} {
		for _, chain := range []bool{true, false} {
			for _, token := range []bool{true, false} {
				kind, ok := Classify(actor, chain, token)
				if actor && chain && token {
					if ok {
						t.Fatalf("identical dimensions must not classify, got %s", kind)
					}
					continue
				}
				if !ok || !kind.Composite() {
					t.Fatalf("(%v,%v,%v) did not classify", actor, chain, token)
				}
				if seen[kind] {
					t.Fatalf("kind %s selected twice", kind)
				}
				seen[kind] = true
				needTransfer, needSwap, needBridge := kind.Needs()
				if needTransfer == actor || needSwap == token || needBridge == chain {
					t.Fatalf("kind %s does not match (%v,%v,%v)", kind, actor, chain, token)
				}
			}
		}
	}
	if len(seen) != 7 {
		t.Fatalf("expected 7 kinds, got %d", len(seen))
	}
}

func TestCatalogFirstMatchWins(t *testing.T) {
	first := Define(KindSwap, "first", Roles[entity.ActorCoin, entity.ActorCoin]{}, func(Env, entity.ActorCoin, entity.ActorCoin) (Outcome, error) {
		return Outcome{}, nil
	})
	second := Define(KindBridge, "second", Roles[entity.ActorCoin, entity.ActorCoin]{}, func(Env, entity.ActorCoin, entity.ActorCoin) (Outcome, error) {
		return Outcome{}, nil
	})
	from, to := coin(alice, 1, usdcMain), coin(alice, 10, usdcOP)

	ordered := NewResolver(NewCatalog(first, second), nil, false).Resolve(from, to)
	reversed := NewResolver(NewCatalog(second, first), nil, false).Resolve(from, to)
	if ordered.Label != "first" || reversed.Label != "second" {
		t.Fatalf("reordering must change the match: %q / %q", ordered.Label, reversed.Label)
	}
	shadows := NewCatalog(first, second).Shadowed()
	if len(shadows) != 1 || shadows[0].Index != 1 || shadows[0].ByIndex != 0 {
		t.Fatalf("expected the second definition to be shadowed, got %+v", shadows)
	}
}

func TestCatalogPredicateOrder(t *testing.T) {
	rejectAll := Define(KindSwap, "never", Roles[entity.ActorCoin, entity.ActorCoin]{
		Target: func(entity.ActorCoin) Check { return Reject("never matches") },
	}, func(Env, entity.ActorCoin, entity.ActorCoin) (Outcome, error) {
		return Outcome{}, nil
	})
	always := Define(KindBridge, "always", Roles[entity.ActorCoin, entity.ActorCoin]{}, func(Env, entity.ActorCoin, entity.ActorCoin) (Outcome, error) {
		return Outcome{}, nil
	})
	def, _, rejected, ok := NewCatalog(rejectAll, always).Match(coin(alice, 1, usdcMain), coin(bob, 1, usdcMain))
	if !ok || def.Label != "always" {
		t.Fatalf("expected fallthrough to the second definition, got %+v", def)
	}
	if len(rejected) != 1 || rejected[0].Error != "never matches" {
		t.Fatalf("expected the rejection to be reported, got %+v", rejected)
	}
	if len(NewCatalog(rejectAll, always).Shadowed()) != 0 {
		t.Fatal("a predicate-guarded definition shadows nothing")
	}
}

func TestDefaultCatalogHasNoShadowedDefinitions(t *testing.T) {
	if shadows := DefaultCatalog().Shadowed(); len(shadows) != 0 {
		t.Fatalf("unexpected shadowed definitions: %+v", shadows)
	}
}
