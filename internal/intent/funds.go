package intent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/id"
	"github.com/ggonzalez94/intents/internal/registry"
)

// recipientAware payloads can deliver their output to a third party.
type recipientAware interface {
	ActionPayload
	withRecipient(common.Address) ActionPayload
}

func (p SwapPayload) withRecipient(to common.Address) ActionPayload {
	p.Recipient = &to
	return p
}

func (p BridgePayload) withRecipient(to common.Address) ActionPayload {
	p.Recipient = &to
	return p
}

// BuildFundsOptions enumerates the protocol families able to move funds along
// flow for a composite kind. Steps are only added for dimensions that differ.
func BuildFundsOptions(env Env, kind Kind, flow Flow) []Option {
	needTransfer, needSwap, needBridge := kind.Needs()
	reg := env.Registry
	if reg == nil {
		reg = registry.Default()
	}

	if needTransfer && !needSwap && !needBridge {
		options := []Option{}
		for _, p := range reg.ProtocolsByAction(registry.ActionTransfer) {
			if !reg.SupportsRecipient(registry.ActionTransfer, p) {
				continue
			}
			options = append(options, NewOption(transferAction(p, flow)))
		}
		return options
	}
	if !needSwap && !needBridge {
		return []Option{}
	}

	b := fundsBuilder{env: env, reg: reg, flow: flow, needSwap: needSwap, needBridge: needBridge}
	candidates := [][]Action{}
	candidates = append(candidates, b.aggregatorLegs()...)
	if legs, ok := b.nativeLegs(); ok {
		candidates = append(candidates, legs)
	}
	candidates = append(candidates, b.unifiedBalanceLegs()...)

	seen := map[string]struct{}{}
	options := []Option{}
	for _, legs := range candidates {
		if needTransfer {
			legs = b.deliver(legs)
		}
		option := NewOption(legs...)
		if _, dup := seen[option.Label]; dup {
			continue
		}
		seen[option.Label] = struct{}{}
		options = append(options, option)
	}
	return options
}

type fundsBuilder struct {
	env        Env
	reg        *registry.Registry
	flow       Flow
	needSwap   bool
	needBridge bool
}

// aggregatorLegs covers every protocol able to both swap and bridge.
func (b fundsBuilder) aggregatorLegs() [][]Action {
	out := [][]Action{}
	for _, p := range b.reg.ProtocolsByAction(registry.ActionSwap) {
		if !b.reg.Supports(registry.ActionBridge, p) {
			continue
		}
		if b.needBridge && !registry.SupportsPair(p, b.flow.From.ChainID, b.flow.To.ChainID, b.env.Testnet) {
			continue
		}
		switch {
		case b.needSwap && b.needBridge:
			// Without a source-chain twin of the destination token the
			// aggregator routes the whole hop as one cross-chain action.
			mid, ok := id.Counterpart(b.flow.To.ChainID, b.flow.To.Token, b.flow.From.ChainID)
			if !ok || mid == b.flow.From.Token {
				out = append(out, []Action{b.bridge(p, b.flow.From.Token)})
				continue
			}
			out = append(out, []Action{b.swap(p, mid), b.bridge(p, mid)})
		case b.needSwap:
			out = append(out, []Action{b.swap(p, b.flow.To.Token)})
		default:
			out = append(out, []Action{b.bridge(p, b.flow.From.Token)})
		}
	}
	return out
}

// nativeLegs pairs the first swap-only protocol with the first dedicated,
// chain-restricted bridge.
func (b fundsBuilder) nativeLegs() ([]Action, bool) {
	swapP, hasSwap := b.firstExclusive(registry.ActionSwap, registry.ActionBridge, false)
	bridgeP, hasBridge := b.firstExclusive(registry.ActionBridge, registry.ActionSwap, true)
	switch {
	case b.needSwap && !b.needBridge:
		if !hasSwap {
			return nil, false
		}
		return []Action{b.swap(swapP, b.flow.To.Token)}, true
	case !hasBridge || !registry.SupportsPair(bridgeP, b.flow.From.ChainID, b.flow.To.ChainID, b.env.Testnet):
		return nil, false
	case !b.needSwap:
		if !Bridges(bridgeP, b.flow.From.ChainID, b.flow.From.Token) {
			return nil, false
		}
		return []Action{b.bridge(bridgeP, b.flow.From.Token)}, true
	}
	if !hasSwap {
		return nil, false
	}
	return b.swapThenBridge(swapP, bridgeP)
}

// unifiedBalanceLegs covers quote-less bridges that settle from a balance
// held across chains. They never swap, so a native swap is prefixed when the
// tokens differ.
func (b fundsBuilder) unifiedBalanceLegs() [][]Action {
	if !b.needBridge {
		return nil
	}
	swapP, hasSwap := b.firstExclusive(registry.ActionSwap, registry.ActionBridge, false)
	out := [][]Action{}
	for _, p := range b.reg.ProtocolsByAction(registry.ActionBridge) {
		if !registry.QuoteLess(p) || !registry.SupportsPair(p, b.flow.From.ChainID, b.flow.To.ChainID, b.env.Testnet) {
			continue
		}
		if !b.needSwap {
			if Bridges(p, b.flow.From.ChainID, b.flow.From.Token) {
				out = append(out, []Action{b.bridge(p, b.flow.From.Token)})
			}
			continue
		}
		if !hasSwap {
			continue
		}
		if legs, ok := b.swapThenBridge(swapP, p); ok {
			out = append(out, legs)
		}
	}
	return out
}

// swapThenBridge swaps into the source-chain twin of the destination token and
// bridges it. When the bridge cannot carry that twin, the source token is
// bridged first and swapped on the destination chain instead. Without a known
// twin on either side no leg pair exists.
func (b fundsBuilder) swapThenBridge(swapP, bridgeP registry.Protocol) ([]Action, bool) {
	if mid, ok := id.Counterpart(b.flow.To.ChainID, b.flow.To.Token, b.flow.From.ChainID); ok && Bridges(bridgeP, b.flow.From.ChainID, mid) {
		if mid == b.flow.From.Token {
			return []Action{b.bridge(bridgeP, mid)}, true
		}
		return []Action{b.swap(swapP, mid), b.bridge(bridgeP, mid)}, true
	}
	if !Bridges(bridgeP, b.flow.From.ChainID, b.flow.From.Token) {
		return nil, false
	}
	landed, ok := id.Counterpart(b.flow.From.ChainID, b.flow.From.Token, b.flow.To.ChainID)
	if !ok {
		return nil, false
	}
	return []Action{b.bridgeInto(bridgeP, b.flow.From.Token, landed), b.swapOnDestination(swapP, landed)}, true
}

// firstExclusive returns the first protocol supporting action but not other.
// Chain-restricted protocols are required or skipped according to restricted;
// quote-less protocols are never picked.
func (b fundsBuilder) firstExclusive(action, other registry.ActionType, restricted bool) (registry.Protocol, bool) {
	for _, p := range b.reg.ProtocolsByAction(action) {
		if b.reg.Supports(other, p) || registry.QuoteLess(p) {
			continue
		}
		if restricted && !registry.ChainRestricted(p) {
			continue
		}
		return p, true
	}
	return "", false
}

func (b fundsBuilder) swap(p registry.Protocol, tokenOut common.Address) Action {
	return NewAction(registry.ActionSwap, p, SwapPayload{
		Actor:    b.flow.From.Actor,
		ChainID:  b.flow.From.ChainID,
		TokenIn:  b.flow.From.Token,
		TokenOut: tokenOut,
	})
}

func (b fundsBuilder) swapOnDestination(p registry.Protocol, tokenIn common.Address) Action {
	return NewAction(registry.ActionSwap, p, SwapPayload{
		Actor:    b.flow.From.Actor,
		ChainID:  b.flow.To.ChainID,
		TokenIn:  tokenIn,
		TokenOut: b.flow.To.Token,
	})
}

func (b fundsBuilder) bridge(p registry.Protocol, tokenIn common.Address) Action {
	return b.bridgeInto(p, tokenIn, b.flow.To.Token)
}

func (b fundsBuilder) bridgeInto(p registry.Protocol, tokenIn, tokenOut common.Address) Action {
	return NewAction(registry.ActionBridge, p, BridgePayload{
		Actor:       b.flow.From.Actor,
		FromChainID: b.flow.From.ChainID,
		ToChainID:   b.flow.To.ChainID,
		TokenIn:     tokenIn,
		TokenOut:    tokenOut,
	})
}

// deliver hands the result to the destination actor: through the last leg
// when it can target a recipient, otherwise with a trailing transfer.
func (b fundsBuilder) deliver(legs []Action) []Action {
	out := append([]Action(nil), legs...)
	last := out[len(out)-1]
	if payload, ok := last.Payload.(recipientAware); ok && b.reg.SupportsRecipient(last.ProtocolAction.Action, last.ProtocolAction.Protocol) {
		last.Payload = payload.withRecipient(b.flow.To.Actor)
		out[len(out)-1] = last
		return out
	}
	for _, p := range b.reg.ProtocolsByAction(registry.ActionTransfer) {
		if b.reg.SupportsRecipient(registry.ActionTransfer, p) {
			return append(out, transferAction(p, Flow{
				From: Endpoint{Actor: b.flow.From.Actor, ChainID: b.flow.To.ChainID, Token: b.flow.To.Token},
				To:   b.flow.To,
			}))
		}
	}
	return out
}

func transferAction(p registry.Protocol, flow Flow) Action {
	return NewAction(registry.ActionTransfer, p, TransferPayload{
		From:    flow.From.Actor,
		To:      flow.To.Actor,
		ChainID: flow.To.ChainID,
		Token:   flow.To.Token,
		Mode:    registry.TransferMode(p),
	})
}

// Bridges reports whether p can carry token from chainID. Single-asset
// bridges only accept the listed token of their asset.
func Bridges(p registry.Protocol, chainID int64, token common.Address) bool {
	symbol, restricted := registry.BridgedAsset(p)
	if !restricted {
		return true
	}
	known, ok := id.LookupByAddress(chainID, token)
	return ok && known.Symbol == symbol
}

// SameAsset reports whether two endpoints hold the same asset: the same token
// address, or listed twins on different chains.
func SameAsset(from, to Endpoint) bool {
	if from.Token == to.Token {
		return true
	}
	if from.ChainID == to.ChainID {
		return false
	}
	twin, ok := id.Counterpart(from.ChainID, from.Token, to.ChainID)
	return ok && twin == to.Token
}
