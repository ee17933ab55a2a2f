package route

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ggonzalez94/intents/internal/id"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/registry"
)

type Tag string

const (
	TagSwapSource      Tag = "swapSource"
	TagSwapDestination Tag = "swapDestination"
	TagBridge          Tag = "bridge"
	TagTransfer        Tag = "transfer"
)

var templates = map[intent.Kind][][]Tag{
	intent.KindTransfer:           {{TagTransfer}},
	intent.KindSwap:               {{TagSwapSource}},
	intent.KindBridge:             {{TagBridge}},
	intent.KindSwapBridge:         {{TagSwapSource, TagBridge}, {TagBridge, TagSwapDestination}},
	intent.KindTransferSwap:       {{TagSwapSource, TagTransfer}},
	intent.KindTransferBridge:     {{TagBridge, TagTransfer}},
	intent.KindTransferSwapBridge: {{TagSwapSource, TagBridge, TagTransfer}, {TagBridge, TagSwapDestination, TagTransfer}},
	intent.KindPeerTransfer:       {{TagTransfer}},
}

// Templates returns the step sequences tried for kind, in order.
func Templates(kind intent.Kind) [][]Tag {
	out := make([][]Tag, 0, len(templates[kind]))
	for _, t := range templates[kind] {
		out = append(out, append([]Tag(nil), t...))
	}
	return out
}

// PairSupport reports whether a quote-less protocol serves a chain pair.
type PairSupport func(p registry.Protocol, fromChainID, toChainID int64, testnet bool) bool

type Builder struct {
	registry    *registry.Registry
	testnet     bool
	pairSupport PairSupport
}

func NewBuilder(reg *registry.Registry, testnet bool) *Builder {
	if reg == nil {
		reg = registry.Default()
	}
	return &Builder{registry: reg, testnet: testnet, pairSupport: registry.SupportsPair}
}

// WithPairSupport replaces the chain-pair predicate used for quote-less
// bridges.
func (b *Builder) WithPairSupport(fn PairSupport) *Builder {
	next := *b
	next.pairSupport = fn
	return &next
}

// Build expands a valid resolution into routes. Templates with a step that has
// no candidate are dropped; an empty result means no route is available yet.
// When chosen is non-nil, candidates are limited to its protocols for every
// action it contains.
func (b *Builder) Build(res intent.Resolution, data Data, chosen *intent.Option) []Route {
	routes := []Route{}
	if !res.Valid() || res.Flow == nil || res.Error != "" {
		return routes
	}
	allowed := allowedProtocols(chosen)
	for _, template := range templates[res.Kind] {
		lists := make([][]Step, 0, len(template))
		for i, tag := range template {
			afterSwap := i > 0 && template[i-1] == TagSwapSource
			candidates := filterAllowed(b.candidates(tag, *res.Flow, data, afterSwap), allowed)
			if len(candidates) == 0 {
				lists = nil
				break
			}
			lists = append(lists, candidates)
		}
		if lists == nil {
			continue
		}
		for i, steps := range product(lists) {
			routes = append(routes, newRoute(steps, i))
		}
	}
	return routes
}

func (b *Builder) candidates(tag Tag, flow intent.Flow, data Data, afterSwap bool) []Step {
	switch tag {
	case TagSwapSource:
		return b.swapSource(flow, data.SwapQuotes)
	case TagSwapDestination:
		return b.swapDestination(flow, data.SwapQuotes)
	case TagBridge:
		return b.bridge(flow, data.BridgeRoutes, afterSwap)
	case TagTransfer:
		return b.transfer(flow)
	}
	return nil
}

func (b *Builder) swapSource(flow intent.Flow, quotes []SwapQuote) []Step {
	out := []Step{}
	sameChain := flow.From.ChainID == flow.To.ChainID
	for _, q := range quotes {
		if q.ChainID != flow.From.ChainID || !id.AddressEqual(q.TokenIn, flow.From.Token.Hex()) {
			continue
		}
		if sameChain && !id.AddressEqual(q.TokenOut, flow.To.Token.Hex()) {
			continue
		}
		out = append(out, swapStep(q))
	}
	return out
}

func (b *Builder) swapDestination(flow intent.Flow, quotes []SwapQuote) []Step {
	out := []Step{}
	for _, q := range quotes {
		if q.ChainID != flow.To.ChainID || !id.AddressEqual(q.TokenOut, flow.To.Token.Hex()) {
			continue
		}
		out = append(out, swapStep(q))
	}
	return out
}

// bridge lists the bridge steps for flow. A bridge following a source swap
// carries the source-chain twin of the destination token; otherwise it
// carries the source token. Single-asset bridges are skipped for any other
// token.
func (b *Builder) bridge(flow intent.Flow, rows []BridgeRouteRow, afterSwap bool) []Step {
	token, known := flow.From.Token, true
	if afterSwap {
		token, known = id.Counterpart(flow.To.ChainID, flow.To.Token, flow.From.ChainID)
	}
	carries := func(p registry.Protocol) bool {
		if _, restricted := registry.BridgedAsset(p); !restricted {
			return true
		}
		return known && intent.Bridges(p, flow.From.ChainID, token)
	}
	out := []Step{}
	for _, row := range rows {
		if row.RowID.FromChainID != flow.From.ChainID || row.RowID.ToChainID != flow.To.ChainID {
			continue
		}
		if row.Route.FromChainID != flow.From.ChainID || row.Route.ToChainID != flow.To.ChainID {
			continue
		}
		if !id.AddressEqual(row.RowID.FromAddress, flow.From.Actor.Hex()) {
			continue
		}
		r := row.Route
		protocol := r.Protocol
		if protocol == "" {
			protocol = registry.ProtocolLiFi
		}
		if !carries(protocol) {
			continue
		}
		out = append(out, Step{
			ID:       "bridge:" + r.ID,
			Type:     StepBridge,
			Tag:      string(StepBridge),
			Protocol: protocol,
			Bridge:   &BridgeStep{Route: &r, FromChainID: r.FromChainID, ToChainID: r.ToChainID},
		})
	}
	for _, p := range b.registry.ProtocolsByAction(registry.ActionBridge) {
		if !registry.QuoteLess(p) || !b.pairSupport(p, flow.From.ChainID, flow.To.ChainID, b.testnet) || !carries(p) {
			continue
		}
		out = append(out, Step{
			ID:       fmt.Sprintf("%s:%d->%d", p, flow.From.ChainID, flow.To.ChainID),
			Type:     StepBridge,
			Tag:      string(StepBridge),
			Protocol: p,
			Bridge:   &BridgeStep{FromChainID: flow.From.ChainID, ToChainID: flow.To.ChainID},
		})
	}
	return out
}

func (b *Builder) transfer(flow intent.Flow) []Step {
	out := []Step{}
	for _, p := range b.registry.ProtocolsByAction(registry.ActionTransfer) {
		if !b.registry.SupportsRecipient(registry.ActionTransfer, p) {
			continue
		}
		mode := registry.TransferMode(p)
		out = append(out, Step{
			ID:       "transfer:" + mode,
			Type:     StepTransfer,
			Tag:      "transfer:" + mode,
			Protocol: p,
			Transfer: &TransferStep{
				Mode:    mode,
				From:    flow.From.Actor,
				To:      flow.To.Actor,
				ChainID: flow.To.ChainID,
				Token:   flow.To.Token,
			},
		})
	}
	return out
}

func swapStep(q SwapQuote) Step {
	protocol := q.Protocol
	if protocol == "" {
		protocol = registry.ProtocolLiFi
	}
	return Step{
		ID:       "swap:" + q.ID,
		Type:     StepSwap,
		Tag:      string(StepSwap),
		Protocol: protocol,
		Swap:     &q,
	}
}

func allowedProtocols(chosen *intent.Option) map[registry.ActionType]map[registry.Protocol]bool {
	if chosen == nil {
		return nil
	}
	out := map[registry.ActionType]map[registry.Protocol]bool{}
	for _, pa := range chosen.ProtocolActions() {
		if out[pa.Action] == nil {
			out[pa.Action] = map[registry.Protocol]bool{}
		}
		out[pa.Action][pa.Protocol] = true
	}
	return out
}

func filterAllowed(steps []Step, allowed map[registry.ActionType]map[registry.Protocol]bool) []Step {
	if allowed == nil {
		return steps
	}
	out := []Step{}
	for _, s := range steps {
		protocols, restricted := allowed[s.Action()]
		if restricted && !protocols[s.Protocol] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// product enumerates the Cartesian product of lists with the last list
// varying fastest.
func product(lists [][]Step) [][]Step {
	out := [][]Step{{}}
	for _, list := range lists {
		next := make([][]Step, 0, len(out)*len(list))
		for _, prefix := range out {
			for _, step := range list {
				combo := make([]Step, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, step))
			}
		}
		out = next
	}
	return out
}

func newRoute(steps []Step, index int) Route {
	ids := make([]string, 0, len(steps))
	tags := make([]string, 0, len(steps))
	actions := make([]registry.ProtocolAction, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID)
		tags = append(tags, s.Tag)
		actions = append(actions, registry.ProtocolAction{Action: s.Action(), Protocol: s.Protocol})
	}
	return Route{
		ID:      strings.Join(ids, "|") + "-" + strconv.Itoa(index),
		Label:   strings.Join(tags, " → "),
		Summary: intent.FormatOptionLabel(actions),
		Steps:   steps,
	}
}
