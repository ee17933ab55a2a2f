package registry

import (
	"fmt"
	"strings"
)

type ActionType string

const (
	ActionTransfer            ActionType = "transfer"
	ActionSwap                ActionType = "swap"
	ActionBridge              ActionType = "bridge"
	ActionCreateChannel       ActionType = "createChannel"
	ActionAddChannelMember    ActionType = "addChannelMember"
	ActionAddLiquidity        ActionType = "addLiquidity"
	ActionRemoveLiquidity     ActionType = "removeLiquidity"
	ActionCollectFees         ActionType = "collectFees"
	ActionShare               ActionType = "share"
	ActionInvite              ActionType = "invite"
	ActionRequestVerification ActionType = "requestVerification"
)

type Protocol string

const (
	ProtocolLiFi    Protocol = "lifi"
	ProtocolUniswap Protocol = "uniswap"
	ProtocolCCTP    Protocol = "cctp"
	ProtocolGateway Protocol = "gateway"
	ProtocolYellow  Protocol = "yellow"
	ProtocolWallet  Protocol = "wallet"
	ProtocolRooms   Protocol = "rooms"
)

var actionLabels = map[ActionType]string{
	ActionTransfer:            "Transfer",
	ActionSwap:                "Swap",
	ActionBridge:              "Bridge",
	ActionCreateChannel:       "Create channel",
	ActionAddChannelMember:    "Add member",
	ActionAddLiquidity:        "Add liquidity",
	ActionRemoveLiquidity:     "Remove liquidity",
	ActionCollectFees:         "Collect fees",
	ActionShare:               "Share",
	ActionInvite:              "Invite",
	ActionRequestVerification: "Request verification",
}

var protocolLabels = map[Protocol]string{
	ProtocolLiFi:    "LI.FI",
	ProtocolUniswap: "Uniswap V4",
	ProtocolCCTP:    "Circle CCTP",
	ProtocolGateway: "Circle Gateway",
	ProtocolYellow:  "Yellow",
	ProtocolWallet:  "Wallet",
	ProtocolRooms:   "Rooms",
}

func (a ActionType) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

func (p Protocol) Label() string {
	if label, ok := protocolLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParseProtocol accepts a protocol id or its display label.
func ParseProtocol(input string) (Protocol, error) {
	norm := strings.ToLower(strings.TrimSpace(input))
	for p, label := range protocolLabels {
		if norm == string(p) || norm == strings.ToLower(label) {
			return p, nil
		}
	}
	switch norm {
	case "li.fi", "li-fi":
		return ProtocolLiFi, nil
	case "uniswap-v4", "uniswapv4":
		return ProtocolUniswap, nil
	}
	return "", fmt.Errorf("unknown protocol: %s", input)
}

type ProtocolAction struct {
	Action   ActionType `json:"action"`
	Protocol Protocol   `json:"protocol"`
}

// Spec declares that a protocol can perform an action, and whether it can
// deliver the result to a third-party recipient directly.
type Spec struct {
	Action            ActionType `json:"action"`
	Protocol          Protocol   `json:"protocol"`
	SupportsRecipient bool       `json:"supports_recipient"`
}

func (s Spec) ProtocolAction() ProtocolAction {
	return ProtocolAction{Action: s.Action, Protocol: s.Protocol}
}

var DefaultSpecs = []Spec{
	{Action: ActionTransfer, Protocol: ProtocolWallet, SupportsRecipient: true},
	{Action: ActionTransfer, Protocol: ProtocolYellow, SupportsRecipient: true},
	{Action: ActionSwap, Protocol: ProtocolLiFi, SupportsRecipient: true},
	{Action: ActionSwap, Protocol: ProtocolUniswap, SupportsRecipient: false},
	{Action: ActionBridge, Protocol: ProtocolLiFi, SupportsRecipient: true},
	{Action: ActionBridge, Protocol: ProtocolCCTP, SupportsRecipient: true},
	{Action: ActionBridge, Protocol: ProtocolGateway, SupportsRecipient: true},
	{Action: ActionCreateChannel, Protocol: ProtocolYellow},
	{Action: ActionAddChannelMember, Protocol: ProtocolYellow},
	{Action: ActionAddLiquidity, Protocol: ProtocolUniswap},
	{Action: ActionRemoveLiquidity, Protocol: ProtocolUniswap},
	{Action: ActionCollectFees, Protocol: ProtocolUniswap},
	{Action: ActionShare, Protocol: ProtocolRooms},
	{Action: ActionInvite, Protocol: ProtocolRooms},
	{Action: ActionRequestVerification, Protocol: ProtocolRooms},
}

// Registry is an immutable index over a spec table. Grouped lists keep the
// declaration order of the table.
type Registry struct {
	specs      []Spec
	byProtocol map[Protocol][]ActionType
	byAction   map[ActionType][]Protocol
	index      map[ProtocolAction]Spec
}

func New(specs []Spec) (*Registry, error) {
	r := &Registry{
		specs:      append([]Spec(nil), specs...),
		byProtocol: map[Protocol][]ActionType{},
		byAction:   map[ActionType][]Protocol{},
		index:      make(map[ProtocolAction]Spec, len(specs)),
	}
	for _, spec := range specs {
		if spec.Action == "" || spec.Protocol == "" {
			return nil, fmt.Errorf("spec requires action and protocol: %+v", spec)
		}
		key := spec.ProtocolAction()
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("duplicate spec for %s via %s", spec.Action, spec.Protocol)
		}
		r.index[key] = spec
		r.byProtocol[spec.Protocol] = append(r.byProtocol[spec.Protocol], spec.Action)
		r.byAction[spec.Action] = append(r.byAction[spec.Action], spec.Protocol)
	}
	return r, nil
}

func MustNew(specs []Spec) *Registry {
	r, err := New(specs)
	if err != nil {
		panic(err)
	}
	return r
}

// Default builds the registry over DefaultSpecs.
func Default() *Registry {
	return MustNew(DefaultSpecs)
}

func (r *Registry) Specs() []Spec {
	return append([]Spec(nil), r.specs...)
}

func (r *Registry) ActionsByProtocol(p Protocol) []ActionType {
	return append([]ActionType(nil), r.byProtocol[p]...)
}

func (r *Registry) ProtocolsByAction(a ActionType) []Protocol {
	return append([]Protocol(nil), r.byAction[a]...)
}

func (r *Registry) Lookup(a ActionType, p Protocol) (Spec, bool) {
	spec, ok := r.index[ProtocolAction{Action: a, Protocol: p}]
	return spec, ok
}

func (r *Registry) Supports(a ActionType, p Protocol) bool {
	_, ok := r.Lookup(a, p)
	return ok
}

func (r *Registry) SupportsRecipient(a ActionType, p Protocol) bool {
	spec, ok := r.Lookup(a, p)
	return ok && spec.SupportsRecipient
}

// Protocols lists every protocol in first-declaration order.
func (r *Registry) Protocols() []Protocol {
	seen := map[Protocol]struct{}{}
	out := []Protocol{}
	for _, spec := range r.specs {
		if _, ok := seen[spec.Protocol]; ok {
			continue
		}
		seen[spec.Protocol] = struct{}{}
		out = append(out, spec.Protocol)
	}
	return out
}
