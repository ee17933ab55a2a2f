package intent

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/registry"
)

// ActionPayload is the concrete, fully resolved input of one action.
type ActionPayload interface {
	isActionPayload()
}

type TransferPayload struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	ChainID int64          `json:"chainId"`
	Token   common.Address `json:"token"`
	Mode    string         `json:"mode"`
}

type SwapPayload struct {
	Actor     common.Address  `json:"actor"`
	Recipient *common.Address `json:"recipient,omitempty"`
	ChainID   int64           `json:"chainId"`
	TokenIn   common.Address  `json:"tokenIn"`
	TokenOut  common.Address  `json:"tokenOut"`
}

type BridgePayload struct {
	Actor       common.Address  `json:"actor"`
	Recipient   *common.Address `json:"recipient,omitempty"`
	FromChainID int64           `json:"fromChainId"`
	ToChainID   int64           `json:"toChainId"`
	TokenIn     common.Address  `json:"tokenIn"`
	TokenOut    common.Address  `json:"tokenOut"`
}

type CreateChannelPayload struct {
	Owner        common.Address `json:"owner"`
	Counterparty common.Address `json:"counterparty"`
	ChainID      *int64         `json:"chainId,omitempty"`
}

type AddChannelMemberPayload struct {
	Owner  common.Address `json:"owner"`
	Member common.Address `json:"member"`
}

type AddLiquidityPayload struct {
	Actor   common.Address `json:"actor"`
	ChainID int64          `json:"chainId"`
	PoolID  string         `json:"poolId"`
	Token0  common.Address `json:"token0"`
	Token1  common.Address `json:"token1"`
	TokenIn common.Address `json:"tokenIn"`
}

type RemoveLiquidityPayload struct {
	Owner     common.Address `json:"owner"`
	ChainID   int64          `json:"chainId"`
	TokenID   string         `json:"tokenId"`
	PoolID    string         `json:"poolId"`
	TokenOut  common.Address `json:"tokenOut"`
	Recipient common.Address `json:"recipient"`
}

type CollectFeesPayload struct {
	Owner     common.Address `json:"owner"`
	ChainID   int64          `json:"chainId"`
	TokenID   string         `json:"tokenId"`
	Recipient common.Address `json:"recipient"`
}

type SharePayload struct {
	RoomID string     `json:"roomId"`
	Entity entity.Ref `json:"entity"`
}

type InvitePayload struct {
	RoomID  string         `json:"roomId"`
	Address common.Address `json:"address"`
}

type VerificationPayload struct {
	RoomID    string         `json:"roomId"`
	PeerID    string         `json:"peerId"`
	Peer      common.Address `json:"peer"`
	Requester common.Address `json:"requester"`
}

func (TransferPayload) isActionPayload()         {}
func (SwapPayload) isActionPayload()             {}
func (BridgePayload) isActionPayload()           {}
func (CreateChannelPayload) isActionPayload()    {}
func (AddChannelMemberPayload) isActionPayload() {}
func (AddLiquidityPayload) isActionPayload()     {}
func (RemoveLiquidityPayload) isActionPayload()  {}
func (CollectFeesPayload) isActionPayload()      {}
func (SharePayload) isActionPayload()            {}
func (InvitePayload) isActionPayload()           {}
func (VerificationPayload) isActionPayload()     {}

type Action struct {
	ProtocolAction registry.ProtocolAction `json:"protocolAction"`
	Payload        ActionPayload           `json:"payload"`
}

func NewAction(action registry.ActionType, protocol registry.Protocol, payload ActionPayload) Action {
	return Action{
		ProtocolAction: registry.ProtocolAction{Action: action, Protocol: protocol},
		Payload:        payload,
	}
}

// Option is one way to realise an intent. Actions run in order.
type Option struct {
	Label   string   `json:"label"`
	Actions []Action `json:"actions"`
}

func NewOption(actions ...Action) Option {
	return Option{Label: FormatOptionLabel(protocolActions(actions)), Actions: actions}
}

func (o Option) ProtocolActions() []registry.ProtocolAction {
	return protocolActions(o.Actions)
}

// Protocols lists the distinct protocols of the option in action order.
func (o Option) Protocols() []registry.Protocol {
	seen := map[registry.Protocol]struct{}{}
	out := make([]registry.Protocol, 0, len(o.Actions))
	for _, a := range o.Actions {
		if _, ok := seen[a.ProtocolAction.Protocol]; ok {
			continue
		}
		seen[a.ProtocolAction.Protocol] = struct{}{}
		out = append(out, a.ProtocolAction.Protocol)
	}
	return out
}

func protocolActions(actions []Action) []registry.ProtocolAction {
	out := make([]registry.ProtocolAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.ProtocolAction)
	}
	return out
}

// Endpoint is one side of a funds movement.
type Endpoint struct {
	Actor   common.Address `json:"actor"`
	ChainID int64          `json:"chainId"`
	Token   common.Address `json:"token"`
}

type Flow struct {
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}
