// Package route expands a resolved intent into concrete, ordered step lists
// bound to live swap quotes and bridge routes.
package route

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/registry"
)

// SwapQuote is a live swap quote on a single chain.
type SwapQuote struct {
	ID        string            `json:"id" yaml:"id"`
	ChainID   int64             `json:"chainId" yaml:"chainId"`
	TokenIn   string            `json:"tokenIn" yaml:"tokenIn"`
	TokenOut  string            `json:"tokenOut" yaml:"tokenOut"`
	Protocol  registry.Protocol `json:"protocol" yaml:"protocol"`
	AmountIn  string            `json:"amountIn,omitempty" yaml:"amountIn,omitempty"`
	AmountOut string            `json:"amountOut,omitempty" yaml:"amountOut,omitempty"`
}

type RowID struct {
	FromChainID int64  `json:"fromChainId" yaml:"fromChainId"`
	ToChainID   int64  `json:"toChainId" yaml:"toChainId"`
	FromAddress string `json:"fromAddress" yaml:"fromAddress"`
}

type BridgeRoute struct {
	ID          string            `json:"id" yaml:"id"`
	FromChainID int64             `json:"fromChainId" yaml:"fromChainId"`
	ToChainID   int64             `json:"toChainId" yaml:"toChainId"`
	Protocol    registry.Protocol `json:"protocol" yaml:"protocol"`
	Tool        string            `json:"tool,omitempty" yaml:"tool,omitempty"`
	AmountOut   string            `json:"amountOut,omitempty" yaml:"amountOut,omitempty"`
}

// BridgeRouteRow is a bridge route together with the query that produced it.
type BridgeRouteRow struct {
	RowID RowID       `json:"rowId" yaml:"rowId"`
	Route BridgeRoute `json:"route" yaml:"route"`
}

type StepType string

const (
	StepTransfer StepType = "transfer"
	StepSwap     StepType = "swap"
	StepBridge   StepType = "bridge"
)

type TransferStep struct {
	Mode    string         `json:"mode"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	ChainID int64          `json:"chainId"`
	Token   common.Address `json:"token"`
}

// BridgeStep is bound to a live route, or carries only the protocol and chain
// pair for quote-less bridges.
type BridgeStep struct {
	Route       *BridgeRoute `json:"route,omitempty"`
	FromChainID int64        `json:"fromChainId"`
	ToChainID   int64        `json:"toChainId"`
}

// Step is one concrete action of a route. Exactly one of Transfer, Swap and
// Bridge is set, matching Type.
type Step struct {
	ID       string            `json:"id"`
	Type     StepType          `json:"type"`
	Tag      string            `json:"tag"`
	Protocol registry.Protocol `json:"protocol"`
	Transfer *TransferStep     `json:"transfer,omitempty"`
	Swap     *SwapQuote        `json:"swap,omitempty"`
	Bridge   *BridgeStep       `json:"bridge,omitempty"`
}

func (s Step) Action() registry.ActionType {
	switch s.Type {
	case StepTransfer:
		return registry.ActionTransfer
	case StepSwap:
		return registry.ActionSwap
	default:
		return registry.ActionBridge
	}
}

type Route struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Summary string `json:"summary"`
	Steps   []Step `json:"steps"`
}

// Data is the live input a route build consumes.
type Data struct {
	SwapQuotes   []SwapQuote      `json:"swapQuotes" yaml:"swapQuotes"`
	BridgeRoutes []BridgeRouteRow `json:"bridgeRoutes" yaml:"bridgeRoutes"`
}
