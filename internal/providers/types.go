package providers

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/route"
)

type Provider interface {
	Info() model.ProviderInfo
}

// SwapQuoter returns live same-chain swap quotes.
type SwapQuoter interface {
	Provider
	SwapQuotes(ctx context.Context, req SwapQuoteRequest) ([]route.SwapQuote, error)
}

// BridgeRouter returns live cross-chain routes, tagged with the query that
// produced them.
type BridgeRouter interface {
	Provider
	BridgeRoutes(ctx context.Context, req BridgeRouteRequest) ([]route.BridgeRouteRow, error)
}

type SwapQuoteRequest struct {
	ChainID         int64
	TokenIn         common.Address
	TokenOut        common.Address
	AmountBaseUnits string
	Swapper         common.Address
}

type BridgeRouteRequest struct {
	FromChainID     int64
	ToChainID       int64
	FromToken       common.Address
	ToToken         common.Address
	FromAddress     common.Address
	ToAddress       common.Address
	AmountBaseUnits string
}
