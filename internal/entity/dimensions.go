package entity

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/id"
)

// Dimensions is the comparison vector of an entity. Address dimensions are
// either normalized or nil.
type Dimensions struct {
	Actor               *common.Address `json:"actor"`
	ChainID             *int64          `json:"chainId"`
	Token               *common.Address `json:"tokenAddress"`
	InteropAddress      string          `json:"interopAddress,omitempty"`
	TokenInteropAddress string          `json:"tokenInteropAddress,omitempty"`
}

// Complete reports whether actor, chain and token are all known.
func (d Dimensions) Complete() bool {
	return d.Actor != nil && d.ChainID != nil && d.Token != nil
}

// ResolveDimensions projects a ref onto its comparison vector. It never fails:
// unusable values resolve to nil.
func ResolveDimensions(ref Ref) Dimensions {
	if ref.ID == nil {
		return Dimensions{}
	}
	return ref.ID.dimensions()
}

func (p Actor) dimensions() Dimensions {
	chain := p.ChainID
	if p.Network != nil {
		chain = p.Network
	}
	d := Dimensions{
		Actor:          addressDim(p.Address),
		InteropAddress: strings.TrimSpace(p.InteropAddress),
	}
	if chain != nil {
		d.ChainID = chainDim(*chain)
	}
	return d
}

func (p ActorCoin) dimensions() Dimensions {
	return Dimensions{
		Actor:               addressDim(p.Address),
		ChainID:             chainDim(p.ChainID),
		Token:               addressDim(p.TokenAddress),
		InteropAddress:      strings.TrimSpace(p.InteropAddress),
		TokenInteropAddress: strings.TrimSpace(p.TokenInteropAddress),
	}
}

func (p Coin) dimensions() Dimensions {
	return Dimensions{
		ChainID: chainDim(p.ChainID),
		Token:   addressDim(p.TokenAddress),
	}
}

func (p TokenListCoin) dimensions() Dimensions {
	return Dimensions{
		ChainID:             chainDim(p.ChainID),
		Token:               addressDim(p.Address),
		TokenInteropAddress: strings.TrimSpace(p.TokenInteropAddress),
	}
}

func (ActorNetwork) dimensions() Dimensions    { return Dimensions{} }
func (Network) dimensions() Dimensions         { return Dimensions{} }
func (UniswapPool) dimensions() Dimensions     { return Dimensions{} }
func (UniswapPosition) dimensions() Dimensions { return Dimensions{} }
func (Room) dimensions() Dimensions            { return Dimensions{} }
func (RoomPeer) dimensions() Dimensions        { return Dimensions{} }

func addressDim(raw string) *common.Address {
	addr, ok := id.NormalizeAddress(raw)
	if !ok {
		return nil
	}
	return &addr
}

func chainDim(chainID int64) *int64 {
	if chainID <= 0 {
		return nil
	}
	return &chainID
}
