// Package entity models the things a user can drag onto each other: held
// balances, accounts, networks, pools, rooms. Each entity type has exactly one
// payload struct, and every payload knows how to project itself onto the
// comparison dimensions.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Type string

const (
	TypeActor           Type = "Actor"
	TypeActorCoin       Type = "ActorCoin"
	TypeActorNetwork    Type = "ActorNetwork"
	TypeCoin            Type = "Coin"
	TypeTokenListCoin   Type = "TokenListCoin"
	TypeNetwork         Type = "Network"
	TypeUniswapPool     Type = "UniswapPool"
	TypeUniswapPosition Type = "UniswapPosition"
	TypeRoom            Type = "Room"
	TypeRoomPeer        Type = "RoomPeer"
)

var Types = []Type{
	TypeActor,
	TypeActorCoin,
	TypeActorNetwork,
	TypeCoin,
	TypeTokenListCoin,
	TypeNetwork,
	TypeUniswapPool,
	TypeUniswapPosition,
	TypeRoom,
	TypeRoomPeer,
}

// Payload is implemented only by the payload structs in this package.
type Payload interface {
	EntityType() Type
	dimensions() Dimensions
}

type Actor struct {
	Address        string `json:"address" yaml:"address"`
	Network        *int64 `json:"network,omitempty" yaml:"network,omitempty"`
	ChainID        *int64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	InteropAddress string `json:"interopAddress,omitempty" yaml:"interopAddress,omitempty"`
}

type ActorCoin struct {
	Address             string `json:"address" yaml:"address"`
	ChainID             int64  `json:"chainId" yaml:"chainId"`
	TokenAddress        string `json:"tokenAddress" yaml:"tokenAddress"`
	Symbol              string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Decimals            int    `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	InteropAddress      string `json:"interopAddress,omitempty" yaml:"interopAddress,omitempty"`
	TokenInteropAddress string `json:"tokenInteropAddress,omitempty" yaml:"tokenInteropAddress,omitempty"`
}

type ActorNetwork struct {
	Address string `json:"address" yaml:"address"`
	ChainID int64  `json:"chainId" yaml:"chainId"`
}

type Coin struct {
	ChainID      int64  `json:"chainId" yaml:"chainId"`
	TokenAddress string `json:"tokenAddress" yaml:"tokenAddress"`
	Symbol       string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

type TokenListCoin struct {
	ChainID             int64  `json:"chainId" yaml:"chainId"`
	Address             string `json:"address" yaml:"address"`
	Symbol              string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Name                string `json:"name,omitempty" yaml:"name,omitempty"`
	Decimals            int    `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	TokenInteropAddress string `json:"tokenInteropAddress,omitempty" yaml:"tokenInteropAddress,omitempty"`
}

type Network struct {
	ChainID int64  `json:"chainId" yaml:"chainId"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

type UniswapPool struct {
	ChainID int64  `json:"chainId" yaml:"chainId"`
	PoolID  string `json:"poolId" yaml:"poolId"`
	Token0  string `json:"token0" yaml:"token0"`
	Token1  string `json:"token1" yaml:"token1"`
	Fee     int64  `json:"fee,omitempty" yaml:"fee,omitempty"`
}

type UniswapPosition struct {
	ChainID int64  `json:"chainId" yaml:"chainId"`
	TokenID string `json:"tokenId" yaml:"tokenId"`
	Owner   string `json:"owner" yaml:"owner"`
	PoolID  string `json:"poolId" yaml:"poolId"`
	Token0  string `json:"token0" yaml:"token0"`
	Token1  string `json:"token1" yaml:"token1"`
}

type Room struct {
	RoomID string `json:"roomId" yaml:"roomId"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
}

type RoomPeer struct {
	RoomID  string `json:"roomId" yaml:"roomId"`
	PeerID  string `json:"peerId" yaml:"peerId"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (Actor) EntityType() Type           { return TypeActor }
func (ActorCoin) EntityType() Type       { return TypeActorCoin }
func (ActorNetwork) EntityType() Type    { return TypeActorNetwork }
func (Coin) EntityType() Type            { return TypeCoin }
func (TokenListCoin) EntityType() Type   { return TypeTokenListCoin }
func (Network) EntityType() Type         { return TypeNetwork }
func (UniswapPool) EntityType() Type     { return TypeUniswapPool }
func (UniswapPosition) EntityType() Type { return TypeUniswapPosition }
func (Room) EntityType() Type            { return TypeRoom }
func (RoomPeer) EntityType() Type        { return TypeRoomPeer }

// Ref is a dragged entity. Its type is the payload's type.
type Ref struct {
	ID Payload
}

func NewRef(p Payload) Ref {
	return Ref{ID: p}
}

func (r Ref) Type() Type {
	if r.ID == nil {
		return ""
	}
	return r.ID.EntityType()
}

type refEnvelope struct {
	Type Type `json:"type" yaml:"type"`
	ID   any  `json:"id" yaml:"id"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(refEnvelope{Type: r.Type(), ID: r.ID})
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type string          `json:"type"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	payload, err := decodePayload(raw.Type, func(target any) error {
		if len(raw.ID) == 0 || string(raw.ID) == "null" {
			return nil
		}
		return json.Unmarshal(raw.ID, target)
	})
	if err != nil {
		return err
	}
	r.ID = payload
	return nil
}

func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Type string    `yaml:"type"`
		ID   yaml.Node `yaml:"id"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	payload, err := decodePayload(raw.Type, func(target any) error {
		if raw.ID.Kind == 0 {
			return nil
		}
		return raw.ID.Decode(target)
	})
	if err != nil {
		return err
	}
	r.ID = payload
	return nil
}

func ParseType(input string) (Type, error) {
	norm := strings.TrimSpace(input)
	for _, t := range Types {
		if strings.EqualFold(norm, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type: %q", input)
}

func decodePayload(rawType string, decode func(target any) error) (Payload, error) {
	t, err := ParseType(rawType)
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeActor:
		var p Actor
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeActorCoin:
		var p ActorCoin
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeActorNetwork:
		var p ActorNetwork
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeCoin:
		var p Coin
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeTokenListCoin:
		var p TokenListCoin
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeNetwork:
		var p Network
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeUniswapPool:
		var p UniswapPool
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeUniswapPosition:
		var p UniswapPosition
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeRoom:
		var p Room
		err := decodeInto(t, decode, &p)
		return p, err
	case TypeRoomPeer:
		var p RoomPeer
		err := decodeInto(t, decode, &p)
		return p, err
	}
	return nil, fmt.Errorf("unknown entity type: %q", rawType)
}

func decodeInto(t Type, decode func(target any) error, target any) error {
	if err := decode(target); err != nil {
		return fmt.Errorf("decode %s id: %w", t, err)
	}
	return nil
}
