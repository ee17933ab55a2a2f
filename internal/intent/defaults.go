package intent

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/id"
	"github.com/ggonzalez94/intents/internal/registry"
)

// DefaultCatalog returns the built-in definitions in match order. Order is
// significant: the first definition accepting a pair wins.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Define(KindChannelCreate, "Create channel and add member",
			Roles[entity.Actor, entity.Actor]{Source: actorHasAddress, Target: actorHasAddress},
			resolveChannel),
		Define(KindPeerTransfer, "Send to peer",
			Roles[entity.ActorCoin, entity.RoomPeer]{Source: coinIsHeld, Target: peerHasAddress},
			resolvePeerTransfer),
		Define(KindPeerVerify, "Request verification",
			Roles[entity.Actor, entity.RoomPeer]{Source: actorHasAddress, Target: peerHasAddress},
			resolvePeerVerify),
		Define(KindRoomShare, "Share to room", Roles[entity.ActorCoin, entity.Room]{}, shareInto[entity.ActorCoin]),
		Define(KindRoomShare, "Share to room", Roles[entity.Coin, entity.Room]{}, shareInto[entity.Coin]),
		Define(KindRoomShare, "Share to room", Roles[entity.TokenListCoin, entity.Room]{}, shareInto[entity.TokenListCoin]),
		Define(KindRoomShare, "Share to room", Roles[entity.Network, entity.Room]{}, shareInto[entity.Network]),
		Define(KindRoomShare, "Share to room", Roles[entity.UniswapPool, entity.Room]{}, shareInto[entity.UniswapPool]),
		Define(KindRoomInvite, "Invite to room",
			Roles[entity.Actor, entity.Room]{Source: actorHasAddress},
			resolveInvite),
		Define(KindLiquidityAdd, "Add liquidity",
			Roles[entity.ActorCoin, entity.UniswapPool]{Source: coinIsHeld, Target: poolHasTokens},
			resolveAddLiquidity),
		Define(KindLiquidityRemove, "Remove liquidity",
			Roles[entity.UniswapPosition, entity.ActorCoin]{Source: positionIsOwned, Target: coinIsHeld},
			resolveRemoveLiquidity),
		Define(KindBridge, "Bridge to network",
			Roles[entity.ActorCoin, entity.Network]{Source: coinIsHeld, Target: networkHasChain},
			resolveToNetwork),
		Define(KindTransferBridge, "Send to account on network",
			Roles[entity.ActorCoin, entity.ActorNetwork]{Source: coinIsHeld, Target: accountOnNetwork},
			resolveToAccountOnNetwork),
		Define(KindSwap, "Swap into token",
			Roles[entity.ActorCoin, entity.Coin]{Source: coinIsHeld, Target: coinIsListed},
			resolveToCoin),
		Define(KindSwap, "Swap into token",
			Roles[entity.ActorCoin, entity.TokenListCoin]{Source: coinIsHeld, Target: tokenListCoinIsListed},
			resolveToTokenListCoin),
	)
}

func actorHasAddress(a entity.Actor) Check {
	if _, ok := id.NormalizeAddress(a.Address); !ok {
		return Reject("actor address %q is not a valid address", a.Address)
	}
	return Accept("actor has an address")
}

func peerHasAddress(p entity.RoomPeer) Check {
	if _, ok := id.NormalizeAddress(p.Address); !ok {
		return Reject("peer %s exposes no valid address", p.PeerID)
	}
	return Accept("peer exposes an address")
}

func coinIsHeld(c entity.ActorCoin) Check {
	if _, ok := id.NormalizeAddress(c.Address); !ok {
		return Reject("holder address %q is not a valid address", c.Address)
	}
	if _, ok := id.NormalizeAddress(c.TokenAddress); !ok {
		return Reject("token address %q is not a valid address", c.TokenAddress)
	}
	if c.ChainID <= 0 {
		return Reject("coin has no chain")
	}
	return Accept("coin is held on a known chain")
}

func coinIsListed(c entity.Coin) Check {
	if _, ok := id.NormalizeAddress(c.TokenAddress); !ok || c.ChainID <= 0 {
		return Reject("coin needs a token address and chain")
	}
	return Accept("target token is known")
}

func tokenListCoinIsListed(c entity.TokenListCoin) Check {
	if _, ok := id.NormalizeAddress(c.Address); !ok || c.ChainID <= 0 {
		return Reject("listed token needs an address and chain")
	}
	return Accept("target token is listed")
}

func networkHasChain(n entity.Network) Check {
	if n.ChainID <= 0 {
		return Reject("network has no chain id")
	}
	return Accept("target network is known")
}

func accountOnNetwork(a entity.ActorNetwork) Check {
	if _, ok := id.NormalizeAddress(a.Address); !ok {
		return Reject("account address %q is not a valid address", a.Address)
	}
	if a.ChainID <= 0 {
		return Reject("account network has no chain id")
	}
	return Accept("target account is on a known network")
}

func poolHasTokens(p entity.UniswapPool) Check {
	_, ok0 := id.NormalizeAddress(p.Token0)
	_, ok1 := id.NormalizeAddress(p.Token1)
	if !ok0 || !ok1 || p.ChainID <= 0 {
		return Reject("pool %s needs both tokens and a chain", p.PoolID)
	}
	return Accept("pool pair is known")
}

func positionIsOwned(p entity.UniswapPosition) Check {
	if _, ok := id.NormalizeAddress(p.Owner); !ok || p.TokenID == "" {
		return Reject("position needs an owner and token id")
	}
	return Accept("position has an owner")
}

func mustAddress(raw string) common.Address {
	addr, _ := id.NormalizeAddress(raw)
	return addr
}

func resolveChannel(env Env, from, to entity.Actor) (Outcome, error) {
	owner, member := mustAddress(from.Address), mustAddress(to.Address)
	if owner == member {
		return Outcome{}, fmt.Errorf("cannot open a channel with %s itself", owner.Hex())
	}
	chain := from.ChainID
	if from.Network != nil {
		chain = from.Network
	}
	return Outcome{Options: []Option{NewOption(
		NewAction(registry.ActionCreateChannel, registry.ProtocolYellow, CreateChannelPayload{Owner: owner, Counterparty: member, ChainID: chain}),
		NewAction(registry.ActionAddChannelMember, registry.ProtocolYellow, AddChannelMemberPayload{Owner: owner, Member: member}),
	)}}, nil
}

func resolvePeerTransfer(env Env, from entity.ActorCoin, to entity.RoomPeer) (Outcome, error) {
	source := coinEndpoint(from)
	flow := Flow{From: source, To: Endpoint{Actor: mustAddress(to.Address), ChainID: source.ChainID, Token: source.Token}}
	if flow.From.Actor == flow.To.Actor {
		return Outcome{}, fmt.Errorf("peer %s is the holder of this coin", to.PeerID)
	}
	return Outcome{Flow: &flow, Options: BuildFundsOptions(env, KindTransfer, flow)}, nil
}

func resolvePeerVerify(env Env, from entity.Actor, to entity.RoomPeer) (Outcome, error) {
	requester, peer := mustAddress(from.Address), mustAddress(to.Address)
	if requester == peer {
		return Outcome{}, fmt.Errorf("cannot request verification of %s by itself", peer.Hex())
	}
	return Outcome{Options: []Option{NewOption(
		NewAction(registry.ActionRequestVerification, registry.ProtocolRooms, VerificationPayload{
			RoomID:    to.RoomID,
			PeerID:    to.PeerID,
			Peer:      peer,
			Requester: requester,
		}),
	)}}, nil
}

func shareInto[S entity.Payload](env Env, from S, to entity.Room) (Outcome, error) {
	if to.RoomID == "" {
		return Outcome{}, fmt.Errorf("room has no id")
	}
	return Outcome{Options: []Option{NewOption(
		NewAction(registry.ActionShare, registry.ProtocolRooms, SharePayload{RoomID: to.RoomID, Entity: entity.NewRef(from)}),
	)}}, nil
}

func resolveInvite(env Env, from entity.Actor, to entity.Room) (Outcome, error) {
	if to.RoomID == "" {
		return Outcome{}, fmt.Errorf("room has no id")
	}
	return Outcome{Options: []Option{NewOption(
		NewAction(registry.ActionInvite, registry.ProtocolRooms, InvitePayload{RoomID: to.RoomID, Address: mustAddress(from.Address)}),
	)}}, nil
}

func resolveAddLiquidity(env Env, from entity.ActorCoin, to entity.UniswapPool) (Outcome, error) {
	if from.ChainID != to.ChainID {
		return Outcome{}, fmt.Errorf("pool %s is on chain %d, coin is on chain %d", to.PoolID, to.ChainID, from.ChainID)
	}
	token := mustAddress(from.TokenAddress)
	token0, token1 := mustAddress(to.Token0), mustAddress(to.Token1)
	if token != token0 && token != token1 {
		return Outcome{}, fmt.Errorf("pool %s does not contain %s", to.PoolID, token.Hex())
	}
	return Outcome{Options: []Option{NewOption(
		NewAction(registry.ActionAddLiquidity, registry.ProtocolUniswap, AddLiquidityPayload{
			Actor:   mustAddress(from.Address),
			ChainID: to.ChainID,
			PoolID:  to.PoolID,
			Token0:  token0,
			Token1:  token1,
			TokenIn: token,
		}),
	)}}, nil
}

func resolveRemoveLiquidity(env Env, from entity.UniswapPosition, to entity.ActorCoin) (Outcome, error) {
	owner, holder := mustAddress(from.Owner), mustAddress(to.Address)
	if owner != holder {
		return Outcome{}, fmt.Errorf("position %s is owned by %s, not %s", from.TokenID, owner.Hex(), holder.Hex())
	}
	if from.ChainID != to.ChainID {
		return Outcome{}, fmt.Errorf("position %s is on chain %d, coin is on chain %d", from.TokenID, from.ChainID, to.ChainID)
	}
	token := mustAddress(to.TokenAddress)
	if token != mustAddress(from.Token0) && token != mustAddress(from.Token1) {
		return Outcome{}, fmt.Errorf("position %s does not hold %s", from.TokenID, token.Hex())
	}
	return Outcome{Options: []Option{
		NewOption(NewAction(registry.ActionRemoveLiquidity, registry.ProtocolUniswap, RemoveLiquidityPayload{
			Owner:     owner,
			ChainID:   from.ChainID,
			TokenID:   from.TokenID,
			PoolID:    from.PoolID,
			TokenOut:  token,
			Recipient: holder,
		})),
		NewOption(NewAction(registry.ActionCollectFees, registry.ProtocolUniswap, CollectFeesPayload{
			Owner:     owner,
			ChainID:   from.ChainID,
			TokenID:   from.TokenID,
			Recipient: holder,
		})),
	}}, nil
}

func resolveToNetwork(env Env, from entity.ActorCoin, to entity.Network) (Outcome, error) {
	if from.ChainID == to.ChainID {
		return Outcome{}, fmt.Errorf("coin is already on chain %d", to.ChainID)
	}
	source := coinEndpoint(from)
	flow := Flow{From: source, To: Endpoint{Actor: source.Actor, ChainID: to.ChainID, Token: counterpartOr(source, to.ChainID)}}
	return Outcome{Flow: &flow, Options: BuildFundsOptions(env, KindBridge, flow)}, nil
}

func resolveToAccountOnNetwork(env Env, from entity.ActorCoin, to entity.ActorNetwork) (Outcome, error) {
	source := coinEndpoint(from)
	flow := Flow{From: source, To: Endpoint{Actor: mustAddress(to.Address), ChainID: to.ChainID, Token: counterpartOr(source, to.ChainID)}}
	kind, ok := Classify(source.Actor == flow.To.Actor, source.ChainID == to.ChainID, true)
	if !ok {
		return Outcome{}, fmt.Errorf("coin is already held by %s on chain %d", flow.To.Actor.Hex(), to.ChainID)
	}
	return Outcome{Kind: kind, Flow: &flow, Options: BuildFundsOptions(env, kind, flow)}, nil
}

func resolveToCoin(env Env, from entity.ActorCoin, to entity.Coin) (Outcome, error) {
	return swapInto(env, from, to.ChainID, mustAddress(to.TokenAddress))
}

func resolveToTokenListCoin(env Env, from entity.ActorCoin, to entity.TokenListCoin) (Outcome, error) {
	return swapInto(env, from, to.ChainID, mustAddress(to.Address))
}

func swapInto(env Env, from entity.ActorCoin, chainID int64, token common.Address) (Outcome, error) {
	source := coinEndpoint(from)
	flow := Flow{From: source, To: Endpoint{Actor: source.Actor, ChainID: chainID, Token: token}}
	kind, ok := Classify(true, source.ChainID == chainID, SameAsset(flow.From, flow.To))
	if !ok {
		return Outcome{}, fmt.Errorf("coin is already %s on chain %d", token.Hex(), chainID)
	}
	return Outcome{Kind: kind, Flow: &flow, Options: BuildFundsOptions(env, kind, flow)}, nil
}

func coinEndpoint(c entity.ActorCoin) Endpoint {
	return Endpoint{Actor: mustAddress(c.Address), ChainID: c.ChainID, Token: mustAddress(c.TokenAddress)}
}

// counterpartOr finds the twin of the source token on chainID, keeping the
// source token when none is known.
func counterpartOr(source Endpoint, chainID int64) common.Address {
	if twin, ok := id.Counterpart(source.ChainID, source.Token, chainID); ok {
		return twin
	}
	return source.Token
}
