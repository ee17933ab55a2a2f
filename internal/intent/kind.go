package intent

type Kind string

const (
	KindTransfer           Kind = "transfer"
	KindSwap               Kind = "swap"
	KindBridge             Kind = "bridge"
	KindTransferSwap       Kind = "transfer+swap"
	KindTransferBridge     Kind = "transfer+bridge"
	KindSwapBridge         Kind = "swap+bridge"
	KindTransferSwapBridge Kind = "transfer+swap+bridge"

	KindChannelCreate   Kind = "channel.create"
	KindLiquidityAdd    Kind = "liquidity.add"
	KindLiquidityRemove Kind = "liquidity.remove"
	KindRoomShare       Kind = "room.share"
	KindRoomInvite      Kind = "room.invite"
	KindPeerTransfer    Kind = "peer.transfer"
	KindPeerVerify      Kind = "peer.verify"
)

var compositeLabels = map[Kind]string{
	KindTransfer:           "Send",
	KindSwap:               "Swap",
	KindBridge:             "Bridge",
	KindTransferSwap:       "Swap and send",
	KindTransferBridge:     "Bridge and send",
	KindSwapBridge:         "Swap and bridge",
	KindTransferSwapBridge: "Swap, bridge and send",
}

// Composite reports whether the kind moves funds between two endpoints.
func (k Kind) Composite() bool {
	_, ok := compositeLabels[k]
	return ok
}

// Needs lists which steps a composite kind requires.
func (k Kind) Needs() (transfer, swap, bridge bool) {
	switch k {
	case KindTransfer:
		return true, false, false
	case KindSwap:
		return false, true, false
	case KindBridge:
		return false, false, true
	case KindTransferSwap:
		return true, true, false
	case KindTransferBridge:
		return true, false, true
	case KindSwapBridge:
		return false, true, true
	case KindTransferSwapBridge:
		return true, true, true
	}
	return false, false, false
}

// Classify picks the composite kind for a fully compared pair. The identical
// case has no kind.
func Classify(sameActor, sameChain, sameToken bool) (Kind, bool) {
	switch {
	case sameActor && sameChain && !sameToken:
		return KindSwap, true
	case sameActor && !sameChain && sameToken:
		return KindBridge, true
	case sameActor && !sameChain && !sameToken:
		return KindSwapBridge, true
	case !sameActor && sameChain && sameToken:
		return KindTransfer, true
	case !sameActor && sameChain && !sameToken:
		return KindTransferSwap, true
	case !sameActor && !sameChain && sameToken:
		return KindTransferBridge, true
	case !sameActor && !sameChain && !sameToken:
		return KindTransferSwapBridge, true
	}
	return "", false
}
