package registry

// Chain coverage for bridges that only run on a fixed set of domains.
// Protocols without an entry are treated as chain-agnostic.
var chainSupport = map[Protocol]struct {
	Mainnet []int64
	Testnet []int64
}{
	ProtocolCCTP: {
		Mainnet: []int64{1, 10, 130, 137, 8453, 42161, 43114, 59144},
		Testnet: []int64{11155111, 84532, 421614, 11155420, 43113, 59141},
	},
	ProtocolGateway: {
		Mainnet: []int64{1, 10, 130, 137, 8453, 42161, 43114},
		Testnet: []int64{11155111, 84532, 421614, 11155420, 43113},
	},
}

// Bridges that settle from a unified balance and need no pre-fetched quote.
var quoteLess = map[Protocol]bool{
	ProtocolGateway: true,
}

// Bridges that move a single asset, by token symbol.
var bridgedAssets = map[Protocol]string{
	ProtocolCCTP:    "USDC",
	ProtocolGateway: "USDC",
}

const (
	TransferModeDirect  = "direct"
	TransferModeChannel = "channel"
)

var transferModes = map[Protocol]string{
	ProtocolWallet: TransferModeDirect,
	ProtocolYellow: TransferModeChannel,
}

func ChainRestricted(p Protocol) bool {
	_, ok := chainSupport[p]
	return ok
}

func SupportsChain(p Protocol, chainID int64, testnet bool) bool {
	support, ok := chainSupport[p]
	if !ok {
		return true
	}
	chains := support.Mainnet
	if testnet {
		chains = support.Testnet
	}
	for _, id := range chains {
		if id == chainID {
			return true
		}
	}
	return false
}

func SupportsPair(p Protocol, fromChainID, toChainID int64, testnet bool) bool {
	return SupportsChain(p, fromChainID, testnet) && SupportsChain(p, toChainID, testnet)
}

func QuoteLess(p Protocol) bool {
	return quoteLess[p]
}

// BridgedAsset returns the symbol of the only asset p can bridge. Protocols
// without a restriction report false.
func BridgedAsset(p Protocol) (string, bool) {
	symbol, ok := bridgedAssets[p]
	return symbol, ok
}

// TransferMode reports how a transfer protocol moves funds; empty for
// protocols that do not transfer.
func TransferMode(p Protocol) string {
	return transferModes[p]
}

// Chains returns copies of the mainnet and testnet chain sets of a
// chain-restricted protocol.
func Chains(p Protocol) (mainnet, testnet []int64, ok bool) {
	support, ok := chainSupport[p]
	if !ok {
		return nil, nil, false
	}
	return append([]int64(nil), support.Mainnet...), append([]int64(nil), support.Testnet...), true
}
