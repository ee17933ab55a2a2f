package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/intents/internal/errors"
)

var eip155ChainPattern = regexp.MustCompile(`^eip155:[0-9]+$`)

type Chain struct {
	Name    string
	Slug    string
	ID      int64
	Testnet bool
}

func (c Chain) CAIP2() string {
	return fmt.Sprintf("eip155:%d", c.ID)
}

type Token struct {
	Symbol   string
	Address  string
	Decimals int
}

var chainBySlug = map[string]Chain{
	"ethereum":         {Name: "Ethereum", Slug: "ethereum", ID: 1},
	"mainnet":          {Name: "Ethereum", Slug: "ethereum", ID: 1},
	"optimism":         {Name: "Optimism", Slug: "optimism", ID: 10},
	"polygon":          {Name: "Polygon", Slug: "polygon", ID: 137},
	"unichain":         {Name: "Unichain", Slug: "unichain", ID: 130},
	"base":             {Name: "Base", Slug: "base", ID: 8453},
	"arbitrum":         {Name: "Arbitrum", Slug: "arbitrum", ID: 42161},
	"avalanche":        {Name: "Avalanche", Slug: "avalanche", ID: 43114},
	"bsc":              {Name: "BSC", Slug: "bsc", ID: 56},
	"sepolia":          {Name: "Sepolia", Slug: "sepolia", ID: 11155111, Testnet: true},
	"base-sepolia":     {Name: "Base Sepolia", Slug: "base-sepolia", ID: 84532, Testnet: true},
	"arbitrum-sepolia": {Name: "Arbitrum Sepolia", Slug: "arbitrum-sepolia", ID: 421614, Testnet: true},
	"optimism-sepolia": {Name: "Optimism Sepolia", Slug: "optimism-sepolia", ID: 11155420, Testnet: true},
	"avalanche-fuji":   {Name: "Avalanche Fuji", Slug: "avalanche-fuji", ID: 43113, Testnet: true},
}

var chainByID = func() map[int64]Chain {
	out := make(map[int64]Chain, len(chainBySlug))
	for _, chain := range chainBySlug {
		out[chain.ID] = chain
	}
	return out
}()

// Small bootstrap registry used to pair tokens across chains by symbol.
var tokenRegistry = map[int64][]Token{
	1: {
		{Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6},
		{Symbol: "USDT", Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Decimals: 6},
		{Symbol: "DAI", Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Decimals: 18},
		{Symbol: "WETH", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
	},
	10: {
		{Symbol: "USDC", Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", Decimals: 6},
		{Symbol: "USDT", Address: "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", Decimals: 6},
		{Symbol: "DAI", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18},
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
	},
	137: {
		{Symbol: "USDC", Address: "0x3c499c542cef5e3811e1192ce70d8cc03d5c3359", Decimals: 6},
		{Symbol: "USDT", Address: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F", Decimals: 6},
		{Symbol: "WETH", Address: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", Decimals: 18},
	},
	8453: {
		{Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
		{Symbol: "DAI", Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Decimals: 18},
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
	},
	42161: {
		{Symbol: "USDC", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
		{Symbol: "USDT", Address: "0xFd086bC7CD5C481DCC9C85ebe478A1C0b69FCbb9", Decimals: 6},
		{Symbol: "WETH", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18},
	},
	43114: {
		{Symbol: "USDC", Address: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6},
		{Symbol: "USDT", Address: "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4A8c7", Decimals: 6},
	},
	11155111: {
		{Symbol: "USDC", Address: "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238", Decimals: 6},
	},
	84532: {
		{Symbol: "USDC", Address: "0x036CbD53842c5426634e7929541eC2318f3dCF7e", Decimals: 6},
	},
}

func ParseChain(input string) (Chain, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Chain{}, clierr.New(clierr.CodeUsage, "chain is required")
	}
	norm := strings.ToLower(raw)

	if chain, ok := chainBySlug[norm]; ok {
		return chain, nil
	}

	if eip155ChainPattern.MatchString(norm) {
		norm = strings.TrimPrefix(norm, "eip155:")
	}
	if id, err := strconv.ParseInt(norm, 10, 64); err == nil && id > 0 {
		return ChainByID(id), nil
	}

	return Chain{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("unsupported chain input: %s", input))
}

// ChainByID returns the known chain or a synthetic EVM chain for unknown ids.
func ChainByID(id int64) Chain {
	if chain, ok := chainByID[id]; ok {
		return chain
	}
	return Chain{Name: fmt.Sprintf("EVM-%d", id), Slug: fmt.Sprintf("evm-%d", id), ID: id}
}

// NormalizeAddress returns the canonical form of a 20-byte hex address, or
// false when the input is not one.
func NormalizeAddress(raw string) (common.Address, bool) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func AddressEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func LookupByAddress(chainID int64, address common.Address) (Token, bool) {
	for _, t := range tokenRegistry[chainID] {
		if AddressEqual(t.Address, address.Hex()) {
			return Token{
				Symbol:   strings.ToUpper(t.Symbol),
				Address:  common.HexToAddress(t.Address).Hex(),
				Decimals: t.Decimals,
			}, true
		}
	}
	return Token{}, false
}

func KnownToken(chainID int64, symbol string) (Token, bool) {
	matches := []Token{}
	for _, t := range tokenRegistry[chainID] {
		if strings.EqualFold(t.Symbol, symbol) {
			matches = append(matches, Token{
				Symbol:   strings.ToUpper(t.Symbol),
				Address:  common.HexToAddress(t.Address).Hex(),
				Decimals: t.Decimals,
			})
		}
	}
	if len(matches) != 1 {
		return Token{}, false
	}
	return matches[0], true
}

// Counterpart finds the token on toChain that carries the same symbol as
// token on fromChain.
func Counterpart(fromChain int64, token common.Address, toChain int64) (common.Address, bool) {
	if fromChain == toChain {
		return token, true
	}
	known, ok := LookupByAddress(fromChain, token)
	if !ok {
		return common.Address{}, false
	}
	other, ok := KnownToken(toChain, known.Symbol)
	if !ok {
		return common.Address{}, false
	}
	return common.HexToAddress(other.Address), true
}

// ParseToken accepts a token address or a registry symbol on the given chain.
func ParseToken(input string, chain Chain) (common.Address, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return common.Address{}, clierr.New(clierr.CodeUsage, "token is required")
	}
	if addr, ok := NormalizeAddress(raw); ok {
		return addr, nil
	}
	token, ok := KnownToken(chain.ID, raw)
	if !ok {
		return common.Address{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("symbol %s not found in registry for chain %s", input, chain.CAIP2()))
	}
	return common.HexToAddress(token.Address), nil
}
