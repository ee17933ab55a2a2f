package uniswap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/httpx"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/providers"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/ggonzalez94/intents/internal/route"
)

const KeyEnvVar = "INTENTS_UNISWAP_API_KEY"

// quoteOnlySwapper is a deterministic placeholder for quote retrieval flows.
const quoteOnlySwapper = "0x0000000000000000000000000000000000000001"

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func New(httpClient *httpx.Client, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: registry.UniswapBaseURL, apiKey: apiKey}
}

func (c *Client) WithBaseURL(raw string) (*Client, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return c, nil
	}
	if !registry.IsAllowedQuoteURL(registry.ProtocolUniswap, raw) {
		return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("uniswap base url %q is not allowed", raw))
	}
	next := *c
	next.baseURL = raw
	return &next, nil
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:         string(registry.ProtocolUniswap),
		Type:         "swap",
		RequiresKey:  true,
		KeyEnvVar:    KeyEnvVar,
		Capabilities: []string{"swap.quote"},
	}
}

type quoteResponse struct {
	RequestID string `json:"requestId"`
	Quote     struct {
		QuoteID string `json:"quoteId"`
		Input   struct {
			Amount string `json:"amount"`
		} `json:"input"`
		Output struct {
			Amount string `json:"amount"`
		} `json:"output"`
	} `json:"quote"`
	AmountIn  string `json:"amountIn"`
	AmountOut string `json:"amountOut"`
}

func (c *Client) SwapQuotes(ctx context.Context, req providers.SwapQuoteRequest) ([]route.SwapQuote, error) {
	if c.apiKey == "" {
		return nil, clierr.New(clierr.CodeAuth, "missing required API key for uniswap ("+KeyEnvVar+")")
	}

	swapper := req.Swapper.Hex()
	if req.Swapper == (common.Address{}) {
		swapper = quoteOnlySwapper
	}
	payload := map[string]any{
		"tokenInChainId":  req.ChainID,
		"tokenOutChainId": req.ChainID,
		"tokenIn":         req.TokenIn.Hex(),
		"tokenOut":        req.TokenOut.Hex(),
		"amount":          req.AmountBaseUnits,
		"type":            "EXACT_INPUT",
		"swapper":         swapper,
		"autoSlippage":    "DEFAULT",
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "marshal uniswap request", err)
	}

	headers := map[string]string{
		"x-api-key": c.apiKey,
	}
	var resp quoteResponse
	if _, err := httpx.DoBodyJSON(ctx, c.http, http.MethodPost, c.baseURL+"/v1/quote", buf, headers, &resp); err != nil {
		return nil, err
	}

	amountOut := firstNonEmpty(resp.AmountOut, resp.Quote.Output.Amount)
	if amountOut == "" {
		return nil, clierr.New(clierr.CodeUnavailable, "uniswap quote missing output amount")
	}
	quoteID := firstNonEmpty(resp.Quote.QuoteID, resp.RequestID)
	if quoteID == "" {
		return nil, clierr.New(clierr.CodeUnavailable, "uniswap quote missing id")
	}

	return []route.SwapQuote{{
		ID:        quoteID,
		ChainID:   req.ChainID,
		TokenIn:   req.TokenIn.Hex(),
		TokenOut:  req.TokenOut.Hex(),
		Protocol:  registry.ProtocolUniswap,
		AmountIn:  firstNonEmpty(resp.AmountIn, resp.Quote.Input.Amount, req.AmountBaseUnits),
		AmountOut: amountOut,
	}}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
