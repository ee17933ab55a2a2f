package lifi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/httpx"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/providers"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/ggonzalez94/intents/internal/route"
)

// quoteOnlyAddress stands in for the sender when a quote has no actor.
const quoteOnlyAddress = "0x0000000000000000000000000000000000000001"

type Client struct {
	http    *httpx.Client
	baseURL string
	apiKey  string
}

func New(httpClient *httpx.Client, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: registry.LiFiBaseURL, apiKey: apiKey}
}

// WithBaseURL points the client at another endpoint. Only the canonical host
// and loopback addresses are accepted.
func (c *Client) WithBaseURL(raw string) (*Client, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return c, nil
	}
	if !registry.IsAllowedQuoteURL(registry.ProtocolLiFi, raw) {
		return nil, clierr.New(clierr.CodeUsage, fmt.Sprintf("lifi base url %q is not allowed", raw))
	}
	next := *c
	next.baseURL = raw
	return &next, nil
}

func (c *Client) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:        string(registry.ProtocolLiFi),
		Type:        "aggregator",
		RequiresKey: false,
		KeyEnvVar:   "INTENTS_LIFI_API_KEY",
		Capabilities: []string{
			"swap.quote",
			"bridge.routes",
		},
	}
}

type routesRequest struct {
	FromChainID      int64  `json:"fromChainId"`
	ToChainID        int64  `json:"toChainId"`
	FromTokenAddress string `json:"fromTokenAddress"`
	ToTokenAddress   string `json:"toTokenAddress"`
	FromAmount       string `json:"fromAmount"`
	FromAddress      string `json:"fromAddress"`
	ToAddress        string `json:"toAddress"`
}

type routesResponse struct {
	Routes []struct {
		ID          string `json:"id"`
		FromChainID int64  `json:"fromChainId"`
		ToChainID   int64  `json:"toChainId"`
		ToAmount    string `json:"toAmount"`
		Steps       []struct {
			Tool string `json:"tool"`
		} `json:"steps"`
	} `json:"routes"`
}

type quoteResponse struct {
	ID       string `json:"id"`
	Tool     string `json:"tool"`
	Estimate struct {
		FromAmount string `json:"fromAmount"`
		ToAmount   string `json:"toAmount"`
	} `json:"estimate"`
	Action struct {
		FromChainID int64 `json:"fromChainId"`
		FromToken   struct {
			Address string `json:"address"`
		} `json:"fromToken"`
		ToToken struct {
			Address string `json:"address"`
		} `json:"toToken"`
	} `json:"action"`
}

func (c *Client) BridgeRoutes(ctx context.Context, req providers.BridgeRouteRequest) ([]route.BridgeRouteRow, error) {
	if req.FromChainID == req.ToChainID {
		return nil, clierr.New(clierr.CodeUsage, "lifi bridge routes need two different chains")
	}
	body, err := json.Marshal(routesRequest{
		FromChainID:      req.FromChainID,
		ToChainID:        req.ToChainID,
		FromTokenAddress: req.FromToken.Hex(),
		ToTokenAddress:   req.ToToken.Hex(),
		FromAmount:       req.AmountBaseUnits,
		FromAddress:      req.FromAddress.Hex(),
		ToAddress:        req.ToAddress.Hex(),
	})
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "marshal lifi routes request", err)
	}

	var resp routesResponse
	if _, err := httpx.DoBodyJSON(ctx, c.http, http.MethodPost, c.baseURL+"/advanced/routes", body, c.headers(), &resp); err != nil {
		return nil, err
	}

	rows := make([]route.BridgeRouteRow, 0, len(resp.Routes))
	for _, r := range resp.Routes {
		if r.ID == "" {
			continue
		}
		tools := make([]string, 0, len(r.Steps))
		for _, s := range r.Steps {
			if s.Tool != "" {
				tools = append(tools, s.Tool)
			}
		}
		rows = append(rows, route.BridgeRouteRow{
			RowID: route.RowID{
				FromChainID: req.FromChainID,
				ToChainID:   req.ToChainID,
				FromAddress: req.FromAddress.Hex(),
			},
			Route: route.BridgeRoute{
				ID:          r.ID,
				FromChainID: r.FromChainID,
				ToChainID:   r.ToChainID,
				Protocol:    registry.ProtocolLiFi,
				Tool:        strings.Join(tools, "+"),
				AmountOut:   r.ToAmount,
			},
		})
	}
	return rows, nil
}

func (c *Client) SwapQuotes(ctx context.Context, req providers.SwapQuoteRequest) ([]route.SwapQuote, error) {
	sender := req.Swapper.Hex()
	if req.Swapper == (common.Address{}) {
		sender = quoteOnlyAddress
	}
	vals := url.Values{}
	vals.Set("fromChain", strconv.FormatInt(req.ChainID, 10))
	vals.Set("toChain", strconv.FormatInt(req.ChainID, 10))
	vals.Set("fromToken", req.TokenIn.Hex())
	vals.Set("toToken", req.TokenOut.Hex())
	vals.Set("fromAmount", req.AmountBaseUnits)
	vals.Set("fromAddress", sender)

	var resp quoteResponse
	if _, err := httpx.GetJSON(ctx, c.http, c.baseURL+"/quote?"+vals.Encode(), c.headers(), &resp); err != nil {
		return nil, err
	}
	if resp.Estimate.ToAmount == "" {
		return nil, clierr.New(clierr.CodeUnavailable, "lifi quote missing output amount")
	}
	quoteID := resp.ID
	if quoteID == "" {
		quoteID = fmt.Sprintf("lifi:%d:%s:%s", req.ChainID, req.TokenIn.Hex(), req.TokenOut.Hex())
	}
	return []route.SwapQuote{{
		ID:        quoteID,
		ChainID:   req.ChainID,
		TokenIn:   req.TokenIn.Hex(),
		TokenOut:  req.TokenOut.Hex(),
		Protocol:  registry.ProtocolLiFi,
		AmountIn:  firstNonEmpty(resp.Estimate.FromAmount, req.AmountBaseUnits),
		AmountOut: resp.Estimate.ToAmount,
	}}, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"x-lifi-api-key": c.apiKey}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
