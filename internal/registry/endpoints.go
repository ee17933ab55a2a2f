package registry

import (
	"net"
	"net/url"
	"strings"
)

const (
	// Live quote endpoints.
	LiFiBaseURL    = "https://li.quest/v1"
	UniswapBaseURL = "https://trade-api.gateway.uniswap.org"
)

func QuoteBaseURL(p Protocol) (string, bool) {
	switch p {
	case ProtocolLiFi:
		return LiFiBaseURL, true
	case ProtocolUniswap:
		return UniswapBaseURL, true
	default:
		return "", false
	}
}

// IsAllowedQuoteURL accepts the canonical endpoint of a protocol, or any
// loopback http(s) endpoint for local testing.
func IsAllowedQuoteURL(p Protocol, endpoint string) bool {
	parsed, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || strings.TrimSpace(parsed.Hostname()) == "" {
		return false
	}
	scheme := strings.ToLower(strings.TrimSpace(parsed.Scheme))
	if isLoopbackHost(parsed.Hostname()) {
		return scheme == "http" || scheme == "https"
	}
	if scheme != "https" {
		return false
	}
	allowedRaw, ok := QuoteBaseURL(p)
	if !ok {
		return false
	}
	allowed, err := url.Parse(allowedRaw)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Hostname(), allowed.Hostname()) && parsed.Port() == allowed.Port()
}

func isLoopbackHost(host string) bool {
	h := strings.TrimSpace(strings.ToLower(host))
	if h == "localhost" {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}
