package model

import "time"

const EnvelopeVersion = "v1"

type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string           `json:"request_id"`
	Timestamp time.Time        `json:"timestamp"`
	Command   string           `json:"command"`
	Testnet   bool             `json:"testnet"`
	Providers []ProviderStatus `json:"providers,omitempty"`
	Cache     CacheStatus      `json:"cache"`
	Partial   bool             `json:"partial"`
}

type ProviderStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

type CacheStatus struct {
	Status string `json:"status"`
	AgeMS  int64  `json:"age_ms"`
	Stale  bool   `json:"stale"`
}

// ProtocolInfo describes one protocol of the action registry.
type ProtocolInfo struct {
	Name        string         `json:"name"`
	Label       string         `json:"label"`
	Actions     []ProtocolVerb `json:"actions"`
	QuoteLess   bool           `json:"quote_less"`
	Chains      *ChainSupport  `json:"chains,omitempty"`
	TransferVia string         `json:"transfer_mode,omitempty"`
	QuoteSource bool           `json:"quote_source"`
	RequiresKey bool           `json:"requires_key"`
	KeyEnvVar   string         `json:"key_env_var,omitempty"`
}

type ProtocolVerb struct {
	Action            string `json:"action"`
	Label             string `json:"label"`
	SupportsRecipient bool   `json:"supports_recipient"`
}

type ChainSupport struct {
	Mainnet []int64 `json:"mainnet"`
	Testnet []int64 `json:"testnet"`
}

// CatalogEntry is one intent definition in match order.
type CatalogEntry struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Guarded bool   `json:"guarded"`
}

// ProviderInfo describes a live quote source.
type ProviderInfo struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	RequiresKey  bool     `json:"requires_key"`
	KeyEnvVar    string   `json:"key_env_var,omitempty"`
	Capabilities []string `json:"capabilities"`
}
