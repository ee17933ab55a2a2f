package policy

import (
	"testing"

	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/ggonzalez94/intents/internal/route"
)

func TestCheckCommandAllowed(t *testing.T) {
	if err := CheckCommandAllowed(nil, "routes"); err != nil {
		t.Fatalf("unexpected error with empty allowlist: %v", err)
	}
	if err := CheckCommandAllowed([]string{"protocols  list"}, "Protocols list"); err != nil {
		t.Fatalf("expected command to be allowed: %v", err)
	}
	if err := CheckCommandAllowed([]string{"catalog list"}, "routes"); err == nil {
		t.Fatal("expected command to be blocked")
	}
}

func TestParseProtocolsRejectsUnknown(t *testing.T) {
	_, err := ParseProtocols([]string{"lifi", "sushiswap"})
	cErr, ok := clierr.As(err)
	if !ok || cErr.Code != clierr.CodeUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestFilterOptionsRequiresEveryProtocol(t *testing.T) {
	allow, err := ParseProtocols([]string{"LI.FI", "cctp"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	options := []intent.Option{
		intent.NewOption(intent.NewAction(registry.ActionBridge, registry.ProtocolLiFi, intent.BridgePayload{})),
		intent.NewOption(
			intent.NewAction(registry.ActionSwap, registry.ProtocolUniswap, intent.SwapPayload{}),
			intent.NewAction(registry.ActionBridge, registry.ProtocolCCTP, intent.BridgePayload{}),
		),
		intent.NewOption(intent.NewAction(registry.ActionBridge, registry.ProtocolCCTP, intent.BridgePayload{})),
	}
	got := allow.FilterOptions(options)
	if len(got) != 2 || got[0].Label != "Bridge via LI.FI" || got[1].Label != "Bridge via Circle CCTP" {
		t.Fatalf("unexpected filtered options %+v", got)
	}
	if err := allow.CheckAllowed(registry.ProtocolGateway); err == nil {
		t.Fatal("gateway must be blocked")
	}
}

func TestFilterRoutes(t *testing.T) {
	allow, _ := ParseProtocols([]string{"gateway"})
	routes := []route.Route{
		{ID: "a", Steps: []route.Step{{Protocol: registry.ProtocolGateway}}},
		{ID: "b", Steps: []route.Step{{Protocol: registry.ProtocolGateway}, {Protocol: registry.ProtocolWallet}}},
	}
	got := allow.FilterRoutes(routes)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected routes %+v", got)
	}
	var none Protocols
	if len(none.FilterRoutes(routes)) != 2 {
		t.Fatal("an empty allowlist keeps everything")
	}
}
