package policy

import (
	"fmt"
	"strings"

	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/ggonzalez94/intents/internal/route"
)

func CheckCommandAllowed(allowlist []string, commandPath string) error {
	if len(allowlist) == 0 {
		return nil
	}
	normPath := normalize(commandPath)
	for _, allowed := range allowlist {
		if normalize(allowed) == normPath {
			return nil
		}
	}
	return clierr.New(clierr.CodeBlocked, "command blocked by --enable-commands policy")
}

func normalize(v string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(v)))
	return strings.Join(parts, " ")
}

// Protocols is an allowlist of protocols. An empty allowlist allows all.
type Protocols map[registry.Protocol]struct{}

func ParseProtocols(names []string) (Protocols, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := Protocols{}
	for _, name := range names {
		p, err := registry.ParseProtocol(name)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "parse --protocols", err)
		}
		out[p] = struct{}{}
	}
	return out, nil
}

func (a Protocols) Allows(p registry.Protocol) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[p]
	return ok
}

func (a Protocols) CheckAllowed(p registry.Protocol) error {
	if a.Allows(p) {
		return nil
	}
	return clierr.New(clierr.CodeBlocked, fmt.Sprintf("protocol %s blocked by --protocols policy", p))
}

// FilterOptions keeps options whose every action runs on an allowed protocol.
func (a Protocols) FilterOptions(options []intent.Option) []intent.Option {
	if len(a) == 0 {
		return options
	}
	out := make([]intent.Option, 0, len(options))
	for _, o := range options {
		if a.allowsAll(o.Protocols()) {
			out = append(out, o)
		}
	}
	return out
}

// FilterRoutes keeps routes whose every step runs on an allowed protocol.
func (a Protocols) FilterRoutes(routes []route.Route) []route.Route {
	if len(a) == 0 {
		return routes
	}
	out := make([]route.Route, 0, len(routes))
	for _, r := range routes {
		protocols := make([]registry.Protocol, 0, len(r.Steps))
		for _, s := range r.Steps {
			protocols = append(protocols, s.Protocol)
		}
		if a.allowsAll(protocols) {
			out = append(out, r)
		}
	}
	return out
}

func (a Protocols) allowsAll(protocols []registry.Protocol) bool {
	for _, p := range protocols {
		if !a.Allows(p) {
			return false
		}
	}
	return true
}
