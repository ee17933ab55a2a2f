package app

import (
	"fmt"

	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/registry"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newProtocolsCommand() *cobra.Command {
	root := &cobra.Command{Use: "protocols", Short: "Protocol-action registry"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List protocols with their actions, chain sets and quote sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]model.ProtocolInfo, 0, len(s.registry.Protocols()))
			for _, p := range s.registry.Protocols() {
				if s.allow.Allows(p) {
					items = append(items, s.protocolInfo(p))
				}
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items, nil, cacheMetaBypass(), nil, false)
		},
	}

	var protocolArg string
	actions := &cobra.Command{
		Use:   "actions",
		Short: "List the actions one protocol can perform",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := registry.ParseProtocol(protocolArg)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "parse --protocol", err)
			}
			if err := s.allow.CheckAllowed(p); err != nil {
				return err
			}
			verbs := s.protocolVerbs(p)
			if len(verbs) == 0 {
				return clierr.New(clierr.CodeUnsupported, fmt.Sprintf("protocol %s has no registered actions", p))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), verbs, nil, cacheMetaBypass(), nil, false)
		},
	}
	actions.Flags().StringVar(&protocolArg, "protocol", "", "Protocol id or label (e.g. lifi, \"Circle CCTP\")")
	_ = actions.MarkFlagRequired("protocol")

	root.AddCommand(list)
	root.AddCommand(actions)
	return root
}

func (s *runtimeState) protocolInfo(p registry.Protocol) model.ProtocolInfo {
	info := model.ProtocolInfo{
		Name:        string(p),
		Label:       p.Label(),
		Actions:     s.protocolVerbs(p),
		QuoteLess:   registry.QuoteLess(p),
		TransferVia: registry.TransferMode(p),
	}
	if mainnet, testnet, ok := registry.Chains(p); ok {
		info.Chains = &model.ChainSupport{Mainnet: mainnet, Testnet: testnet}
	}
	if provider, ok := s.providerInfos[p]; ok {
		info.QuoteSource = true
		info.RequiresKey = provider.RequiresKey
		info.KeyEnvVar = provider.KeyEnvVar
	}
	return info
}

func (s *runtimeState) protocolVerbs(p registry.Protocol) []model.ProtocolVerb {
	actions := s.registry.ActionsByProtocol(p)
	verbs := make([]model.ProtocolVerb, 0, len(actions))
	for _, a := range actions {
		verbs = append(verbs, model.ProtocolVerb{
			Action:            string(a),
			Label:             a.Label(),
			SupportsRecipient: s.registry.SupportsRecipient(a, p),
		})
	}
	return verbs
}

func (s *runtimeState) newCatalogCommand() *cobra.Command {
	root := &cobra.Command{Use: "catalog", Short: "Intent catalog"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List intent definitions in match order",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := s.resolver.Catalog().Definitions()
			items := make([]model.CatalogEntry, 0, len(defs))
			for i, d := range defs {
				items = append(items, model.CatalogEntry{
					Index:   i,
					Kind:    string(d.Kind),
					Label:   d.Label,
					Source:  string(d.Source),
					Target:  string(d.Target),
					Guarded: d.HasPredicates(),
				})
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items, nil, cacheMetaBypass(), nil, false)
		},
	}
	lint := &cobra.Command{
		Use:   "lint",
		Short: "Report definitions that can never match",
		RunE: func(cmd *cobra.Command, args []string) error {
			shadowed := s.resolver.Catalog().Shadowed()
			if len(shadowed) > 0 && s.settings.Strict {
				return clierr.New(clierr.CodeInternal, fmt.Sprintf("%d catalog definitions are shadowed", len(shadowed)))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), shadowed, nil, cacheMetaBypass(), nil, false)
		},
	}
	root.AddCommand(list)
	root.AddCommand(lint)
	return root
}
