package app

import (
	"context"
	"fmt"

	clierr "github.com/ggonzalez94/intents/internal/errors"
	"github.com/ggonzalez94/intents/internal/id"
	"github.com/ggonzalez94/intents/internal/intent"
	"github.com/ggonzalez94/intents/internal/model"
	"github.com/ggonzalez94/intents/internal/route"
	"github.com/spf13/cobra"
)

const refUsage = "Entity reference as inline JSON or @path to a JSON/YAML file"

type pairArgs struct {
	from string
	to   string
}

func (p *pairArgs) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.from, "from", "", refUsage+" (drag source)")
	cmd.Flags().StringVar(&p.to, "to", "", refUsage+" (drop target)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// resolve reads both references and classifies the pair. Options outside the
// --protocols allowlist are dropped.
func (s *runtimeState) resolve(p pairArgs) (intent.Resolution, error) {
	from, err := parseRef("from", p.from)
	if err != nil {
		return intent.Resolution{}, err
	}
	to, err := parseRef("to", p.to)
	if err != nil {
		return intent.Resolution{}, err
	}
	res := s.resolver.Resolve(from, to)
	res.Options = s.allow.FilterOptions(res.Options)
	s.log.Debug("resolved intent", "from", from.Type(), "to", to.Type(), "status", res.Status, "kind", res.Kind, "options", len(res.Options))
	if res.Error != "" {
		s.log.Warn("intent resolve function failed", "kind", res.Kind, "err", res.Error)
	}
	return res, nil
}

func (s *runtimeState) checkIntent(res intent.Resolution) ([]string, error) {
	if res.Valid() && res.Error == "" {
		return nil, nil
	}
	reason := res.Reason
	if res.Error != "" {
		reason = res.Error
	}
	if s.settings.Strict {
		return nil, clierr.New(clierr.CodeNoIntent, "no intent: "+reason)
	}
	return []string{"no intent: " + reason}, nil
}

func (s *runtimeState) newResolveCommand() *cobra.Command {
	var pair pairArgs
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Classify an entity pair and list the ways to realise it",
		Example: `  intents resolve \
    --from '{"type":"ActorCoin","id":{"address":"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa","chainId":1,"tokenAddress":"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"}}' \
    --to @target.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.resolve(pair)
			if err != nil {
				return err
			}
			warnings, err := s.checkIntent(res)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), res, warnings, cacheMetaBypass(), nil, false)
		},
	}
	pair.bind(cmd)
	return cmd
}

func (s *runtimeState) newOptionsCommand() *cobra.Command {
	var pair pairArgs
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the protocol options for an entity pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := s.resolve(pair)
			if err != nil {
				return err
			}
			warnings, err := s.checkIntent(res)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), res.Options, warnings, cacheMetaBypass(), nil, false)
		},
	}
	pair.bind(cmd)
	return cmd
}

func (s *runtimeState) newRoutesCommand() *cobra.Command {
	var pair pairArgs
	var option int
	var quotesPath, bridgeRoutesPath, amount string
	var live bool
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Expand an entity pair into concrete routes from quote and route rows",
		Example: `  intents routes --from @alice-usdc.json --to @bob-weth-op.json --quotes quotes.json --bridge-routes bridges.yaml
  intents routes --from @alice-usdc.json --to @bob-weth-op.json --live --amount 1000000 --option 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			commandPath := trimRootPath(cmd.CommandPath())
			s.resetCommandDiagnostics()
			res, err := s.resolve(pair)
			if err != nil {
				return err
			}
			warnings, err := s.checkIntent(res)
			if err != nil {
				return err
			}

			var chosen *intent.Option
			if cmd.Flags().Changed("option") {
				if option < 0 || option >= len(res.Options) {
					return clierr.New(clierr.CodeUsage, fmt.Sprintf("--option %d out of range (%d options)", option, len(res.Options)))
				}
				chosen = &res.Options[option]
			}

			data, err := loadRouteData(quotesPath, bridgeRoutesPath)
			if err != nil {
				return err
			}
			cacheStatus := cacheMetaBypass()
			var statuses []model.ProviderStatus
			partial := false
			if live {
				base, err := id.ParseBaseUnits(amount)
				if err != nil {
					return clierr.Wrap(clierr.CodeUsage, "parse --amount", err)
				}
				if res.Valid() {
					ctx, cancel := context.WithTimeout(context.Background(), s.settings.Timeout)
					fetched, err := s.fetchLive(ctx, res, base)
					cancel()
					if err != nil {
						return err
					}
					data.SwapQuotes = append(data.SwapQuotes, fetched.data.SwapQuotes...)
					data.BridgeRoutes = append(data.BridgeRoutes, fetched.data.BridgeRoutes...)
					warnings = append(warnings, fetched.warnings...)
					statuses = fetched.providers
					cacheStatus = fetched.cache
					partial = fetched.partial
				}
			}
			s.captureCommandDiagnostics(warnings, statuses, partial)

			routes := s.allow.FilterRoutes(s.builder.Build(res, data, chosen))
			s.log.Debug("built routes", "kind", res.Kind, "routes", len(routes), "swapQuotes", len(data.SwapQuotes), "bridgeRoutes", len(data.BridgeRoutes))
			if len(routes) == 0 && res.Valid() {
				if s.settings.Strict {
					return clierr.New(clierr.CodeNoIntent, "no route available for "+string(res.Kind))
				}
				warnings = append(warnings, "no route available for "+string(res.Kind))
			}
			return s.emitSuccess(commandPath, routesOrEmpty(routes), warnings, cacheStatus, statuses, partial)
		},
	}
	pair.bind(cmd)
	cmd.Flags().IntVar(&option, "option", -1, "Restrict routes to the protocols of option N (index into the options list)")
	cmd.Flags().StringVar(&quotesPath, "quotes", "", "JSON/YAML file with swap quotes")
	cmd.Flags().StringVar(&bridgeRoutesPath, "bridge-routes", "", "JSON/YAML file with bridge route rows")
	cmd.Flags().BoolVar(&live, "live", false, "Fetch swap quotes and bridge routes from live providers")
	cmd.Flags().StringVar(&amount, "amount", "", "Source amount in base units (required with --live)")
	return cmd
}

func routesOrEmpty(routes []route.Route) []route.Route {
	if routes == nil {
		return []route.Route{}
	}
	return routes
}
