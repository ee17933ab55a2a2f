package providers

import (
	"github.com/ggonzalez94/intents/internal/id"
	"github.com/ggonzalez94/intents/internal/intent"
)

// Plan lists the live requests whose rows can fill the route templates of a
// resolved funds intent. Intermediate swaps on the other chain are requested
// only when the token has a known counterpart there.
type Plan struct {
	Swaps   []SwapQuoteRequest
	Bridges []BridgeRouteRequest
}

func (p Plan) Empty() bool {
	return len(p.Swaps) == 0 && len(p.Bridges) == 0
}

func PlanRequests(kind intent.Kind, flow intent.Flow, amount string) Plan {
	var plan Plan
	if !kind.Composite() {
		return plan
	}
	_, swap, bridge := kind.Needs()
	from, to := flow.From, flow.To

	if swap && !bridge {
		plan.Swaps = append(plan.Swaps, SwapQuoteRequest{
			ChainID:         from.ChainID,
			TokenIn:         from.Token,
			TokenOut:        to.Token,
			AmountBaseUnits: amount,
			Swapper:         from.Actor,
		})
		return plan
	}
	if !bridge {
		return plan
	}

	plan.Bridges = append(plan.Bridges, BridgeRouteRequest{
		FromChainID:     from.ChainID,
		ToChainID:       to.ChainID,
		FromToken:       from.Token,
		ToToken:         to.Token,
		FromAddress:     from.Actor,
		ToAddress:       to.Actor,
		AmountBaseUnits: amount,
	})
	if !swap {
		return plan
	}
	if mid, ok := id.Counterpart(to.ChainID, to.Token, from.ChainID); ok {
		plan.Swaps = append(plan.Swaps, SwapQuoteRequest{
			ChainID:         from.ChainID,
			TokenIn:         from.Token,
			TokenOut:        mid,
			AmountBaseUnits: amount,
			Swapper:         from.Actor,
		})
	}
	if mid, ok := id.Counterpart(from.ChainID, from.Token, to.ChainID); ok {
		// The bridged amount is unknown before the bridge runs; the source
		// amount is the best available estimate.
		plan.Swaps = append(plan.Swaps, SwapQuoteRequest{
			ChainID:         to.ChainID,
			TokenIn:         mid,
			TokenOut:        to.Token,
			AmountBaseUnits: amount,
			Swapper:         to.Actor,
		})
	}
	return plan
}
