package intent

import (
	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/registry"
)

type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

const (
	ReasonMissingDetails = "missing actor, chain, or token details"
	ReasonIdentical      = "no intent for identical actor, chain, and token"
)

type Resolution struct {
	Status   Status          `json:"status"`
	Kind     Kind            `json:"kind,omitempty"`
	Label    string          `json:"label,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	From     entity.Ref      `json:"from"`
	To       entity.Ref      `json:"to"`
	Equality entity.Equality `json:"equality"`
	Flow     *Flow           `json:"flow,omitempty"`
	Options  []Option        `json:"options"`
	Error    string          `json:"error,omitempty"`
}

func (r Resolution) Valid() bool {
	return r.Status == StatusValid
}

// Resolver classifies entity pairs against a catalog, falling back to the
// equality truth table when no definition applies.
type Resolver struct {
	catalog *Catalog
	env     Env
}

func NewResolver(catalog *Catalog, reg *registry.Registry, testnet bool) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if reg == nil {
		reg = registry.Default()
	}
	return &Resolver{catalog: catalog, env: Env{Registry: reg, Testnet: testnet}}
}

func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

func (r *Resolver) Registry() *registry.Registry {
	return r.env.Registry
}

func (r *Resolver) Testnet() bool {
	return r.env.Testnet
}

func (r *Resolver) Resolve(from, to entity.Ref) Resolution {
	fromDims, toDims, eq := entity.Compare(from, to)
	res := Resolution{From: from, To: to, Equality: eq, Options: []Option{}}

	if def, check, _, ok := r.catalog.Match(from, to); ok {
		res.Status = StatusValid
		res.Kind = def.Kind
		res.Label = def.Label
		res.Reason = check.Reason
		outcome, err := def.resolve(r.env, from.ID, to.ID)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		if outcome.Kind != "" {
			res.Kind = outcome.Kind
		}
		res.Flow = outcome.Flow
		if outcome.Options != nil {
			res.Options = outcome.Options
		}
		return res
	}

	if !eq.Known() || !fromDims.Complete() || !toDims.Complete() {
		res.Status = StatusInvalid
		res.Reason = ReasonMissingDetails
		return res
	}
	flow := Flow{
		From: Endpoint{Actor: *fromDims.Actor, ChainID: *fromDims.ChainID, Token: *fromDims.Token},
		To:   Endpoint{Actor: *toDims.Actor, ChainID: *toDims.ChainID, Token: *toDims.Token},
	}
	// Listed twins across chains move by bridge alone. Interop identifiers on
	// both sides already decided token equality and are not second-guessed.
	sameToken := eq.Token.IsTrue()
	if !sameToken && (fromDims.TokenInteropAddress == "" || toDims.TokenInteropAddress == "") {
		sameToken = SameAsset(flow.From, flow.To)
	}
	kind, ok := Classify(eq.Actor.IsTrue(), eq.Chain.IsTrue(), sameToken)
	if !ok {
		res.Status = StatusInvalid
		res.Reason = ReasonIdentical
		return res
	}
	res.Status = StatusValid
	res.Kind = kind
	res.Label = compositeLabels[kind]
	res.Flow = &flow
	res.Options = BuildFundsOptions(r.env, kind, flow)
	return res
}
