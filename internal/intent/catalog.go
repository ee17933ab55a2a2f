package intent

import (
	"fmt"

	"github.com/ggonzalez94/intents/internal/entity"
	"github.com/ggonzalez94/intents/internal/registry"
)

// Check is the outcome of a role predicate. A rejection only means the
// definition does not apply.
type Check struct {
	Result bool   `json:"result"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

func Accept(reason string) Check {
	return Check{Result: true, Reason: reason}
}

func Reject(format string, args ...any) Check {
	return Check{Error: fmt.Sprintf(format, args...)}
}

// Env carries the immutable collaborators a resolve function may consult.
type Env struct {
	Registry *registry.Registry
	Testnet  bool
}

// Outcome is what a definition produces for a matched pair. Kind refines the
// definition's kind when set.
type Outcome struct {
	Kind    Kind
	Flow    *Flow
	Options []Option
}

// Roles holds the optional per-role predicates of a definition.
type Roles[S, T entity.Payload] struct {
	Source func(S) Check
	Target func(T) Check
}

type Definition struct {
	Kind   Kind        `json:"kind"`
	Label  string      `json:"label"`
	Source entity.Type `json:"source"`
	Target entity.Type `json:"target"`

	sourceCheck func(entity.Payload) Check
	targetCheck func(entity.Payload) Check
	resolve     func(Env, entity.Payload, entity.Payload) (Outcome, error)
}

// Define builds a definition whose predicates and resolve function receive
// the typed payloads of their roles.
func Define[S, T entity.Payload](kind Kind, label string, roles Roles[S, T], resolve func(Env, S, T) (Outcome, error)) Definition {
	var source S
	var target T
	def := Definition{
		Kind:   kind,
		Label:  label,
		Source: source.EntityType(),
		Target: target.EntityType(),
	}
	if roles.Source != nil {
		def.sourceCheck = func(p entity.Payload) Check {
			typed, ok := p.(S)
			if !ok {
				return Reject("source is %T, want %s", p, def.Source)
			}
			return roles.Source(typed)
		}
	}
	if roles.Target != nil {
		def.targetCheck = func(p entity.Payload) Check {
			typed, ok := p.(T)
			if !ok {
				return Reject("target is %T, want %s", p, def.Target)
			}
			return roles.Target(typed)
		}
	}
	def.resolve = func(env Env, from, to entity.Payload) (Outcome, error) {
		s, ok := from.(S)
		if !ok {
			return Outcome{}, fmt.Errorf("source is %T, want %s", from, def.Source)
		}
		t, ok := to.(T)
		if !ok {
			return Outcome{}, fmt.Errorf("target is %T, want %s", to, def.Target)
		}
		return resolve(env, s, t)
	}
	return def
}

func (d Definition) HasPredicates() bool {
	return d.sourceCheck != nil || d.targetCheck != nil
}

// match applies role types and predicates. The returned check carries the
// accepting reason or the first rejection.
func (d Definition) match(from, to entity.Ref) (Check, bool) {
	if from.Type() != d.Source || to.Type() != d.Target {
		return Check{}, false
	}
	reason := ""
	if d.sourceCheck != nil {
		check := d.sourceCheck(from.ID)
		if !check.Result {
			return check, false
		}
		reason = check.Reason
	}
	if d.targetCheck != nil {
		check := d.targetCheck(to.ID)
		if !check.Result {
			return check, false
		}
		if check.Reason != "" {
			reason = check.Reason
		}
	}
	return Accept(reason), true
}

// Catalog is an ordered list of definitions. The first definition that
// matches a pair wins.
type Catalog struct {
	defs []Definition
}

func NewCatalog(defs ...Definition) *Catalog {
	return &Catalog{defs: append([]Definition(nil), defs...)}
}

func (c *Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Match returns the first definition accepting the pair. Rejections seen
// along the way are returned for diagnostics.
func (c *Catalog) Match(from, to entity.Ref) (Definition, Check, []Check, bool) {
	var rejected []Check
	for _, def := range c.defs {
		check, ok := def.match(from, to)
		if ok {
			return def, check, rejected, true
		}
		if check.Error != "" {
			rejected = append(rejected, check)
		}
	}
	return Definition{}, Check{}, rejected, false
}

// Shadow reports a definition that can never match because an earlier
// definition with the same roles accepts every pair.
type Shadow struct {
	Index   int  `json:"index"`
	Kind    Kind `json:"kind"`
	ByIndex int  `json:"byIndex"`
	ByKind  Kind `json:"byKind"`
}

func (c *Catalog) Shadowed() []Shadow {
	out := []Shadow{}
	for j, later := range c.defs {
		for i := 0; i < j; i++ {
			earlier := c.defs[i]
			if earlier.Source != later.Source || earlier.Target != later.Target || earlier.HasPredicates() {
				continue
			}
			out = append(out, Shadow{Index: j, Kind: later.Kind, ByIndex: i, ByKind: earlier.Kind})
			break
		}
	}
	return out
}
