package entity

import "strings"

// Tri is a comparison result that may be indeterminate.
type Tri int8

const (
	Unknown Tri = iota
	False
	True
)

func TriOf(b bool) Tri {
	if b {
		return True
	}
	return False
}

func (t Tri) Known() bool { return t != Unknown }

func (t Tri) IsTrue() bool { return t == True }

func (t Tri) IsFalse() bool { return t == False }

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

func (t Tri) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *Tri) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true":
		*t = True
	case "false":
		*t = False
	default:
		*t = Unknown
	}
	return nil
}

type Equality struct {
	Actor Tri `json:"actor"`
	Chain Tri `json:"chain"`
	Token Tri `json:"token"`
}

// Known reports whether every dimension could be compared.
func (e Equality) Known() bool {
	return e.Actor.Known() && e.Chain.Known() && e.Token.Known()
}

func (e Equality) AllTrue() bool {
	return e.Actor.IsTrue() && e.Chain.IsTrue() && e.Token.IsTrue()
}

// ResolveEquality compares two dimension vectors. Interop identifiers present
// on both sides take precedence over the raw fields.
func ResolveEquality(from, to Dimensions) Equality {
	var eq Equality
	switch {
	case from.InteropAddress != "" && to.InteropAddress != "":
		eq.Actor = TriOf(from.InteropAddress == to.InteropAddress)
	case from.Actor != nil && to.Actor != nil:
		eq.Actor = TriOf(*from.Actor == *to.Actor)
	}
	if from.ChainID != nil && to.ChainID != nil {
		eq.Chain = TriOf(*from.ChainID == *to.ChainID)
	}
	switch {
	case from.TokenInteropAddress != "" && to.TokenInteropAddress != "":
		eq.Token = TriOf(from.TokenInteropAddress == to.TokenInteropAddress)
	case from.Token != nil && to.Token != nil:
		eq.Token = TriOf(*from.Token == *to.Token)
	}
	return eq
}

// Compare resolves both refs and their equality in one call.
func Compare(from, to Ref) (Dimensions, Dimensions, Equality) {
	fromDims := ResolveDimensions(from)
	toDims := ResolveDimensions(to)
	return fromDims, toDims, ResolveEquality(fromDims, toDims)
}
