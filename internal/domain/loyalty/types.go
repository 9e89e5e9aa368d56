package loyalty

import "errors"

var ErrInvalidKind = errors.New("invalid loyalty counter kind")

// Kind names which counter an operation touches: one-off treatments or
// completed forfait bundles.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindPackage    Kind = "package"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindIndividual, KindPackage:
		return true
	default:
		return false
	}
}

func NewKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}
