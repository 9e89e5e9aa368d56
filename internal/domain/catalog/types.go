package catalog

import "errors"

var ErrInvalidPackageType = errors.New("invalid package type")

// PackageType selects pricing, never duration: a forfait session occupies
// the same slot as a single one.
type PackageType string

const (
	PackageSingle  PackageType = "single"
	PackageForfait PackageType = "forfait"
)

func (p PackageType) String() string {
	return string(p)
}

func (p PackageType) IsValid() bool {
	switch p {
	case PackageSingle, PackageForfait:
		return true
	default:
		return false
	}
}

func NewPackageType(s string) (PackageType, error) {
	p := PackageType(s)
	if !p.IsValid() {
		return "", ErrInvalidPackageType
	}
	return p, nil
}
