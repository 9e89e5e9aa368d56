package loyalty

import "errors"

var ErrInvalidThreshold = errors.New("threshold must be positive")

// Settings is the process-wide loyalty configuration. It is loaded once per
// request context and passed explicitly into ledger operations; changing it
// is never retroactive to past grants.
type Settings struct {
	ServiceThreshold int
	ServiceDiscount  int64 // cents
	PackageThreshold int
	PackageDiscount  int64 // cents
	BirthdayDiscount int64 // cents
	ReferralBonus    int
	ReviewBonus      int
}

// DefaultSettings mirrors the values the salon ships with.
func DefaultSettings() Settings {
	return Settings{
		ServiceThreshold: 5,
		ServiceDiscount:  2000,
		PackageThreshold: 2,
		PackageDiscount:  4000,
		BirthdayDiscount: 1000,
		ReferralBonus:    1,
		ReviewBonus:      1,
	}
}

func (s Settings) Validate() error {
	if s.ServiceThreshold <= 0 || s.PackageThreshold <= 0 {
		return ErrInvalidThreshold
	}
	if s.ServiceDiscount < 0 || s.PackageDiscount < 0 || s.BirthdayDiscount < 0 {
		return errors.New("discounts cannot be negative")
	}
	return nil
}

// Threshold returns the grant threshold for the given counter kind.
func (s Settings) Threshold(kind Kind) int {
	if kind == KindPackage {
		return s.PackageThreshold
	}
	return s.ServiceThreshold
}

// Discount returns the credit amount granted at a threshold crossing.
func (s Settings) Discount(kind Kind) int64 {
	if kind == KindPackage {
		return s.PackageDiscount
	}
	return s.ServiceDiscount
}
