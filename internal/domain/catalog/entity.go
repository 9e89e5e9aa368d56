package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrPromoNotBelow   = errors.New("promo price must be below base price")
	ErrEmptySlug       = errors.New("service slug cannot be empty")
)

// ServiceItem is one bookable treatment from the active catalog.
// Prices are cents; promoPrice and forfaitPrice are optional.
type ServiceItem struct {
	id              uuid.UUID
	slug            string
	name            string
	durationMinutes int
	basePrice       int64
	promoPrice      *int64
	forfaitPrice    *int64
	active          bool
	createdAt       time.Time
	updatedAt       time.Time
}

func NewServiceItem(slug, name string, durationMinutes int, basePrice int64, promoPrice, forfaitPrice *int64) (*ServiceItem, error) {
	if slug == "" {
		return nil, ErrEmptySlug
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if basePrice < 0 {
		return nil, ErrNegativePrice
	}
	if promoPrice != nil {
		if *promoPrice < 0 {
			return nil, ErrNegativePrice
		}
		if *promoPrice >= basePrice {
			return nil, ErrPromoNotBelow
		}
	}
	if forfaitPrice != nil && *forfaitPrice < 0 {
		return nil, ErrNegativePrice
	}

	return &ServiceItem{
		id:              uuid.New(),
		slug:            slug,
		name:            name,
		durationMinutes: durationMinutes,
		basePrice:       basePrice,
		promoPrice:      promoPrice,
		forfaitPrice:    forfaitPrice,
		active:          true,
	}, nil
}

func ReconstructServiceItem(
	id uuid.UUID,
	slug, name string,
	durationMinutes int,
	basePrice int64,
	promoPrice, forfaitPrice *int64,
	active bool,
	createdAt, updatedAt time.Time,
) *ServiceItem {
	return &ServiceItem{
		id:              id,
		slug:            slug,
		name:            name,
		durationMinutes: durationMinutes,
		basePrice:       basePrice,
		promoPrice:      promoPrice,
		forfaitPrice:    forfaitPrice,
		active:          active,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (s *ServiceItem) ID() uuid.UUID        { return s.id }
func (s *ServiceItem) Slug() string         { return s.slug }
func (s *ServiceItem) Name() string         { return s.name }
func (s *ServiceItem) DurationMinutes() int { return s.durationMinutes }
func (s *ServiceItem) BasePrice() int64     { return s.basePrice }
func (s *ServiceItem) PromoPrice() *int64   { return s.promoPrice }
func (s *ServiceItem) ForfaitPrice() *int64 { return s.forfaitPrice }
func (s *ServiceItem) IsActive() bool       { return s.active }
func (s *ServiceItem) CreatedAt() time.Time { return s.createdAt }
func (s *ServiceItem) UpdatedAt() time.Time { return s.updatedAt }

// UnitPrice resolves the effective price for one session under the given
// package type: forfait pricing wins for forfait selections, otherwise the
// promo price applies when present.
func (s *ServiceItem) UnitPrice(pkg PackageType) int64 {
	if pkg == PackageForfait && s.forfaitPrice != nil {
		return *s.forfaitPrice
	}
	if s.promoPrice != nil {
		return *s.promoPrice
	}
	return s.basePrice
}
