package loyalty

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrThresholdNotMet = errors.New("counter below threshold")
)

// Profile is the per-client rewards ledger: visit counters, lifetime spend
// and the last completed visit. Counters only grow by completion events and
// shrink by exactly one threshold per grant; surplus above the threshold is
// preserved toward the next cycle.
type Profile struct {
	id                      uuid.UUID
	userID                  uuid.UUID
	individualServicesCount int
	packagesCount           int
	totalSpent              int64
	lastVisit               *time.Time
	createdAt               time.Time
	updatedAt               time.Time
}

func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		id:     uuid.New(),
		userID: userID,
	}
}

func ReconstructProfile(
	id, userID uuid.UUID,
	individualServicesCount, packagesCount int,
	totalSpent int64,
	lastVisit *time.Time,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		id:                      id,
		userID:                  userID,
		individualServicesCount: individualServicesCount,
		packagesCount:           packagesCount,
		totalSpent:              totalSpent,
		lastVisit:               lastVisit,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

// RecordCompletion applies one completed-booking event: the matching
// counter grows by one and spend/visit bookkeeping is updated. The caller
// guarantees exactly-once delivery; the ledger does not deduplicate.
func (p *Profile) RecordCompletion(kind Kind, spentCents int64, visitedAt time.Time) {
	switch kind {
	case KindPackage:
		p.packagesCount++
	default:
		p.individualServicesCount++
	}
	p.totalSpent += spentCents
	p.lastVisit = &visitedAt
}

// Credit is a discount note produced by a reward grant, to be deducted on
// the client's next transaction.
type Credit struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	Kind        Kind
	AmountCents int64
	GrantedAt   time.Time
}

// GrantReward performs the atomic grant-and-decrement step. The counter is
// reduced by exactly the configured threshold, never reset to zero, so any
// surplus carries into the next cycle. A counter below the threshold is a
// caller bug, reported as ErrThresholdNotMet.
func (p *Profile) GrantReward(kind Kind, settings Settings, now time.Time) (*Credit, error) {
	threshold := settings.Threshold(kind)
	if p.Counter(kind) < threshold {
		return nil, ErrThresholdNotMet
	}

	switch kind {
	case KindPackage:
		p.packagesCount -= threshold
	default:
		p.individualServicesCount -= threshold
	}

	return &Credit{
		ID:          uuid.New(),
		ProfileID:   p.id,
		Kind:        kind,
		AmountCents: settings.Discount(kind),
		GrantedAt:   now,
	}, nil
}

// Adjust is the staff correction path; the result is clamped at zero.
func (p *Profile) Adjust(kind Kind, delta int) int {
	switch kind {
	case KindPackage:
		p.packagesCount = clampNonNegative(p.packagesCount + delta)
		return p.packagesCount
	default:
		p.individualServicesCount = clampNonNegative(p.individualServicesCount + delta)
		return p.individualServicesCount
	}
}

func (p *Profile) Counter(kind Kind) int {
	if kind == KindPackage {
		return p.packagesCount
	}
	return p.individualServicesCount
}

// Eligible reports whether a grant would currently succeed. Settings
// changes apply immediately: a raised threshold makes a profile ineligible
// without any forced reset.
func (p *Profile) Eligible(kind Kind, settings Settings) bool {
	return p.Counter(kind) >= settings.Threshold(kind)
}

func (p *Profile) ID() uuid.UUID               { return p.id }
func (p *Profile) UserID() uuid.UUID           { return p.userID }
func (p *Profile) IndividualServicesCount() int { return p.individualServicesCount }
func (p *Profile) PackagesCount() int          { return p.packagesCount }
func (p *Profile) TotalSpent() int64           { return p.totalSpent }
func (p *Profile) LastVisit() *time.Time       { return p.lastVisit }
func (p *Profile) CreatedAt() time.Time        { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time        { return p.updatedAt }

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
