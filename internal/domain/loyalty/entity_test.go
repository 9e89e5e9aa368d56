//go:build unit

package loyalty_test

import (
	"testing"
	"time"

	"salon-scheduler/internal/domain/loyalty"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantReward(t *testing.T) {
	settings := loyalty.DefaultSettings() // serviceThreshold=5, discount=2000
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("grant at exact threshold resets counter to zero", func(t *testing.T) {
		profile := loyalty.NewProfile(uuid.New())
		for range 5 {
			profile.RecordCompletion(loyalty.KindIndividual, 8000, now)
		}

		credit, err := profile.GrantReward(loyalty.KindIndividual, settings, now)
		require.NoError(t, err)
		assert.Equal(t, settings.ServiceDiscount, credit.AmountCents)
		assert.Equal(t, 0, profile.IndividualServicesCount())
	})

	t.Run("surplus above threshold is preserved", func(t *testing.T) {
		profile := loyalty.NewProfile(uuid.New())
		for range 7 {
			profile.RecordCompletion(loyalty.KindIndividual, 8000, now)
		}

		_, err := profile.GrantReward(loyalty.KindIndividual, settings, now)
		require.NoError(t, err)
		assert.Equal(t, 2, profile.IndividualServicesCount())
	})

	t.Run("second immediate grant fails below threshold", func(t *testing.T) {
		profile := loyalty.NewProfile(uuid.New())
		for range 5 {
			profile.RecordCompletion(loyalty.KindIndividual, 8000, now)
		}

		_, err := profile.GrantReward(loyalty.KindIndividual, settings, now)
		require.NoError(t, err)

		_, err = profile.GrantReward(loyalty.KindIndividual, settings, now)
		assert.ErrorIs(t, err, loyalty.ErrThresholdNotMet)
	})

	t.Run("package counter is independent", func(t *testing.T) {
		profile := loyalty.NewProfile(uuid.New())
		profile.RecordCompletion(loyalty.KindPackage, 28000, now)
		profile.RecordCompletion(loyalty.KindPackage, 28000, now)

		credit, err := profile.GrantReward(loyalty.KindPackage, settings, now)
		require.NoError(t, err)
		assert.Equal(t, settings.PackageDiscount, credit.AmountCents)
		assert.Equal(t, 0, profile.PackagesCount())
		assert.Equal(t, 0, profile.IndividualServicesCount())
	})
}

func TestSettingsChangesAreNotRetroactive(t *testing.T) {
	now := time.Now()
	profile := loyalty.NewProfile(uuid.New())
	for range 4 {
		profile.RecordCompletion(loyalty.KindIndividual, 8000, now)
	}

	strict := loyalty.DefaultSettings()
	assert.False(t, profile.Eligible(loyalty.KindIndividual, strict))

	// lowering the threshold makes the existing counter eligible at once
	relaxed := strict
	relaxed.ServiceThreshold = 3
	assert.True(t, profile.Eligible(loyalty.KindIndividual, relaxed))

	// the grant subtracts the threshold in force at grant time
	_, err := profile.GrantReward(loyalty.KindIndividual, relaxed, now)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.IndividualServicesCount())
}

func TestAdjust(t *testing.T) {
	profile := loyalty.NewProfile(uuid.New())
	profile.RecordCompletion(loyalty.KindIndividual, 8000, time.Now())

	assert.Equal(t, 3, profile.Adjust(loyalty.KindIndividual, 2))
	// corrections clamp at zero instead of going negative
	assert.Equal(t, 0, profile.Adjust(loyalty.KindIndividual, -10))
	assert.Equal(t, 0, profile.Adjust(loyalty.KindPackage, -1))
}

func TestRecordCompletion(t *testing.T) {
	visited := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	profile := loyalty.NewProfile(uuid.New())

	profile.RecordCompletion(loyalty.KindIndividual, 8000, visited)
	profile.RecordCompletion(loyalty.KindPackage, 28000, visited.Add(time.Hour))

	assert.Equal(t, 1, profile.IndividualServicesCount())
	assert.Equal(t, 1, profile.PackagesCount())
	assert.Equal(t, int64(36000), profile.TotalSpent())
	require.NotNil(t, profile.LastVisit())
	assert.Equal(t, visited.Add(time.Hour), *profile.LastVisit())
}
