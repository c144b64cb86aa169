package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberBenefitUsageRecomputeDerived(t *testing.T) {
	tests := []struct {
		name          string
		limit         float64
		used          float64
		wantRemaining float64
		wantPct       float64
		wantExhausted bool
	}{
		{"untouched", 1000, 0, 1000, 0, false},
		{"half used", 1000, 500, 500, 50, false},
		{"fully used", 1000, 1000, 0, 100, true},
		{"zero limit means unlimited", 0, 250, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &MemberBenefitUsage{BenefitLimit: tt.limit, UsedAmount: tt.used}
			u.RecomputeDerived()

			assert.Equal(t, tt.wantRemaining, u.RemainingAmount)
			assert.InDelta(t, tt.wantPct, u.UtilizationPercentage, 0.001)
			assert.Equal(t, tt.wantExhausted, u.IsExhausted)
		})
	}
}

func TestMemberBenefitUsageInvariant(t *testing.T) {
	// used + remaining must equal the limit whenever no manual override is set
	u := &MemberBenefitUsage{BenefitLimit: 2000}
	u.Apply(300, 1)
	u.Apply(700, 2)

	assert.Equal(t, u.BenefitLimit, u.UsedAmount+u.RemainingAmount)
	assert.Equal(t, 3, u.UsedCount)
	assert.InDelta(t, 50.0, u.UtilizationPercentage, 0.001)
}

func TestMemberBenefitUsageApplyClampsAtLimit(t *testing.T) {
	u := &MemberBenefitUsage{BenefitLimit: 500, UsedAmount: 400}
	u.RecomputeDerived()

	applied := u.Apply(300, 1)

	assert.Equal(t, 100.0, applied)
	assert.Equal(t, 500.0, u.UsedAmount)
	assert.Equal(t, 0.0, u.RemainingAmount)
	assert.True(t, u.IsExhausted)
}

func TestMemberBenefitUsageCountLimitExhaustion(t *testing.T) {
	u := &MemberBenefitUsage{BenefitLimit: 0, LimitCount: 2}
	u.Apply(50, 1)
	require.False(t, u.IsExhausted)

	u.Apply(50, 1)
	assert.True(t, u.IsExhausted)
	assert.Equal(t, 0, u.RemainingCount)
}

func TestMemberBenefitUsageReverse(t *testing.T) {
	u := &MemberBenefitUsage{BenefitLimit: 1000}
	u.Apply(1000, 2)
	require.True(t, u.IsExhausted)

	u.Reverse(400, 1)

	assert.Equal(t, 600.0, u.UsedAmount)
	assert.Equal(t, 400.0, u.RemainingAmount)
	assert.Equal(t, 1, u.UsedCount)
	assert.False(t, u.IsExhausted)
}

func TestMemberBenefitUsageBeforeSaveRejectsNegatives(t *testing.T) {
	u := &MemberBenefitUsage{BenefitLimit: 100, UsedAmount: -1}
	err := u.BeforeSave(nil)
	assert.ErrorIs(t, err, ErrUsageNegativeAmount)

	u = &MemberBenefitUsage{BenefitLimit: 100, UsedCount: -1}
	err = u.BeforeSave(nil)
	assert.ErrorIs(t, err, ErrUsageNegativeCount)
}

func TestMemberBenefitUsageManualOverrideKeepsRemaining(t *testing.T) {
	u := &MemberBenefitUsage{BenefitLimit: 1000, UsedAmount: 600, RemainingAmount: 900, ManualOverride: true}
	u.RecomputeDerived()

	// remaining pinned by case management, percentage still derived
	assert.Equal(t, 900.0, u.RemainingAmount)
	assert.InDelta(t, 60.0, u.UtilizationPercentage, 0.001)
}
