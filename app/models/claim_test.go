package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClaim() *Claim {
	return &Claim{
		CompanyID:   1,
		MemberID:    2,
		PolicyID:    3,
		ClaimNumber: "CLM-2026-000123",
		ClaimAmount: 1200,
		FraudScore:  0.1,
		Status:      CLAIM_STATUS_DRAFT,
		ServiceDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestClaimValidateOK(t *testing.T) {
	c := validClaim()
	require.NoError(t, c.Validate())
}

func TestClaimValidateRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []float64{0, -50} {
		c := validClaim()
		c.ClaimAmount = amount
		assert.ErrorIs(t, c.Validate(), ErrClaimAmountNotPositive)
	}
}

func TestClaimValidateRejectsReserveBelowAmount(t *testing.T) {
	c := validClaim()
	reserve := 1000.0
	c.ReservedAmount = &reserve

	assert.ErrorIs(t, c.Validate(), ErrClaimReserveTooLow)
}

func TestClaimValidateAcceptsCoveringReserve(t *testing.T) {
	c := validClaim()
	reserve := 1500.0
	c.ReservedAmount = &reserve

	assert.NoError(t, c.Validate())
}

func TestClaimLifecycleMarks(t *testing.T) {
	c := validClaim()
	assert.True(t, c.IsOpen())

	c.MarkSubmitted()
	require.Equal(t, CLAIM_STATUS_SUBMITTED, c.Status)
	require.NotNil(t, c.SubmittedAt)
	assert.True(t, c.IsOpen())

	by := uint(7)
	c.MarkDecided(CLAIM_STATUS_APPROVED, &by, "auto-approved")
	assert.Equal(t, CLAIM_STATUS_APPROVED, c.Status)
	assert.NotNil(t, c.DecidedAt)
	assert.False(t, c.IsOpen())
}
