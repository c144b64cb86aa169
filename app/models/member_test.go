package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMember() *Member {
	return &Member{
		CompanyID:    1,
		MemberNumber: "MBR-000815",
		FirstName:    "Layla",
		LastName:     "Haddad",
		Email:        "layla.haddad@example.com",
		Phone:        "+96171234567",
		DateOfBirth:  time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
		Status:       MEMBER_STATUS_ACTIVE,
	}
}

func TestMemberValidateOK(t *testing.T) {
	require.NoError(t, validMember().Validate())
}

func TestMemberValidateRejectsFutureDOB(t *testing.T) {
	m := validMember()
	m.DateOfBirth = time.Now().AddDate(1, 0, 0)

	assert.ErrorIs(t, m.Validate(), ErrMemberDOBInFuture)
}

func TestMemberValidateRejectsAncientDOB(t *testing.T) {
	m := validMember()
	m.DateOfBirth = time.Now().AddDate(-131, 0, 0)

	assert.ErrorIs(t, m.Validate(), ErrMemberDOBTooOld)
}

func TestMemberValidateRejectsBadPhone(t *testing.T) {
	for _, phone := range []string{"abc", "123", "+1 (555) 000-1111"} {
		m := validMember()
		m.Phone = phone
		assert.ErrorIs(t, m.Validate(), ErrMemberBadPhone, "phone %q", phone)
	}
}

func TestMemberValidateRejectsBadEmail(t *testing.T) {
	m := validMember()
	m.Email = "not-an-email"

	assert.Error(t, m.Validate())
}

func TestMemberAge(t *testing.T) {
	m := validMember()
	at := time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 37, m.Age(at))

	at = time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 38, m.Age(at))
}
