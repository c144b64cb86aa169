package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	MEMBER_STATUS_ACTIVE     = "active"
	MEMBER_STATUS_INACTIVE   = "inactive"
	MEMBER_STATUS_TERMINATED = "terminated"
)

var (
	ErrMemberDOBInFuture = errors.New("member date of birth must be in the past")
	ErrMemberDOBTooOld   = errors.New("member date of birth is more than 130 years ago")
	ErrMemberBadPhone    = errors.New("member phone number is malformed")
)

// phone must be digits with optional leading +, 7..15 digits (E.164-ish)
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Member is an insured person enrolled under a tenant.
type Member struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CompanyID    uint       `gorm:"not null;index" json:"company_id" validate:"required"`
	MemberNumber string     `gorm:"uniqueIndex;type:varchar(50);not null" json:"member_number" validate:"required,max=50"`
	FirstName    string     `gorm:"type:varchar(100);not null" json:"first_name" validate:"required,min=1,max=100"`
	LastName     string     `gorm:"type:varchar(100);not null" json:"last_name" validate:"required,min=1,max=100"`
	Email        string     `gorm:"type:varchar(200);index" json:"email" validate:"omitempty,email,max=200"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	DateOfBirth  time.Time  `gorm:"type:date;not null" json:"date_of_birth" validate:"required"`
	Gender       string     `gorm:"type:varchar(10)" json:"gender" validate:"omitempty,oneof=male female other"`
	NationalID   string     `gorm:"type:varchar(50)" json:"national_id" validate:"max=50"`
	Status       string     `gorm:"type:varchar(50);default:'active';index" json:"status" validate:"oneof=active inactive terminated"`
	EnrolledAt   *time.Time `gorm:"type:timestamp;default:null" json:"enrolled_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Validate enforces struct tags plus the demographic checks the platform
// applies on every member write (email shape, phone shape, plausible DOB).
func (m *Member) Validate() error {
	v := validator.New()
	if err := v.Struct(m); err != nil {
		return err
	}

	now := time.Now()
	if !m.DateOfBirth.Before(now) {
		return ErrMemberDOBInFuture
	}
	if m.DateOfBirth.Before(now.AddDate(-130, 0, 0)) {
		return ErrMemberDOBTooOld
	}
	if m.Phone != "" && !phonePattern.MatchString(m.Phone) {
		return ErrMemberBadPhone
	}
	return nil
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// IsActive reports whether the member may incur claims
func (m *Member) IsActive() bool {
	return m.Status == MEMBER_STATUS_ACTIVE
}

// Age returns the member's age in full years at the given time
func (m *Member) Age(at time.Time) int {
	years := at.Year() - m.DateOfBirth.Year()
	anniversary := m.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
