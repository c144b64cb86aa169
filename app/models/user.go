package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER         = "user"
	ROLE_UNDERWRITER  = "underwriter"
	ROLE_CLAIMS_ADMIN = "claims_admin"
	ROLE_ADMIN        = "admin"

	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// User is a platform staff account. API requests are authenticated by API
// key; the resolved user supplies the actor identity recorded in audit logs.
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CompanyID     uint       `gorm:"not null;index" json:"company_id" validate:"required"`
	Name          string     `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email         string     `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password      string     `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role          string     `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user underwriter claims_admin admin"`
	Status        string     `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	APIKeyHash    string     `gorm:"type:varchar(64);index" json:"-"`
	APIKeyPrefix  string     `gorm:"type:varchar(12)" json:"-"`
	APIKeyIssued  *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	APIKeyRevoked *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt   *time.Time `gorm:"type:timestamp;default:null" json:"last_login_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(companyID uint, name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		CompanyID: companyID,
		Name:      name,
		Email:     email,
		Password:  pw,
		Role:      ROLE_USER,
		Status:    STATUS_INACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// HashAPIKey returns the hex SHA-256 digest stored for an API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// IssueAPIKey generates a fresh API key, stores only its hash and returns
// the cleartext key exactly once.
func (u *User) IssueAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	key := "cik_" + hex.EncodeToString(b)
	u.APIKeyHash = HashAPIKey(key)
	u.APIKeyPrefix = key[:12]
	now := time.Now()
	u.APIKeyIssued = &now
	u.APIKeyRevoked = nil
	return key, nil
}

// RevokeAPIKey invalidates the current API key
func (u *User) RevokeAPIKey() {
	u.APIKeyHash = ""
	u.APIKeyPrefix = ""
	now := time.Now()
	u.APIKeyRevoked = &now
}

// HasActiveAPIKey reports whether the user holds a usable API key
func (u *User) HasActiveAPIKey() bool {
	return u.APIKeyHash != "" && u.APIKeyRevoked == nil
}
