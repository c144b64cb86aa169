package repository

import (
	"time"

	"github.com/cardinsa/cardinsa/app/models"
	"gorm.io/gorm"
)

// CompanyRepository defines the interface for tenant-related database operations
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetByCode(code string) (*models.Company, error)
	Update(company *models.Company) error
	Rename(id uint, name string) error
	List(offset, limit int) ([]models.Company, error)
	Count() (int64, error)
}

// UserRepository defines the interface for staff-account database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
}

// MemberRepository defines the interface for member-related database operations
type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByMemberNumber(number string) (*models.Member, error)
	GetByCompanyID(companyID uint, offset, limit int) ([]models.Member, error)
	Update(member *models.Member) error
	Delete(id uint) error
	Search(companyID uint, query string) ([]models.Member, error)
	Count() (int64, error)
	CountByCompanyID(companyID uint) (int64, error)
}

// PolicyRepository defines the interface for policy-related database operations
type PolicyRepository interface {
	Create(policy *models.Policy) error
	GetByID(id uint) (*models.Policy, error)
	GetByPolicyNumber(number string) (*models.Policy, error)
	GetByMemberID(memberID uint) ([]models.Policy, error)
	GetByCompanyID(companyID uint, offset, limit int) ([]models.Policy, error)
	Update(policy *models.Policy) error
	UpdateStatus(id uint, status string) error
	SetCompanyName(companyID uint, name string) error
	ListExpiring(before time.Time, limit int) ([]models.Policy, error)
	Count() (int64, error)
}

// ClaimRepository defines the interface for claim-related database operations
type ClaimRepository interface {
	Create(claim *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetByClaimNumber(number string) (*models.Claim, error)
	GetByMemberID(memberID uint, offset, limit int) ([]models.Claim, error)
	GetByPolicyID(policyID uint) ([]models.Claim, error)
	GetByStatus(companyID uint, status string, offset, limit int) ([]models.Claim, error)
	Update(claim *models.Claim) error
	AddDocument(doc *models.ClaimDocument) error
	GetDocuments(claimID uint) ([]models.ClaimDocument, error)
	Count() (int64, error)
}

// QuoteRepository defines the interface for quote-related database operations
type QuoteRepository interface {
	Create(quote *models.Quote) error
	GetByID(id uint) (*models.Quote, error)
	Update(quote *models.Quote) error
	ListOpenExpiredBefore(cutoff time.Time, limit int) ([]models.Quote, error)
	MarkExpired(id uint) error
}

// WorkflowRepository persists the durable workflow_queue rows
type WorkflowRepository interface {
	Create(task *models.WorkflowTask) error
	GetByTaskID(taskID string) (*models.WorkflowTask, error)
	GetByEntity(entityType string, entityID uint) ([]models.WorkflowTask, error)
	GetByStatus(status string, offset, limit int) ([]models.WorkflowTask, error)
	UpdateStatus(taskID string, status string, errorMsg string) error
	CountByStatus(status string) (int64, error)
}

// AuditRepository persists audit log rows
type AuditRepository interface {
	Create(entry *models.AuditLog) error
	GetByRecord(tableName string, recordID uint) ([]models.AuditLog, error)
	List(offset, limit int) ([]models.AuditLog, error)
}

// QueueRepository exposes the redis side of the workflow queue for
// introspection endpoints. Keys are the queue list and task envelope keys
// owned by the workflow package.
type QueueRepository interface {
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	DeleteKey(key string) (int64, error)
	GetListLength(key string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Company  CompanyRepository
	User     UserRepository
	Member   MemberRepository
	Policy   PolicyRepository
	Claim    ClaimRepository
	Quote    QuoteRepository
	Workflow WorkflowRepository
	Audit    AuditRepository
	Queue    QueueRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Company:  NewCompanyRepository(db),
		User:     NewUserRepository(db),
		Member:   NewMemberRepository(db),
		Policy:   NewPolicyRepository(db),
		Claim:    NewClaimRepository(db),
		Quote:    NewQuoteRepository(db),
		Workflow: NewWorkflowRepository(db),
		Audit:    NewAuditRepository(db),
		Queue:    NewQueueRepository(),
	}
}
