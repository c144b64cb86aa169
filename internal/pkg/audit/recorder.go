package audit

import (
	"encoding/json"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Recorder writes audit trail rows for domain record mutations. Failures are
// logged, never returned: an audit problem must not abort the business write
// it describes.
type Recorder struct {
	repo repository.AuditRepository
}

// NewRecorder creates a recorder from an injected repository.
func NewRecorder(repo repository.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// NewRecorderFromDB creates a recorder from a GORM DB handle.
func NewRecorderFromDB(db *gorm.DB) *Recorder {
	return &Recorder{repo: repository.NewAuditRepository(db)}
}

// Record writes one audit row. old is nil for inserts, new is nil for
// deletes; both are JSON-marshalled snapshots of the domain model.
func (r *Recorder) Record(actor actorcontext.ActorContext, operation, tableName string, recordID uint, old, new any) {
	entry := &models.AuditLog{
		CompanyID: actor.CompanyID,
		TableName: tableName,
		RecordID:  recordID,
		Operation: operation,
		OldData:   marshalSnapshot(old),
		NewData:   marshalSnapshot(new),
		ActorName: actor.ActorName,
		IPAddress: actor.IPAddress,
	}
	if actor.ActorID != 0 {
		id := actor.ActorID
		entry.ActorID = &id
	}

	if err := r.repo.Create(entry); err != nil {
		log.Errorf("[Audit] Failed to record %s on %s/%d: %v", operation, tableName, recordID, err)
	}
}

// RecordInsert is a convenience wrapper for INSERT operations
func (r *Recorder) RecordInsert(actor actorcontext.ActorContext, tableName string, recordID uint, new any) {
	r.Record(actor, models.AUDIT_OP_INSERT, tableName, recordID, nil, new)
}

// RecordUpdate is a convenience wrapper for UPDATE operations
func (r *Recorder) RecordUpdate(actor actorcontext.ActorContext, tableName string, recordID uint, old, new any) {
	r.Record(actor, models.AUDIT_OP_UPDATE, tableName, recordID, old, new)
}

// RecordDelete is a convenience wrapper for DELETE operations
func (r *Recorder) RecordDelete(actor actorcontext.ActorContext, tableName string, recordID uint, old any) {
	r.Record(actor, models.AUDIT_OP_DELETE, tableName, recordID, old, nil)
}

func marshalSnapshot(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("[Audit] Failed to marshal snapshot: %v", err)
		return ""
	}
	return string(data)
}
