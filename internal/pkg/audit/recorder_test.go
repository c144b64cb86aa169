package audit

import (
	"errors"
	"testing"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditRepo struct {
	entries []*models.AuditLog
	fail    bool
}

func (f *fakeAuditRepo) Create(entry *models.AuditLog) error {
	if f.fail {
		return errors.New("db down")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) GetByRecord(tableName string, recordID uint) ([]models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) List(offset, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

func testActor() actorcontext.ActorContext {
	return actorcontext.ActorContext{
		ActorID:    12,
		ActorName:  "claims.admin",
		CompanyID:  4,
		IPAddress:  "10.0.0.8",
		IsLoggedIn: true,
	}
}

func TestRecordUpdateSnapshotsBothSides(t *testing.T) {
	repo := &fakeAuditRepo{}
	rec := NewRecorder(repo)

	old := map[string]string{"status": "submitted"}
	new := map[string]string{"status": "approved"}
	rec.RecordUpdate(testActor(), "claims", 42, old, new)

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, models.AUDIT_OP_UPDATE, e.Operation)
	assert.Equal(t, "claims", e.TableName)
	assert.Equal(t, uint(42), e.RecordID)
	assert.JSONEq(t, `{"status":"submitted"}`, e.OldData)
	assert.JSONEq(t, `{"status":"approved"}`, e.NewData)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, uint(12), *e.ActorID)
	assert.Equal(t, "10.0.0.8", e.IPAddress)
}

func TestRecordInsertHasNoOldData(t *testing.T) {
	repo := &fakeAuditRepo{}
	rec := NewRecorder(repo)

	rec.RecordInsert(testActor(), "members", 7, map[string]string{"name": "x"})

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "", repo.entries[0].OldData)
	assert.NotEmpty(t, repo.entries[0].NewData)
}

func TestRecordSwallowsRepoFailure(t *testing.T) {
	repo := &fakeAuditRepo{fail: true}
	rec := NewRecorder(repo)

	// must not panic or propagate
	rec.RecordDelete(testActor(), "policies", 3, map[string]string{"status": "active"})
	assert.Empty(t, repo.entries)
}

func TestRecordAnonymousActor(t *testing.T) {
	repo := &fakeAuditRepo{}
	rec := NewRecorder(repo)

	rec.RecordInsert(actorcontext.ActorContext{}, "quotes", 9, map[string]int{"id": 9})

	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].ActorID)
}
