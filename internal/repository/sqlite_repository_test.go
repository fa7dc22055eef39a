package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whatsapp_crm/internal/entities"
	"whatsapp_crm/internal/infrastructure"
)

// setupTestDB opens a migrated in-memory SQLite database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	client, err := infrastructure.NewSQLiteClient(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client.DB
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestSQLiteMessageRepository_InsertAssignsFields(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)}
	repo := NewSQLiteMessageRepository(setupTestDB(t)).WithClock(clock.Now)

	first := &entities.Message{TenantID: 1, Phone: "919876543210", Body: "What are the fees?", Interest: entities.InterestFees, FollowupSent: true}
	require.NoError(t, repo.Insert(ctx, first))
	second := &entities.Message{TenantID: 1, Phone: "919876543210"}
	require.NoError(t, repo.Insert(ctx, second))

	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.FollowupSent, "new records always start without a follow-up")
	assert.Equal(t, clock.t, first.CreatedAt)
	assert.Equal(t, entities.InterestOther, second.Interest)

	leads, err := repo.ListByTenant(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, second.ID, leads[0].ID, "newest first")
	assert.Equal(t, "What are the fees?", leads[1].Body)
	assert.Equal(t, clock.t, leads[1].CreatedAt)
}

func TestSQLiteMessageRepository_SameEventTwiceIsNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteMessageRepository(setupTestDB(t))

	for i := 0; i < 2; i++ {
		msg := &entities.Message{TenantID: 1, Phone: "911", Body: "fees?", Interest: entities.InterestFees}
		require.NoError(t, repo.Insert(ctx, msg))
	}

	n, err := repo.CountByTenant(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteMessageRepository_DueForFollowup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{}
	repo := NewSQLiteMessageRepository(setupTestDB(t)).WithClock(clock.Now)

	insertAt := func(age time.Duration, interest entities.Interest, phone string) *entities.Message {
		clock.t = now.Add(-age)
		m := &entities.Message{TenantID: 1, Phone: phone, Interest: interest}
		require.NoError(t, repo.Insert(ctx, m))
		return m
	}

	stale := insertAt(25*time.Hour, entities.InterestFees, "911")
	exact := insertAt(24*time.Hour, entities.InterestFees, "912")
	insertAt(23*time.Hour, entities.InterestFees, "913")
	insertAt(48*time.Hour, entities.InterestBatch, "914")
	insertAt(48*time.Hour, entities.InterestAdmission, "915")

	cutoff := now.Add(-24 * time.Hour)
	due, err := repo.DueForFollowup(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, stale.ID, due[0].ID)
	assert.Equal(t, exact.ID, due[1].ID)

	require.NoError(t, repo.MarkFollowupSent(ctx, stale.ID))

	due, err = repo.DueForFollowup(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, exact.ID, due[0].ID)
}

func TestSQLiteMessageRepository_DueForFollowupSubSecondCutoff(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 10, 16, 10, 0, 0, 700*int(time.Millisecond), time.UTC)
	clock := &fakeClock{t: created}
	repo := NewSQLiteMessageRepository(setupTestDB(t)).WithClock(clock.Now)

	msg := &entities.Message{TenantID: 1, Phone: "911", Interest: entities.InterestFees}
	require.NoError(t, repo.Insert(ctx, msg))
	assert.Equal(t, created, msg.CreatedAt)

	// Cutoff in the same second as the lead but 200ms before it.
	due, err := repo.DueForFollowup(ctx, created.Add(-200*time.Millisecond))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = repo.DueForFollowup(ctx, created)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, created, due[0].CreatedAt)
}

func TestSQLiteMessageRepository_MarkFollowupSentIsMonotone(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteMessageRepository(setupTestDB(t))

	msg := &entities.Message{TenantID: 1, Phone: "911", Interest: entities.InterestFees}
	require.NoError(t, repo.Insert(ctx, msg))

	require.NoError(t, repo.MarkFollowupSent(ctx, msg.ID))
	assert.ErrorIs(t, repo.MarkFollowupSent(ctx, msg.ID), entities.ErrNotFound)
	assert.ErrorIs(t, repo.MarkFollowupSent(ctx, 9999), entities.ErrNotFound)

	leads, err := repo.ListByTenant(ctx, 1, entities.InterestFees)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.True(t, leads[0].FollowupSent)
}

func TestSQLiteMessageRepository_TenantAndInterestFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteMessageRepository(setupTestDB(t))

	for _, m := range []entities.Message{
		{TenantID: 1, Phone: "1", Interest: entities.InterestFees},
		{TenantID: 1, Phone: "2", Interest: entities.InterestFees},
		{TenantID: 1, Phone: "3", Interest: entities.InterestBatch},
		{TenantID: 2, Phone: "4", Interest: entities.InterestFees},
	} {
		m := m
		require.NoError(t, repo.Insert(ctx, &m))
	}

	total, err := repo.CountByTenant(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	fees, err := repo.CountByTenant(ctx, 1, entities.InterestFees)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fees)

	batch, err := repo.ListByTenant(ctx, 1, entities.InterestBatch)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "3", batch[0].Phone)

	none, err := repo.ListByTenant(ctx, 3, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSQLiteMessageRepository_ClosedDBIsPersistenceFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteMessageRepository(db)
	require.NoError(t, db.Close())

	err := repo.Insert(context.Background(), &entities.Message{TenantID: 1, Phone: "1"})
	assert.ErrorIs(t, err, entities.ErrPersistence)
}

func TestSQLiteStudentRepository(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	repo := NewSQLiteStudentRepository(setupTestDB(t)).WithClock(clock.Now)

	asha := &entities.Student{TenantID: 1, Name: "Asha", Phone: "911", AdmissionDate: "2026-06-01", Notes: "morning batch"}
	require.NoError(t, repo.Create(ctx, asha))
	clock.t = clock.t.Add(time.Hour)
	ravi := &entities.Student{TenantID: 1, Name: "Ravi"}
	require.NoError(t, repo.Create(ctx, ravi))
	require.NoError(t, repo.Create(ctx, &entities.Student{TenantID: 2, Name: "Other tenant"}))

	students, err := repo.ListByTenant(ctx, 1)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ravi", students[0].Name)
	assert.Equal(t, "Asha", students[1].Name)
	assert.Equal(t, "2026-06-01", students[1].AdmissionDate)
	assert.Equal(t, "morning batch", students[1].Notes)

	n, err := repo.CountByTenant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteTenantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteTenantRepository(setupTestDB(t))

	xyz := &entities.Tenant{Name: "XYZ Coaching", Username: "xyz", PasswordHash: "hash", PhoneNumberID: "867795156424720"}
	require.NoError(t, repo.Create(ctx, xyz))
	assert.NotZero(t, xyz.ID)

	// Tenants without a business number do not collide on the unique column.
	require.NoError(t, repo.Create(ctx, &entities.Tenant{Name: "A", Username: "a", PasswordHash: "h"}))
	require.NoError(t, repo.Create(ctx, &entities.Tenant{Name: "B", Username: "b", PasswordHash: "h"}))

	assert.ErrorIs(t, repo.Create(ctx, &entities.Tenant{Name: "dup", Username: "xyz", PasswordHash: "h"}), entities.ErrConflict)

	byPhone, err := repo.GetByPhoneNumberID(ctx, "867795156424720")
	require.NoError(t, err)
	assert.Equal(t, xyz.ID, byPhone.ID)

	byName, err := repo.GetByUsername(ctx, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := repo.GetByID(ctx, xyz.ID)
	require.NoError(t, err)
	assert.Equal(t, "XYZ Coaching", byID.Name)

	_, err = repo.GetByPhoneNumberID(ctx, "000")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
