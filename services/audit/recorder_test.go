package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
)

// MockAuditRepository is a mock implementation of repositories.AuditRepository
type MockAuditRepository struct {
	mock.Mock
	mu       sync.Mutex
	inserted []*models.AuditEvent
}

func (m *MockAuditRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.inserted = append(m.inserted, event)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter repositories.EventFilter) (*models.EventPage, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.(*models.EventPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditRepository) CountByKind(ctx context.Context, actorID string) (map[models.EventKind]int64, error) {
	args := m.Called(ctx, actorID)
	if c := args.Get(0); c != nil {
		return c.(map[models.EventKind]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditRepository) ActivitySince(ctx context.Context, actorID string, since time.Time) ([]models.ActivityBucket, error) {
	args := m.Called(ctx, actorID, since)
	if b := args.Get(0); b != nil {
		return b.([]models.ActivityBucket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuditRepository) insertedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inserted)
}

func testEvent() *models.AuditEvent {
	return models.NewAuditEvent("u-1", "Alice", "p-1", "Ceramic Mug", models.EventKindCreate)
}

func TestRecorder_RecordAndDrain(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	rec := NewRecorder(repo, zap.NewNop(), RecorderConfig{BufferSize: 16, WorkerCount: 2})
	require.NoError(t, rec.Start())

	for i := 0; i < 5; i++ {
		rec.Record(testEvent())
	}

	require.NoError(t, rec.Stop(2*time.Second))
	assert.Equal(t, 5, repo.insertedCount())
}

func TestRecorder_StartTwice(t *testing.T) {
	repo := new(MockAuditRepository)
	rec := NewRecorder(repo, zap.NewNop(), DefaultRecorderConfig())

	require.NoError(t, rec.Start())
	assert.Error(t, rec.Start())
	require.NoError(t, rec.Stop(time.Second))
}

func TestRecorder_RecordBeforeStartDoesNotPanic(t *testing.T) {
	repo := new(MockAuditRepository)
	rec := NewRecorder(repo, zap.NewNop(), DefaultRecorderConfig())

	// Dropped with a warning, never inserted.
	rec.Record(testEvent())

	assert.Equal(t, 0, repo.insertedCount())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecorder_InsertFailureDoesNotSurface(t *testing.T) {
	repo := new(MockAuditRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	rec := NewRecorder(repo, zap.NewNop(), RecorderConfig{BufferSize: 4, WorkerCount: 1})
	require.NoError(t, rec.Start())

	rec.Record(testEvent())

	require.NoError(t, rec.Stop(2*time.Second))
	assert.Equal(t, 0, repo.insertedCount())
}

func TestRecorder_Stats(t *testing.T) {
	repo := new(MockAuditRepository)
	rec := NewRecorder(repo, zap.NewNop(), RecorderConfig{BufferSize: 8, WorkerCount: 3})

	stats := rec.GetStats()
	assert.Equal(t, 8, stats.BufferSize)
	assert.Equal(t, 3, stats.WorkerCount)
	assert.False(t, stats.Started)

	require.NoError(t, rec.Start())
	stats = rec.GetStats()
	assert.True(t, stats.Started)
	require.NoError(t, rec.Stop(time.Second))
}
