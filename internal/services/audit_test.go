package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories/repotest"
)

func TestAuditSinkPersistsQueuedEvents(t *testing.T) {
	store := repotest.NewStore()
	sink := NewAuditSink(store.Audit(), 2, 10, zap.NewNop())

	sink.Start(context.Background())
	for _, path := range []string{"/api/student/jobs", "/api/student/feed", "/api/student/profile"} {
		sink.Emit(models.AuditEvent{Method: "GET", Path: path})
	}
	sink.Stop()

	events := store.Events()
	require.Len(t, events, 3)
	for _, event := range events {
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
	}
}

func TestAuditSinkDropsWhenQueueFull(t *testing.T) {
	store := repotest.NewStore()
	sink := NewAuditSink(store.Audit(), 1, 1, zap.NewNop())

	sink.Emit(models.AuditEvent{Path: "/first"})
	sink.Emit(models.AuditEvent{Path: "/second"})

	sink.Start(context.Background())
	sink.Stop()

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/first", events[0].Path)
}

func TestAuditSinkAfterStop(t *testing.T) {
	store := repotest.NewStore()
	sink := NewAuditSink(store.Audit(), 1, 10, zap.NewNop())
	sink.Start(context.Background())
	sink.Stop()
	sink.Stop()

	sink.Emit(models.AuditEvent{Path: "/late"})

	assert.Empty(t, store.Events())
}

func TestAuditSinkSurvivesRepositoryErrors(t *testing.T) {
	store := repotest.NewStore()
	store.ErrCreateEvent = errors.New("db down")
	sink := NewAuditSink(store.Audit(), 1, 10, zap.NewNop())

	sink.Start(context.Background())
	sink.Emit(models.AuditEvent{Path: "/api/admin/users"})
	sink.Stop()

	assert.Empty(t, store.Events())
}
