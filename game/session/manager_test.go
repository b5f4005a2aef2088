package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
)

func createTestConfig() *config.SimConfig {
	return &config.SimConfig{
		Name:            "test",
		GridSize:        5,
		ObstacleCount:   2,
		CustomObstacles: []rover.Position{{X: 0, Y: 3}},
	}
}

func newTestManager(t *testing.T) *Manager {
	return NewManager(zaptest.NewLogger(t).Sugar())
}

func TestManager_Create(t *testing.T) {
	manager := newTestManager(t)
	cfg := createTestConfig()

	sess, err := manager.Create("", cfg)
	require.NoError(t, err)

	assert.Len(t, sess.ID, 8)
	assert.NotNil(t, sess.Simulation)
	assert.Equal(t, 3, sess.Simulation.Obstacles().Len())
	assert.NotZero(t, sess.Config.Seed, "seed is pinned on creation")
	assert.Zero(t, cfg.Seed, "caller config is not mutated")
	assert.False(t, sess.CreatedAt.IsZero())
	assert.Equal(t, 1, manager.Count())
}

func TestManager_CreateWithID(t *testing.T) {
	manager := newTestManager(t)

	sess, err := manager.Create("Rover1", createTestConfig())
	require.NoError(t, err)
	assert.Equal(t, "Rover1", sess.ID)

	_, err = manager.Create("rover1", createTestConfig())
	assert.True(t, errors.Is(err, ErrSessionAlreadyExists))
}

func TestManager_CreateInvalidConfig(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.Create("", &config.SimConfig{GridSize: 2, ObstacleCount: 9})
	assert.Error(t, err)
	assert.Equal(t, 0, manager.Count())
}

func TestManager_CreateNilConfigUsesDefault(t *testing.T) {
	manager := newTestManager(t)

	sess, err := manager.Create("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultObstacleCount, sess.Simulation.Obstacles().Len())
}

func TestManager_Get(t *testing.T) {
	manager := newTestManager(t)

	created, err := manager.Create("AbCd", createTestConfig())
	require.NoError(t, err)

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		sess, err := manager.Get(id)
		require.NoError(t, err, id)
		assert.Same(t, created, sess)
	}

	_, err = manager.Get("missing")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManager_ListAndDelete(t *testing.T) {
	manager := newTestManager(t)

	for _, id := range []string{"a1", "b2", "c3"} {
		_, err := manager.Create(id, createTestConfig())
		require.NoError(t, err)
	}
	assert.Len(t, manager.List(), 3)

	require.NoError(t, manager.Delete("B2"))
	assert.Len(t, manager.List(), 2)

	err := manager.Delete("b2")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := newTestManager(t)

	sess, err := manager.Create("x", createTestConfig())
	require.NoError(t, err)
	before := sess.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, manager.UpdateLastAccessed("X"))
	assert.True(t, sess.LastAccessedAt.After(before))

	assert.Error(t, manager.UpdateLastAccessed("missing"))
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := newTestManager(t)

	old, err := manager.Create("old", createTestConfig())
	require.NoError(t, err)
	_, err = manager.Create("fresh", createTestConfig())
	require.NoError(t, err)

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, manager.Count())

	_, err = manager.Get("old")
	assert.Error(t, err)
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Create("", createTestConfig())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, manager.Count())
}

func TestGenerateSessionID(t *testing.T) {
	id := generateSessionID()
	assert.Len(t, id, 8)
	assert.Equal(t, strings.ToLower(id), id)
}
