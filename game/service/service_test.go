package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/service"
	"github.com/wricardo/mars-rovers/game/session"
	"github.com/wricardo/mars-rovers/game/simulation"
)

func newTestService(t *testing.T) service.SimulationService {
	t.Helper()
	dir := t.TempDir()
	configs := map[string]string{
		"classic.json": `{"name":"classic","grid_size":10,"obstacle_count":0,"draw_path":true}`,
		"blocked.json": `{"name":"blocked","grid_size":10,"obstacle_count":0,"custom_obstacles":[{"x":2,"y":5}]}`,
		"busy.json":    `{"name":"busy","grid_size":10,"obstacle_count":30}`,
	}
	for name, body := range configs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}

	manager, err := config.NewManager(dir)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t).Sugar()
	return service.NewSimulationService(session.NewManager(logger), manager, logger)
}

func TestCreateSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "classic", info.ConfigName)
	assert.Equal(t, "0:0:N", info.Report.Status)
	assert.Empty(t, info.Report.Obstacles)

	info, err = svc.CreateSession(ctx, "busy", []rover.Position{{X: 0, Y: 4}})
	require.NoError(t, err)
	assert.Len(t, info.Report.Obstacles, 31)
	assert.Equal(t, rover.Position{X: 0, Y: 4}, info.Report.Obstacles[0])
}

func TestCreateSession_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, "missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigNotFound))
	assert.Contains(t, err.Error(), "available configs")

	_, err = svc.CreateSession(ctx, "", []rover.Position{{X: 20, Y: 0}})
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestExecute(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, info.ID, "MMR")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Executed)
	assert.Equal(t, "0:2:E", result.Status)

	result, err = svc.Execute(ctx, info.ID, "MMLM")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Executed)
	require.Len(t, result.Steps, 4)
	assert.Equal(t, 4, result.Steps[0].Idx)
	assert.Equal(t, "2:3:N", result.Status)
	assert.True(t, result.CanMove)
	assert.Equal(t, "Final position: 2:3:N", result.Message)

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "2:3:N", got.Report.Status)
	assert.Len(t, got.Report.Trajectory, 6)
}

func TestExecute_Obstacle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "blocked", nil)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, info.ID, "MMRMMLMMMM")
	require.NoError(t, err)
	assert.False(t, result.CanMove)
	assert.Equal(t, "O:2:4:N", result.Status)
	assert.Contains(t, result.Message, "(2,5)")

	// halted rovers ignore later batches
	result, err = svc.Execute(ctx, info.ID, "RM")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, "O:2:4:N", result.Status)
}

func TestExecute_UnknownCommand(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	result, err := svc.Execute(ctx, info.ID, "MQ")
	require.Error(t, err)

	var unknown *rover.UnknownCommandError
	assert.True(t, errors.As(err, &unknown))
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, simulation.StopUnknownCommand, result.Report.StopReason)
	assert.Contains(t, result.Message, "Aborted")
}

func TestExecute_MissingSession(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Execute(context.Background(), "nope", "M")
	assert.True(t, errors.Is(err, session.ErrSessionNotFound))
}

func TestReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "busy", nil)
	require.NoError(t, err)
	obstacles := info.Report.Obstacles

	_, err = svc.Execute(ctx, info.ID, "RRMMM")
	require.NoError(t, err)

	reset, err := svc.Reset(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "0:0:N", reset.Report.Status)
	assert.Equal(t, 0, reset.Report.Executed)
	assert.Equal(t, obstacles, reset.Report.Obstacles, "reset keeps the obstacle layout")
}

func TestListAndDeleteSessions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, "blocked", nil)
	require.NoError(t, err)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	require.NoError(t, svc.DeleteSession(ctx, a.ID))
	sessions, err = svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	assert.Error(t, svc.DeleteSession(ctx, a.ID))
}

func TestSimulate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		configName   string
		custom       []rover.Position
		instructions string
		status       string
	}{
		{"move", "", nil, "MMRMMLM", "2:3:N"},
		{"wrap around", "classic", nil, "MMRMMMLMRMRMMMMM", "4:8:S"},
		{"obstacle from config", "blocked", nil, "MMRMMLMMMM", "O:2:4:N"},
		{"custom obstacle", "", []rover.Position{{X: 2, Y: 5}}, "MMRMMLMMMM", "O:2:4:N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := svc.Simulate(ctx, tt.configName, tt.instructions, tt.custom)
			require.NoError(t, err)
			assert.Equal(t, tt.status, report.Status)
		})
	}
}

func TestSimulate_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	report, err := svc.Simulate(ctx, "", "MMX", nil)
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "0:2:N", report.Status)

	_, err = svc.Simulate(ctx, "", "", nil)
	assert.True(t, errors.Is(err, simulation.ErrNoCommands))
}

func TestConfigs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 3)

	require.NoError(t, svc.SaveConfig(ctx, "tiny", &config.SimConfig{Name: "tiny", GridSize: 3}))
	cfg, err := svc.LoadConfig(ctx, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.GridSize)
}
