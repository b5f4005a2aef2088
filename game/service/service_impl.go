package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/simulation"
)

// simulationService implements the SimulationService interface
type simulationService struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.SugaredLogger
	mu       sync.Mutex
}

// NewSimulationService creates a new simulation service instance
func NewSimulationService(sessions SessionManager, configs ConfigManager, logger *zap.SugaredLogger) SimulationService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &simulationService{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// resolveConfig loads a named config (or the default) and appends custom obstacles
func (s *simulationService) resolveConfig(configName string, custom []rover.Position) (*config.SimConfig, error) {
	var cfg *config.SimConfig
	if configName != "" {
		loaded, err := s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				if available, listErr := s.configs.ListConfigs(); listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, c := range available {
						ids = append(ids, c.ConfigID)
					}
					return nil, errors.Wrapf(err, "config '%s' not found, available configs: %v", configName, ids)
				}
			}
			return nil, errors.Wrapf(err, "failed to load config %s", configName)
		}
		cfg = loaded.Clone()
	} else {
		cfg = s.configs.GetDefault().Clone()
	}

	cfg.CustomObstacles = append(cfg.CustomObstacles, custom...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(config.ErrInvalidConfig, "%v", err)
	}
	return cfg, nil
}

// CreateSession creates a new simulation session
func (s *simulationService) CreateSession(ctx context.Context, configName string, custom []rover.Position) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.resolveConfig(configName, custom)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	s.logger.Infow("session created", "session", sess.ID, "config", cfg.Name,
		"obstacles", sess.Simulation.Obstacles().Len())
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *simulationService) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *simulationService) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *simulationService) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Infow("session deleted", "session", sessionID)
	return nil
}

// Execute feeds a batch of commands to a session's rover
func (s *simulationService) Execute(ctx context.Context, sessionID, commands string) (*ExecuteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	before := len(sess.Simulation.Report().Steps)
	report, runErr := sess.Simulation.Run(commands)

	result := &ExecuteResult{
		SessionID: sess.ID,
		Status:    report.Status,
		CanMove:   !report.Halted,
		Executed:  len(report.Steps) - before,
		Steps:     report.Steps[before:],
		Report:    report,
	}
	result.Message = describe(report, runErr)

	if runErr != nil {
		s.logger.Warnw("command batch aborted", "session", sess.ID, "error", runErr)
		return result, runErr
	}
	if report.Halted && result.Executed > 0 && report.StopReason == simulation.StopObstacle {
		s.logger.Infow("rover halted", "session", sess.ID, "status", report.Status, "blocked_at", report.BlockedAt)
	}
	return result, nil
}

// Reset rebuilds a session's simulation from its config, keeping the obstacle seed
func (s *simulationService) Reset(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sim, err := simulation.New(sess.Config, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reset simulation")
	}
	sess.Simulation = sim
	s.sessions.UpdateLastAccessed(sessionID)

	s.logger.Infow("session reset", "session", sess.ID)
	return sessionInfo(sess), nil
}

// Simulate runs a command string against a fresh simulation
func (s *simulationService) Simulate(ctx context.Context, configName, commands string, custom []rover.Position) (*simulation.Report, error) {
	s.mu.Lock()
	cfg, err := s.resolveConfig(configName, custom)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sim, err := simulation.New(cfg, nil)
	if err != nil {
		return nil, err
	}

	report, err := sim.Run(commands)
	if err != nil {
		return report, err
	}

	s.logger.Debugw("simulation finished", "config", cfg.Name, "status", report.Status, "executed", report.Executed)
	return report, nil
}

// ListConfigs returns the available configurations
func (s *simulationService) ListConfigs(ctx context.Context) ([]*config.ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig returns a configuration by name
func (s *simulationService) LoadConfig(ctx context.Context, configName string) (*config.SimConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig stores a new configuration
func (s *simulationService) SaveConfig(ctx context.Context, configName string, cfg *config.SimConfig) error {
	if err := s.configs.SaveConfig(configName, cfg); err != nil {
		return err
	}
	s.logger.Infow("config saved", "config", configName)
	return nil
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Report:         sess.Simulation.Report(),
		Config:         sess.Config,
	}
}

// describe summarizes how a batch ended
func describe(report *simulation.Report, err error) string {
	switch {
	case err != nil:
		return fmt.Sprintf("Aborted: %v", err)
	case report.Halted && report.BlockedAt != nil:
		return fmt.Sprintf("Sorry captain, I have found an obstacle at position %s", report.BlockedAt)
	default:
		return fmt.Sprintf("Final position: %s", report.Status)
	}
}
