package service

import (
	"context"
	"time"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/rover"
	"github.com/wricardo/mars-rovers/game/simulation"
)

// SimulationService defines all simulation-related operations
type SimulationService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, custom []rover.Position) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	Execute(ctx context.Context, sessionID, commands string) (*ExecuteResult, error)
	Reset(ctx context.Context, sessionID string) (*SessionInfo, error)
	Simulate(ctx context.Context, configName, commands string, custom []rover.Position) (*simulation.Report, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*config.ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*config.SimConfig, error)
	SaveConfig(ctx context.Context, configName string, cfg *config.SimConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cfg *config.SimConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles simulation configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*config.SimConfig, error)
	ListConfigs() ([]*config.ConfigInfo, error)
	GetDefault() *config.SimConfig
	SaveConfig(name string, cfg *config.SimConfig) error
}

// Session represents an active simulation
type Session struct {
	ID             string
	Simulation     *simulation.Simulation
	Config         *config.SimConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
