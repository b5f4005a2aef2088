package service

import (
	"time"

	"github.com/wricardo/mars-rovers/game/config"
	"github.com/wricardo/mars-rovers/game/simulation"
)

// SessionInfo provides information about a simulation session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Report         *simulation.Report `json:"report"`
	Config         *config.SimConfig  `json:"config"`
}

// ExecuteResult contains the outcome of one command batch
type ExecuteResult struct {
	SessionID string             `json:"session_id"`
	Status    string             `json:"status"`
	CanMove   bool               `json:"can_move"`
	Executed  int                `json:"executed"` // commands executed in this batch
	Steps     []simulation.Step  `json:"steps"`    // steps executed in this batch
	Message   string             `json:"message,omitempty"`
	Report    *simulation.Report `json:"report"`
}
