package config

import "time"

const (
	// Offline queue
	OfflineRetention = 7 * 24 * time.Hour

	// Session tokens
	SessionTokenTTL = 72 * time.Hour

	// History
	MaxHistoryMessages = 500

	// SLA escalation sweep
	SLASweepInterval     = 5 * time.Minute
	EscalateToSupervisor = 4 * time.Hour
	EscalateToManagement = 24 * time.Hour
)
