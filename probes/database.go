package probes

import (
	"context"
	"database/sql"

	"github.com/jonwraymond/healthops/health"
)

// DatabaseProbe checks database connectivity through the standard
// library connection pool, staying agnostic of the driver or any ORM
// layered above it.
type DatabaseProbe struct {
	db *sql.DB
}

// NewDatabaseProbe creates a database connectivity probe.
func NewDatabaseProbe(db *sql.DB) *DatabaseProbe {
	return &DatabaseProbe{db: db}
}

// Name returns the component name this probe covers.
func (p *DatabaseProbe) Name() string {
	return "database"
}

// Check pings the database. A failed ping is a hard failure: there is
// no reduced form of a database connection.
func (p *DatabaseProbe) Check(ctx context.Context) (health.Result, error) {
	if p.db == nil {
		return health.Unhealthy(p.Name(), "database not configured", nil), nil
	}

	if err := p.db.PingContext(ctx); err != nil {
		// Transport failure; let the engine apply its retry policy.
		return health.Result{}, err
	}

	stats := p.db.Stats()
	return health.Healthy(p.Name(), "database reachable").WithDetails(map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	}), nil
}

// Ensure DatabaseProbe implements Probe
var _ health.Probe = (*DatabaseProbe)(nil)
