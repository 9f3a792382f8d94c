package health

import "context"

const (
	serviceName = "lumina"
	version     = "1.0.0"
)

// Response represents the health check response
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// a dependency the server cannot work without; *pgxpool.Pool satisfies it
type Pinger interface {
	Ping(ctx context.Context) error
}
