package healthcheck

import (
	"errors"

	"github.com/x-xyz/marketplace/base/ctx"
)

const (
	ComponentMongo = "mongo"
	ComponentRedis = "redis"
)

var ErrUnhealthy = errors.New("unhealthy backend")

// Status is the ping result of one backend
type Status struct {
	Component string `json:"component"`
	Healthy   bool   `json:"healthy"`
	Error     string `json:"error,omitempty"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	// Check pings every configured backend, it fails with ErrUnhealthy when any of them is down
	Check(context ctx.Ctx) ([]Status, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	// Components lists the configured backends, memory storage has none
	Components() []string
	Ping(context ctx.Ctx, component string) error
}
