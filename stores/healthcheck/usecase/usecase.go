package usecase

import (
	"github.com/x-xyz/marketplace/base/ctx"
	hcdomain "github.com/x-xyz/marketplace/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(context ctx.Ctx) ([]hcdomain.Status, error) {
	var failed error
	statuses := []hcdomain.Status{}
	for _, component := range im.repo.Components() {
		s := hcdomain.Status{Component: component, Healthy: true}
		if err := im.repo.Ping(context, component); err != nil {
			s.Healthy = false
			s.Error = err.Error()
			failed = hcdomain.ErrUnhealthy
		}
		statuses = append(statuses, s)
	}
	return statuses, failed
}
