package api

import (
	"context"
	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"time"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health *health.Health
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func NewHealthChecker(version string, checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: "makarapreneur", Version: version}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create health checker")
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "failed to register health check %q", check.Name)
		}
	}

	return &healthChecker{
		health: h,
	}, nil
}

// PingCheck reports the component unhealthy when p does not answer.
func PingCheck(name string, p Pinger) health.Config {
	return health.Config{
		Name:      name,
		Timeout:   2 * time.Second,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			return p.Ping(ctx)
		},
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}
