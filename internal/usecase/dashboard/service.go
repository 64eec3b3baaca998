package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
	"github.com/aigymos/gym-console/pkg/metrics"
)

// Service defines the interface for the dashboard overview use case
type Service interface {
	// Overview fetches the five feeds concurrently and builds the view model.
	// A failed feed, including one cut off by ctx, is reported in Sources,
	// never as an error.
	Overview(ctx context.Context, principal entities.Principal) (*Overview, error)
}

// Overview is the view model plus which feeds made it in.
type Overview struct {
	ViewModel entities.DashboardViewModel       `json:"view_model"`
	Sources   map[entities.DashboardSource]bool `json:"sources"`
}

type service struct {
	backend  repositories.GymBackend
	cache    repositories.PayloadCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates the dashboard service. cache may be nil.
func NewService(backend repositories.GymBackend, cache repositories.PayloadCache, cacheTTL time.Duration, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		backend:  backend,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *service) Overview(ctx context.Context, principal entities.Principal) (*Overview, error) {
	var (
		in      ViewModelInput
		mu      sync.Mutex
		sources = make(map[entities.DashboardSource]bool, len(entities.DashboardSources))
	)

	record := func(source entities.DashboardSource, err error) {
		mu.Lock()
		sources[source] = err == nil
		mu.Unlock()
		if err != nil {
			metrics.DashboardSourceFailures.WithLabelValues(string(source)).Inc()
			s.logger.Warn("dashboard.source.failed",
				zap.String("source", string(source)),
				zap.String("gym_id", principal.GymID.String()),
				zap.Error(err),
			)
		}
	}

	// Each branch swallows its own error so one feed never cancels the others.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		v, err := load(egCtx, s, principal, entities.DashboardExecutive, s.backend.Executive)
		in.Executive = v
		record(entities.DashboardExecutive, err)
		return nil
	})
	eg.Go(func() error {
		v, err := load(egCtx, s, principal, entities.DashboardCommercial, s.backend.Commercial)
		in.Commercial = v
		record(entities.DashboardCommercial, err)
		return nil
	})
	eg.Go(func() error {
		v, err := load(egCtx, s, principal, entities.DashboardOperational, s.backend.Operational)
		in.Operational = v
		record(entities.DashboardOperational, err)
		return nil
	})
	eg.Go(func() error {
		v, err := load(egCtx, s, principal, entities.DashboardRetention, s.backend.Retention)
		in.Retention = v
		record(entities.DashboardRetention, err)
		return nil
	})
	eg.Go(func() error {
		v, err := load(egCtx, s, principal, entities.DashboardChurn, func(ctx context.Context, token string) (*[]entities.ChurnPoint, error) {
			points, err := s.backend.Churn(ctx, token)
			if err != nil {
				return nil, err
			}
			return &points, nil
		})
		if v != nil {
			in.Churn = *v
		}
		record(entities.DashboardChurn, err)
		return nil
	})
	_ = eg.Wait()

	// a request deadline degrades like any other feed failure
	if err := ctx.Err(); err != nil {
		s.logger.Warn("dashboard.overview.context_done",
			zap.String("gym_id", principal.GymID.String()),
			zap.Error(err),
		)
	}

	return &Overview{
		ViewModel: BuildViewModel(in),
		Sources:   sources,
	}, nil
}

// load reads one feed through the cache. On error the returned pointer is nil.
func load[T any](
	ctx context.Context,
	s *service,
	principal entities.Principal,
	source entities.DashboardSource,
	fetch func(ctx context.Context, token string) (*T, error),
) (*T, error) {
	key := "dashboard:" + string(source) + ":" + principal.GymID.String()
	if s.cache != nil {
		var cached T
		if s.cache.Get(ctx, key, &cached) {
			metrics.CacheLookups.WithLabelValues(string(source), "hit").Inc()
			return &cached, nil
		}
		metrics.CacheLookups.WithLabelValues(string(source), "miss").Inc()
	}

	value, err := fetch(ctx, principal.Token)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && s.cacheTTL > 0 {
		s.cache.Set(ctx, key, value, s.cacheTTL)
	}
	return value, nil
}
