package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
	usecaseErrors "github.com/aigymos/gym-console/internal/usecase/errors"
	"github.com/aigymos/gym-console/pkg/clock"
	"github.com/aigymos/gym-console/pkg/metrics"
)

// Service defines the interface for the task board use case
type Service interface {
	// Board fetches every task and member page and returns the grouped board
	Board(ctx context.Context, principal entities.Principal, query BoardQuery) (*entities.TaskBoard, error)

	// Advance moves a task one step along todo, doing, done
	Advance(ctx context.Context, principal entities.Principal, taskID string, current entities.TaskStatus) (*entities.Task, error)
}

// BoardQuery carries the board controls. Nil toggles fall back to the
// user's saved preferences.
type BoardQuery struct {
	Search     string
	ShowDone   *bool
	PlanFilter *entities.PlanFilter
}

// PreferenceReader is the slice of the preference use case the board needs.
type PreferenceReader interface {
	Get(ctx context.Context, userID, gymID uuid.UUID) (*entities.TaskViewPreference, error)
}

// Config tunes paging and caching of backend listings.
type Config struct {
	TaskPageSize   int
	MemberPageSize int
	// MaxPages bounds how many pages of one listing are fetched. A listing
	// past the bound is returned flagged as truncated.
	MaxPages    int
	Concurrency int
	CacheTTL    time.Duration
}

// DefaultConfig matches the backend's page size limits.
func DefaultConfig() Config {
	return Config{
		TaskPageSize:   50,
		MemberPageSize: 100,
		MaxPages:       200,
		Concurrency:    4,
		CacheTTL:       30 * time.Second,
	}
}

type service struct {
	backend repositories.GymBackend
	cache   repositories.PayloadCache
	prefs   PreferenceReader
	clock   *clock.Clock
	logger  *zap.Logger
	cfg     Config
}

// NewService creates the task board service. cache and prefs may be nil.
func NewService(
	backend repositories.GymBackend,
	cache repositories.PayloadCache,
	prefs PreferenceReader,
	clk *clock.Clock,
	logger *zap.Logger,
	cfg Config,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultConfig()
	if cfg.TaskPageSize <= 0 {
		cfg.TaskPageSize = defaults.TaskPageSize
	}
	if cfg.MemberPageSize <= 0 {
		cfg.MemberPageSize = defaults.MemberPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaults.MaxPages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	return &service{
		backend: backend,
		cache:   cache,
		prefs:   prefs,
		clock:   clk,
		logger:  logger,
		cfg:     cfg,
	}
}

func (s *service) Board(ctx context.Context, principal entities.Principal, query BoardQuery) (*entities.TaskBoard, error) {
	showDone, planFilter, err := s.resolveToggles(ctx, principal, query)
	if err != nil {
		return nil, err
	}

	var (
		tasks   listing[entities.Task]
		members []entities.Member
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		loaded, err := s.loadTasks(egCtx, principal)
		if err != nil {
			return err
		}
		tasks = loaded
		return nil
	})
	eg.Go(func() error {
		loaded, err := s.loadMembers(egCtx, principal)
		if err != nil {
			// labels degrade to placeholders
			s.logger.Warn("task.board.members_unavailable",
				zap.String("gym_id", principal.GymID.String()),
				zap.Error(err),
			)
			return nil
		}
		members = loaded.Items
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, usecaseErrors.FromBackend("tasks", err)
	}

	opts := GroupOptions{
		Search:     query.Search,
		ShowDone:   showDone,
		PlanFilter: planFilter,
		Today:      s.clock.TodayKey(),
	}
	board := NewBoard(tasks.Items, GroupTasks(tasks.Items, members, opts), opts)
	board.Truncated = tasks.Truncated
	return &board, nil
}

func (s *service) Advance(ctx context.Context, principal entities.Principal, taskID string, current entities.TaskStatus) (*entities.Task, error) {
	if taskID == "" {
		return nil, apperrors.ErrInvalidArgument("task id is required")
	}
	if !current.IsValid() {
		return nil, apperrors.ErrTaskInvalidStatus(string(current))
	}

	next := NextStatus(current)
	updated, err := s.backend.UpdateTaskStatus(ctx, principal.Token, taskID, next)
	if err != nil {
		mapped := usecaseErrors.FromBackend("task", err)
		if appErr, ok := mapped.(apperrors.AppError); ok && appErr.Code == apperrors.ErrorCode_NOT_FOUND {
			return nil, apperrors.ErrTaskNotFound(taskID)
		}
		return nil, mapped
	}

	if s.cache != nil {
		s.cache.Delete(ctx, tasksCacheKey(principal.GymID))
	}

	s.logger.Info("task.advanced",
		zap.String("task_id", taskID),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
		zap.String("user_id", principal.UserID.String()),
	)
	return updated, nil
}

func (s *service) resolveToggles(ctx context.Context, principal entities.Principal, query BoardQuery) (bool, entities.PlanFilter, error) {
	if query.PlanFilter != nil && !query.PlanFilter.IsValid() {
		return false, "", apperrors.ErrInvalidPlanFilter(string(*query.PlanFilter))
	}
	if query.ShowDone != nil && query.PlanFilter != nil {
		return *query.ShowDone, *query.PlanFilter, nil
	}

	saved := entities.DefaultTaskViewPreference(principal.UserID, principal.GymID)
	if s.prefs != nil {
		pref, err := s.prefs.Get(ctx, principal.UserID, principal.GymID)
		if err != nil {
			s.logger.Warn("task.board.preferences_unavailable",
				zap.String("user_id", principal.UserID.String()),
				zap.Error(err),
			)
		} else if pref != nil {
			saved = *pref
		}
	}

	showDone := saved.ShowDone
	if query.ShowDone != nil {
		showDone = *query.ShowDone
	}
	planFilter := saved.PlanFilter
	if query.PlanFilter != nil {
		planFilter = *query.PlanFilter
	}
	if !planFilter.IsValid() {
		planFilter = entities.PlanFilterAll
	}
	return showDone, planFilter, nil
}

func (s *service) loadTasks(ctx context.Context, principal entities.Principal) (listing[entities.Task], error) {
	return load(ctx, s, "tasks", tasksCacheKey(principal.GymID), s.cfg.TaskPageSize, principal,
		func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error) {
			return s.backend.ListTasks(ctx, principal.Token, page, size)
		})
}

func (s *service) loadMembers(ctx context.Context, principal entities.Principal) (listing[entities.Member], error) {
	return load(ctx, s, "members", membersCacheKey(principal.GymID), s.cfg.MemberPageSize, principal,
		func(ctx context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return s.backend.ListMembers(ctx, principal.Token, page, size)
		})
}

// load serves a listing from the payload cache or fetches and caches it.
func load[T any](
	ctx context.Context,
	s *service,
	resource, key string,
	pageSize int,
	principal entities.Principal,
	fetch func(ctx context.Context, page, size int) (*entities.Page[T], error),
) (listing[T], error) {
	var cached listing[T]
	if s.lookup(ctx, resource, key, &cached) {
		return cached, nil
	}

	result, err := fetchAll(ctx, s.cfg, pageSize, fetch)
	if err != nil {
		return listing[T]{}, err
	}
	if result.Truncated {
		metrics.ListingTruncations.WithLabelValues(resource).Inc()
		s.logger.Warn("task.board.listing_truncated",
			zap.String("resource", resource),
			zap.String("gym_id", principal.GymID.String()),
			zap.Int("reported_total", result.Total),
			zap.Int("fetched", len(result.Items)),
			zap.Int("max_pages", s.cfg.MaxPages),
		)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, nil
}

func (s *service) lookup(ctx context.Context, resource, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	if s.cache.Get(ctx, key, dst) {
		metrics.CacheLookups.WithLabelValues(resource, "hit").Inc()
		return true
	}
	metrics.CacheLookups.WithLabelValues(resource, "miss").Inc()
	return false
}

// listing is one backend collection read across pages. Total is what the
// backend reported; Truncated means pages past MaxPages were not read.
type listing[T any] struct {
	Items     []T  `json:"items"`
	Total     int  `json:"total"`
	Truncated bool `json:"truncated"`
}

// fetchAll reads page one, then the remaining pages concurrently, up to
// cfg.MaxPages. Pages are concatenated in page order.
func fetchAll[T any](
	ctx context.Context,
	cfg Config,
	pageSize int,
	fetch func(ctx context.Context, page, size int) (*entities.Page[T], error),
) (listing[T], error) {
	first, err := fetch(ctx, 1, pageSize)
	if err != nil {
		return listing[T]{}, err
	}

	// the backend may clamp page_size; follow what it reports
	if first.PageSize > 0 {
		pageSize = first.PageSize
	} else {
		first.PageSize = pageSize
	}

	result := listing[T]{Total: first.Total}
	pages := first.PageCount()
	if pages > cfg.MaxPages {
		pages = cfg.MaxPages
		result.Truncated = true
	}
	if pages <= 1 {
		result.Items = first.Items
		return result, nil
	}

	rest := make([][]T, pages-1)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Concurrency)
	for page := 2; page <= pages; page++ {
		eg.Go(func() error {
			chunk, err := fetch(egCtx, page, pageSize)
			if err != nil {
				return err
			}
			rest[page-2] = chunk.Items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return listing[T]{}, err
	}

	size := len(first.Items)
	for _, chunk := range rest {
		size += len(chunk)
	}
	result.Items = make([]T, 0, size)
	result.Items = append(result.Items, first.Items...)
	for _, chunk := range rest {
		result.Items = append(result.Items, chunk...)
	}
	return result, nil
}

func tasksCacheKey(gymID uuid.UUID) string {
	return "tasks:" + gymID.String()
}

func membersCacheKey(gymID uuid.UUID) string {
	return "members:" + gymID.String()
}
