package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	apperrors "github.com/aigymos/gym-console/errors"
	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/pkg/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubBackend struct {
	listTasksFn   func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error)
	listMembersFn func(ctx context.Context, page, size int) (*entities.Page[entities.Member], error)
	updateFn      func(ctx context.Context, taskID string, status entities.TaskStatus) (*entities.Task, error)
}

func (s *stubBackend) ListTasks(ctx context.Context, _ string, page, size int) (*entities.Page[entities.Task], error) {
	if s.listTasksFn == nil {
		return nil, errors.New("unexpected ListTasks call")
	}
	return s.listTasksFn(ctx, page, size)
}

func (s *stubBackend) ListMembers(ctx context.Context, _ string, page, size int) (*entities.Page[entities.Member], error) {
	if s.listMembersFn == nil {
		return nil, errors.New("unexpected ListMembers call")
	}
	return s.listMembersFn(ctx, page, size)
}

func (s *stubBackend) UpdateTaskStatus(ctx context.Context, _ string, taskID string, status entities.TaskStatus) (*entities.Task, error) {
	if s.updateFn == nil {
		return nil, errors.New("unexpected UpdateTaskStatus call")
	}
	return s.updateFn(ctx, taskID, status)
}

func (s *stubBackend) Executive(context.Context, string) (*entities.ExecutiveDashboard, error) {
	return nil, errors.New("unexpected Executive call")
}

func (s *stubBackend) Commercial(context.Context, string) (*entities.CommercialDashboard, error) {
	return nil, errors.New("unexpected Commercial call")
}

func (s *stubBackend) Operational(context.Context, string) (*entities.OperationalDashboard, error) {
	return nil, errors.New("unexpected Operational call")
}

func (s *stubBackend) Retention(context.Context, string) (*entities.RetentionDashboard, error) {
	return nil, errors.New("unexpected Retention call")
}

func (s *stubBackend) Churn(context.Context, string) ([]entities.ChurnPoint, error) {
	return nil, errors.New("unexpected Churn call")
}

// mapCache is a PayloadCache that keeps JSON in memory.
type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{items: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
}

func (c *mapCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
}

type stubPrefs struct {
	pref *entities.TaskViewPreference
	err  error
}

func (s stubPrefs) Get(context.Context, uuid.UUID, uuid.UUID) (*entities.TaskViewPreference, error) {
	return s.pref, s.err
}

func testPrincipal() entities.Principal {
	return entities.Principal{
		UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		GymID:  uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Role:   entities.RoleManager,
		Token:  "token",
	}
}

func testClock() *clock.Clock {
	return clock.Fixed(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

func pagedTasks(total int) func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error) {
	return func(_ context.Context, page, size int) (*entities.Page[entities.Task], error) {
		var items []entities.Task
		for i := (page - 1) * size; i < page*size && i < total; i++ {
			items = append(items, entities.Task{
				ID:       fmt.Sprintf("t%03d", i),
				Title:    "Task",
				MemberID: ptr(fmt.Sprintf("m%d", i%3)),
				Status:   entities.TaskStatusTodo,
			})
		}
		return &entities.Page[entities.Task]{Items: items, Total: total, Page: page, PageSize: size}, nil
	}
}

func TestBoardFetchesAllPages(t *testing.T) {
	var calls atomic.Int32
	tasksFn := pagedTasks(120)
	backend := &stubBackend{
		listTasksFn: func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error) {
			calls.Add(1)
			assert.Equal(t, 50, size)
			return tasksFn(ctx, page, size)
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{
				Items:    []entities.Member{{ID: "m0", FullName: "Ana", PlanName: "Plano Anual"}},
				Total:    1,
				Page:     page,
				PageSize: size,
			}, nil
		},
	}

	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 120, board.Total)
	assert.Equal(t, 120, board.Pending)
	assert.Equal(t, "2024-06-01", board.Today)
	assert.Equal(t, entities.PlanFilterAll, board.PlanFilter)
	require.Len(t, board.Groups, 3)

	labels := map[string]string{}
	for _, g := range board.Groups {
		labels[g.Key] = g.Label
	}
	assert.Equal(t, "Ana", labels["member:m0"])
	assert.Equal(t, "Aluno m1", labels["member:m1"])
}

func TestBoardFlagsListingPastPageBound(t *testing.T) {
	var calls atomic.Int32
	tasksFn := pagedTasks(2100)
	backend := &stubBackend{
		listTasksFn: func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error) {
			calls.Add(1)
			return tasksFn(ctx, page, size)
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
	}

	cfg := DefaultConfig()
	cfg.MaxPages = 40
	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), cfg)
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)

	assert.Equal(t, int32(40), calls.Load())
	assert.True(t, board.Truncated)
	assert.Equal(t, 2000, board.Total)
}

func TestBoardDefaultBoundReadsLargeListings(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: pagedTasks(2100),
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
	}

	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)

	assert.False(t, board.Truncated)
	assert.Equal(t, 2100, board.Total)
	assert.Equal(t, 2100, board.Pending)
}

func TestBoardIgnoresInflatedTotal(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: func(_ context.Context, page, size int) (*entities.Page[entities.Task], error) {
			var items []entities.Task
			if page == 1 {
				items = []entities.Task{{ID: "1", Status: entities.TaskStatusTodo}}
			}
			return &entities.Page[entities.Task]{Items: items, Total: 1_000_000_000_000, Page: page, PageSize: size}, nil
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
	}

	cfg := DefaultConfig()
	cfg.MaxPages = 3
	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), cfg)
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)

	assert.True(t, board.Truncated)
	assert.Equal(t, 1, board.Total)
}

func TestBoardBadgesCountHiddenTasks(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: func(_ context.Context, page, size int) (*entities.Page[entities.Task], error) {
			return &entities.Page[entities.Task]{
				Items: []entities.Task{
					{ID: "1", MemberID: ptr("m1"), Status: entities.TaskStatusTodo},
					{ID: "2", MemberID: ptr("m1"), Status: entities.TaskStatusDone},
					{ID: "3", MemberID: ptr("m1"), Status: entities.TaskStatusTodo, DueDate: ptr("2099-01-01")},
				},
				Total: 3, Page: page, PageSize: size,
			}, nil
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
	}

	showDone := false
	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{ShowDone: &showDone})
	require.NoError(t, err)

	assert.Equal(t, 3, board.Total)
	assert.Equal(t, 2, board.Pending)
	assert.Equal(t, 1, board.HiddenFuture)
	require.Len(t, board.Groups, 1)
	assert.Len(t, board.Groups[0].Tasks, 1)
}

func TestBoardFollowsClampedPageSize(t *testing.T) {
	seen := map[int]bool{}
	var mu sync.Mutex
	backend := &stubBackend{
		listTasksFn: func(_ context.Context, page, _ int) (*entities.Page[entities.Task], error) {
			return &entities.Page[entities.Task]{Total: 0, Page: page, PageSize: 50}, nil
		},
		listMembersFn: func(_ context.Context, page, _ int) (*entities.Page[entities.Member], error) {
			mu.Lock()
			seen[page] = true
			mu.Unlock()
			// backend caps at 100 regardless of the request
			return &entities.Page[entities.Member]{
				Items:    []entities.Member{{ID: fmt.Sprintf("m%d", page)}},
				Total:    250,
				Page:     page,
				PageSize: 100,
			}, nil
		},
	}

	cfg := DefaultConfig()
	cfg.MemberPageSize = 500
	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), cfg)
	_, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

func TestBoardMembersFailureDegrades(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: pagedTasks(2),
		listMembersFn: func(context.Context, int, int) (*entities.Page[entities.Member], error) {
			return nil, errors.New("members down")
		},
	}

	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	board, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})
	require.NoError(t, err)
	for _, g := range board.Groups {
		assert.Contains(t, g.Label, "Aluno ")
		assert.Nil(t, g.PlanType)
	}
}

func TestBoardTasksFailure(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: func(context.Context, int, int) (*entities.Page[entities.Task], error) {
			return nil, errors.New("connection refused")
		},
		listMembersFn: func(ctx context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
	}

	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	_, err := svc.Board(context.Background(), testPrincipal(), BoardQuery{})

	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_INTEGRATION_BACKEND_UNAVAILABLE, appErr.Code)
}

func TestBoardUsesCache(t *testing.T) {
	var taskCalls atomic.Int32
	tasksFn := pagedTasks(3)
	backend := &stubBackend{
		listTasksFn: func(ctx context.Context, page, size int) (*entities.Page[entities.Task], error) {
			taskCalls.Add(1)
			return tasksFn(ctx, page, size)
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{Page: page, PageSize: size}, nil
		},
		updateFn: func(_ context.Context, taskID string, status entities.TaskStatus) (*entities.Task, error) {
			return &entities.Task{ID: taskID, Status: status}, nil
		},
	}

	cache := newMapCache()
	svc := NewService(backend, cache, nil, testClock(), zap.NewNop(), DefaultConfig())
	ctx := context.Background()

	_, err := svc.Board(ctx, testPrincipal(), BoardQuery{})
	require.NoError(t, err)
	_, err = svc.Board(ctx, testPrincipal(), BoardQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), taskCalls.Load())

	_, err = svc.Advance(ctx, testPrincipal(), "t000", entities.TaskStatusTodo)
	require.NoError(t, err)

	_, err = svc.Board(ctx, testPrincipal(), BoardQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), taskCalls.Load())
}

func TestBoardTogglesFromPreferences(t *testing.T) {
	backend := &stubBackend{
		listTasksFn: func(_ context.Context, page, size int) (*entities.Page[entities.Task], error) {
			return &entities.Page[entities.Task]{
				Items: []entities.Task{
					{ID: "1", MemberID: ptr("m1"), Status: entities.TaskStatusDone},
					{ID: "2", MemberID: ptr("m2"), Status: entities.TaskStatusTodo},
				},
				Total: 2, Page: page, PageSize: size,
			}, nil
		},
		listMembersFn: func(_ context.Context, page, size int) (*entities.Page[entities.Member], error) {
			return &entities.Page[entities.Member]{
				Items: []entities.Member{
					{ID: "m1", FullName: "Ana", PlanName: "Plano Anual"},
					{ID: "m2", FullName: "Bia", PlanName: "Plano Mensal"},
				},
				Total: 2, Page: page, PageSize: size,
			}, nil
		},
	}

	principal := testPrincipal()
	prefs := stubPrefs{pref: &entities.TaskViewPreference{
		UserID:     principal.UserID,
		GymID:      principal.GymID,
		ShowDone:   true,
		PlanFilter: entities.PlanFilterAnual,
	}}
	svc := NewService(backend, nil, prefs, testClock(), zap.NewNop(), DefaultConfig())

	t.Run("saved toggles", func(t *testing.T) {
		board, err := svc.Board(context.Background(), principal, BoardQuery{})
		require.NoError(t, err)
		assert.True(t, board.ShowDone)
		assert.Equal(t, entities.PlanFilterAnual, board.PlanFilter)
		require.Len(t, board.Groups, 1)
		assert.Equal(t, "member:m1", board.Groups[0].Key)
	})

	t.Run("query overrides", func(t *testing.T) {
		all := entities.PlanFilterAll
		board, err := svc.Board(context.Background(), principal, BoardQuery{ShowDone: ptr(false), PlanFilter: &all})
		require.NoError(t, err)
		require.Len(t, board.Groups, 1)
		assert.Equal(t, "member:m2", board.Groups[0].Key)
	})

	t.Run("invalid plan filter", func(t *testing.T) {
		bad := entities.PlanFilter("trimestral")
		_, err := svc.Board(context.Background(), principal, BoardQuery{PlanFilter: &bad})
		var appErr apperrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ErrorCode_INVALID_PLAN_FILTER, appErr.Code)
	})
}

func TestAdvance(t *testing.T) {
	var sent entities.TaskStatus
	backend := &stubBackend{
		updateFn: func(_ context.Context, taskID string, status entities.TaskStatus) (*entities.Task, error) {
			if taskID == "missing" {
				return nil, fmt.Errorf("patch: %w", entities.ErrRemoteNotFound)
			}
			sent = status
			return &entities.Task{ID: taskID, Status: status}, nil
		},
	}
	svc := NewService(backend, nil, nil, testClock(), zap.NewNop(), DefaultConfig())
	ctx := context.Background()

	task, err := svc.Advance(ctx, testPrincipal(), "t1", entities.TaskStatusDoing)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDone, sent)
	assert.Equal(t, entities.TaskStatusDone, task.Status)

	_, err = svc.Advance(ctx, testPrincipal(), "missing", entities.TaskStatusTodo)
	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_TASK_NOT_FOUND, appErr.Code)

	_, err = svc.Advance(ctx, testPrincipal(), "t1", "archived")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_TASK_INVALID_STATUS, appErr.Code)
}
