package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:              srv.URL,
		MaxRetries:           2,
		RetryInitialInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "/api"})
	assert.Error(t, err)
}

func TestListTasks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tasks", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"items": [{"id": "t1", "title": "Ligar", "status": "todo", "priority": "high",
			           "member_id": "m1", "due_date": "2024-06-01",
			           "extra_data": {"plan_type": "anual", "source": "automation"}}],
			"total": 51, "page": 2, "page_size": 50
		}`)
	})

	page, err := client.ListTasks(context.Background(), "tok", 2, 50)
	require.NoError(t, err)

	assert.Equal(t, 51, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	task := page.Items[0]
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, entities.TaskStatusTodo, task.Status)
	require.NotNil(t, task.ExtraData)
	require.NotNil(t, task.ExtraData.PlanType)
	assert.Equal(t, "anual", *task.ExtraData.PlanType)
}

func TestListMembers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/members", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))
		_, _ = io.WriteString(w, `{"items":[{"id":"m1","full_name":"Ana","plan_name":"Plano Anual"}],"total":1,"page":1,"page_size":100}`)
	})

	page, err := client.ListMembers(context.Background(), "tok", 1, 100)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Plano Anual", page.Items[0].PlanName)
}

func TestUpdateTaskStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/tasks/t-1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body entities.TaskStatusUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, entities.TaskStatusDoing, body.Status)

		_, _ = io.WriteString(w, `{"id":"t-1","title":"x","status":"doing","priority":"low"}`)
	})

	task, err := client.UpdateTaskStatus(context.Background(), "tok", "t-1", entities.TaskStatusDoing)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDoing, task.Status)
}

func TestDashboards(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/dashboards/executive":
			_, _ = io.WriteString(w, `{"total_members":10,"active_members":8,"mrr":1234.5,"churn_rate":2,"nps_avg":8,"risk_distribution":{"green":5,"yellow":2,"red":1}}`)
		case "/api/v1/dashboards/retention":
			_, _ = io.WriteString(w, `{"red":{"total":1,"items":[]},"yellow":{"total":2,"items":[]},"nps_trend":[{"month":"2024-05","average_score":8.2,"responses":4}]}`)
		case "/api/v1/dashboards/churn":
			_, _ = io.WriteString(w, `null`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	exec, err := client.Executive(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, exec.MRR)
	assert.Equal(t, 1, exec.RiskDistribution.Red)

	retention, err := client.Retention(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, retention.Red.Total)
	require.Len(t, retention.NPSTrend, 1)

	churn, err := client.Churn(ctx, "tok")
	require.NoError(t, err)
	assert.NotNil(t, churn)
	assert.Empty(t, churn)

	_, err = client.Commercial(ctx, "tok")
	assert.ErrorIs(t, err, entities.ErrRemoteNotFound)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"month":"2024-01","churn_rate":1.5}]`)
	})

	churn, err := client.Churn(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []entities.ChurnPoint{{Month: "2024-01", ChurnRate: 1.5}}, churn)
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Operational(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, IsStatus(err, http.StatusBadGateway))
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
		detail string
	}{
		{"not found", http.StatusNotFound, `{"detail":"Task nao encontrada"}`, entities.ErrRemoteNotFound, "Task nao encontrada"},
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Token invalido ou expirado"}`, entities.ErrRemoteUnauthorized, "Token invalido ou expirado"},
		{"forbidden", http.StatusForbidden, `plain text`, entities.ErrForbidden, "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.UpdateTaskStatus(context.Background(), "tok", "t1", entities.TaskStatusDone)
			require.Error(t, err)
			assert.Equal(t, int32(1), calls.Load())
			assert.ErrorIs(t, err, tt.target)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.detail, statusErr.Detail)
		})
	}
}

func TestDecodeErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{not json`)
	})

	_, err := client.ListTasks(context.Background(), "tok", 1, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tasks response")
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Executive(ctx, "tok")
	assert.ErrorIs(t, err, context.Canceled)
}
