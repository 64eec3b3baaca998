package repositories

import (
	"context"

	"github.com/aigymos/gym-console/internal/domain/entities"
)

// GymBackend is the read/write surface of the gym REST backend used by this
// service. Every call forwards the caller's access token.
type GymBackend interface {
	ListTasks(ctx context.Context, token string, page, pageSize int) (*entities.Page[entities.Task], error)
	ListMembers(ctx context.Context, token string, page, pageSize int) (*entities.Page[entities.Member], error)
	UpdateTaskStatus(ctx context.Context, token, taskID string, status entities.TaskStatus) (*entities.Task, error)

	Executive(ctx context.Context, token string) (*entities.ExecutiveDashboard, error)
	Commercial(ctx context.Context, token string) (*entities.CommercialDashboard, error)
	Operational(ctx context.Context, token string) (*entities.OperationalDashboard, error)
	Retention(ctx context.Context, token string) (*entities.RetentionDashboard, error)
	Churn(ctx context.Context, token string) ([]entities.ChurnPoint, error)
}
