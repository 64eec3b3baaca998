package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskViewPreference stores a staff user's task board toggles.
type TaskViewPreference struct {
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;primaryKey"`
	GymID      uuid.UUID  `json:"gym_id" gorm:"type:uuid;index;not null"`
	ShowDone   bool       `json:"show_done" gorm:"default:false;not null"`
	PlanFilter PlanFilter `json:"plan_filter" gorm:"type:varchar(20);default:'all';not null"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (TaskViewPreference) TableName() string {
	return "task_view_preferences"
}

// DefaultTaskViewPreference is used when a user has never saved toggles.
func DefaultTaskViewPreference(userID, gymID uuid.UUID) TaskViewPreference {
	return TaskViewPreference{
		UserID:     userID,
		GymID:      gymID,
		ShowDone:   false,
		PlanFilter: PlanFilterAll,
	}
}

// OCRPhoto records an archived bioimpedance photo. Extracted values are not
// stored here.
type OCRPhoto struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GymID       uuid.UUID         `json:"gym_id" gorm:"type:uuid;index;not null"`
	UploadedBy  uuid.UUID         `json:"uploaded_by" gorm:"type:uuid;not null"`
	ObjectKey   string            `json:"object_key" gorm:"type:varchar(500);uniqueIndex;not null"`
	ContentType string            `json:"content_type" gorm:"type:varchar(100);not null"`
	SizeBytes   int64             `json:"size_bytes" gorm:"not null"`
	Metadata    datatypes.JSONMap `json:"metadata" gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (OCRPhoto) TableName() string {
	return "ocr_photos"
}
