package schedule

import (
	"context"
	"time"
)

type Repository interface {
	ListSchedules(ctx context.Context) ([]Schedule, error)
	// ListOverlapping returns items with bat_dau < to and ket_thuc >= from.
	ListOverlapping(ctx context.Context, from, to time.Time) ([]Schedule, error)
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	CreateSchedule(ctx context.Context, schedule *Schedule) error
	UpdateSchedule(ctx context.Context, schedule *Schedule) error
	SetStatus(ctx context.Context, id, status string) (bool, error)
	SetAttachment(ctx context.Context, id, url string) (bool, error)
	DeleteSchedule(ctx context.Context, id string) (bool, error)
}

// NameResolver maps employee ids to display names.
type NameResolver interface {
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
}
