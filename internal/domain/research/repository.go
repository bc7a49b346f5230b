package research

import "context"

type Repository interface {
	ListTopics(ctx context.Context, query ListQuery) ([]TopicView, int64, error)
	GetTopic(ctx context.Context, id string) (*TopicView, error)
	CreateTopic(ctx context.Context, topic *Topic) error
	UpdateTopic(ctx context.Context, topic *Topic) error
	DeleteTopic(ctx context.Context, id string) (bool, error)
	AppendEvidence(ctx context.Context, id string, urls []string) (bool, error)
	RemoveEvidence(ctx context.Context, id, url string) (bool, error)
	CountEvidenceRefs(ctx context.Context, url string) (int64, error)
}
