package card

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListCards(ctx context.Context) ([]Card, error)
	GetCard(ctx context.Context, id string) (*Card, error)
	GetCardBySoThe(ctx context.Context, soThe string) (*Card, error)
	CreateCard(ctx context.Context, card *Card) error
	UpdateCard(ctx context.Context, card *Card) error
	DeleteCard(ctx context.Context, id string) (bool, error)
	SetCardStatus(ctx context.Context, soThe, status string) error

	ListRecords(ctx context.Context) ([]CardRecord, error)
	ListActiveRecords(ctx context.Context) ([]CardRecord, error)
	// CountActiveBorrows counts borrowing records on soThe, skipping excludeID when set.
	CountActiveBorrows(ctx context.Context, soThe, excludeID string) (int64, error)
	GetRecord(ctx context.Context, id string) (*CardRecord, error)
	CreateRecord(ctx context.Context, record *CardRecord) error
	CreateRecords(ctx context.Context, records []CardRecord) error
	UpdateRecord(ctx context.Context, record *CardRecord) error
	DeleteRecord(ctx context.Context, id string) (bool, error)
	UpdateRecordsHandover(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error)
}
