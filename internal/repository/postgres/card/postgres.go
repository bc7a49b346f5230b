package card

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	carddomain "hospital-admin-go/internal/domain/card"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(carddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListCards(ctx context.Context) ([]carddomain.Card, error) {
	var cards []carddomain.Card
	if err := r.db.WithContext(ctx).Order("so_the asc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *PostgresRepository) GetCard(ctx context.Context, id string) (*carddomain.Card, error) {
	var card carddomain.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, carddomain.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *PostgresRepository) GetCardBySoThe(ctx context.Context, soThe string) (*carddomain.Card, error) {
	var card carddomain.Card
	if err := r.db.WithContext(ctx).Where("so_the = ?", soThe).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, carddomain.ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *PostgresRepository) CreateCard(ctx context.Context, card *carddomain.Card) error {
	return mapUnique(r.db.WithContext(ctx).Create(card).Error)
}

func (r *PostgresRepository) UpdateCard(ctx context.Context, card *carddomain.Card) error {
	return mapUnique(r.db.WithContext(ctx).
		Model(&carddomain.Card{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"so_the":     card.SoThe,
			"trang_thai": card.TrangThai,
			"ghi_chu":    card.GhiChu,
		}).Error)
}

func (r *PostgresRepository) DeleteCard(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&carddomain.Card{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) SetCardStatus(ctx context.Context, soThe, status string) error {
	return r.db.WithContext(ctx).
		Model(&carddomain.Card{}).
		Where("so_the = ? AND trang_thai <> ?", soThe, carddomain.CardLost).
		Update("trang_thai", status).Error
}

func (r *PostgresRepository) ListRecords(ctx context.Context) ([]carddomain.CardRecord, error) {
	var records []carddomain.CardRecord
	if err := r.db.WithContext(ctx).Order("ngay_muon desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListActiveRecords(ctx context.Context) ([]carddomain.CardRecord, error) {
	var records []carddomain.CardRecord
	if err := r.db.WithContext(ctx).
		Where("trang_thai = ?", carddomain.RecordBorrowing).
		Order("ngay_muon desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) CountActiveBorrows(ctx context.Context, soThe, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&carddomain.CardRecord{}).
		Where("so_the = ? AND trang_thai = ?", soThe, carddomain.RecordBorrowing)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *PostgresRepository) GetRecord(ctx context.Context, id string) (*carddomain.CardRecord, error) {
	var record carddomain.CardRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, carddomain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, record *carddomain.CardRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) CreateRecords(ctx context.Context, records []carddomain.CardRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 200).Error
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, record *carddomain.CardRecord) error {
	return r.db.WithContext(ctx).
		Model(record).
		Select("*").
		Omit("id", "created_at").
		Updates(record).Error
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&carddomain.CardRecord{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) UpdateRecordsHandover(ctx context.Context, ids []string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&carddomain.CardRecord{}).
		Where("id IN ?", ids).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return carddomain.ErrCardExists
	}
	return err
}
