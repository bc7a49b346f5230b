package research

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"

	researchdomain "hospital-admin-go/internal/domain/research"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("research_topics").
		Joins("LEFT JOIN employees ON employees.id = research_topics.employee_id")
}

func (r *PostgresRepository) ListTopics(ctx context.Context, query researchdomain.ListQuery) ([]researchdomain.TopicView, int64, error) {
	base := r.joined(ctx)
	if query.Search != "" {
		like := "%" + query.Search + "%"
		base = base.Where("research_topics.ten_de_tai ILIKE ? OR employees.ho_ten ILIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := base.
		Select("research_topics.*, employees.ho_ten AS ho_ten").
		Order("research_topics.created_at desc")
	if query.PageSize > 0 {
		page = page.Limit(query.PageSize)
	}
	if offset := query.Offset(); offset > 0 {
		page = page.Offset(offset)
	}

	var views []researchdomain.TopicView
	if err := page.Scan(&views).Error; err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (r *PostgresRepository) GetTopic(ctx context.Context, id string) (*researchdomain.TopicView, error) {
	var view researchdomain.TopicView
	result := r.joined(ctx).
		Select("research_topics.*, employees.ho_ten AS ho_ten").
		Where("research_topics.id = ?", id).
		Limit(1).
		Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, researchdomain.ErrTopicNotFound
	}
	return &view, nil
}

func (r *PostgresRepository) CreateTopic(ctx context.Context, topic *researchdomain.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *PostgresRepository) UpdateTopic(ctx context.Context, topic *researchdomain.Topic) error {
	result := r.db.WithContext(ctx).
		Model(topic).
		Select("ten_de_tai", "employee_id", "vai_tro", "cap_quan_ly", "trang_thai", "ngay_bat_dau", "ngay_ket_thuc", "ket_qua").
		Updates(topic)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return researchdomain.ErrTopicNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteTopic(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&researchdomain.Topic{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// AppendEvidence concatenates in SQL so concurrent uploads do not overwrite
// each other's links.
func (r *PostgresRepository) AppendEvidence(ctx context.Context, id string, urls []string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&researchdomain.Topic{}).
		Where("id = ?", id).
		Update("minh_chung", gorm.Expr("array_cat(minh_chung, ?)", pq.StringArray(urls)))
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) RemoveEvidence(ctx context.Context, id, url string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&researchdomain.Topic{}).
		Where("id = ? AND ? = ANY(minh_chung)", id, url).
		Update("minh_chung", gorm.Expr("array_remove(minh_chung, ?)", url))
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountEvidenceRefs(ctx context.Context, url string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&researchdomain.Topic{}).
		Where("? = ANY(minh_chung)", url).
		Count(&count).Error
	return count, err
}
