package research

import (
	"time"

	"github.com/lib/pq"

	"hospital-admin-go/internal/domain/shared"
)

const (
	StatusInProgress = "Đang thực hiện"
	StatusAccepted   = "Đã nghiệm thu"
)

const cloneSuffix = " (Bản sao)"

type Topic struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	TenDeTai    string         `gorm:"column:ten_de_tai;not null" json:"ten_de_tai"`
	EmployeeID  *string        `gorm:"column:employee_id;type:uuid" json:"employee_id"`
	VaiTro      string         `gorm:"column:vai_tro" json:"vai_tro"`
	CapQuanLy   string         `gorm:"column:cap_quan_ly" json:"cap_quan_ly"`
	TrangThai   string         `gorm:"column:trang_thai;not null" json:"trang_thai"`
	NgayBatDau  *shared.Date   `gorm:"column:ngay_bat_dau;type:date" json:"ngay_bat_dau"`
	NgayKetThuc *shared.Date   `gorm:"column:ngay_ket_thuc;type:date" json:"ngay_ket_thuc"`
	KetQua      string         `gorm:"column:ket_qua" json:"ket_qua"`
	MinhChung   pq.StringArray `gorm:"column:minh_chung;type:text[]" json:"minh_chung"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Topic) TableName() string {
	return "research_topics"
}

// TopicView carries the owner's display name alongside the topic.
type TopicView struct {
	Topic
	HoTen string `gorm:"column:ho_ten" json:"ho_ten"`
}

type Input struct {
	TenDeTai    string
	EmployeeID  *string
	VaiTro      string
	CapQuanLy   string
	TrangThai   string
	NgayBatDau  *shared.Date
	NgayKetThuc *shared.Date
	KetQua      string
}

type ListQuery struct {
	Page     int
	PageSize int
	Search   string
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

type Page struct {
	Items    []TopicView `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
