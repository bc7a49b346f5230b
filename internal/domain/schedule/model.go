package schedule

import (
	"time"

	"github.com/lib/pq"
)

// Persisted statuses. StatusOverdue is never stored; it is derived from
// ket_thuc for items that are not finished.
const (
	StatusNotStarted = "Chưa thực hiện"
	StatusInProgress = "Đang thực hiện"
	StatusDone       = "Hoàn thành"
	StatusCancelled  = "Đã hủy"
	StatusOverdue    = "Quá hạn"
)

type Schedule struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	NoiDung       string         `gorm:"column:noi_dung;not null" json:"noi_dung"`
	BatDau        time.Time      `gorm:"column:bat_dau;not null" json:"bat_dau"`
	KetThuc       time.Time      `gorm:"column:ket_thuc;not null" json:"ket_thuc"`
	NguoiThucHien pq.StringArray `gorm:"column:nguoi_thuc_hien;type:text[]" json:"nguoi_thuc_hien"`
	TepDinhKem    *string        `gorm:"column:tep_dinh_kem" json:"tep_dinh_kem"`
	TrangThai     string         `gorm:"column:trang_thai;not null" json:"trang_thai"`
	NguoiTao      string         `gorm:"column:nguoi_tao" json:"nguoi_tao"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// EffectiveStatus is the status shown to users: unfinished items whose end
// time has passed read as overdue.
func (s Schedule) EffectiveStatus(now time.Time) string {
	if (s.TrangThai == StatusNotStarted || s.TrangThai == StatusInProgress) && s.KetThuc.Before(now) {
		return StatusOverdue
	}
	return s.TrangThai
}

// View is a schedule enriched for display.
type View struct {
	Schedule
	TrangThaiHienThi string   `json:"trang_thai_hien_thi"`
	TenNguoiThucHien []string `json:"ten_nguoi_thuc_hien"`
}

type Input struct {
	NoiDung       string
	BatDau        time.Time
	KetThuc       time.Time
	NguoiThucHien []string
	TrangThai     string
	Actor         string
}

type Bucket string

const (
	BucketAll   Bucket = ""
	BucketToday Bucket = "today"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
	BucketRange Bucket = "range"
)

type ListFilter struct {
	Search string
	Bucket Bucket
	From   *time.Time
	To     *time.Time
	// Status matches the effective status, so StatusOverdue is accepted.
	Status string
}
