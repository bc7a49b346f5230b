package leave

import (
	"time"

	"hospital-admin-go/internal/domain/shared"
)

const (
	StatusPending  = "Chờ duyệt"
	StatusApproved = "Đã duyệt"
	StatusRejected = "Từ chối"
)

type LeaveRequest struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID    string      `gorm:"type:uuid;index;not null" json:"employee_id"`
	LoaiNghi      string      `gorm:"column:loai_nghi;not null" json:"loai_nghi"`
	TuNgay        shared.Date `gorm:"column:tu_ngay;type:date;not null" json:"tu_ngay"`
	DenNgay       shared.Date `gorm:"column:den_ngay;type:date;not null" json:"den_ngay"`
	LyDo          string      `gorm:"column:ly_do" json:"ly_do"`
	TrangThai     string      `gorm:"column:trang_thai;not null" json:"trang_thai"`
	NguoiDuyet    *string     `gorm:"column:nguoi_duyet" json:"nguoi_duyet"`
	ThoiGianDuyet *time.Time  `gorm:"column:thoi_gian_duyet" json:"thoi_gian_duyet"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// LeaveRequestView carries the employee display name alongside the request.
type LeaveRequestView struct {
	LeaveRequest
	HoTen string `gorm:"column:ho_ten" json:"ho_ten"`
}

// Days counts calendar days, both ends included.
func (l LeaveRequest) Days() int {
	if l.TuNgay.IsZero() || l.DenNgay.IsZero() {
		return 0
	}
	return int(l.DenNgay.Sub(l.TuNgay.Time).Hours()/24) + 1
}

type ListFilter struct {
	EmployeeID string
	Status     string
}

type Input struct {
	EmployeeID string
	LoaiNghi   string
	TuNgay     shared.Date
	DenNgay    shared.Date
	LyDo       string
}
