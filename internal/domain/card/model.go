package card

import "time"

// Catalog card states.
const (
	CardAvailable = "Đã trả thẻ"
	CardBorrowed  = "Đang mượn thẻ chăm"
	CardLost      = "Mất thẻ"
)

// Lending record states.
const (
	RecordBorrowing = "Đang mượn thẻ"
	RecordReturned  = "Đã trả thẻ"
)

// Deposit handover sub-states, tracked separately for each leg.
const (
	HandoverPending = "Chưa bàn giao"
	HandoverDone    = "Đã bàn giao"
)

type Leg string

const (
	LegBorrow Leg = "muon"
	LegReturn Leg = "tra"
)

type Card struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SoThe     string    `gorm:"column:so_the;uniqueIndex;not null" json:"so_the"`
	TrangThai string    `gorm:"column:trang_thai;not null" json:"trang_thai"`
	GhiChu    string    `gorm:"column:ghi_chu" json:"ghi_chu"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Card) TableName() string {
	return "cards"
}

type CardRecord struct {
	ID                      string     `gorm:"type:uuid;primaryKey" json:"id"`
	SoThe                   string     `gorm:"column:so_the;index;not null" json:"so_the"`
	TenBenhNhan             string     `gorm:"column:ten_benh_nhan;not null" json:"ten_benh_nhan"`
	TenNguoiCham            string     `gorm:"column:ten_nguoi_cham" json:"ten_nguoi_cham"`
	SoDienThoai             string     `gorm:"column:so_dien_thoai" json:"so_dien_thoai"`
	KhoaPhong               string     `gorm:"column:khoa_phong" json:"khoa_phong"`
	TienCoc                 int64      `gorm:"column:tien_coc" json:"tien_coc"`
	NgayMuon                time.Time  `gorm:"column:ngay_muon;not null" json:"ngay_muon"`
	NgayTra                 *time.Time `gorm:"column:ngay_tra" json:"ngay_tra"`
	TrangThai               string     `gorm:"column:trang_thai;not null" json:"trang_thai"`
	NguoiChoMuon            string     `gorm:"column:nguoi_cho_muon" json:"nguoi_cho_muon"`
	NguoiNhanTra            string     `gorm:"column:nguoi_nhan_tra" json:"nguoi_nhan_tra"`
	TrangThaiTienMuon       string     `gorm:"column:trang_thai_tien_muon;not null" json:"trang_thai_tien_muon"`
	NguoiBanGiaoTienMuon    string     `gorm:"column:nguoi_ban_giao_tien_muon" json:"nguoi_ban_giao_tien_muon"`
	ThoiGianBanGiaoTienMuon *time.Time `gorm:"column:thoi_gian_ban_giao_tien_muon" json:"thoi_gian_ban_giao_tien_muon"`
	TrangThaiTienTra        string     `gorm:"column:trang_thai_tien_tra;not null" json:"trang_thai_tien_tra"`
	NguoiBanGiaoTienTra     string     `gorm:"column:nguoi_ban_giao_tien_tra" json:"nguoi_ban_giao_tien_tra"`
	ThoiGianBanGiaoTienTra  *time.Time `gorm:"column:thoi_gian_ban_giao_tien_tra" json:"thoi_gian_ban_giao_tien_tra"`
	GhiChu                  string     `gorm:"column:ghi_chu" json:"ghi_chu"`
	CreatedAt               time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CardRecord) TableName() string {
	return "card_records"
}

func (r CardRecord) IsBorrowing() bool {
	return r.TrangThai == RecordBorrowing
}

type CardInput struct {
	SoThe     string
	TrangThai string
	GhiChu    string
}

type BorrowInput struct {
	SoThe        string
	TenBenhNhan  string
	TenNguoiCham string
	SoDienThoai  string
	KhoaPhong    string
	TienCoc      int64
	NgayMuon     *time.Time
	GhiChu       string
	Actor        string
}

type BorrowResult struct {
	Record  *CardRecord
	Warning string
}

type RecordUpdateInput struct {
	SoThe        string
	TenBenhNhan  string
	TenNguoiCham string
	SoDienThoai  string
	KhoaPhong    string
	TienCoc      int64
	NgayMuon     *time.Time
	GhiChu       string
}

type HandoverInput struct {
	IDs   []string
	Leg   Leg
	State string
	Actor string
}
