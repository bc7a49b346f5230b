package personnel

import (
	"time"

	"hospital-admin-go/internal/domain/shared"
)

const (
	StatusActive      = "Đang công tác"
	StatusTransferred = "Chuyển công tác"
	StatusRetired     = "Nghỉ hưu"
)

type Employee struct {
	ID               string       `gorm:"type:uuid;primaryKey" json:"id"`
	HoTen            string       `gorm:"column:ho_ten;not null" json:"ho_ten"`
	CapBac           string       `gorm:"column:cap_bac" json:"cap_bac"`
	ChucVu           string       `gorm:"column:chuc_vu" json:"chuc_vu"`
	NgaySinh         *shared.Date `gorm:"column:ngay_sinh;type:date" json:"ngay_sinh"`
	GioiTinh         string       `gorm:"column:gioi_tinh" json:"gioi_tinh"`
	SoCCCD           string       `gorm:"column:so_cccd" json:"so_cccd"`
	NgayCapCCCD      *shared.Date `gorm:"column:ngay_cap_cccd;type:date" json:"ngay_cap_cccd"`
	SoHieuQuanNhan   string       `gorm:"column:so_hieu_quan_nhan" json:"so_hieu_quan_nhan"`
	NgayNhapNgu      *shared.Date `gorm:"column:ngay_nhap_ngu;type:date" json:"ngay_nhap_ngu"`
	NgayXuatNgu      *shared.Date `gorm:"column:ngay_xuat_ngu;type:date" json:"ngay_xuat_ngu"`
	NgayVaoDang      *shared.Date `gorm:"column:ngay_vao_dang;type:date" json:"ngay_vao_dang"`
	NgayChinhThuc    *shared.Date `gorm:"column:ngay_chinh_thuc;type:date" json:"ngay_chinh_thuc"`
	QueQuan          string       `gorm:"column:que_quan" json:"que_quan"`
	NoiOHienNay      string       `gorm:"column:noi_o_hien_nay" json:"noi_o_hien_nay"`
	SoDienThoai      string       `gorm:"column:so_dien_thoai" json:"so_dien_thoai"`
	TrinhDoChuyenMon string       `gorm:"column:trinh_do_chuyen_mon" json:"trinh_do_chuyen_mon"`
	KhoaPhong        string       `gorm:"column:khoa_phong" json:"khoa_phong"`
	DoiTuong         string       `gorm:"column:doi_tuong;index" json:"doi_tuong"`
	NgayVeDonVi      *shared.Date `gorm:"column:ngay_ve_don_vi;type:date" json:"ngay_ve_don_vi"`
	TrangThai        string       `gorm:"column:trang_thai;not null" json:"trang_thai"`
	GhiChu           string       `gorm:"column:ghi_chu" json:"ghi_chu"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

type FamilyMember struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID string `gorm:"type:uuid;index;not null" json:"employee_id"`
	QuanHe     string `gorm:"column:quan_he" json:"quan_he"`
	HoTen      string `gorm:"column:ho_ten" json:"ho_ten"`
	NamSinh    string `gorm:"column:nam_sinh" json:"nam_sinh"`
	NgheNghiep string `gorm:"column:nghe_nghiep" json:"nghe_nghiep"`
	NoiO       string `gorm:"column:noi_o" json:"noi_o"`
	SortOrder  int    `gorm:"column:sort_order" json:"-"`
}

func (FamilyMember) TableName() string {
	return "employee_family_members"
}

type WorkHistory struct {
	ID         string       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID string       `gorm:"type:uuid;index;not null" json:"employee_id"`
	TuNgay     *shared.Date `gorm:"column:tu_ngay;type:date" json:"tu_ngay"`
	DenNgay    *shared.Date `gorm:"column:den_ngay;type:date" json:"den_ngay"`
	DonVi      string       `gorm:"column:don_vi" json:"don_vi"`
	ChucVu     string       `gorm:"column:chuc_vu" json:"chuc_vu"`
	SortOrder  int          `gorm:"column:sort_order" json:"-"`
}

func (WorkHistory) TableName() string {
	return "employee_work_history"
}

type TrainingHistory struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID  string       `gorm:"type:uuid;index;not null" json:"employee_id"`
	TuNgay      *shared.Date `gorm:"column:tu_ngay;type:date" json:"tu_ngay"`
	DenNgay     *shared.Date `gorm:"column:den_ngay;type:date" json:"den_ngay"`
	CoSoDaoTao  string       `gorm:"column:co_so_dao_tao" json:"co_so_dao_tao"`
	ChuyenNganh string       `gorm:"column:chuyen_nganh" json:"chuyen_nganh"`
	HinhThuc    string       `gorm:"column:hinh_thuc" json:"hinh_thuc"`
	VanBang     string       `gorm:"column:van_bang" json:"van_bang"`
	SortOrder   int          `gorm:"column:sort_order" json:"-"`
}

func (TrainingHistory) TableName() string {
	return "employee_training_history"
}

type SalaryHistory struct {
	ID         string       `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID string       `gorm:"type:uuid;index;not null" json:"employee_id"`
	NgayHuong  *shared.Date `gorm:"column:ngay_huong;type:date" json:"ngay_huong"`
	CapBac     string       `gorm:"column:cap_bac" json:"cap_bac"`
	HeSoLuong  *float64     `gorm:"column:he_so_luong" json:"he_so_luong"`
	GhiChu     string       `gorm:"column:ghi_chu" json:"ghi_chu"`
	SortOrder  int          `gorm:"column:sort_order" json:"-"`
}

func (SalaryHistory) TableName() string {
	return "employee_salary_history"
}

// Children are the four lists saved together with an employee.
type Children struct {
	FamilyMembers   []FamilyMember    `json:"gia_dinh"`
	WorkHistory     []WorkHistory     `json:"qua_trinh_cong_tac"`
	TrainingHistory []TrainingHistory `json:"qua_trinh_dao_tao"`
	SalaryHistory   []SalaryHistory   `json:"qua_trinh_luong"`
}

type EmployeeDetails struct {
	Employee
	Children
}

type ListFilter struct {
	Category string
	Status   string
	Query    string
	Limit    int
	Offset   int
}

type BulkUpdateInput struct {
	IDs      []string
	Status   *string
	Category *string
}
