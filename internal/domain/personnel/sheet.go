package personnel

import (
	"context"

	"hospital-admin-go/internal/domain/shared"
	"hospital-admin-go/internal/spreadsheet"
)

type column struct {
	header string
	width  float64
	get    func(*Employee) any
	set    func(*Employee, string)
}

func textColumn(header string, width float64, field func(*Employee) *string) column {
	return column{
		header: header,
		width:  width,
		get:    func(e *Employee) any { return *field(e) },
		set:    func(e *Employee, value string) { *field(e) = value },
	}
}

func dateColumn(header string, field func(*Employee) **shared.Date) column {
	return column{
		header: header,
		width:  14,
		get: func(e *Employee) any {
			if d := *field(e); d != nil && !d.IsZero() {
				return d.Format("02/01/2006")
			}
			return nil
		},
		set: func(e *Employee, value string) {
			*field(e) = shared.DateFromString(spreadsheet.ProcessDate(value))
		},
	}
}

// columns is the import template and export layout, in order.
var columns = []column{
	textColumn("Họ và tên", 28, func(e *Employee) *string { return &e.HoTen }),
	textColumn("Cấp bậc", 14, func(e *Employee) *string { return &e.CapBac }),
	textColumn("Chức vụ", 18, func(e *Employee) *string { return &e.ChucVu }),
	dateColumn("Ngày sinh", func(e *Employee) **shared.Date { return &e.NgaySinh }),
	textColumn("Giới tính", 10, func(e *Employee) *string { return &e.GioiTinh }),
	textColumn("Số CCCD", 16, func(e *Employee) *string { return &e.SoCCCD }),
	dateColumn("Ngày cấp CCCD", func(e *Employee) **shared.Date { return &e.NgayCapCCCD }),
	textColumn("Số hiệu quân nhân", 18, func(e *Employee) *string { return &e.SoHieuQuanNhan }),
	dateColumn("Ngày nhập ngũ", func(e *Employee) **shared.Date { return &e.NgayNhapNgu }),
	dateColumn("Ngày xuất ngũ", func(e *Employee) **shared.Date { return &e.NgayXuatNgu }),
	dateColumn("Ngày vào Đảng", func(e *Employee) **shared.Date { return &e.NgayVaoDang }),
	dateColumn("Ngày chính thức", func(e *Employee) **shared.Date { return &e.NgayChinhThuc }),
	textColumn("Quê quán", 24, func(e *Employee) *string { return &e.QueQuan }),
	textColumn("Nơi ở hiện nay", 28, func(e *Employee) *string { return &e.NoiOHienNay }),
	textColumn("Số điện thoại", 14, func(e *Employee) *string { return &e.SoDienThoai }),
	textColumn("Trình độ chuyên môn", 20, func(e *Employee) *string { return &e.TrinhDoChuyenMon }),
	textColumn("Khoa/Phòng", 18, func(e *Employee) *string { return &e.KhoaPhong }),
	textColumn("Đối tượng", 14, func(e *Employee) *string { return &e.DoiTuong }),
	dateColumn("Ngày về đơn vị", func(e *Employee) **shared.Date { return &e.NgayVeDonVi }),
	textColumn("Trạng thái", 16, func(e *Employee) *string { return &e.TrangThai }),
	textColumn("Ghi chú", 30, func(e *Employee) *string { return &e.GhiChu }),
}

func TemplateHeaders() []string {
	headers := make([]string, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, col.header)
	}
	return headers
}

func sheetLayout(name string) spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{Name: name}
	for _, col := range columns {
		sheet.Headers = append(sheet.Headers, col.header)
		sheet.Widths = append(sheet.Widths, col.width)
	}
	return sheet
}

// EmployeesFromRows maps template rows to employees. Rows without a name are
// skipped; rows without a category get defaultCategory.
func EmployeesFromRows(rows []spreadsheet.Row, defaultCategory string) []Employee {
	result := make([]Employee, 0, len(rows))
	for _, row := range rows {
		if row.Get("Họ và tên") == "" {
			continue
		}
		var employee Employee
		for _, col := range columns {
			col.set(&employee, row.Get(col.header))
		}
		if employee.DoiTuong == "" {
			employee.DoiTuong = defaultCategory
		}
		result = append(result, employee)
	}
	return result
}

func (s *Service) Template() ([]byte, error) {
	return spreadsheet.Write(sheetLayout("Nhân sự"))
}

// Import reads an xlsx upload and stores every named row.
func (s *Service) Import(ctx context.Context, rows []spreadsheet.Row, defaultCategory string) (int, error) {
	return s.BulkCreate(ctx, EmployeesFromRows(rows, defaultCategory))
}

// Export writes every employee matching filter (ignoring pagination).
func (s *Service) Export(ctx context.Context, filter ListFilter) ([]byte, error) {
	filter.Limit = 0
	filter.Offset = 0
	employees, _, err := s.repo.ListEmployees(ctx, filter)
	if err != nil {
		return nil, err
	}

	sheet := sheetLayout("Nhân sự")
	sheet.Rows = make([][]any, 0, len(employees))
	for i := range employees {
		row := make([]any, 0, len(columns))
		for _, col := range columns {
			row = append(row, col.get(&employees[i]))
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return spreadsheet.Write(sheet)
}
