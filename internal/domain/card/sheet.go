package card

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
	"hospital-admin-go/internal/spreadsheet"
)

// Export headers. Import also accepts the English names.
var (
	headerSoThe         = []string{"Số thẻ", "Card Number"}
	headerBenhNhan      = []string{"Tên bệnh nhân", "Patient Name"}
	headerNguoiCham     = []string{"Người chăm", "Caregiver"}
	headerSoDienThoai   = []string{"Số điện thoại", "Phone"}
	headerKhoaPhong     = []string{"Khoa/Phòng", "Department"}
	headerTienCoc       = []string{"Tiền cọc", "Deposit"}
	headerNgayMuon      = []string{"Ngày mượn", "Borrow Date"}
	headerNgayTra       = []string{"Ngày trả", "Return Date"}
	headerTrangThai     = []string{"Trạng thái", "Status"}
	headerTienMuon      = []string{"Trạng thái tiền mượn", "Borrow Deposit Handover"}
	headerTienTra       = []string{"Trạng thái tiền trả", "Return Deposit Handover"}
	headerGhiChu        = []string{"Ghi chú", "Note"}
	recordSheetHeaders  = [][]string{headerSoThe, headerBenhNhan, headerNguoiCham, headerSoDienThoai, headerKhoaPhong, headerTienCoc, headerNgayMuon, headerNgayTra, headerTrangThai, headerTienMuon, headerTienTra, headerGhiChu}
	recordSheetWidths   = []float64{12, 26, 24, 14, 18, 12, 18, 18, 16, 20, 20, 30}
	recordTimestampForm = "02/01/2006 15:04"
)

func (s *Service) ExportRecords(ctx context.Context, filter RecordFilter) ([]byte, error) {
	records, err := s.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	sheet := spreadsheet.Sheet{Name: "Mượn thẻ", Widths: recordSheetWidths}
	for _, names := range recordSheetHeaders {
		sheet.Headers = append(sheet.Headers, names[0])
	}
	for _, record := range records {
		var returnedAt any
		if record.NgayTra != nil {
			returnedAt = record.NgayTra.In(s.loc).Format(recordTimestampForm)
		}
		sheet.Rows = append(sheet.Rows, []any{
			record.SoThe,
			record.TenBenhNhan,
			record.TenNguoiCham,
			record.SoDienThoai,
			record.KhoaPhong,
			record.TienCoc,
			record.NgayMuon.In(s.loc).Format(recordTimestampForm),
			returnedAt,
			record.TrangThai,
			record.TrangThaiTienMuon,
			record.TrangThaiTienTra,
			record.GhiChu,
		})
	}
	return spreadsheet.Write(sheet)
}

// RecordsFromRows maps spreadsheet rows to lending records. Rows without a
// card number or patient name are skipped.
func (s *Service) RecordsFromRows(rows []spreadsheet.Row, actor string) []CardRecord {
	result := make([]CardRecord, 0, len(rows))
	for _, row := range rows {
		soThe := row.Get(headerSoThe...)
		patient := row.Get(headerBenhNhan...)
		if soThe == "" || patient == "" {
			continue
		}

		record := CardRecord{
			ID:                uuid.NewString(),
			SoThe:             soThe,
			TenBenhNhan:       patient,
			TenNguoiCham:      row.Get(headerNguoiCham...),
			SoDienThoai:       row.Get(headerSoDienThoai...),
			KhoaPhong:         row.Get(headerKhoaPhong...),
			TienCoc:           parseMoney(row.Get(headerTienCoc...)),
			NgayMuon:          s.now(),
			TrangThai:         RecordBorrowing,
			NguoiChoMuon:      actor,
			TrangThaiTienMuon: handoverOrPending(row.Get(headerTienMuon...)),
			TrangThaiTienTra:  handoverOrPending(row.Get(headerTienTra...)),
			GhiChu:            row.Get(headerGhiChu...),
		}
		if borrowed, ok := s.parseTimestamp(row.Get(headerNgayMuon...)); ok {
			record.NgayMuon = borrowed
		}
		if returned, ok := s.parseTimestamp(row.Get(headerNgayTra...)); ok {
			record.NgayTra = &returned
		}
		if status := row.Get(headerTrangThai...); status == RecordReturned || record.NgayTra != nil {
			record.TrangThai = RecordReturned
		}
		result = append(result, record)
	}
	return result
}

func (s *Service) ImportRecords(ctx context.Context, rows []spreadsheet.Row, actor string) (int, error) {
	records := s.RecordsFromRows(rows, strings.TrimSpace(actor))
	if len(records) == 0 {
		return 0, ErrEmptyImport
	}
	if err := s.repo.CreateRecords(ctx, records); err != nil {
		return 0, err
	}
	s.notifier.Notify(ctx, recordsTable, shared.ActionInsert, "")
	return len(records), nil
}

func (s *Service) parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.ParseInLocation(recordTimestampForm, value, s.loc); err == nil {
		return parsed, true
	}
	day := spreadsheet.ProcessDate(value)
	if day == nil {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("2006-01-02", *day, s.loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func parseMoney(value string) int64 {
	value = strings.NewReplacer(".", "", ",", "", " ", "", "đ", "", "VND", "").Replace(value)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func handoverOrPending(value string) string {
	if value == HandoverDone {
		return HandoverDone
	}
	return HandoverPending
}
