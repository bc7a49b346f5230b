package card

import (
	"fmt"
	"strings"
	"time"
)

type DateBucket string

const (
	BucketAll       DateBucket = ""
	BucketToday     DateBucket = "today"
	BucketYesterday DateBucket = "yesterday"
	BucketDaysAgo   DateBucket = "days_ago"
	BucketRange     DateBucket = "range"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusBorrowing StatusFilter = "borrowing"
	StatusReturned  StatusFilter = "returned"
)

// RecordFilter combines the three list filters. Dates are compared as
// calendar days of ngay_muon in Location.
type RecordFilter struct {
	Search   string
	Bucket   DateBucket
	DaysAgo  int
	From     *time.Time
	To       *time.Time
	Status   StatusFilter
	Now      time.Time
	Location *time.Location
}

type recordPredicate func(CardRecord) bool

// Filter applies search, date bucket and status as successive passes. Each
// pass is independent of the others so their order does not matter.
func Filter(records []CardRecord, filter RecordFilter) []CardRecord {
	result := records
	for _, keep := range filter.predicates() {
		result = apply(result, keep)
	}
	if result == nil {
		return []CardRecord{}
	}
	return result
}

func (f RecordFilter) predicates() []recordPredicate {
	return []recordPredicate{f.matchSearch, f.matchBucket, f.matchStatus}
}

func apply(records []CardRecord, keep recordPredicate) []CardRecord {
	result := make([]CardRecord, 0, len(records))
	for _, record := range records {
		if keep(record) {
			result = append(result, record)
		}
	}
	return result
}

func (f RecordFilter) matchSearch(record CardRecord) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.TenBenhNhan), term) ||
		strings.Contains(strings.ToLower(record.TenNguoiCham), term) ||
		strings.Contains(strings.ToLower(record.SoThe), term)
}

func (f RecordFilter) matchStatus(record CardRecord) bool {
	switch f.Status {
	case StatusBorrowing:
		return record.TrangThai == RecordBorrowing
	case StatusReturned:
		return record.TrangThai == RecordReturned
	default:
		return true
	}
}

func (f RecordFilter) matchBucket(record CardRecord) bool {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := startOfDay(now, loc)
	day := startOfDay(record.NgayMuon, loc)

	switch f.Bucket {
	case BucketToday:
		return day.Equal(today)
	case BucketYesterday:
		return day.Equal(today.AddDate(0, 0, -1))
	case BucketDaysAgo:
		return day.Equal(today.AddDate(0, 0, -f.DaysAgo))
	case BucketRange:
		if f.From != nil && day.Before(startOfDay(*f.From, loc)) {
			return false
		}
		if f.To != nil && day.After(startOfDay(*f.To, loc)) {
			return false
		}
		return true
	default:
		return true
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DuplicateWarning reports active borrows whose patient name contains name,
// ignoring case. It returns "" when nothing matches. The warning is advisory
// and never blocks a borrow.
func DuplicateWarning(records []CardRecord, name string, loc *time.Location) string {
	term := strings.ToLower(strings.TrimSpace(name))
	if term == "" {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}

	var matches []string
	for _, record := range records {
		if !record.IsBorrowing() {
			continue
		}
		if !strings.Contains(strings.ToLower(record.TenBenhNhan), term) {
			continue
		}
		matches = append(matches, fmt.Sprintf("thẻ %s (%s, mượn lúc %s)",
			record.SoThe, record.TenBenhNhan, record.NgayMuon.In(loc).Format("02/01/2006 15:04")))
	}
	if len(matches) == 0 {
		return ""
	}
	return "Cảnh báo: bệnh nhân này đang mượn " + strings.Join(matches, "; ")
}
