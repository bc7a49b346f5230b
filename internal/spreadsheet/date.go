package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const isoDate = "2006-01-02"

// ProcessDate normalizes a spreadsheet date cell to YYYY-MM-DD.
// Excel serial numbers (numeric or numeric text) count days from 1899-12-30,
// DD/MM/YYYY text is reordered, ISO dates pass through. Anything else is nil.
func ProcessDate(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case time.Time:
		if v.IsZero() {
			return nil
		}
		formatted := v.Format(isoDate)
		return &formatted
	case string:
		return fromText(v)
	default:
		return fromText(fmt.Sprint(v))
	}
}

func fromSerial(serial float64) *string {
	if serial <= 0 {
		return nil
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil
	}
	formatted := parsed.Format(isoDate)
	return &formatted
}

func fromText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		return fromSerial(serial)
	}

	if strings.Contains(value, "/") {
		parts := strings.Split(value, "/")
		if len(parts) != 3 {
			return nil
		}
		day, errDay := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errMonth := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, errYear := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errDay != nil || errMonth != nil || errYear != nil {
			return nil
		}
		parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes 31/02 into March; reject instead.
		if parsed.Day() != day || int(parsed.Month()) != month || parsed.Year() != year {
			return nil
		}
		formatted := parsed.Format(isoDate)
		return &formatted
	}

	if parsed, err := time.Parse(isoDate, value); err == nil {
		formatted := parsed.Format(isoDate)
		return &formatted
	}

	return nil
}
