package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"recount/internal/model"
	"recount/internal/sheet"
)

// Excel day-number epoch. Serial 2 is 1900-01-01: the 1899-12-30 epoch
// compensates for Excel treating 1900 as a leap year.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// excelSerialMax is 9999-12-31 as an Excel serial.
const excelSerialMax = 2958465

// Text layouts tried in order after the serial-number path.
var dateLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"2006-01-02", // ISO
	"02-01-2006", // DD-MM-YYYY
}

// Last-resort generic layouts.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006 15:04",
	"2.1.2006",
}

const acceptedFormats = "Excel serial number, DD/MM/YYYY, YYYY-MM-DD or DD-MM-YYYY"

// Date parses a date cell. Accepted inputs, tried in order: Excel serial
// day number, DD/MM/YYYY, ISO YYYY-MM-DD, DD-MM-YYYY, then a generic parse.
// First successful parse wins. The result is truncated to the day.
func Date(cell model.CellValue) (time.Time, []model.ValidationError) {
	if cell.IsEmpty() {
		return time.Time{}, []model.ValidationError{{
			Field:    string(sheet.FieldDate),
			Message:  "date is required",
			Severity: model.SeverityCritical,
		}}
	}

	if cell.Kind == model.CellNumber {
		if t, ok := fromExcelSerial(cell.Number); ok {
			return t, nil
		}
		return time.Time{}, []model.ValidationError{{
			Field:    string(sheet.FieldDate),
			RawValue: cell.String(),
			Message:  fmt.Sprintf("date serial out of range; accepted formats: %s", acceptedFormats),
			Severity: model.SeverityError,
		}}
	}

	raw := strings.TrimSpace(cell.Text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return day(t), nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return day(t), nil
		}
	}

	return time.Time{}, []model.ValidationError{{
		Field:    string(sheet.FieldDate),
		RawValue: cell.String(),
		Message:  fmt.Sprintf("unrecognized date %q; accepted formats: %s", raw, acceptedFormats),
		Severity: model.SeverityError,
	}}
}

// fromExcelSerial converts an Excel day number, dropping any time-of-day
// fraction.
func fromExcelSerial(serial float64) (time.Time, bool) {
	days := math.Trunc(serial)
	if days < 2 || days > excelSerialMax {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(days)), true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
