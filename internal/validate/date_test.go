package validate

import (
	"testing"
	"time"

	"recount/internal/model"
)

func TestDate_TextFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15-03-2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 14:30:00", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/03/15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, findings := Date(model.TextCell(tc.in))
		if len(findings) != 0 {
			t.Fatalf("Date(%q) findings: %v", tc.in, findings)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("Date(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDate_ExcelSerial(t *testing.T) {
	t.Parallel()

	// Serial 2 is 1900-01-01; the epoch accounts for the 1900 leap bug.
	got, findings := Date(model.NumberCell(2))
	if len(findings) != 0 {
		t.Fatalf("findings: %v", findings)
	}
	want := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("serial 2 = %v, want %v", got, want)
	}

	// 45366 is 2024-03-15.
	got, findings = Date(model.NumberCell(45366.75))
	if len(findings) != 0 {
		t.Fatalf("findings: %v", findings)
	}
	want = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("serial 45366.75 = %v, want %v", got, want)
	}
}

func TestDate_Rejections(t *testing.T) {
	t.Parallel()

	if _, findings := Date(model.TextCell("pas une date")); !Blocking(findings) {
		t.Fatalf("garbage text must block")
	}
	if _, findings := Date(model.NumberCell(1)); !Blocking(findings) {
		t.Fatalf("serial below range must block")
	}
	if _, findings := Date(model.NumberCell(3000000)); !Blocking(findings) {
		t.Fatalf("serial above range must block")
	}
	if _, findings := Date(model.EmptyCell()); !Blocking(findings) {
		t.Fatalf("empty cell must block")
	}
}
