package catalog

import "testing"

func TestSignature(t *testing.T) {
	t.Parallel()

	base := Signature("Coca-Cola", "BOISSONS")
	variants := []struct{ name, category string }{
		{"coca-cola", "boissons"},
		{"  Coca-Cola  ", "BOISSONS"},
		{"COCA-COLA", " Boissons "},
	}
	for _, v := range variants {
		if got := Signature(v.name, v.category); got != base {
			t.Fatalf("Signature(%q, %q) = %q, want %q", v.name, v.category, got, base)
		}
	}

	if Signature("Coca-Cola", "BOISSONS") == Signature("Coca-Cola", "ALIMENTAIRE") {
		t.Fatalf("category must discriminate signatures")
	}
}

func TestDefaultMinStock(t *testing.T) {
	t.Parallel()

	cases := []struct{ stock, want int }{
		{0, 5},
		{-3, 5},
		{10, 5},
		{24, 5},
		{25, 5},
		{26, 6},
		{100, 20},
		{101, 21},
	}
	for _, tc := range cases {
		if got := DefaultMinStock(tc.stock); got != tc.want {
			t.Fatalf("DefaultMinStock(%d) = %d, want %d", tc.stock, got, tc.want)
		}
	}
}
