package sheet

import (
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Produit", "produit"},
		{"Catégorie", "categorie"},
		{"Qté", "qte"},
		{"  Prix Unitaire  ", "prix unitaire"},
		{"MONTANT (TTC)", "montant ttc"},
		{"Date_vente", "date vente"},
		{"Vendeur / Vendeuse", "vendeur vendeuse"},
	}
	for _, tc := range cases {
		if got := NormalizeHeader(tc.in); got != tc.want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapHeaders_FrenchSalesExport(t *testing.T) {
	t.Parallel()

	headers := []string{"Produit", "Catégorie", "Caisse", "Date", "Vendeur", "Qté", "Montant"}
	m := MapHeaders(headers, SchemaSales)

	if missing := m.MissingRequired(); len(missing) != 0 {
		t.Fatalf("unexpected missing fields: %v", missing)
	}
	checks := map[string]Field{
		"Produit":   FieldProduct,
		"Catégorie": FieldCategory,
		"Caisse":    FieldRegister,
		"Qté":       FieldQuantity,
		"Montant":   FieldAmount,
	}
	for header, want := range checks {
		if got := m.Fields[header]; got != want {
			t.Fatalf("header %q mapped to %q, want %q", header, got, want)
		}
	}
}

func TestMapHeaders_ContainmentPrefersLongerSynonym(t *testing.T) {
	t.Parallel()

	m := MapHeaders([]string{"Prix unitaire HT"}, SchemaSales)
	if got := m.Fields["Prix unitaire HT"]; got != FieldPrice {
		t.Fatalf("mapped to %q, want %q", got, FieldPrice)
	}
}

func TestMapHeaders_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	headers := []string{"Produit", "Catégorie", "Caisse", "Date", "Qté", "Montant"}
	m := MapHeaders(headers, SchemaSales)

	missing := m.MissingRequired()
	if len(missing) != 1 || missing[0] != FieldSeller {
		t.Fatalf("missing = %v, want [seller]", missing)
	}
}

func TestMapHeaders_UnknownHeaderGetsFallback(t *testing.T) {
	t.Parallel()

	m := MapHeaders([]string{"zz_custom_col"}, SchemaSales)
	if len(m.Fields) != 0 {
		t.Fatalf("unexpected mapping: %v", m.Fields)
	}
	if _, ok := m.Unmapped["zz_custom_col"]; !ok {
		t.Fatalf("expected fallback entry for unknown header")
	}

	suggestions := m.Suggestions()
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %v, want one entry", suggestions)
	}
}

func TestMapHeaders_StockSchema(t *testing.T) {
	t.Parallel()

	headers := []string{"Produit", "Famille", "Date", "Stock", "Seuil alerte"}
	m := MapHeaders(headers, SchemaStock)

	if missing := m.MissingRequired(); len(missing) != 0 {
		t.Fatalf("unexpected missing fields: %v", missing)
	}
	if got := m.Fields["Stock"]; got != FieldQuantity {
		t.Fatalf("Stock mapped to %q, want quantity", got)
	}
	if got := m.Fields["Seuil alerte"]; got != FieldMinStock {
		t.Fatalf("Seuil alerte mapped to %q, want minStock", got)
	}
}
