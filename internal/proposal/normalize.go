package proposal

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"edifika/internal/domain"
)

// Fallback codes used when a raw value matches nothing in the catalog.
const (
	DefaultCategoryCode = "servicos"
	DefaultUnitCode     = "un"
)

// CatalogLookup normalizes free-text category and unit values from parsed
// documents into catalog codes. Matching is case-insensitive, ignores
// diacritics and runs in order: exact code, label, alias, then substring
// against labels and aliases.
type CatalogLookup struct {
	catCodes   map[string]string // lowercase code -> code
	catLabels  map[string]string // lowercase label/alias -> code
	unitCodes  map[string]string
	unitLabels map[string]string
}

// NewCatalogLookup builds a lookup from catalog rows.
func NewCatalogLookup(categories []domain.ItemCategory, units []domain.ItemUnit) *CatalogLookup {
	l := &CatalogLookup{
		catCodes:   make(map[string]string, len(categories)),
		catLabels:  make(map[string]string),
		unitCodes:  make(map[string]string, len(units)),
		unitLabels: make(map[string]string),
	}
	for _, c := range categories {
		l.catCodes[fold(c.Code)] = c.Code
		l.catLabels[fold(c.Label)] = c.Code
		for _, a := range splitAliases(c.Aliases) {
			l.catLabels[a] = c.Code
		}
	}
	for _, u := range units {
		l.unitCodes[fold(u.Code)] = u.Code
		l.unitLabels[fold(u.Label)] = u.Code
		for _, a := range splitAliases(u.Aliases) {
			l.unitLabels[a] = u.Code
		}
	}
	return l
}

// NormalizeCategory maps a raw category value to a catalog code, falling back
// to DefaultCategoryCode when nothing matches.
func (l *CatalogLookup) NormalizeCategory(raw string) string {
	return normalize(raw, l.catCodes, l.catLabels, DefaultCategoryCode)
}

// NormalizeUnit maps a raw unit value to a catalog code, falling back to
// DefaultUnitCode when nothing matches.
func (l *CatalogLookup) NormalizeUnit(raw string) string {
	return normalize(raw, l.unitCodes, l.unitLabels, DefaultUnitCode)
}

func normalize(raw string, codes, labels map[string]string, fallback string) string {
	key := fold(raw)
	if key == "" {
		return fallback
	}
	if code, ok := codes[key]; ok {
		return code
	}
	if code, ok := labels[key]; ok {
		return code
	}
	for label, code := range labels {
		if strings.Contains(key, label) || strings.Contains(label, key) {
			return code
		}
	}
	return fallback
}

func splitAliases(aliases string) []string {
	if aliases == "" {
		return nil
	}
	parts := strings.Split(aliases, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = fold(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fold lowercases, trims and strips diacritics so "Serviço" and "servico"
// compare equal. NFKD also folds compatibility forms, so "m²" becomes "m2".
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// BuiltinCategories returns the category catalog the firm starts with. The
// seed command and tests use it; production reads the database.
func BuiltinCategories() []domain.ItemCategory {
	return []domain.ItemCategory{
		{Code: "materiais", Label: "Materiais", Aliases: "material,insumos,insumo"},
		{Code: "mao_de_obra", Label: "Mão de obra", Aliases: "mao de obra,mão-de-obra,labor"},
		{Code: "servicos", Label: "Serviços", Aliases: "servico,serviço,service"},
		{Code: "equipamentos", Label: "Equipamentos", Aliases: "equipamento,locação,locacao,aluguel"},
	}
}

// BuiltinUnits returns the unit catalog the firm starts with.
func BuiltinUnits() []domain.ItemUnit {
	return []domain.ItemUnit{
		{Code: "un", Label: "Unidade", Aliases: "und,unid,pc,peça,peca"},
		{Code: "m2", Label: "Metro quadrado", Aliases: "m²,metro quadrado"},
		{Code: "m3", Label: "Metro cúbico", Aliases: "m³,metro cubico,metro cúbico"},
		{Code: "m", Label: "Metro linear", Aliases: "ml,metro"},
		{Code: "kg", Label: "Quilograma", Aliases: "quilo,kilo"},
		{Code: "h", Label: "Hora", Aliases: "hora,hr,hs"},
		{Code: "dia", Label: "Diária", Aliases: "diaria,diária"},
		{Code: "vb", Label: "Verba", Aliases: "verba,global,gb"},
	}
}
