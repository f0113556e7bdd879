// Command seedcatalog converts the firm's catalog Excel file into a SQL seed
// file. Reads the Categorias and Unidades sheets.
// Usage: go run ./cmd/seedcatalog [catalog.xlsx]
// Output: db/seeds/catalog.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type catalogEntry struct {
	code    string
	label   string
	aliases string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "catalog.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/catalog.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	categories, err := parseSheet(f, "Categorias")
	if err != nil {
		return fmt.Errorf("parse Categorias sheet: %w", err)
	}
	log.Printf("Categorias sheet: %d entries", len(categories))

	units, err := parseSheet(f, "Unidades")
	if err != nil {
		return fmt.Errorf("parse Unidades sheet: %w", err)
	}
	log.Printf("Unidades sheet: %d entries", len(units))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var b strings.Builder
	b.WriteString("-- Item catalog seed data generated from Excel.\n")
	fmt.Fprintf(&b, "-- %d categories, %d units.\n", len(categories), len(units))
	b.WriteString("BEGIN;\n\n")
	writeInserts(&b, "item_categories", categories)
	b.WriteString("\n")
	writeInserts(&b, "item_units", units)
	b.WriteString("\nCOMMIT;\n")

	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}

	log.Printf("Generated %d catalog entries in %s", len(categories)+len(units), outPath)
	return nil
}

// parseSheet reads a catalog sheet with columns A=code, B=label, C=aliases
// (comma-separated). Row 0 is the header.
func parseSheet(f *excelize.File, sheetName string) ([]catalogEntry, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []catalogEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		code := strings.ToLower(strings.TrimSpace(cellVal(row, 0)))
		label := strings.TrimSpace(cellVal(row, 1))
		if code == "" || label == "" || seen[code] {
			continue
		}
		seen[code] = true
		entries = append(entries, catalogEntry{
			code:    code,
			label:   label,
			aliases: normalizeAliases(cellVal(row, 2)),
		})
	}
	return entries, nil
}

func normalizeAliases(raw string) string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func writeInserts(b *strings.Builder, table string, entries []catalogEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "INSERT INTO %s (code, label, aliases) VALUES\n", table)
	for i := range entries {
		e := &entries[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "  ('%s', '%s', '%s')",
			escapeSQL(e.code), escapeSQL(e.label), escapeSQL(e.aliases))
	}
	b.WriteString("\nON CONFLICT (code) DO UPDATE SET label = EXCLUDED.label, aliases = EXCLUDED.aliases;\n")
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
