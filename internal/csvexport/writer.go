package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"edifika/internal/domain"
	"edifika/internal/proposal"
)

// BOM is the UTF-8 byte order mark, written first for Excel compatibility on
// Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// itemColumns defines the CSV header row for line-item exports.
var itemColumns = []string{
	"Proposal",
	"Status",
	"Category",
	"Description",
	"Unit",
	"Quantity",
	"Unit Price",
	"Total",
}

// WriteProposalItems streams a proposal's line items as CSV, one row per
// item, prefixed with the UTF-8 BOM.
func WriteProposalItems(w io.Writer, p *domain.Proposal, items []proposal.Item) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(itemColumns); err != nil {
		return err
	}
	for i := range items {
		if err := cw.Write(itemToRow(p, &items[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func itemToRow(p *domain.Proposal, item *proposal.Item) []string {
	return []string{
		p.Title,
		string(p.Status),
		item.Category,
		item.Description,
		item.Unit,
		formatNumber(item.Quantity),
		formatMoney(item.UnitPrice),
		formatMoney(item.Total),
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
