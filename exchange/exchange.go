// ABOUTME: JSON backup and CSV deal report, plus parsing of imported backups
// ABOUTME: Exports are byte-stable for a given document and re-import cleanly
package exchange

import (
	"encoding/json"
	"strings"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/storage"
)

const (
	JSONFileName = "simple-crm-export.json"
	CSVFileName  = "crm-deals.csv"
)

// CSVHeader is the first line of the deal report.
var CSVHeader = []string{"Contact", "Company", "Deal", "Value", "Stage", "Close Date"}

// ExportJSON serializes the whole document with two-space indentation.
func ExportJSON(doc *models.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ExportCSV renders one row per deal across all contacts. Every data cell is
// quoted with embedded quotes doubled; the stage column carries the label.
func ExportCSV(doc *models.Document) string {
	lines := []string{strings.Join(CSVHeader, ",")}
	for _, row := range query.AllDeals(doc) {
		cells := []string{
			row.ContactName,
			row.Company,
			row.Deal.Title,
			row.Deal.Value.String(),
			row.Deal.Stage.Label(),
			row.Deal.CloseDate,
		}
		for i, cell := range cells {
			cells[i] = quote(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// ParseDocument validates an imported backup. The contacts field must be an
// array; a missing or stale selection falls back to the first contact and a
// missing task list to empty.
func ParseDocument(data []byte) (*models.Document, error) {
	doc, err := storage.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.SelectedID == "" {
		doc.SelectFirst()
	}
	return doc, nil
}
