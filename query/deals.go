// ABOUTME: Deal filtering and flattening across contacts
// ABOUTME: Used by the deal list, the CSV report and the pipeline graph
package query

import (
	"strings"

	"github.com/harperreed/simplecrm/models"
)

// StageAll disables stage filtering.
const StageAll = "all"

// FilterDeals keeps the deals in stage, or all of them for "all" or "".
func FilterDeals(deals []models.Deal, stage string) []models.Deal {
	stage = strings.ToLower(strings.TrimSpace(stage))
	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if stage == "" || stage == StageAll || string(d.Stage) == stage {
			out = append(out, d)
		}
	}
	return out
}

// DealRow is a deal together with its owning contact.
type DealRow struct {
	ContactID   string
	ContactName string
	Company     string
	Deal        models.Deal
}

// AllDeals flattens every contact's deals in document order.
func AllDeals(doc *models.Document) []DealRow {
	var rows []DealRow
	for _, c := range doc.Contacts {
		for _, d := range c.Deals {
			rows = append(rows, DealRow{
				ContactID:   c.ID,
				ContactName: c.Name,
				Company:     c.Company,
				Deal:        d,
			})
		}
	}
	return rows
}
