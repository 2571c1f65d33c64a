// ABOUTME: Deal CLI commands
// ABOUTME: Upsert, delete and list deals attached to contacts
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
)

// UpsertDealCommand creates a deal on a contact, or replaces one when --deal is given.
func UpsertDealCommand(s *store.Store, args []string) error {
	fs := newFlagSet("upsert-deal")
	contactID := fs.String("contact", "", "Contact ID (default: selected contact)")
	dealID := fs.String("deal", "", "Deal ID to replace")
	title := fs.String("title", "", "Deal title (required)")
	value := fs.String("value", "", "Deal value, rounded to a whole amount")
	stage := fs.String("stage", string(models.StageLead), "Stage: lead, qualified, proposal, won or lost")
	closeDate := fs.String("close-date", "", "Expected close date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := s.Snapshot()
	owner := doc.Contact(*contactID)
	if *contactID == "" {
		owner = query.SelectedContact(doc)
	}
	if owner == nil {
		if *contactID == "" {
			return fmt.Errorf("--contact is required when no contact is selected")
		}
		return fmt.Errorf("contact not found: %s", *contactID)
	}

	id, err := s.UpsertDeal(owner.ID, *dealID, store.DealInput{
		Title:     *title,
		Value:     *value,
		Stage:     models.Stage(*stage),
		CloseDate: *closeDate,
	})
	if err != nil {
		return fmt.Errorf("failed to save deal: %w", err)
	}
	if id == "" {
		return fmt.Errorf("contact not found: %s", owner.ID)
	}

	c := s.Snapshot().Contact(owner.ID)
	d := c.Deals[c.DealIndex(id)]
	verb := "created"
	if id == *dealID {
		verb = "updated"
	}
	printf("✓ Deal %s: %s (ID: %s)\n", verb, d.Title, d.ID)
	printf("  Contact: %s\n", c.DisplayName())
	printf("  Stage: %s\n", d.Stage.Label())
	if v := query.FormatDealValue(d.Value); v != "" {
		printf("  Value: $%s\n", v)
	}
	return nil
}

// DeleteDealCommand removes a deal from its contact.
func DeleteDealCommand(s *store.Store, args []string) error {
	fs := newFlagSet("delete-deal")
	contactID := fs.String("contact", "", "Contact ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dealID, err := requireID(fs, "deal")
	if err != nil {
		return err
	}
	if *contactID == "" {
		return fmt.Errorf("--contact is required")
	}

	ok, err := s.DeleteDeal(*contactID, dealID)
	if err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	if !ok {
		return fmt.Errorf("deal not found: %s", dealID)
	}

	printf("✓ Deal deleted: %s\n", dealID)
	return nil
}

// ListDealsCommand lists deals across contacts, optionally by stage.
func ListDealsCommand(s *store.Store, args []string) error {
	fs := newFlagSet("list-deals")
	stage := fs.String("stage", query.StageAll, "Stage filter or all")
	contactID := fs.String("contact", "", "Only deals of this contact")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *stage != query.StageAll && *stage != "" {
		if _, ok := models.ParseStage(*stage); !ok {
			return fmt.Errorf("invalid stage %q", *stage)
		}
	}

	var rows []query.DealRow
	for _, row := range query.AllDeals(s.Snapshot()) {
		if *contactID != "" && row.ContactID != *contactID {
			continue
		}
		if len(query.FilterDeals([]models.Deal{row.Deal}, *stage)) == 0 {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		printf("No deals found\n")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tCONTACT\tVALUE\tSTAGE\tCLOSE\tID")
	_, _ = fmt.Fprintln(w, "-----\t-------\t-----\t-----\t-----\t--")
	for _, row := range rows {
		value := "-"
		if v := query.FormatDealValue(row.Deal.Value); v != "" {
			value = "$" + v
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Deal.Title, dash(row.ContactName), value, row.Deal.Stage.Label(), dash(row.Deal.CloseDate), row.Deal.ID)
	}
	_ = w.Flush()

	printf("\nTotal: %d deal(s)\n", len(rows))
	return nil
}
