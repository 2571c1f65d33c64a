// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for creating, listing, editing and selecting contacts
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
)

// AddContactCommand adds a new contact and selects it.
func AddContactCommand(s *store.Store, args []string) error {
	fs := newFlagSet("add-contact")
	name := fs.String("name", "", "Contact name (default: New Contact)")
	company := fs.String("company", "", "Company name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	notes := fs.String("notes", "", "Notes about the contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := s.CreateContactWith(store.ContactPatch{
		Name:    optionalString(fs, "name", name),
		Company: optionalString(fs, "company", company),
		Email:   optionalString(fs, "email", email),
		Phone:   optionalString(fs, "phone", phone),
		Notes:   optionalString(fs, "notes", notes),
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	c := s.Snapshot().Contact(id)
	printf("✓ Contact created: %s (ID: %s)\n", c.DisplayName(), c.ID)
	if c.Company != "" {
		printf("  Company: %s\n", c.Company)
	}
	if c.Email != "" {
		printf("  Email: %s\n", c.Email)
	}
	if c.Phone != "" {
		printf("  Phone: %s\n", c.Phone)
	}
	return nil
}

// ListContactsCommand lists contacts, optionally filtered and sorted.
func ListContactsCommand(s *store.Store, args []string) error {
	fs := newFlagSet("list-contacts")
	q := fs.String("query", "", "Search name, company, email and phone")
	sortBy := fs.String("sort", "updated", "Sort order: updated, name or company")
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, ok := query.ParseContactSort(*sortBy)
	if !ok {
		return fmt.Errorf("invalid sort %q: expected updated, name or company", *sortBy)
	}

	doc := s.Snapshot()
	contacts := query.SortContacts(query.SearchContacts(doc.Contacts, *q), key)
	if len(contacts) == 0 {
		printf("No contacts found\n")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tNAME\tCOMPANY\tEMAIL\tDEALS\tOPEN\tID")
	_, _ = fmt.Fprintln(w, " \t----\t-------\t-----\t-----\t----\t--")
	for _, c := range contacts {
		marker := " "
		if string(doc.SelectedID) == c.ID {
			marker = "*"
		}
		summary := query.SummarizeContact(c)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			marker, c.DisplayName(), dash(c.Company), dash(c.Email), summary.DealCount, summary.OpenCount, c.ID)
	}
	_ = w.Flush()

	printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// ShowContactCommand prints one contact with its deals. Without an ID it shows the selection.
func ShowContactCommand(s *store.Store, args []string) error {
	fs := newFlagSet("show-contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := s.Snapshot()
	c := query.SelectedContact(doc)
	if fs.NArg() > 0 {
		c = doc.Contact(fs.Arg(0))
		if c == nil {
			return fmt.Errorf("contact not found: %s", fs.Arg(0))
		}
	}
	if c == nil {
		printf("No contact selected\n")
		return nil
	}

	printf("%s\n", c.DisplayName())
	printf("  ID:      %s\n", c.ID)
	printf("  Company: %s\n", dash(c.Company))
	printf("  Email:   %s\n", dash(c.Email))
	printf("  Phone:   %s\n", dash(c.Phone))
	if c.Notes != "" {
		printf("  Notes:   %s\n", c.Notes)
	}
	printf("  Updated: %s\n", c.UpdatedAt)

	if len(c.Deals) == 0 {
		printf("\nNo deals yet.\n")
		return nil
	}

	printf("\n")
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DEAL\tVALUE\tSTAGE\tCLOSE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t-----\t--")
	for _, d := range c.Deals {
		value := "-"
		if v := query.FormatDealValue(d.Value); v != "" {
			value = "$" + v
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Title, value, d.Stage.Label(), dash(d.CloseDate), d.ID)
	}
	return w.Flush()
}

// UpdateContactCommand overwrites the fields given as flags.
func UpdateContactCommand(s *store.Store, args []string) error {
	fs := newFlagSet("update-contact")
	name := fs.String("name", "", "Contact name")
	company := fs.String("company", "", "Company name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	notes := fs.String("notes", "", "Notes about the contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	patch := store.ContactPatch{
		Name:    optionalString(fs, "name", name),
		Company: optionalString(fs, "company", company),
		Email:   optionalString(fs, "email", email),
		Phone:   optionalString(fs, "phone", phone),
		Notes:   optionalString(fs, "notes", notes),
	}
	ok, err := s.UpdateContact(id, patch)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if !ok {
		return fmt.Errorf("contact not found: %s", id)
	}

	printf("✓ Contact updated: %s (ID: %s)\n", s.Snapshot().Contact(id).DisplayName(), id)
	return nil
}

// DeleteContactCommand deletes a contact together with its deals.
func DeleteContactCommand(s *store.Store, args []string) error {
	fs := newFlagSet("delete-contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	ok, err := s.DeleteContact(id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !ok {
		return fmt.Errorf("contact not found: %s", id)
	}

	printf("✓ Contact deleted: %s\n", id)
	return nil
}

// SelectContactCommand makes a contact the current selection. --clear removes the selection.
func SelectContactCommand(s *store.Store, args []string) error {
	fs := newFlagSet("select-contact")
	clearSelection := fs.Bool("clear", false, "Clear the selection")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id := ""
	if !*clearSelection {
		var err error
		if id, err = requireID(fs, "contact"); err != nil {
			return err
		}
	}

	ok, err := s.SelectContact(id)
	if err != nil {
		return fmt.Errorf("failed to select contact: %w", err)
	}
	if !ok {
		return fmt.Errorf("contact not found: %s", id)
	}

	if id == "" {
		printf("✓ Selection cleared\n")
		return nil
	}
	printf("✓ Selected: %s\n", s.Snapshot().Contact(id).DisplayName())
	return nil
}
