// ABOUTME: Contact search, ordering and per-contact summaries
// ABOUTME: Pure functions over document data, recomputed on every call
package query

import (
	"sort"
	"strings"

	"github.com/harperreed/simplecrm/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ContactSort selects the contact list ordering.
type ContactSort string

const (
	SortName    ContactSort = "nameAsc"
	SortCompany ContactSort = "companyAsc"
	SortUpdated ContactSort = "updatedDesc"
)

// ContactSorts lists the orderings in picker order.
var ContactSorts = []ContactSort{SortUpdated, SortName, SortCompany}

// ParseContactSort accepts the canonical keys and the short forms name, company and updated.
func ParseContactSort(raw string) (ContactSort, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "nameasc", "name":
		return SortName, true
	case "companyasc", "company":
		return SortCompany, true
	case "updateddesc", "updated", "":
		return SortUpdated, true
	default:
		return SortUpdated, false
	}
}

// SearchContacts returns the contacts whose name, company, email or phone
// contains q, ignoring case. A blank query matches everything.
func SearchContacts(contacts []models.Contact, q string) []models.Contact {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if q == "" || strings.Contains(haystack(c), q) {
			out = append(out, c)
		}
	}
	return out
}

func haystack(c models.Contact) string {
	return strings.ToLower(strings.Join([]string{c.Name, c.Company, c.Email, c.Phone}, " "))
}

// SortContacts returns a sorted copy. Ties keep their input order.
func SortContacts(contacts []models.Contact, key ContactSort) []models.Contact {
	out := append([]models.Contact(nil), contacts...)
	switch key {
	case SortName, SortCompany:
		col := collate.New(language.Und)
		field := func(c models.Contact) string { return c.Name }
		if key == SortCompany {
			field = func(c models.Contact) string { return c.Company }
		}
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(field(out[i]), field(out[j])) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt > out[j].UpdatedAt
		})
	}
	return out
}

// ContactSummary is what a contact card shows about its deals.
type ContactSummary struct {
	DealCount int
	OpenCount int
}

func SummarizeContact(c models.Contact) ContactSummary {
	s := ContactSummary{DealCount: len(c.Deals)}
	for _, d := range c.Deals {
		if d.IsOpen() {
			s.OpenCount++
		}
	}
	return s
}

// SelectedContact returns the selected contact, or nil when nothing is selected.
func SelectedContact(doc *models.Document) *models.Contact {
	return doc.Contact(string(doc.SelectedID))
}

// TaskContact resolves the contact a task links to. Missing and dangling
// links both resolve to nil.
func TaskContact(doc *models.Document, t models.Task) *models.Contact {
	return doc.Contact(string(t.ContactID))
}
