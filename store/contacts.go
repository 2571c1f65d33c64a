// ABOUTME: Contact mutations on the document store
// ABOUTME: Create, update, delete and select contacts while keeping the selection valid
package store

import (
	"strings"
	"time"

	"github.com/harperreed/simplecrm/models"
)

// CreateContact inserts a placeholder contact at the front and selects it.
func (s *Store) CreateContact() (string, error) {
	return s.CreateContactWith(ContactPatch{})
}

// CreateContactWith creates a contact with the provided fields already set,
// in a single save. Fields left nil keep their placeholder values.
func (s *Store) CreateContactWith(patch ContactPatch) (string, error) {
	id, _, err := s.apply(OpCreateContact, func(doc *models.Document, now time.Time) (string, bool, error) {
		ts := models.Timestamp(now)
		c := models.Contact{
			ID:        models.NewID(),
			Name:      models.NewContactName,
			Deals:     []models.Deal{},
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		patch.applyTo(&c)
		doc.Contacts = append([]models.Contact{c}, doc.Contacts...)
		doc.SelectedID = models.Ref(c.ID)
		return c.ID, true, nil
	})
	return id, err
}

// UpdateContact overwrites the provided fields of a contact. A blank name is
// saved as the placeholder. Returns false when the contact does not exist.
func (s *Store) UpdateContact(id string, patch ContactPatch) (bool, error) {
	_, ok, err := s.apply(OpUpdateContact, func(doc *models.Document, now time.Time) (string, bool, error) {
		c := doc.Contact(id)
		if c == nil {
			return "", false, nil
		}
		patch.applyTo(c)
		c.Touch(now)
		return id, true, nil
	})
	return ok, err
}

// applyTo copies the set fields onto c. A blank name becomes the placeholder.
func (p ContactPatch) applyTo(c *models.Contact) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
		if c.Name == "" {
			c.Name = models.PlaceholderName
		}
	}
	setTrimmed(&c.Company, p.Company)
	setTrimmed(&c.Email, p.Email)
	setTrimmed(&c.Phone, p.Phone)
	setTrimmed(&c.Notes, p.Notes)
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// DeleteContact removes the contact and its deals. Tasks that pointed at it
// keep their now-dangling reference.
func (s *Store) DeleteContact(id string) (bool, error) {
	_, ok, err := s.apply(OpDeleteContact, func(doc *models.Document, _ time.Time) (string, bool, error) {
		i := doc.ContactIndex(id)
		if i < 0 {
			return "", false, nil
		}
		doc.Contacts = append(doc.Contacts[:i], doc.Contacts[i+1:]...)
		if string(doc.SelectedID) == id {
			doc.SelectFirst()
		}
		return id, true, nil
	})
	return ok, err
}

// SelectContact points the selection at id, or clears it when id is empty.
// Unknown ids are ignored.
func (s *Store) SelectContact(id string) (bool, error) {
	_, ok, err := s.apply(OpSelectContact, func(doc *models.Document, _ time.Time) (string, bool, error) {
		if id != "" && doc.ContactIndex(id) < 0 {
			return "", false, nil
		}
		doc.SelectedID = models.Ref(id)
		return id, true, nil
	})
	return ok, err
}
