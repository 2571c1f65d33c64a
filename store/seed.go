// ABOUTME: Default example data for an empty document
// ABOUTME: Two contacts with one deal each, first one selected
package store

import (
	"time"

	"github.com/harperreed/simplecrm/models"
)

// SeedDocument returns a fresh document holding only the example contacts.
func SeedDocument(now time.Time) *models.Document {
	doc := models.NewDocument()
	seedContacts(doc, now)
	return doc
}

// seedContacts replaces the contacts of doc with the example records and selects the
// first. Existing tasks are kept.
func seedContacts(doc *models.Document, now time.Time) {
	ts := models.Timestamp(now)
	doc.Contacts = []models.Contact{
		{
			ID:      models.NewID(),
			Name:    "ACME Corp",
			Company: "ACME Corp",
			Email:   "ops@acme.example",
			Notes:   "Intro call done. Next: demo.",
			Deals: []models.Deal{
				{ID: models.NewID(), Title: "Pilot - ACME", Value: models.NewDealValue(15000), Stage: models.StageQualified},
			},
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			ID:      models.NewID(),
			Name:    "Jane Doe",
			Company: "Nimbus Labs",
			Email:   "jane@nimbus.example",
			Notes:   "Interested in pricing. Send proposal.",
			Deals: []models.Deal{
				{ID: models.NewID(), Title: "Expansion - Nimbus", Value: models.NewDealValue(42000), Stage: models.StageProposal},
			},
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}
	doc.SelectedID = models.Ref(doc.Contacts[0].ID)
	if doc.Tasks == nil {
		doc.Tasks = []models.Task{}
	}
}

// Reset clears the storage slot and starts over from the example data.
func (s *Store) Reset() error {
	s.mu.Lock()
	if err := s.adapter.Clear(); err != nil {
		s.mu.Unlock()
		return err
	}
	fresh := SeedDocument(s.now())
	if err := s.adapter.Save(fresh); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = fresh
	s.mu.Unlock()

	s.logger.Info("document reset to example data")
	s.notify(Change{Op: OpReset})
	return nil
}
