// ABOUTME: Deal mutations on the document store
// ABOUTME: Upserts and deletes deals owned by a contact
package store

import (
	"time"

	"github.com/harperreed/simplecrm/models"
)

// UpsertDeal replaces the deal with dealID on the contact, or inserts a new
// deal at the front when dealID is empty or unknown. It returns the deal id,
// or "" when the contact does not exist.
func (s *Store) UpsertDeal(contactID, dealID string, in DealInput) (string, error) {
	in = in.normalize()

	id, _, err := s.apply(OpUpsertDeal, func(doc *models.Document, now time.Time) (string, bool, error) {
		c := doc.Contact(contactID)
		if c == nil {
			return "", false, nil
		}
		if err := s.check(in); err != nil {
			return "", false, err
		}
		value, err := models.ParseDealValue(in.Value)
		if err != nil {
			return "", false, err
		}

		deal := models.Deal{
			Title:     in.Title,
			Value:     value,
			Stage:     in.Stage,
			CloseDate: in.CloseDate,
		}
		if i := c.DealIndex(dealID); dealID != "" && i >= 0 {
			deal.ID = c.Deals[i].ID
			c.Deals[i] = deal
		} else {
			deal.ID = models.NewID()
			c.Deals = append([]models.Deal{deal}, c.Deals...)
		}
		c.Touch(now)
		return deal.ID, true, nil
	})
	return id, err
}

// DeleteDeal removes a deal from its contact.
func (s *Store) DeleteDeal(contactID, dealID string) (bool, error) {
	_, ok, err := s.apply(OpDeleteDeal, func(doc *models.Document, now time.Time) (string, bool, error) {
		c := doc.Contact(contactID)
		if c == nil {
			return "", false, nil
		}
		i := c.DealIndex(dealID)
		if i < 0 {
			return "", false, nil
		}
		c.Deals = append(c.Deals[:i], c.Deals[i+1:]...)
		c.Touch(now)
		return dealID, true, nil
	})
	return ok, err
}
