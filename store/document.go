// ABOUTME: Whole-document replacement and import on the document store
// ABOUTME: Import validates first and never touches state when parsing fails
package store

import (
	"time"

	"github.com/harperreed/simplecrm/exchange"
	"github.com/harperreed/simplecrm/models"
	"go.uber.org/zap"
)

// ReplaceDocument swaps in a copy of candidate after normalizing it.
func (s *Store) ReplaceDocument(candidate *models.Document) error {
	if candidate == nil {
		return models.NewValidationError("document", "is required")
	}
	replacement := candidate.Clone()
	_, _, err := s.apply(OpReplace, func(doc *models.Document, _ time.Time) (string, bool, error) {
		*doc = *replacement
		return "", true, nil
	})
	return err
}

// Import parses an exported document and replaces the current one with it.
func (s *Store) Import(data []byte) error {
	doc, err := exchange.ParseDocument(data)
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		return err
	}
	return s.ReplaceDocument(doc)
}
