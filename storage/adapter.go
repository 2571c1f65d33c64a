// ABOUTME: Persistence adapter between the document and a storage slot
// ABOUTME: Load never fails (degrades to an empty document); Save writes the whole document
package storage

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/harperreed/simplecrm/models"
	"go.uber.org/zap"
)

// Adapter reads and writes the document under one slot key.
type Adapter struct {
	slot   Slot
	key    string
	logger *zap.Logger
}

func NewAdapter(slot Slot, key string, logger *zap.Logger) *Adapter {
	if key == "" {
		key = models.StorageKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

// Key returns the slot key the document is stored under.
func (a *Adapter) Key() string { return a.key }

// Load returns the stored document. An absent, empty, unparsable or
// structurally invalid slot yields a fresh empty document.
func (a *Adapter) Load() *models.Document {
	data, err := a.slot.Get(a.key)
	if err != nil {
		if !errors.Is(err, ErrSlotEmpty) {
			a.logger.Warn("failed to read storage slot, starting empty",
				zap.String("key", a.key), zap.Error(err))
		}
		return models.NewDocument()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.NewDocument()
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		a.logger.Warn("stored document is invalid, starting empty",
			zap.String("key", a.key), zap.Error(err))
		return models.NewDocument()
	}
	return doc
}

// Save serializes and writes the document.
func (a *Adapter) Save(doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return models.WrapStorageError("failed to encode document", err)
	}
	if err := a.slot.Set(a.key, data); err != nil {
		return models.WrapStorageError("failed to write storage slot", err)
	}
	a.logger.Debug("document saved", zap.String("key", a.key), zap.Int("bytes", len(data)))
	return nil
}

// Clear removes the stored document.
func (a *Adapter) Clear() error {
	if err := a.slot.Delete(a.key); err != nil {
		return models.WrapStorageError("failed to clear storage slot", err)
	}
	return nil
}

// DecodeDocument parses a document, requiring a JSON object whose contacts
// field is an array. Missing tasks default to empty; records are normalized.
func DecodeDocument(data []byte) (*models.Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, models.WrapValidationError("document is not a JSON object", err)
	}
	if fields == nil {
		return nil, models.NewValidationError("", "document is not a JSON object")
	}
	contacts, ok := fields["contacts"]
	if !ok || !isJSONArray(contacts) {
		return nil, models.NewValidationError("contacts", "must be an array")
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, models.WrapValidationError("document has an invalid shape", err)
	}
	doc.Normalize()
	return doc, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
