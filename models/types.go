// ABOUTME: Data models for the CRM document
// ABOUTME: Defines Document, Contact, Deal, Task and the deal stage enumeration
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// StorageKey is the slot name the document is persisted under.
const StorageKey = "simple_crm_v1"

const (
	// PlaceholderName is shown for, and saved in place of, a blank contact name.
	PlaceholderName = "Untitled"

	// NewContactName is the name given to freshly created contacts.
	NewContactName = "New Contact"
)

// TimestampLayout matches the ISO-8601 form with millisecond precision, which sorts lexically.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders t in the persisted textual form.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type Stage string

const (
	StageLead      Stage = "lead"
	StageQualified Stage = "qualified"
	StageProposal  Stage = "proposal"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// Stages is the fixed pipeline order used for breakdowns and pickers.
var Stages = []Stage{StageLead, StageQualified, StageProposal, StageWon, StageLost}

var stageLabels = map[Stage]string{
	StageLead:      "Lead",
	StageQualified: "Qualified",
	StageProposal:  "Proposal",
	StageWon:       "Won",
	StageLost:      "Lost",
}

// Label returns the human label for the stage; unknown codes render as themselves.
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the five known stages.
func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// IsClosed reports whether the stage ends the pipeline (won or lost).
func (s Stage) IsClosed() bool {
	return s == StageWon || s == StageLost
}

// ParseStage accepts a stage code case-insensitively.
func ParseStage(raw string) (Stage, bool) {
	s := Stage(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Document is the single persisted aggregate.
type Document struct {
	Contacts   []Contact `json:"contacts"`
	SelectedID Ref       `json:"selectedId"`
	Tasks      []Task    `json:"tasks"`
}

type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
	Deals     []Deal `json:"deals"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Deal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Value     DealValue `json:"value"`
	Stage     Stage     `json:"stage"`
	CloseDate string    `json:"closeDate"`
}

type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ContactID Ref    `json:"contactId"`
	DueDate   string `json:"dueDate"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"createdAt"`
}

// NewDocument returns an empty document with all sequences allocated.
func NewDocument() *Document {
	return &Document{
		Contacts: []Contact{},
		Tasks:    []Task{},
	}
}

// UnmarshalJSON decodes a document, skipping contact and task entries that are
// not objects. A missing or malformed tasks field yields no tasks.
func (d *Document) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	doc := Document{
		Contacts:   []Contact{},
		SelectedID: Ref(looseText(fields["selectedId"])),
		Tasks:      []Task{},
	}
	for _, raw := range objectElements(fields["contacts"]) {
		var c Contact
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		doc.Contacts = append(doc.Contacts, c)
	}
	for _, raw := range objectElements(fields["tasks"]) {
		var t Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		doc.Tasks = append(doc.Tasks, t)
	}
	*d = doc
	return nil
}

// UnmarshalJSON tolerates a deals field that is missing or not an array,
// which older or hand-edited documents sometimes carry. Scalar fields of the
// wrong JSON type are coerced to text.
func (c *Contact) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	contact := Contact{
		ID:        looseText(fields["id"]),
		Name:      looseText(fields["name"]),
		Company:   looseText(fields["company"]),
		Email:     looseText(fields["email"]),
		Phone:     looseText(fields["phone"]),
		Notes:     looseText(fields["notes"]),
		Deals:     []Deal{},
		CreatedAt: looseText(fields["createdAt"]),
		UpdatedAt: looseText(fields["updatedAt"]),
	}
	for _, raw := range objectElements(fields["deals"]) {
		var deal Deal
		if err := json.Unmarshal(raw, &deal); err != nil {
			return err
		}
		contact.Deals = append(contact.Deals, deal)
	}
	*c = contact
	return nil
}

func (d *Deal) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	deal := Deal{
		ID:        looseText(fields["id"]),
		Title:     looseText(fields["title"]),
		Stage:     Stage(looseText(fields["stage"])),
		CloseDate: looseText(fields["closeDate"]),
	}
	if raw, ok := fields["value"]; ok {
		if err := deal.Value.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	*d = deal
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*t = Task{
		ID:        looseText(fields["id"]),
		Title:     looseText(fields["title"]),
		ContactID: Ref(looseText(fields["contactId"])),
		DueDate:   looseText(fields["dueDate"]),
		Done:      looseBool(fields["done"]),
		CreatedAt: looseText(fields["createdAt"]),
	}
	return nil
}

// DisplayName returns the contact name or the placeholder when blank.
func (c *Contact) DisplayName() string {
	if c.Name == "" {
		return PlaceholderName
	}
	return c.Name
}

// Touch refreshes UpdatedAt, backfilling CreatedAt for records that never had one.
func (c *Contact) Touch(now time.Time) {
	c.UpdatedAt = Timestamp(now)
	if c.CreatedAt == "" {
		c.CreatedAt = c.UpdatedAt
	}
}

// DealIndex returns the position of the deal with id, or -1.
func (c *Contact) DealIndex(id string) int {
	for i := range c.Deals {
		if c.Deals[i].ID == id {
			return i
		}
	}
	return -1
}

// IsOpen reports whether the deal still counts toward the pipeline.
func (d Deal) IsOpen() bool {
	return !d.Stage.IsClosed()
}

// ContactIndex returns the position of the contact with id, or -1.
func (d *Document) ContactIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.Contacts {
		if d.Contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// Contact returns the contact with id, or nil.
func (d *Document) Contact(id string) *Contact {
	if i := d.ContactIndex(id); i >= 0 {
		return &d.Contacts[i]
	}
	return nil
}

// TaskIndex returns the position of the task with id, or -1.
func (d *Document) TaskIndex(id string) int {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (d *Document) Clone() *Document {
	out := &Document{
		Contacts:   make([]Contact, len(d.Contacts)),
		SelectedID: d.SelectedID,
		Tasks:      make([]Task, len(d.Tasks)),
	}
	for i, c := range d.Contacts {
		c.Deals = append([]Deal(nil), c.Deals...)
		if c.Deals == nil {
			c.Deals = []Deal{}
		}
		out.Contacts[i] = c
	}
	copy(out.Tasks, d.Tasks)
	return out
}

// Normalize fills absent sequences, assigns ids to records imported without one
// and repairs a dangling selection by moving it to the first contact (or none).
func (d *Document) Normalize() {
	if d.Contacts == nil {
		d.Contacts = []Contact{}
	}
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	for i := range d.Contacts {
		c := &d.Contacts[i]
		if c.ID == "" {
			c.ID = NewID()
		}
		if c.Deals == nil {
			c.Deals = []Deal{}
		}
		for j := range c.Deals {
			if c.Deals[j].ID == "" {
				c.Deals[j].ID = NewID()
			}
		}
	}
	for i := range d.Tasks {
		if d.Tasks[i].ID == "" {
			d.Tasks[i].ID = NewID()
		}
	}
	if d.SelectedID != "" && d.ContactIndex(string(d.SelectedID)) < 0 {
		d.SelectFirst()
	}
}

// SelectFirst points the selection at the first contact, or clears it.
func (d *Document) SelectFirst() {
	if len(d.Contacts) == 0 {
		d.SelectedID = ""
		return
	}
	d.SelectedID = Ref(d.Contacts[0].ID)
}
