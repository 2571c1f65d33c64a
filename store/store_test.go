// ABOUTME: Tests for the document store mutators and bootstrap
// ABOUTME: Covers seeding, selection rules, deal normalization, tasks, import and save failures
package store

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/simplecrm/models"
	"github.com/harperreed/simplecrm/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func setupStore(t *testing.T) (*Store, *storage.MemorySlot) {
	t.Helper()
	slot := storage.NewMemorySlot()
	s, err := Open(storage.NewAdapter(slot, models.StorageKey, nil), nil, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s, slot
}

// emptyStore returns a store whose seeded contacts have been removed.
func emptyStore(t *testing.T) (*Store, *storage.MemorySlot) {
	t.Helper()
	s, slot := setupStore(t)
	require.NoError(t, s.ReplaceDocument(models.NewDocument()))
	require.Empty(t, s.Snapshot().Contacts)
	return s, slot
}

func persisted(t *testing.T, slot *storage.MemorySlot) *models.Document {
	t.Helper()
	return storage.NewAdapter(slot, models.StorageKey, nil).Load()
}

func TestOpenSeedsEmptyStorage(t *testing.T) {
	s, slot := setupStore(t)
	doc := s.Snapshot()

	require.Len(t, doc.Contacts, 2)
	for _, c := range doc.Contacts {
		assert.Len(t, c.Deals, 1)
		assert.Equal(t, "2024-05-01T09:30:00.000Z", c.CreatedAt)
	}
	assert.Equal(t, "ACME Corp", doc.Contacts[0].Name)
	assert.Equal(t, "Nimbus Labs", doc.Contacts[1].Company)
	assert.Equal(t, int64(42000), doc.Contacts[1].Deals[0].Value.OrZero())
	assert.Equal(t, models.Ref(doc.Contacts[0].ID), doc.SelectedID)

	// seeded data is persisted immediately
	assert.Equal(t, doc, persisted(t, slot))
}

func TestOpenKeepsExistingDocument(t *testing.T) {
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Set(models.StorageKey, []byte(`{"contacts":[{"id":"c1","name":"Ann","deals":[]}],"selectedId":null,"tasks":[]}`)))

	s, err := Open(storage.NewAdapter(slot, models.StorageKey, nil), nil)
	require.NoError(t, err)
	doc := s.Snapshot()
	require.Len(t, doc.Contacts, 1)
	assert.Equal(t, "Ann", doc.Contacts[0].Name)
	assert.Equal(t, models.Ref(""), doc.SelectedID)
}

func TestOpenKeepsDocumentWithLooseScalars(t *testing.T) {
	slot := storage.NewMemorySlot()
	raw := `{"contacts":[{"id":"c1","name":"Ann","phone":5551234,"deals":[{"id":"d1","title":"Pilot","value":true,"stage":"lead"}]}],"selectedId":"c1","tasks":[{"id":"t1","title":"Call","done":1}]}`
	require.NoError(t, slot.Set(models.StorageKey, []byte(raw)))

	s, err := Open(storage.NewAdapter(slot, models.StorageKey, nil), nil)
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Contacts, 1)
	assert.Equal(t, "Ann", doc.Contacts[0].Name)
	assert.Equal(t, "5551234", doc.Contacts[0].Phone)
	assert.False(t, doc.Contacts[0].Deals[0].Value.IsSet())
	require.Len(t, doc.Tasks, 1)
	assert.True(t, doc.Tasks[0].Done)

	stored, err := slot.Get(models.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, raw, string(stored), "loading must not rewrite the slot")
}

func TestOpenSeedKeepsTasks(t *testing.T) {
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Set(models.StorageKey, []byte(`{"contacts":[],"tasks":[{"id":"t1","title":"Keep me","contactId":null,"dueDate":"","done":false,"createdAt":""}]}`)))

	s, err := Open(storage.NewAdapter(slot, models.StorageKey, nil), nil)
	require.NoError(t, err)
	doc := s.Snapshot()
	assert.Len(t, doc.Contacts, 2)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "Keep me", doc.Tasks[0].Title)
}

func TestOpenFailsWhenSeedCannotBeSaved(t *testing.T) {
	slot := storage.NewMemorySlot()
	slot.FailWrites = errors.New("read-only")
	_, err := Open(storage.NewAdapter(slot, models.StorageKey, nil), nil)
	require.Error(t, err)
	assert.True(t, models.IsStorage(err))
}

func TestCreateThenDeleteOnlyContact(t *testing.T) {
	s, _ := emptyStore(t)

	id, err := s.CreateContact()
	require.NoError(t, err)
	doc := s.Snapshot()
	require.Len(t, doc.Contacts, 1)
	assert.Equal(t, models.NewContactName, doc.Contacts[0].Name)
	assert.Equal(t, models.Ref(id), doc.SelectedID)

	ok, err := s.DeleteContact(id)
	require.NoError(t, err)
	assert.True(t, ok)
	doc = s.Snapshot()
	assert.Empty(t, doc.Contacts)
	assert.Equal(t, models.Ref(""), doc.SelectedID)
}

func TestCreateContactInsertsAtFront(t *testing.T) {
	s, _ := setupStore(t)
	id, err := s.CreateContact()
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Contacts, 3)
	assert.Equal(t, id, doc.Contacts[0].ID)
	assert.Empty(t, doc.Contacts[0].Deals)
	assert.NotNil(t, doc.Contacts[0].Deals)
}

func TestDeleteSelectedContactReassignsSelection(t *testing.T) {
	s, _ := setupStore(t)
	doc := s.Snapshot()
	first, second := doc.Contacts[0].ID, doc.Contacts[1].ID

	taskID, err := s.CreateTask("Follow up", first, "")
	require.NoError(t, err)

	ok, err := s.DeleteContact(first)
	require.NoError(t, err)
	require.True(t, ok)

	doc = s.Snapshot()
	assert.Equal(t, models.Ref(second), doc.SelectedID)
	require.Len(t, doc.Contacts, 1)
	assert.Nil(t, doc.Contact(first))

	// the task keeps its dangling link, and lookups treat it as no contact
	i := doc.TaskIndex(taskID)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, models.Ref(first), doc.Tasks[i].ContactID)
	assert.Nil(t, doc.Contact(string(doc.Tasks[i].ContactID)))
}

func TestDeleteUnselectedContactKeepsSelection(t *testing.T) {
	s, _ := setupStore(t)
	doc := s.Snapshot()

	ok, err := s.DeleteContact(doc.Contacts[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc.SelectedID, s.Snapshot().SelectedID)

	ok, err = s.DeleteContact("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateContact(t *testing.T) {
	s, slot := setupStore(t)
	id := s.Snapshot().Contacts[0].ID

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }

	name, email := "   ", "  new@acme.example "
	ok, err := s.UpdateContact(id, ContactPatch{Name: &name, Email: &email})
	require.NoError(t, err)
	require.True(t, ok)

	c := s.Snapshot().Contact(id)
	require.NotNil(t, c)
	assert.Equal(t, models.PlaceholderName, c.Name)
	assert.Equal(t, "new@acme.example", c.Email)
	assert.Equal(t, "ACME Corp", c.Company, "fields not in the patch stay")
	assert.Equal(t, "2024-05-01T09:30:00.000Z", c.CreatedAt)
	assert.Equal(t, "2024-05-01T10:30:00.000Z", c.UpdatedAt)
	assert.Equal(t, c.Email, persisted(t, slot).Contact(id).Email)

	ok, err = s.UpdateContact("missing", ContactPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectContact(t *testing.T) {
	s, _ := setupStore(t)
	second := s.Snapshot().Contacts[1].ID

	ok, err := s.SelectContact(second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Ref(second), s.Snapshot().SelectedID)

	ok, err = s.SelectContact("nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.Ref(second), s.Snapshot().SelectedID)

	ok, err = s.SelectContact("")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.Ref(""), s.Snapshot().SelectedID)
}

func TestUpsertDealRoundsValue(t *testing.T) {
	s, _ := setupStore(t)
	contactID := s.Snapshot().Contacts[0].ID

	id, err := s.UpsertDeal(contactID, "", DealInput{Title: "X", Value: "12345.6", Stage: "lead"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	c := s.Snapshot().Contact(contactID)
	require.Len(t, c.Deals, 2)
	assert.Equal(t, id, c.Deals[0].ID, "new deals go first")
	assert.Equal(t, int64(12346), c.Deals[0].Value.OrZero())
	assert.Equal(t, models.StageLead, c.Deals[0].Stage)
}

func TestUpsertDealValueNormalization(t *testing.T) {
	s, _ := setupStore(t)
	contactID := s.Snapshot().Contacts[0].ID

	cases := map[string]string{
		"-250":   "0",
		"0.49":   "0",
		"99.5":   "100",
		"":       "",
		" 7000 ": "7000",
	}
	for raw, want := range cases {
		id, err := s.UpsertDeal(contactID, "", DealInput{Title: "V", Value: raw, Stage: "qualified"})
		require.NoError(t, err, raw)
		c := s.Snapshot().Contact(contactID)
		d := c.Deals[c.DealIndex(id)]
		assert.Equal(t, want, d.Value.String(), raw)
	}
}

func TestUpsertDealReplacesInPlace(t *testing.T) {
	s, _ := setupStore(t)
	contactID := s.Snapshot().Contacts[0].ID
	newID, err := s.UpsertDeal(contactID, "", DealInput{Title: "Second", Stage: "lead"})
	require.NoError(t, err)

	before := s.Snapshot().Contact(contactID)
	target := before.Deals[1].ID

	got, err := s.UpsertDeal(contactID, target, DealInput{Title: " Renamed ", Value: "10", Stage: "WON", CloseDate: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, target, got)

	after := s.Snapshot().Contact(contactID)
	require.Len(t, after.Deals, 2)
	assert.Equal(t, newID, after.Deals[0].ID)
	assert.Equal(t, target, after.Deals[1].ID)
	assert.Equal(t, "Renamed", after.Deals[1].Title)
	assert.Equal(t, models.StageWon, after.Deals[1].Stage)
	assert.Equal(t, "2024-12-31", after.Deals[1].CloseDate)
}

func TestUpsertDealUnknownDealIDInserts(t *testing.T) {
	s, _ := setupStore(t)
	contactID := s.Snapshot().Contacts[0].ID

	id, err := s.UpsertDeal(contactID, "does-not-exist", DealInput{Title: "Fresh"})
	require.NoError(t, err)
	assert.NotEqual(t, "does-not-exist", id)

	c := s.Snapshot().Contact(contactID)
	require.Len(t, c.Deals, 2)
	assert.Equal(t, models.StageLead, c.Deals[0].Stage, "stage defaults to lead")
}

func TestUpsertDealRejectsInvalidInput(t *testing.T) {
	s, slot := setupStore(t)
	before := s.Snapshot()
	contactID := before.Contacts[0].ID

	_, err := s.UpsertDeal(contactID, "", DealInput{Title: "   ", Stage: "lead"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "title")

	_, err = s.UpsertDeal(contactID, "", DealInput{Title: "T", Stage: "negotiation"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "stage")

	_, err = s.UpsertDeal(contactID, "", DealInput{Title: "T", Value: "lots"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	for _, v := range []string{"1e30", "9.3e18", "9223372036854775807"} {
		_, err = s.UpsertDeal(contactID, "", DealInput{Title: "T", Value: v})
		require.Error(t, err, v)
		assert.True(t, models.IsValidation(err), v)
	}

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, before, persisted(t, slot))
}

func TestUpsertDealMissingContactIsNoop(t *testing.T) {
	s, _ := setupStore(t)
	before := s.Snapshot()

	id, err := s.UpsertDeal("missing", "", DealInput{Title: "X"})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, before, s.Snapshot())
}

func TestUpsertDealTouchesContact(t *testing.T) {
	s, _ := setupStore(t)
	contactID := s.Snapshot().Contacts[1].ID

	later := fixedNow.Add(24 * time.Hour)
	s.now = func() time.Time { return later }
	_, err := s.UpsertDeal(contactID, "", DealInput{Title: "Upsell"})
	require.NoError(t, err)

	c := s.Snapshot().Contact(contactID)
	assert.Equal(t, models.Timestamp(later), c.UpdatedAt)
	assert.Equal(t, models.Timestamp(fixedNow), c.CreatedAt)
}

func TestDeleteDeal(t *testing.T) {
	s, _ := setupStore(t)
	c := s.Snapshot().Contacts[0]

	later := fixedNow.Add(time.Minute)
	s.now = func() time.Time { return later }
	ok, err := s.DeleteDeal(c.ID, c.Deals[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	after := s.Snapshot().Contact(c.ID)
	assert.Empty(t, after.Deals)
	assert.Equal(t, models.Timestamp(later), after.UpdatedAt)

	ok, err = s.DeleteDeal(c.ID, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteDeal("missing", c.Deals[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTasks(t *testing.T) {
	s, slot := setupStore(t)
	contactID := s.Snapshot().Contacts[0].ID

	first, err := s.CreateTask("  Send proposal ", contactID, "2024-06-01")
	require.NoError(t, err)
	second, err := s.CreateTask("Call back", "", "")
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, second, doc.Tasks[0].ID, "new tasks go first")
	assert.Equal(t, "Send proposal", doc.Tasks[1].Title)
	assert.Equal(t, models.Ref(contactID), doc.Tasks[1].ContactID)
	assert.Equal(t, models.Ref(""), doc.Tasks[0].ContactID)
	assert.False(t, doc.Tasks[0].Done)
	assert.Equal(t, models.Timestamp(fixedNow), doc.Tasks[0].CreatedAt)

	_, err = s.CreateTask("   ", "", "")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Len(t, s.Snapshot().Tasks, 2)

	ok, err := s.ToggleTask(first, true)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ToggleTask("missing", true)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.ClearCompletedTasks()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.ClearCompletedTasks()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ok, err = s.DeleteTask(second)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.DeleteTask(second)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, s.Snapshot().Tasks)
	assert.Empty(t, persisted(t, slot).Tasks)
}

func TestFailedSaveLeavesDocumentUntouched(t *testing.T) {
	s, slot := setupStore(t)
	before := s.Snapshot()

	slot.FailWrites = errors.New("quota exceeded")
	_, err := s.CreateContact()
	require.Error(t, err)
	assert.True(t, models.IsStorage(err))

	_, err = s.UpsertDeal(before.Contacts[0].ID, "", DealInput{Title: "Nope"})
	require.Error(t, err)

	ok, err := s.DeleteContact(before.Contacts[0].ID)
	require.Error(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, s.Snapshot())
}

func TestCreateContactWithDetails(t *testing.T) {
	s, slot := setupStore(t)
	name, phone := "  Ann  ", "555-1234"

	id, err := s.CreateContactWith(ContactPatch{Name: &name, Phone: &phone})
	require.NoError(t, err)

	doc := s.Snapshot()
	c := doc.Contact(id)
	require.NotNil(t, c)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "555-1234", c.Phone)
	assert.Empty(t, c.Company)
	assert.Equal(t, models.Ref(id), doc.SelectedID)
	assert.Equal(t, doc, persisted(t, slot))

	before := s.Snapshot()
	slot.FailWrites = errors.New("quota exceeded")
	_, err = s.CreateContactWith(ContactPatch{Name: &name})
	require.Error(t, err)
	assert.True(t, models.IsStorage(err))
	// no bare placeholder contact is left behind
	assert.Equal(t, before, s.Snapshot())
}

func TestSnapshotIsIsolated(t *testing.T) {
	s, _ := setupStore(t)
	snap := s.Snapshot()
	snap.Contacts[0].Name = "mutated"
	snap.Contacts[0].Deals[0].Title = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "ACME Corp", fresh.Contacts[0].Name)
	assert.Equal(t, "Pilot - ACME", fresh.Contacts[0].Deals[0].Title)
}

func TestImport(t *testing.T) {
	s, slot := setupStore(t)

	err := s.Import([]byte(`{"contacts":[{"id":"x1","name":"Imported","deals":[{"id":"d1","title":"T","value":"5","stage":"won","closeDate":""}]}]}`))
	require.NoError(t, err)

	doc := s.Snapshot()
	require.Len(t, doc.Contacts, 1)
	assert.Equal(t, models.Ref("x1"), doc.SelectedID)
	assert.Empty(t, doc.Tasks)
	assert.Equal(t, int64(5), doc.Contacts[0].Deals[0].Value.OrZero())
	assert.Equal(t, doc, persisted(t, slot))
}

func TestImportRejectsBadShape(t *testing.T) {
	s, slot := setupStore(t)
	before := s.Snapshot()

	for _, raw := range []string{`{"contacts":"nope"}`, `{"tasks":[]}`, `not json`, `null`} {
		err := s.Import([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, models.IsValidation(err), raw)
	}
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, before, persisted(t, slot))
}

func TestReplaceDocumentNormalizes(t *testing.T) {
	s, _ := setupStore(t)
	candidate := &models.Document{
		Contacts:   []models.Contact{{ID: "a", Name: "A"}},
		SelectedID: "dangling",
	}
	require.NoError(t, s.ReplaceDocument(candidate))

	doc := s.Snapshot()
	assert.Equal(t, models.Ref("a"), doc.SelectedID)
	assert.NotNil(t, doc.Tasks)
	assert.NotNil(t, doc.Contacts[0].Deals)

	// the caller's value is not aliased
	candidate.Contacts[0].Name = "changed"
	assert.Equal(t, "A", s.Snapshot().Contacts[0].Name)

	assert.Error(t, s.ReplaceDocument(nil))
}

func TestReset(t *testing.T) {
	s, slot := setupStore(t)
	_, err := s.CreateTask("Task", "", "")
	require.NoError(t, err)
	_, err = s.CreateContact()
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	doc := s.Snapshot()
	assert.Len(t, doc.Contacts, 2)
	assert.Empty(t, doc.Tasks)
	assert.Equal(t, models.Ref(doc.Contacts[0].ID), doc.SelectedID)
	assert.Equal(t, doc, persisted(t, slot))
}

func TestSubscribe(t *testing.T) {
	s, _ := setupStore(t)

	var changes []Change
	cancel := s.Subscribe(func(c Change) { changes = append(changes, c) })

	id, err := s.CreateContact()
	require.NoError(t, err)
	_, err = s.SelectContact("missing")
	require.NoError(t, err)
	_, err = s.CreateTask("", "", "")
	require.Error(t, err)

	require.Len(t, changes, 1, "no-ops and rejected input do not signal")
	assert.Equal(t, Change{Op: OpCreateContact, ID: id}, changes[0])

	cancel()
	_, err = s.DeleteContact(id)
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestSeedDocument(t *testing.T) {
	doc := SeedDocument(fixedNow)
	require.Len(t, doc.Contacts, 2)
	assert.Equal(t, models.StageQualified, doc.Contacts[0].Deals[0].Stage)
	assert.Equal(t, "Expansion - Nimbus", doc.Contacts[1].Deals[0].Title)
	assert.NotEqual(t, doc.Contacts[0].ID, doc.Contacts[1].ID)
	assert.NotNil(t, doc.Tasks)
}
