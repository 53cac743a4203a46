package certificate

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

var numberPattern = regexp.MustCompile(`^CSC\d{6}\d{3}$`)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, time.June, 14, 9, 30, 0, 0, time.UTC) }
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gen := NewNumberGenerator("")
	gen.now = fixedClock()
	return NewStore(gen, fixedClock())
}

func addItem(t *testing.T, s *Store, grade models.MaterialGrade, roll string) {
	t.Helper()
	require.NoError(t, s.UpdateDraftItem(DraftMaterialGrade, string(grade)))
	require.NoError(t, s.UpdateDraftItem(DraftRollNumber, roll))
	require.NoError(t, s.CommitDraftItem())
}

func rollNumbers(items []models.LineItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.RollNumber)
	}
	return out
}

func TestNumberGenerator_Format(t *testing.T) {
	gen := NewNumberGenerator("")
	gen.now = fixedClock()

	for i := 0; i < 200; i++ {
		n := gen.Generate()
		require.NotEmpty(t, n)
		assert.Regexp(t, numberPattern, n)
		assert.Equal(t, "CSC240614", n[:9])
	}
}

func TestNumberGenerator_SuffixBounds(t *testing.T) {
	gen := NewNumberGenerator("TC")
	gen.now = fixedClock()

	gen.intN = func(int) int { return 0 }
	assert.Equal(t, "TC240614100", gen.Generate())

	gen.intN = func(n int) int { return n - 1 }
	assert.Equal(t, "TC240614999", gen.Generate())
}

func TestNumberGenerator_UsesUTCDate(t *testing.T) {
	gen := NewNumberGenerator("")
	loc := time.FixedZone("IST", 5*3600+1800)
	gen.now = func() time.Time { return time.Date(2024, time.June, 15, 2, 0, 0, 0, loc) }
	gen.intN = func(int) int { return 23 }

	assert.Equal(t, "CSC240614123", gen.Generate())
}

func TestNewStore_FreshRecord(t *testing.T) {
	s := newTestStore(t)
	rec := s.Record()

	assert.Regexp(t, numberPattern, rec.CertificateNumber)
	assert.Equal(t, "2024-06-14", rec.IssueDate.Format(models.DateLayout))
	assert.Equal(t, "2024-06-14", rec.PurchaseOrderDate.Format(models.DateLayout))
	assert.Empty(t, rec.Items)
	assert.Len(t, s.Draft().ChemicalComposition, len(models.Elements))
}

func TestUpdateField(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateField(FieldPartyName, "Acme Rolls"))
	require.NoError(t, s.UpdateField(FieldPartyAddress, "Plot 4, Ludhiana"))
	require.NoError(t, s.UpdateField(FieldPurchaseOrderRef, "PO-77"))
	require.NoError(t, s.UpdateField(FieldInvoiceRef, "INV-9"))
	require.NoError(t, s.UpdateField(FieldPurchaseOrderDate, "2024-05-01"))

	rec := s.Record()
	assert.Equal(t, "Acme Rolls", rec.PartyName)
	assert.Equal(t, "Plot 4, Ludhiana", rec.PartyAddress)
	assert.Equal(t, "PO-77", rec.PurchaseOrderRef)
	assert.Equal(t, "INV-9", rec.InvoiceRef)
	assert.Equal(t, "2024-05-01", rec.PurchaseOrderDate.Format(models.DateLayout))

	t.Run("bad date", func(t *testing.T) {
		err := s.UpdateField(FieldIssueDate, "14/06/24")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("empty date clears", func(t *testing.T) {
		require.NoError(t, s.UpdateField(FieldIssueDate, ""))
		assert.True(t, s.Record().IssueDate.IsZero())
	})

	t.Run("certificate number is immutable", func(t *testing.T) {
		before := s.Record().CertificateNumber
		err := s.UpdateField(FieldCertificateNumber, "X")
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Equal(t, before, s.Record().CertificateNumber)
	})

	t.Run("unknown field", func(t *testing.T) {
		assert.ErrorIs(t, s.UpdateField("colour", "red"), models.ErrValidation)
	})
}

func TestUpdateDraft(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpdateDraftItem(DraftMaterialGrade, "EN-8"))
	require.NoError(t, s.UpdateDraftItem(DraftRollDimensions, "450x1200"))
	require.NoError(t, s.UpdateDraftItem(DraftHardness, "62 HSC"))
	require.NoError(t, s.UpdateDraftItem(DraftColorCode, "Blue"))
	require.NoError(t, s.UpdateDraftChemical("MN", ".75"))

	draft := s.Draft()
	assert.Equal(t, models.GradeEN8, draft.MaterialGrade)
	assert.Equal(t, "450x1200", draft.RollDimensions)
	assert.Equal(t, "62 HSC", draft.Hardness)
	assert.Equal(t, "Blue", draft.ColorCode)
	assert.Equal(t, ".75", draft.ChemicalComposition[models.ElementMN])

	assert.ErrorIs(t, s.UpdateDraftItem(DraftMaterialGrade, "Steel"), models.ErrValidation)
	assert.ErrorIs(t, s.UpdateDraftItem("weight", "3"), models.ErrValidation)
	assert.ErrorIs(t, s.UpdateDraftChemical("FE", "1"), models.ErrValidation)
	assert.Equal(t, models.GradeEN8, s.Draft().MaterialGrade)
}

func TestCommitDraftItem_RequiresGrade(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpdateDraftItem(DraftRollNumber, "R1"))

	err := s.CommitDraftItem()
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, s.Record().Items)
	assert.Equal(t, "R1", s.Draft().RollNumber, "draft survives a rejected commit")
}

func TestCommitDraftItem_AppendsAndResets(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpdateDraftChemical("C", "3.2"))
	addItem(t, s, models.GradeSGI, "R1")

	rec := s.Record()
	require.Len(t, rec.Items, 1)
	assert.Equal(t, models.GradeSGI, rec.Items[0].MaterialGrade)
	assert.Equal(t, "3.2", rec.Items[0].ChemicalComposition[models.ElementC])
	assert.Equal(t, models.NewLineItem(), s.Draft())

	require.NoError(t, s.UpdateDraftChemical("C", "9.9"))
	assert.Equal(t, "3.2", s.Record().Items[0].ChemicalComposition[models.ElementC], "committed item is a copy")
}

func TestRemoveItem_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	for _, roll := range []string{"R1", "R2", "R3", "R4"} {
		addItem(t, s, models.GradeWSG, roll)
	}

	require.NoError(t, s.RemoveItem(1))
	assert.Equal(t, []string{"R1", "R3", "R4"}, rollNumbers(s.Record().Items))

	require.NoError(t, s.RemoveItem(2))
	assert.Equal(t, []string{"R1", "R3"}, rollNumbers(s.Record().Items))

	assert.ErrorIs(t, s.RemoveItem(2), models.ErrLookup)
	assert.ErrorIs(t, s.RemoveItem(-1), models.ErrLookup)
	assert.Equal(t, []string{"R1", "R3"}, rollNumbers(s.Record().Items))
}

func TestEditItem_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	addItem(t, s, models.GradeWSG, "R1")
	require.NoError(t, s.UpdateDraftChemical("TI", ".02"))
	addItem(t, s, models.GradeChill, "R2")
	addItem(t, s, models.GradeAdamite, "R3")

	original := s.Record().Items[1]

	require.NoError(t, s.EditItem(1))
	assert.Equal(t, original, s.Draft())
	assert.Equal(t, []string{"R1", "R3"}, rollNumbers(s.Record().Items))

	require.NoError(t, s.CommitDraftItem())
	items := s.Record().Items
	assert.Equal(t, []string{"R1", "R3", "R2"}, rollNumbers(items))
	assert.Equal(t, original, items[len(items)-1])

	assert.ErrorIs(t, s.EditItem(3), models.ErrLookup)
}

func TestResetRecord(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	s.numbers.intN = func(int) int { calls++; return calls }

	s.ResetRecord()
	first := s.Record().CertificateNumber
	require.NoError(t, s.UpdateField(FieldPartyName, "Acme"))
	addItem(t, s, models.GradeEN42, "R1")
	require.NoError(t, s.UpdateDraftItem(DraftHardness, "55"))

	s.ResetRecord()
	rec := s.Record()
	assert.NotEqual(t, first, rec.CertificateNumber)
	assert.Empty(t, rec.PartyName)
	assert.Empty(t, rec.Items)
	assert.Equal(t, models.NewLineItem(), s.Draft())
}

func TestValidateForExport(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.ValidateForExport(), models.ErrValidation)

	require.NoError(t, s.UpdateField(FieldPartyName, "Acme"))
	err := s.ValidateForExport()
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "at least one item")

	addItem(t, s, models.GradeAlloys, "R1")
	assert.NoError(t, s.ValidateForExport())
}
