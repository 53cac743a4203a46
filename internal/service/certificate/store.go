package certificate

import (
	"fmt"
	"time"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

// Header field names accepted by UpdateField.
const (
	FieldIssueDate         = "issueDate"
	FieldPurchaseOrderDate = "purchaseOrderDate"
	FieldPartyName         = "partyName"
	FieldPartyAddress      = "partyAddress"
	FieldPurchaseOrderRef  = "purchaseOrderRef"
	FieldInvoiceRef        = "invoiceRef"
	FieldCertificateNumber = "certificateNumber"
)

// Draft field names accepted by UpdateDraftItem.
const (
	DraftMaterialGrade  = "materialGrade"
	DraftRollNumber     = "rollNumber"
	DraftRollDimensions = "rollDimensions"
	DraftHardness       = "hardness"
	DraftColorCode      = "colorCode"
)

// Store owns one in-progress certificate record and its draft line item.
// It is not safe for concurrent use; Session serializes access.
type Store struct {
	record  models.CertificateRecord
	draft   models.LineItem
	numbers *NumberGenerator
	now     func() time.Time
}

// NewStore creates a store holding a freshly initialised record.
func NewStore(numbers *NumberGenerator, now func() time.Time) *Store {
	if numbers == nil {
		numbers = NewNumberGenerator("")
	}
	if now == nil {
		now = time.Now
	}
	s := &Store{numbers: numbers, now: now}
	s.ResetRecord()
	return s
}

// Record returns a deep copy of the current record.
func (s *Store) Record() models.CertificateRecord {
	return s.record.Clone()
}

// Draft returns a deep copy of the pending line item.
func (s *Store) Draft() models.LineItem {
	return s.draft.Clone()
}

// UpdateField sets one header field. Dates must be YYYY-MM-DD.
func (s *Store) UpdateField(name, value string) error {
	switch name {
	case FieldIssueDate, FieldPurchaseOrderDate:
		var d models.Date
		if value != "" {
			parsed, err := models.ParseDate(value)
			if err != nil {
				return fmt.Errorf("%w: %s must be a YYYY-MM-DD date", models.ErrValidation, name)
			}
			d = parsed
		}
		if name == FieldIssueDate {
			s.record.IssueDate = d
		} else {
			s.record.PurchaseOrderDate = d
		}
	case FieldPartyName:
		s.record.PartyName = value
	case FieldPartyAddress:
		s.record.PartyAddress = value
	case FieldPurchaseOrderRef:
		s.record.PurchaseOrderRef = value
	case FieldInvoiceRef:
		s.record.InvoiceRef = value
	case FieldCertificateNumber:
		return fmt.Errorf("%w: certificate number cannot be changed", models.ErrValidation)
	default:
		return fmt.Errorf("%w: unknown field %q", models.ErrValidation, name)
	}
	return nil
}

// UpdateDraftItem sets one field of the pending line item.
func (s *Store) UpdateDraftItem(field, value string) error {
	switch field {
	case DraftMaterialGrade:
		grade := models.MaterialGrade(value)
		if value != "" && !grade.Valid() {
			return fmt.Errorf("%w: unknown material grade %q", models.ErrValidation, value)
		}
		s.draft.MaterialGrade = grade
	case DraftRollNumber:
		s.draft.RollNumber = value
	case DraftRollDimensions:
		s.draft.RollDimensions = value
	case DraftHardness:
		s.draft.Hardness = value
	case DraftColorCode:
		s.draft.ColorCode = value
	default:
		return fmt.Errorf("%w: unknown item field %q", models.ErrValidation, field)
	}
	return nil
}

// UpdateDraftChemical sets one element reading of the pending line item.
func (s *Store) UpdateDraftChemical(element, value string) error {
	e := models.Element(element)
	if !e.Valid() {
		return fmt.Errorf("%w: unknown element %q", models.ErrValidation, element)
	}
	s.draft.ChemicalComposition[e] = value
	return nil
}

// CommitDraftItem appends a copy of the draft and clears it.
func (s *Store) CommitDraftItem() error {
	if s.draft.MaterialGrade == "" {
		return fmt.Errorf("%w: please select a material before adding", models.ErrValidation)
	}
	s.record.Items = append(s.record.Items, s.draft.Clone())
	s.draft = models.NewLineItem()
	return nil
}

// RemoveItem deletes the item at index, keeping the others in order.
func (s *Store) RemoveItem(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.record.Items = append(s.record.Items[:index], s.record.Items[index+1:]...)
	return nil
}

// EditItem moves the item at index into the draft. The item only returns to
// the list, at the end, when the draft is committed again.
func (s *Store) EditItem(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.draft = s.record.Items[index].Clone()
	return s.RemoveItem(index)
}

// ResetRecord discards everything and starts a new record.
func (s *Store) ResetRecord() {
	today := models.NewDate(s.now())
	s.record = models.CertificateRecord{
		IssueDate:         today,
		PurchaseOrderDate: today,
		CertificateNumber: s.GenerateCertificateNumber(),
		Items:             []models.LineItem{},
	}
	s.draft = models.NewLineItem()
}

// GenerateCertificateNumber returns a new number without touching the record.
func (s *Store) GenerateCertificateNumber() string {
	return s.numbers.Generate()
}

// ValidateForExport checks the record is complete enough to preview or export.
func (s *Store) ValidateForExport() error {
	return ValidateForExport(s.record)
}

// ValidateForExport requires a party name and at least one item.
func ValidateForExport(record models.CertificateRecord) error {
	if record.PartyName == "" {
		return fmt.Errorf("%w: please enter party name", models.ErrValidation)
	}
	if len(record.Items) == 0 {
		return fmt.Errorf("%w: please add at least one item", models.ErrValidation)
	}
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.record.Items) {
		return fmt.Errorf("%w: item index %d out of range [0,%d)", models.ErrLookup, index, len(s.record.Items))
	}
	return nil
}
