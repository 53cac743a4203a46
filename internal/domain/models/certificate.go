package models

import "time"

// DateLayout is the wire format for record dates.
const DateLayout = "2006-01-02"

// MaterialGrade enumerates the roll materials a certificate can attest.
type MaterialGrade string

const (
	GradeWSG     MaterialGrade = "WSG"
	GradeSGACC   MaterialGrade = "SGACC"
	GradeAdamite MaterialGrade = "Adamite"
	GradeAlloys  MaterialGrade = "Alloys"
	GradeSGI     MaterialGrade = "SGI"
	GradeEN8     MaterialGrade = "EN-8"
	GradeEN9     MaterialGrade = "EN-9"
	GradeEN42    MaterialGrade = "EN-42"
	GradeChill   MaterialGrade = "Chill"
)

// MaterialGrades lists the selectable grades in display order.
var MaterialGrades = []MaterialGrade{
	GradeWSG, GradeSGACC, GradeAdamite, GradeAlloys, GradeSGI,
	GradeEN8, GradeEN9, GradeEN42, GradeChill,
}

// Valid reports whether g belongs to the fixed option set.
func (g MaterialGrade) Valid() bool {
	for _, known := range MaterialGrades {
		if g == known {
			return true
		}
	}
	return false
}

// Element is a chemical element symbol reported in the composition table.
type Element string

const (
	ElementC  Element = "C"
	ElementMN Element = "MN"
	ElementSI Element = "SI"
	ElementS  Element = "S"
	ElementP  Element = "P"
	ElementCR Element = "CR"
	ElementNI Element = "NI"
	ElementMO Element = "MO"
	ElementV  Element = "V"
	ElementMG Element = "MG"
	ElementCU Element = "CU"
	ElementTI Element = "TI"
)

// Elements lists the 12 tracked symbols in column order.
var Elements = []Element{
	ElementC, ElementMN, ElementSI, ElementS, ElementP, ElementCR,
	ElementNI, ElementMO, ElementV, ElementMG, ElementCU, ElementTI,
}

// Valid reports whether e is one of the tracked symbols.
func (e Element) Valid() bool {
	for _, known := range Elements {
		if e == known {
			return true
		}
	}
	return false
}

// Composition maps element symbols to decimal-string readings.
type Composition map[Element]string

// NewComposition returns a composition with every tracked element set to "".
func NewComposition() Composition {
	c := make(Composition, len(Elements))
	for _, e := range Elements {
		c[e] = ""
	}
	return c
}

// Clone returns an independent copy.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// LineItem is one roll entry with its chemical composition.
type LineItem struct {
	MaterialGrade       MaterialGrade `json:"materialGrade"`
	RollNumber          string        `json:"rollNumber"`
	RollDimensions      string        `json:"rollDimensions"`
	Hardness            string        `json:"hardness"`
	ColorCode           string        `json:"colorCode"`
	ChemicalComposition Composition   `json:"chemicalComposition"`
}

// NewLineItem returns an empty draft item.
func NewLineItem() LineItem {
	return LineItem{ChemicalComposition: NewComposition()}
}

// Clone returns a deep copy of the item.
func (li LineItem) Clone() LineItem {
	out := li
	out.ChemicalComposition = li.ChemicalComposition.Clone()
	return out
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// MarshalJSON encodes the date, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON decodes YYYY-MM-DD or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: DateLayout, Value: s}
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CertificateRecord is the in-progress composition certificate.
type CertificateRecord struct {
	IssueDate         Date       `json:"issueDate"`
	PurchaseOrderDate Date       `json:"purchaseOrderDate"`
	PartyName         string     `json:"partyName"`
	PartyAddress      string     `json:"partyAddress"`
	PurchaseOrderRef  string     `json:"purchaseOrderRef"`
	InvoiceRef        string     `json:"invoiceRef"`
	CertificateNumber string     `json:"certificateNumber"`
	Items             []LineItem `json:"items"`
}

// Clone returns a deep copy of the record.
func (r CertificateRecord) Clone() CertificateRecord {
	out := r
	out.Items = make([]LineItem, len(r.Items))
	for i, item := range r.Items {
		out.Items[i] = item.Clone()
	}
	return out
}
