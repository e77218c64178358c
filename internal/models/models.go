package models

// Wire types for the SICEA backend API. JSON tags follow the backend's
// serializers exactly; decimals arrive as strings.

const (
	MeterTypeWater       = "WATER"
	MeterTypeElectricity = "ELECTRICITY"
)

// UserProfile is the backend's user representation. Admin users are keyed by
// UUID, so the id travels as a string.
type UserProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	IsActive   bool   `json:"is_active"`
	IsStaff    bool   `json:"is_staff"`
	DateJoined string `json:"date_joined"`
}

// FullName joins first and last name, falling back to the email.
func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

type Meter struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ClientNumber string `json:"client_number"`
	MeterType    string `json:"meter_type"`
	Coverage     string `json:"coverage,omitempty"`
}

// TypeLabel returns the Spanish display label for the meter type.
func (m *Meter) TypeLabel() string {
	if m.MeterType == MeterTypeWater {
		return "Agua"
	}
	return "Electricidad"
}

// Bill is one billing-period invoice. Meter is the backend's string
// representation of the related meter ("name (client_number)").
type Bill struct {
	ID          int      `json:"id"`
	Meter       string   `json:"meter"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	TotalToPay  string   `json:"total_to_pay"`
	PDFFilename string   `json:"pdf_filename,omitempty"`
	Charges     []Charge `json:"charges,omitempty"`
}

// Period collapses year and month into a single comparable value, the same
// year*12+month scheme the backend uses for range filtering.
func (b *Bill) Period() int { return b.Year*12 + b.Month }

type Charge struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
	Charge    int    `json:"charge"`
}

// Per-file statuses returned by the batch validation endpoint.
const (
	StatusCorrect    = "correct"
	StatusDuplicated = "duplicated"
	StatusInDB       = "in_db"
	StatusInvalid    = "invalid"
	StatusNotFound   = "not_found"
)

// ValidationResult is the ephemeral per-file outcome of validate-batch-bills.
type ValidationResult struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Meter  string `json:"meter,omitempty"`
}

// StatusLabel translates a validation status for display.
func (v *ValidationResult) StatusLabel() string {
	switch v.Status {
	case StatusCorrect:
		return "Correcta"
	case StatusDuplicated:
		return "Duplicada en lote"
	case StatusInDB:
		return "Ya existe en la base de datos"
	case StatusNotFound:
		return "Medidor no encontrado"
	default:
		return "Inválida"
	}
}
