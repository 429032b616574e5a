package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// MaxCustomDestinationLength bounds destinations outside KnownDestinations
const MaxCustomDestinationLength = 50

// KnownDestinations lists the distributors offered to callers
var KnownDestinations = []string{
	"XR Delivery",
	"XR UK Delivery",
	"Access",
	"Peach",
}

var staffInitialsPattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// JobFields holds everything a job carries apart from its identity and
// timestamps. DeletedJob snapshots the same set.
type JobFields struct {
	ClockNumberMediaName  string          `json:"clockNumberMediaName"`
	OrderNumber           string          `json:"orderNumber"`
	Services              []ServiceDetail `json:"services"`
	Client                string          `json:"client"`
	Agency                string          `json:"agency"`
	DeliveryDate          string          `json:"deliveryDate"`
	PoReference           string          `json:"poReference"`
	Destination           string          `json:"destination"`
	ProductionNotes       string          `json:"productionNotes"`
	Creator               string          `json:"creator"`
	Checker               string          `json:"checker"`
	CommercialDescription string          `json:"commercialDescription"`
	Status                Status          `json:"status"`
	Priority              bool            `json:"priority"`
	OnHold                bool            `json:"onHold"`
	InSAP                 bool            `json:"inSAP"`
	StellarTask           bool            `json:"stellarTask"`

	// Billing, filled in once a job is Finished
	Rate         *float64 `json:"rate,omitempty"`
	Adjusted     *float64 `json:"adjusted,omitempty"`
	Inputter     string   `json:"inputter"`
	Verifier     string   `json:"verifier"`
	Extcosts     *float64 `json:"extcosts,omitempty"`
	BillingNotes string   `json:"billingnotes"`
}

// Clone returns a copy that shares no slices or pointers with f
func (f JobFields) Clone() JobFields {
	out := f
	out.Services = slices.Clone(f.Services)
	out.Rate = cloneFloat(f.Rate)
	out.Adjusted = cloneFloat(f.Adjusted)
	out.Extcosts = cloneFloat(f.Extcosts)
	return out
}

// Validate applies the field rules shared by create and update
func (f JobFields) Validate() error {
	if strings.TrimSpace(f.ClockNumberMediaName) == "" {
		return NewValidationError("clockNumberMediaName", "is required")
	}
	if strings.TrimSpace(f.DeliveryDate) == "" {
		return NewValidationError("deliveryDate", "is required")
	}
	if _, ok := ParseDeliveryDate(f.DeliveryDate, time.UTC); !ok {
		return NewValidationError("deliveryDate", "%q is not an ISO-8601 date", f.DeliveryDate)
	}
	if err := ValidateServices(f.Services); err != nil {
		return err
	}
	if !f.Status.Valid() {
		return NewValidationError("status", "%q is not a valid status", f.Status)
	}
	if err := validateStaffInitials("creator", f.Creator); err != nil {
		return err
	}
	if err := validateStaffInitials("checker", f.Checker); err != nil {
		return err
	}
	if !slices.Contains(KnownDestinations, f.Destination) && len([]rune(f.Destination)) > MaxCustomDestinationLength {
		return NewValidationError("destination", "custom destination must be %d characters or less", MaxCustomDestinationLength)
	}
	return nil
}

// ValidStaffInitials reports whether s fits the creator/checker format
func ValidStaffInitials(s string) bool {
	return staffInitialsPattern.MatchString(s)
}

func validateStaffInitials(field, v string) error {
	if v == "" || ValidStaffInitials(v) {
		return nil
	}
	return NewValidationError(field, "must be 2 or 3 uppercase alphanumeric initials")
}

// Job is a trackable unit of media delivery work
type Job struct {
	ID string `json:"id"`
	JobFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of j
func (j *Job) Clone() *Job {
	out := *j
	out.JobFields = j.JobFields.Clone()
	return &out
}

// JobPatch is a partial update. Nil fields are left untouched. The billing
// amounts are OptionalFloat so an explicit null clears them.
type JobPatch struct {
	ClockNumberMediaName  *string          `json:"clockNumberMediaName,omitempty"`
	OrderNumber           *string          `json:"orderNumber,omitempty"`
	Services              *[]ServiceDetail `json:"services,omitempty"`
	Client                *string          `json:"client,omitempty"`
	Agency                *string          `json:"agency,omitempty"`
	DeliveryDate          *string          `json:"deliveryDate,omitempty"`
	PoReference           *string          `json:"poReference,omitempty"`
	Destination           *string          `json:"destination,omitempty"`
	ProductionNotes       *string          `json:"productionNotes,omitempty"`
	Creator               *string          `json:"creator,omitempty"`
	Checker               *string          `json:"checker,omitempty"`
	CommercialDescription *string          `json:"commercialDescription,omitempty"`
	// Status here is an administrative correction and bypasses the transition guards
	Status       *Status       `json:"status,omitempty"`
	Priority     *bool         `json:"priority,omitempty"`
	OnHold       *bool         `json:"onHold,omitempty"`
	InSAP        *bool         `json:"inSAP,omitempty"`
	StellarTask  *bool         `json:"stellarTask,omitempty"`
	Rate         OptionalFloat `json:"rate,omitzero"`
	Adjusted     OptionalFloat `json:"adjusted,omitzero"`
	Inputter     *string       `json:"inputter,omitempty"`
	Verifier     *string       `json:"verifier,omitempty"`
	Extcosts     OptionalFloat `json:"extcosts,omitzero"`
	BillingNotes *string       `json:"billingnotes,omitempty"`
}

// Merge returns f with the patch applied. f is not modified.
func (p JobPatch) Merge(f JobFields) (JobFields, error) {
	out := f.Clone()

	if p.ClockNumberMediaName != nil {
		if strings.TrimSpace(*p.ClockNumberMediaName) == "" {
			return f, NewValidationError("clockNumberMediaName", "cannot be empty")
		}
		out.ClockNumberMediaName = *p.ClockNumberMediaName
	}
	if p.Services != nil {
		if err := ValidateServices(*p.Services); err != nil {
			return f, err
		}
		out.Services = slices.Clone(*p.Services)
	}
	if p.DeliveryDate != nil {
		if _, ok := ParseDeliveryDate(*p.DeliveryDate, time.UTC); !ok {
			return f, NewValidationError("deliveryDate", "%q is not an ISO-8601 date", *p.DeliveryDate)
		}
		out.DeliveryDate = *p.DeliveryDate
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return f, NewValidationError("status", "%q is not a valid status", *p.Status)
		}
		out.Status = *p.Status
	}
	if p.Creator != nil {
		if err := validateStaffInitials("creator", *p.Creator); err != nil {
			return f, err
		}
		out.Creator = *p.Creator
	}
	if p.Checker != nil {
		if err := validateStaffInitials("checker", *p.Checker); err != nil {
			return f, err
		}
		out.Checker = *p.Checker
	}
	if p.Destination != nil {
		if !slices.Contains(KnownDestinations, *p.Destination) && len([]rune(*p.Destination)) > MaxCustomDestinationLength {
			return f, NewValidationError("destination", "custom destination must be %d characters or less", MaxCustomDestinationLength)
		}
		out.Destination = *p.Destination
	}

	setString(&out.OrderNumber, p.OrderNumber)
	setString(&out.Client, p.Client)
	setString(&out.Agency, p.Agency)
	setString(&out.PoReference, p.PoReference)
	setString(&out.ProductionNotes, p.ProductionNotes)
	setString(&out.CommercialDescription, p.CommercialDescription)
	setString(&out.Inputter, p.Inputter)
	setString(&out.Verifier, p.Verifier)
	setString(&out.BillingNotes, p.BillingNotes)
	setBool(&out.Priority, p.Priority)
	setBool(&out.OnHold, p.OnHold)
	setBool(&out.InSAP, p.InSAP)
	setBool(&out.StellarTask, p.StellarTask)
	setFloat(&out.Rate, p.Rate)
	setFloat(&out.Adjusted, p.Adjusted)
	setFloat(&out.Extcosts, p.Extcosts)

	return out, nil
}

// IsEmpty reports whether the patch changes nothing
func (p JobPatch) IsEmpty() bool {
	return p == JobPatch{}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst **float64, v OptionalFloat) {
	if v.Set {
		*dst = cloneFloat(v.Value)
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
