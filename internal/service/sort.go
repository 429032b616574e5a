package service

import (
	"slices"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"golang.org/x/text/collate"
)

// SortField names a report column that can be sorted
type SortField string

const (
	SortByClockNumber           SortField = "clockNumberMediaName"
	SortByOrderNumber           SortField = "orderNumber"
	SortByClient                SortField = "client"
	SortByAgency                SortField = "agency"
	SortByDeliveryDate          SortField = "deliveryDate"
	SortByPoReference           SortField = "poReference"
	SortByDestination           SortField = "destination"
	SortByProductionNotes       SortField = "productionNotes"
	SortByCreator               SortField = "creator"
	SortByChecker               SortField = "checker"
	SortByCommercialDescription SortField = "commercialDescription"
	SortByStatus                SortField = "status"
	SortByPriority              SortField = "priority"
	SortByOnHold                SortField = "onHold"
	SortByInSAP                 SortField = "inSAP"
	SortByCreatedAt             SortField = "createdAt"
	SortByUpdatedAt             SortField = "updatedAt"
	SortByRate                  SortField = "rate"
	SortByExtcosts              SortField = "extcosts"
)

var sortFields = []SortField{
	SortByClockNumber, SortByOrderNumber, SortByClient, SortByAgency,
	SortByDeliveryDate, SortByPoReference, SortByDestination, SortByProductionNotes,
	SortByCreator, SortByChecker, SortByCommercialDescription, SortByStatus,
	SortByPriority, SortByOnHold, SortByInSAP, SortByCreatedAt, SortByUpdatedAt,
	SortByRate, SortByExtcosts,
}

func (f SortField) Valid() bool {
	return slices.Contains(sortFields, f)
}

// DefaultDirection is descending for timestamps and ascending otherwise
func (f SortField) DefaultDirection() SortDirection {
	if f == SortByCreatedAt || f == SortByUpdatedAt {
		return SortDesc
	}
	return SortAsc
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// SortSpec is a single-column sort. The zero value means unsorted.
type SortSpec struct {
	Field     SortField     `json:"field,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// DefaultSort is the report order when no column is chosen
var DefaultSort = SortSpec{Field: SortByUpdatedAt, Direction: SortDesc}

// Resolve fills in DefaultSort for an empty spec and the field's default
// direction when only a field is given.
func (s SortSpec) Resolve() (SortSpec, error) {
	if s.Field == "" {
		return DefaultSort, nil
	}
	if !s.Field.Valid() {
		return s, domain.NewValidationError("sort_by", "%q is not a sortable field", s.Field)
	}
	if s.Direction == "" {
		s.Direction = s.Field.DefaultDirection()
	}
	if !s.Direction.Valid() {
		return s, domain.NewValidationError("sort_direction", "%q must be asc or desc", s.Direction)
	}
	return s, nil
}

// ToggleSort returns the sort after a click on column: a new column starts
// ascending, and the same column cycles ascending, descending, unsorted.
func ToggleSort(current SortSpec, column SortField) SortSpec {
	if current.Field != column {
		return SortSpec{Field: column, Direction: SortAsc}
	}
	if current.Direction == SortAsc {
		return SortSpec{Field: column, Direction: SortDesc}
	}
	return SortSpec{}
}

type sortKey struct {
	empty bool
	text  string
	num   float64
	at    time.Time
}

// SortJobs sorts jobs in place by spec. Empty values sort last in either
// direction. Text compares by locale collation, status by pipeline order.
func SortJobs(jobs []*domain.Job, spec SortSpec, loc *time.Location) {
	if spec.Field == "" {
		return
	}

	col := newCollator()
	keys := make(map[*domain.Job]sortKey, len(jobs))
	for _, j := range jobs {
		keys[j] = keyFor(j, spec.Field, loc)
	}

	slices.SortStableFunc(jobs, func(a, b *domain.Job) int {
		ka, kb := keys[a], keys[b]
		switch {
		case ka.empty && kb.empty:
			return 0
		case ka.empty:
			return 1
		case kb.empty:
			return -1
		}

		c := compareKeys(col, spec.Field, ka, kb)
		if spec.Direction == SortDesc {
			return -c
		}
		return c
	})
}

func keyFor(j *domain.Job, field SortField, loc *time.Location) sortKey {
	switch field {
	case SortByClockNumber:
		return textKey(j.ClockNumberMediaName)
	case SortByOrderNumber:
		return textKey(j.OrderNumber)
	case SortByClient:
		return textKey(j.Client)
	case SortByAgency:
		return textKey(j.Agency)
	case SortByPoReference:
		return textKey(j.PoReference)
	case SortByDestination:
		return textKey(j.Destination)
	case SortByProductionNotes:
		return textKey(j.ProductionNotes)
	case SortByCreator:
		return textKey(j.Creator)
	case SortByChecker:
		return textKey(j.Checker)
	case SortByCommercialDescription:
		return textKey(j.CommercialDescription)
	case SortByStatus:
		idx := j.Status.Index()
		return sortKey{empty: idx < 0, num: float64(idx)}
	case SortByPriority:
		return boolKey(j.Priority)
	case SortByOnHold:
		return boolKey(j.OnHold)
	case SortByInSAP:
		return boolKey(j.InSAP)
	case SortByDeliveryDate:
		day, ok := domain.ParseDeliveryDate(j.DeliveryDate, loc)
		return sortKey{empty: !ok, at: day}
	case SortByCreatedAt:
		return sortKey{empty: j.CreatedAt.IsZero(), at: j.CreatedAt}
	case SortByUpdatedAt:
		return sortKey{empty: j.UpdatedAt.IsZero(), at: j.UpdatedAt}
	case SortByRate:
		return floatKey(j.Rate)
	case SortByExtcosts:
		return floatKey(j.Extcosts)
	default:
		return sortKey{empty: true}
	}
}

func textKey(s string) sortKey { return sortKey{empty: s == "", text: s} }

func boolKey(b bool) sortKey {
	if b {
		return sortKey{num: 1}
	}
	return sortKey{}
}

func floatKey(v *float64) sortKey {
	if v == nil {
		return sortKey{empty: true}
	}
	return sortKey{num: *v}
}

func compareKeys(col *collate.Collator, field SortField, a, b sortKey) int {
	switch field {
	case SortByDeliveryDate, SortByCreatedAt, SortByUpdatedAt:
		return a.at.Compare(b.at)
	case SortByStatus, SortByPriority, SortByOnHold, SortByInSAP, SortByRate, SortByExtcosts:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	default:
		return col.CompareString(a.text, b.text)
	}
}
