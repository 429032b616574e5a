package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
)

// jobFieldsRow maps domain.JobFields onto columns shared by jobs and deleted_jobs
type jobFieldsRow struct {
	ClockNumberMediaName  string   `db:"clock_number_media_name"`
	OrderNumber           string   `db:"order_number"`
	Services              string   `db:"services"`
	Client                string   `db:"client"`
	Agency                string   `db:"agency"`
	DeliveryDate          string   `db:"delivery_date"`
	PoReference           string   `db:"po_reference"`
	Destination           string   `db:"destination"`
	ProductionNotes       string   `db:"production_notes"`
	Creator               string   `db:"creator"`
	Checker               string   `db:"checker"`
	CommercialDescription string   `db:"commercial_description"`
	Status                string   `db:"status"`
	Priority              bool     `db:"priority"`
	OnHold                bool     `db:"on_hold"`
	InSAP                 bool     `db:"in_sap"`
	StellarTask           bool     `db:"stellar_task"`
	Rate                  *float64 `db:"rate"`
	Adjusted              *float64 `db:"adjusted"`
	Inputter              string   `db:"inputter"`
	Verifier              string   `db:"verifier"`
	Extcosts              *float64 `db:"extcosts"`
	BillingNotes          string   `db:"billing_notes"`
}

type jobRow struct {
	ID string `db:"id"`
	jobFieldsRow
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type deletedJobRow struct {
	ID            string `db:"id"`
	OriginalJobID string `db:"original_job_id"`
	jobFieldsRow
	DeletedBy      string    `db:"deleted_by"`
	DeletedAt      time.Time `db:"deleted_at"`
	DeletionReason string    `db:"deletion_reason"`
}

type userPrefsRow struct {
	UserID               string     `db:"user_id"`
	Initials             string     `db:"initials"`
	LastActive           *time.Time `db:"last_active"`
	JobFormServiceHeight *int       `db:"job_form_service_height"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

const jobFieldColumns = `clock_number_media_name, order_number, services, client, agency,
	delivery_date, po_reference, destination, production_notes, creator, checker,
	commercial_description, status, priority, on_hold, in_sap, stellar_task,
	rate, adjusted, inputter, verifier, extcosts, billing_notes`

const jobFieldBinds = `:clock_number_media_name, :order_number, :services, :client, :agency,
	:delivery_date, :po_reference, :destination, :production_notes, :creator, :checker,
	:commercial_description, :status, :priority, :on_hold, :in_sap, :stellar_task,
	:rate, :adjusted, :inputter, :verifier, :extcosts, :billing_notes`

// services are stored as a JSON array in a JSONB column
func toFieldsRow(f domain.JobFields) (jobFieldsRow, error) {
	services := f.Services
	if services == nil {
		services = []domain.ServiceDetail{}
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return jobFieldsRow{}, fmt.Errorf("failed to encode services: %w", err)
	}

	return jobFieldsRow{
		ClockNumberMediaName:  f.ClockNumberMediaName,
		OrderNumber:           f.OrderNumber,
		Services:              string(raw),
		Client:                f.Client,
		Agency:                f.Agency,
		DeliveryDate:          f.DeliveryDate,
		PoReference:           f.PoReference,
		Destination:           f.Destination,
		ProductionNotes:       f.ProductionNotes,
		Creator:               f.Creator,
		Checker:               f.Checker,
		CommercialDescription: f.CommercialDescription,
		Status:                string(f.Status),
		Priority:              f.Priority,
		OnHold:                f.OnHold,
		InSAP:                 f.InSAP,
		StellarTask:           f.StellarTask,
		Rate:                  f.Rate,
		Adjusted:              f.Adjusted,
		Inputter:              f.Inputter,
		Verifier:              f.Verifier,
		Extcosts:              f.Extcosts,
		BillingNotes:          f.BillingNotes,
	}, nil
}

// toDomain always returns the scalar fields. A services column that fails
// to decode leaves Services nil and is reported through the error.
func (r jobFieldsRow) toDomain() (domain.JobFields, error) {
	var (
		services []domain.ServiceDetail
		err      error
	)
	if r.Services != "" {
		if jerr := json.Unmarshal([]byte(r.Services), &services); jerr != nil {
			services = nil
			err = fmt.Errorf("failed to decode services: %w", jerr)
		}
	}

	return domain.JobFields{
		ClockNumberMediaName:  r.ClockNumberMediaName,
		OrderNumber:           r.OrderNumber,
		Services:              services,
		Client:                r.Client,
		Agency:                r.Agency,
		DeliveryDate:          r.DeliveryDate,
		PoReference:           r.PoReference,
		Destination:           r.Destination,
		ProductionNotes:       r.ProductionNotes,
		Creator:               r.Creator,
		Checker:               r.Checker,
		CommercialDescription: r.CommercialDescription,
		Status:                domain.Status(r.Status),
		Priority:              r.Priority,
		OnHold:                r.OnHold,
		InSAP:                 r.InSAP,
		StellarTask:           r.StellarTask,
		Rate:                  r.Rate,
		Adjusted:              r.Adjusted,
		Inputter:              r.Inputter,
		Verifier:              r.Verifier,
		Extcosts:              r.Extcosts,
		BillingNotes:          r.BillingNotes,
	}, err
}

func toJobRow(j *domain.Job) (jobRow, error) {
	fields, err := toFieldsRow(j.JobFields)
	if err != nil {
		return jobRow{}, err
	}
	return jobRow{ID: j.ID, jobFieldsRow: fields, CreatedAt: j.CreatedAt, UpdatedAt: j.UpdatedAt}, nil
}

func (r jobRow) toDomain() (*domain.Job, error) {
	fields, err := r.jobFieldsRow.toDomain()
	return &domain.Job{ID: r.ID, JobFields: fields, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}, err
}

func toDeletedJobRow(d *domain.DeletedJob) (deletedJobRow, error) {
	fields, err := toFieldsRow(d.JobFields)
	if err != nil {
		return deletedJobRow{}, err
	}
	return deletedJobRow{
		ID:             d.ID,
		OriginalJobID:  d.OriginalJobID,
		jobFieldsRow:   fields,
		DeletedBy:      d.DeletedBy,
		DeletedAt:      d.DeletedAt,
		DeletionReason: d.DeletionReason,
	}, nil
}

func (r deletedJobRow) toDomain() (*domain.DeletedJob, error) {
	fields, err := r.jobFieldsRow.toDomain()
	return &domain.DeletedJob{
		ID:             r.ID,
		OriginalJobID:  r.OriginalJobID,
		JobFields:      fields,
		DeletedBy:      r.DeletedBy,
		DeletedAt:      r.DeletedAt,
		DeletionReason: r.DeletionReason,
	}, err
}
