package dto

import (
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/service"
)

// JobDTO is the API representation of an active job
type JobDTO struct {
	ID                    string                 `json:"id"`
	ClockNumberMediaName  string                 `json:"clockNumberMediaName"`
	OrderNumber           string                 `json:"orderNumber"`
	Services              []domain.ServiceDetail `json:"services"`
	Client                string                 `json:"client"`
	Agency                string                 `json:"agency"`
	DeliveryDate          string                 `json:"deliveryDate"`
	PoReference           string                 `json:"poReference"`
	Destination           string                 `json:"destination"`
	ProductionNotes       string                 `json:"productionNotes"`
	Creator               string                 `json:"creator"`
	Checker               string                 `json:"checker"`
	CommercialDescription string                 `json:"commercialDescription"`
	Status                domain.Status          `json:"status"`
	Priority              bool                   `json:"priority"`
	OnHold                bool                   `json:"onHold"`
	InSAP                 bool                   `json:"inSAP"`
	StellarTask           bool                   `json:"stellarTask"`
	Rate                  *float64               `json:"rate"`
	Adjusted              *float64               `json:"adjusted"`
	Inputter              string                 `json:"inputter"`
	Verifier              string                 `json:"verifier"`
	Extcosts              *float64               `json:"extcosts"`
	BillingNotes          string                 `json:"billingnotes"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

func NewJobDTO(j *domain.Job) JobDTO {
	services := j.Services
	if services == nil {
		services = []domain.ServiceDetail{}
	}
	return JobDTO{
		ID:                    j.ID,
		ClockNumberMediaName:  j.ClockNumberMediaName,
		OrderNumber:           j.OrderNumber,
		Services:              services,
		Client:                j.Client,
		Agency:                j.Agency,
		DeliveryDate:          j.DeliveryDate,
		PoReference:           j.PoReference,
		Destination:           j.Destination,
		ProductionNotes:       j.ProductionNotes,
		Creator:               j.Creator,
		Checker:               j.Checker,
		CommercialDescription: j.CommercialDescription,
		Status:                j.Status,
		Priority:              j.Priority,
		OnHold:                j.OnHold,
		InSAP:                 j.InSAP,
		StellarTask:           j.StellarTask,
		Rate:                  j.Rate,
		Adjusted:              j.Adjusted,
		Inputter:              j.Inputter,
		Verifier:              j.Verifier,
		Extcosts:              j.Extcosts,
		BillingNotes:          j.BillingNotes,
		CreatedAt:             j.CreatedAt,
		UpdatedAt:             j.UpdatedAt,
	}
}

func NewJobDTOs(jobs []*domain.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i, j := range jobs {
		out[i] = NewJobDTO(j)
	}
	return out
}

type CreateJobRequest struct {
	ClockNumberMediaName  string                 `json:"clockNumberMediaName" binding:"required"`
	OrderNumber           string                 `json:"orderNumber"`
	Services              []domain.ServiceDetail `json:"services" binding:"required,min=1"`
	Client                string                 `json:"client"`
	Agency                string                 `json:"agency"`
	DeliveryDate          string                 `json:"deliveryDate" binding:"required"`
	PoReference           string                 `json:"poReference"`
	Destination           string                 `json:"destination"`
	ProductionNotes       string                 `json:"productionNotes"`
	Creator               string                 `json:"creator" binding:"omitempty,staffinitials"`
	Checker               string                 `json:"checker" binding:"omitempty,staffinitials"`
	CommercialDescription string                 `json:"commercialDescription"`
	Priority              bool                   `json:"priority"`
	OnHold                bool                   `json:"onHold"`
	InSAP                 bool                   `json:"inSAP"`
	StellarTask           bool                   `json:"stellarTask"`
	Rate                  *float64               `json:"rate"`
	Adjusted              *float64               `json:"adjusted"`
	Inputter              string                 `json:"inputter"`
	Verifier              string                 `json:"verifier"`
	Extcosts              *float64               `json:"extcosts"`
	BillingNotes          string                 `json:"billingnotes"`
}

// ToFields drops any client-supplied status; new jobs always start Booked
func (r CreateJobRequest) ToFields() domain.JobFields {
	return domain.JobFields{
		ClockNumberMediaName:  r.ClockNumberMediaName,
		OrderNumber:           r.OrderNumber,
		Services:              r.Services,
		Client:                r.Client,
		Agency:                r.Agency,
		DeliveryDate:          r.DeliveryDate,
		PoReference:           r.PoReference,
		Destination:           r.Destination,
		ProductionNotes:       r.ProductionNotes,
		Creator:               r.Creator,
		Checker:               r.Checker,
		CommercialDescription: r.CommercialDescription,
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
	}
}

type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type DeleteJobRequest struct {
	Reason string `json:"reason"`
}

// ListJobsRequest is bound from the query string. status may repeat or be
// comma separated.
type ListJobsRequest struct {
	Status        []string `form:"status"`
	Query         string   `form:"q"`
	DeliveryStart string   `form:"delivery_start"`
	DeliveryEnd   string   `form:"delivery_end"`
	SortBy        string   `form:"sort_by"`
	SortDirection string   `form:"sort_direction"`
}

type ListJobsResponse struct {
	Jobs  []JobDTO         `json:"jobs"`
	Count int              `json:"count"`
	Sort  service.SortSpec `json:"sort"`
}

func NewListJobsResponse(list *service.JobList) ListJobsResponse {
	return ListJobsResponse{
		Jobs:  NewJobDTOs(list.Jobs),
		Count: len(list.Jobs),
		Sort:  list.Sort,
	}
}

type BoardCardDTO struct {
	JobDTO
	Bucket  string `json:"bucket"`
	Overdue bool   `json:"overdue"`
}

type BoardColumnDTO struct {
	Status domain.Status  `json:"status"`
	Count  int            `json:"count"`
	Cards  []BoardCardDTO `json:"cards"`
}

type BoardResponse struct {
	Group   service.BoardGroup `json:"group"`
	Today   string             `json:"today"`
	Columns []BoardColumnDTO   `json:"columns"`
}

func NewBoardResponse(b *service.Board) BoardResponse {
	resp := BoardResponse{
		Group:   b.Group,
		Today:   b.Today.Format(time.DateOnly),
		Columns: make([]BoardColumnDTO, len(b.Columns)),
	}
	for i, col := range b.Columns {
		cards := make([]BoardCardDTO, len(col.Cards))
		for j, card := range col.Cards {
			cards[j] = BoardCardDTO{JobDTO: NewJobDTO(card.Job), Bucket: card.Bucket.String(), Overdue: card.Overdue}
		}
		resp.Columns[i] = BoardColumnDTO{Status: col.Status, Count: len(cards), Cards: cards}
	}
	return resp
}
