package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DeliveryBucket orders board cards by how their delivery day relates to today
type DeliveryBucket int

const (
	BucketOverdue DeliveryBucket = iota
	BucketDueToday
	BucketFuture
	BucketUndated
)

func (b DeliveryBucket) String() string {
	switch b {
	case BucketOverdue:
		return "overdue"
	case BucketDueToday:
		return "today"
	case BucketFuture:
		return "future"
	default:
		return "undated"
	}
}

// BoardGroup selects the statuses shown on a board
type BoardGroup string

const (
	BoardOpen     BoardGroup = "open"
	BoardFinished BoardGroup = "finished"
)

// Statuses returns the group's columns in pipeline order
func (g BoardGroup) Statuses() ([]domain.Status, error) {
	switch g {
	case BoardOpen:
		return domain.OpenStatuses(), nil
	case BoardFinished:
		return domain.FinishedStatuses(), nil
	default:
		return nil, domain.NewValidationError("group", "%q is not a board group, use open or finished", string(g))
	}
}

// BoardCard is a job placed on a board column
type BoardCard struct {
	Job     *domain.Job
	Bucket  DeliveryBucket
	Overdue bool
}

type BoardColumn struct {
	Status domain.Status
	Cards  []BoardCard
}

type Board struct {
	Group   BoardGroup
	Today   time.Time
	Columns []BoardColumn
}

// Lister produces the board and partition views. "Today" is always taken
// in one reference timezone so every caller sees the same buckets.
type Lister struct {
	store storage.JobStore
	loc   *time.Location
	now   func() time.Time
}

func NewLister(store storage.JobStore, loc *time.Location) *Lister {
	return &Lister{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// ListOpen returns jobs in Booked through Delivered
func (l *Lister) ListOpen(ctx context.Context) ([]*domain.Job, error) {
	return l.listStatuses(ctx, domain.OpenStatuses())
}

// ListFinished returns Finished jobs
func (l *Lister) ListFinished(ctx context.Context) ([]*domain.Job, error) {
	return l.listStatuses(ctx, domain.FinishedStatuses())
}

func (l *Lister) listStatuses(ctx context.Context, statuses []domain.Status) ([]*domain.Job, error) {
	jobs, err := l.store.ListJobs(ctx, storage.JobQuery{Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Board returns one column per status of group with cards in board order
func (l *Lister) Board(ctx context.Context, group BoardGroup) (*Board, error) {
	statuses, err := group.Statuses()
	if err != nil {
		return nil, err
	}

	jobs, err := l.listStatuses(ctx, statuses)
	if err != nil {
		return nil, err
	}

	today := domain.StartOfDay(l.now(), l.loc)
	SortBoard(jobs, today, l.loc)

	columns := make([]BoardColumn, len(statuses))
	index := make(map[domain.Status]int, len(statuses))
	for i, st := range statuses {
		columns[i] = BoardColumn{Status: st, Cards: []BoardCard{}}
		index[st] = i
	}

	for _, job := range jobs {
		i, ok := index[job.Status]
		if !ok {
			continue
		}
		bucket := BucketFor(job.DeliveryDate, today, l.loc)
		columns[i].Cards = append(columns[i].Cards, BoardCard{
			Job:     job,
			Bucket:  bucket,
			Overdue: bucket == BucketOverdue && job.Status != domain.StatusFinished,
		})
	}

	return &Board{Group: group, Today: today, Columns: columns}, nil
}

// BucketFor classifies a delivery date against today, the start of the
// current day in loc
func BucketFor(deliveryDate string, today time.Time, loc *time.Location) DeliveryBucket {
	day, ok := domain.ParseDeliveryDate(deliveryDate, loc)
	if !ok {
		return BucketUndated
	}
	switch {
	case day.Before(today):
		return BucketOverdue
	case day.Equal(today):
		return BucketDueToday
	default:
		return BucketFuture
	}
}

// SortBoard orders jobs by delivery bucket, then by clock number using
// locale collation. The sort is stable.
func SortBoard(jobs []*domain.Job, today time.Time, loc *time.Location) {
	col := newCollator()
	buckets := make(map[*domain.Job]DeliveryBucket, len(jobs))
	for _, j := range jobs {
		buckets[j] = BucketFor(j.DeliveryDate, today, loc)
	}

	slices.SortStableFunc(jobs, func(a, b *domain.Job) int {
		if ba, bb := buckets[a], buckets[b]; ba != bb {
			return int(ba) - int(bb)
		}
		return col.CompareString(a.ClockNumberMediaName, b.ClockNumberMediaName)
	})
}

// newCollator returns a fresh collator. Collators are not safe for
// concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// MatchesSearch reports whether query occurs, ignoring case, in the job's
// text and numeric fields or in the "name subService notes" rendering of its
// services. A blank query matches everything.
func MatchesSearch(job *domain.Job, query string) bool {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(fold.String(searchText(job)), q)
}

// FilterSearch keeps jobs matching query
func FilterSearch(jobs []*domain.Job, query string) []*domain.Job {
	if strings.TrimSpace(query) == "" {
		return jobs
	}
	out := make([]*domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if MatchesSearch(j, query) {
			out = append(out, j)
		}
	}
	return out
}

func searchText(job *domain.Job) string {
	parts := []string{
		job.ID,
		job.ClockNumberMediaName,
		job.OrderNumber,
		job.Client,
		job.Agency,
		job.DeliveryDate,
		job.PoReference,
		job.Destination,
		job.ProductionNotes,
		job.Creator,
		job.Checker,
		job.CommercialDescription,
		string(job.Status),
		job.Inputter,
		job.Verifier,
		job.BillingNotes,
	}
	for _, v := range []*float64{job.Rate, job.Adjusted, job.Extcosts} {
		if v != nil {
			parts = append(parts, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	for _, b := range []bool{job.Priority, job.OnHold, job.InSAP, job.StellarTask} {
		parts = append(parts, strconv.FormatBool(b))
	}
	for _, t := range []time.Time{job.CreatedAt, job.UpdatedAt} {
		if !t.IsZero() {
			parts = append(parts, t.Format(time.RFC3339Nano))
		}
	}
	for _, s := range job.Services {
		parts = append(parts, string(s.Name), s.SubService, s.Notes)
		if s.CustomName != "" {
			parts = append(parts, s.CustomName)
		}
	}
	return strings.Join(parts, " ")
}

// FilterDeliveryRange keeps jobs whose delivery day falls within
// [start, end], both inclusive. With either bound set, jobs without a
// parseable delivery date are dropped. With neither set, jobs is returned
// unchanged.
func FilterDeliveryRange(jobs []*domain.Job, start, end *time.Time, loc *time.Location) []*domain.Job {
	if start == nil && end == nil {
		return jobs
	}

	var from, to time.Time
	if start != nil {
		from = domain.StartOfDay(*start, loc)
	}
	if end != nil {
		to = domain.StartOfDay(*end, loc)
	}

	out := make([]*domain.Job, 0, len(jobs))
	for _, j := range jobs {
		day, ok := domain.ParseDeliveryDate(j.DeliveryDate, loc)
		if !ok {
			continue
		}
		if start != nil && day.Before(from) {
			continue
		}
		if end != nil && day.After(to) {
			continue
		}
		out = append(out, j)
	}
	return out
}
