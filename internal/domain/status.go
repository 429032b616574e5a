package domain

import "fmt"

// Status is the position of a job in the delivery pipeline
type Status string

// Job status constants, in pipeline order
const (
	StatusBooked    Status = "Booked"
	StatusReceived  Status = "Received"
	StatusEncoded   Status = "Encoded"
	StatusDelivered Status = "Delivered"
	StatusFinished  Status = "Finished"
)

var orderedStatuses = []Status{
	StatusBooked,
	StatusReceived,
	StatusEncoded,
	StatusDelivered,
	StatusFinished,
}

// AllStatuses returns every status in pipeline order
func AllStatuses() []Status {
	out := make([]Status, len(orderedStatuses))
	copy(out, orderedStatuses)
	return out
}

// OpenStatuses returns the statuses shown on the open board
func OpenStatuses() []Status {
	return []Status{StatusBooked, StatusReceived, StatusEncoded, StatusDelivered}
}

// FinishedStatuses returns the statuses shown on the finished board
func FinishedStatuses() []Status {
	return []Status{StatusFinished}
}

// ParseStatus matches s exactly against the status enum
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q is not one of %v", ErrInvalidStatus, s, orderedStatuses)
	}
	return st, nil
}

// Valid reports whether s is a member of the status enum
func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Index returns the pipeline position of s, or -1 when s is unknown
func (s Status) Index() int {
	for i, st := range orderedStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the following status. ok is false at Finished or for unknown values.
func (s Status) Next() (Status, bool) {
	i := s.Index()
	if i < 0 || i == len(orderedStatuses)-1 {
		return s, false
	}
	return orderedStatuses[i+1], true
}

// Prev returns the preceding status. ok is false at Booked or for unknown values.
func (s Status) Prev() (Status, bool) {
	i := s.Index()
	if i <= 0 {
		return s, false
	}
	return orderedStatuses[i-1], true
}

// IsOpen reports whether s belongs to the open group
func (s Status) IsOpen() bool {
	return s.Valid() && s != StatusFinished
}

func (s Status) String() string {
	return string(s)
}
