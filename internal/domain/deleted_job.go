package domain

import "time"

// TombstoneRetention is how long a tombstone is kept before it becomes
// eligible for purge. Purge stays user triggered.
const TombstoneRetention = 30 * 24 * time.Hour

// DeletedJob is a tombstone holding the full snapshot of a soft-deleted job
type DeletedJob struct {
	ID            string `json:"id"`
	OriginalJobID string `json:"originalJobId"`
	JobFields
	DeletedBy      string    `json:"deletedBy"`
	DeletedAt      time.Time `json:"deletedAt"`
	DeletionReason string    `json:"deletionReason"`
}

// NewDeletedJob snapshots job into a tombstone
func NewDeletedJob(job *Job, deletedBy, reason string, deletedAt time.Time) *DeletedJob {
	return &DeletedJob{
		OriginalJobID:  job.ID,
		JobFields:      job.JobFields.Clone(),
		DeletedBy:      deletedBy,
		DeletedAt:      deletedAt,
		DeletionReason: reason,
	}
}

// PurgeEligibleAt is the end of the retention window
func (d *DeletedJob) PurgeEligibleAt() time.Time {
	return d.DeletedAt.Add(TombstoneRetention)
}

// Clone returns a deep copy of d
func (d *DeletedJob) Clone() *DeletedJob {
	out := *d
	out.JobFields = d.JobFields.Clone()
	return &out
}
