package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore is the sqlx-backed Store
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresStore(db *sqlx.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// Migrate applies Schema
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	s.logger.Info("Database schema is up to date")
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to ping database: %w", err))
	}
	return nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *domain.Job) error {
	id := uuid.NewString()
	row, err := toJobRow(job)
	if err != nil {
		return err
	}
	row.ID = id

	query := `
		INSERT INTO jobs (id, ` + jobFieldColumns + `, created_at, updated_at)
		VALUES (:id, ` + jobFieldBinds + `, :created_at, :updated_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to create job: %w", err))
	}

	job.ID = id
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var row jobRow
	query := `
		SELECT id, ` + jobFieldColumns + `, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewBackendError(fmt.Errorf("failed to get job: %w", err))
	}

	job, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to read job %s: %w", id, err)
	}
	return job, nil
}

func (s *PostgresStore) UpdateJob(ctx context.Context, job *domain.Job) error {
	row, err := toJobRow(job)
	if err != nil {
		return err
	}

	query := `
		UPDATE jobs SET
			clock_number_media_name = :clock_number_media_name,
			order_number = :order_number,
			services = :services,
			client = :client,
			agency = :agency,
			delivery_date = :delivery_date,
			po_reference = :po_reference,
			destination = :destination,
			production_notes = :production_notes,
			creator = :creator,
			checker = :checker,
			commercial_description = :commercial_description,
			status = :status,
			priority = :priority,
			on_hold = :on_hold,
			in_sap = :in_sap,
			stellar_task = :stellar_task,
			rate = :rate,
			adjusted = :adjusted,
			inputter = :inputter,
			verifier = :verifier,
			extcosts = :extcosts,
			billing_notes = :billing_notes,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to update job: %w", err))
	}
	return expectOneRow(result, "update job")
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to delete job: %w", err))
	}
	return expectOneRow(result, "delete job")
}

func (s *PostgresStore) ListJobs(ctx context.Context, q JobQuery) ([]*domain.Job, error) {
	query := `
		SELECT id, ` + jobFieldColumns + `, created_at, updated_at
		FROM jobs
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		query += fmt.Sprintf(" AND status = ANY($%d)", argIdx)
		args = append(args, pq.Array(statuses))
		argIdx++
	}

	if q.NamePrefix != "" {
		query += fmt.Sprintf(` AND clock_number_media_name LIKE $%d ESCAPE '\'`, argIdx)
		args = append(args, escapeLike(q.NamePrefix)+"%")
		argIdx++
	}

	query += " ORDER BY created_at ASC, id ASC"

	var rows []jobRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewBackendError(fmt.Errorf("failed to list jobs: %w", err))
	}

	jobs := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		// Kept with nil Services so the record stays visible to listings,
		// clock-number matching and Reconcile.
		job, err := row.toDomain()
		if err != nil {
			s.logger.Warn("Job has undecodable services",
				slog.String("job_id", row.ID),
				slog.Any("error", err),
			)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *PostgresStore) CreateDeletedJob(ctx context.Context, d *domain.DeletedJob) error {
	id := uuid.NewString()
	row, err := toDeletedJobRow(d)
	if err != nil {
		return err
	}
	row.ID = id

	query := `
		INSERT INTO deleted_jobs (
			id, original_job_id, ` + jobFieldColumns + `,
			deleted_by, deleted_at, deletion_reason
		) VALUES (
			:id, :original_job_id, ` + jobFieldBinds + `,
			:deleted_by, :deleted_at, :deletion_reason
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to create deleted job: %w", err))
	}

	d.ID = id
	return nil
}

func (s *PostgresStore) GetDeletedJob(ctx context.Context, id string) (*domain.DeletedJob, error) {
	var row deletedJobRow
	query := `
		SELECT id, original_job_id, ` + jobFieldColumns + `,
			deleted_by, deleted_at, deletion_reason
		FROM deleted_jobs
		WHERE id = $1
	`

	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewBackendError(fmt.Errorf("failed to get deleted job: %w", err))
	}

	d, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to read deleted job %s: %w", id, err)
	}
	return d, nil
}

func (s *PostgresStore) ListDeletedJobs(ctx context.Context) ([]*domain.DeletedJob, error) {
	query := `
		SELECT id, original_job_id, ` + jobFieldColumns + `,
			deleted_by, deleted_at, deletion_reason
		FROM deleted_jobs
		ORDER BY deleted_at DESC, id ASC
	`

	var rows []deletedJobRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewBackendError(fmt.Errorf("failed to list deleted jobs: %w", err))
	}

	out := make([]*domain.DeletedJob, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain()
		if err != nil {
			s.logger.Warn("Deleted job has undecodable services",
				slog.String("deleted_job_id", row.ID),
				slog.Any("error", err),
			)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *PostgresStore) DeleteDeletedJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM deleted_jobs WHERE id = $1`, id)
	if err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to delete deleted job: %w", err))
	}
	return expectOneRow(result, "delete deleted job")
}

func (s *PostgresStore) GetUserPrefs(ctx context.Context, userID string) (*domain.UserPrefs, error) {
	var row userPrefsRow
	query := `
		SELECT user_id, initials, last_active, job_form_service_height, updated_at
		FROM user_prefs
		WHERE user_id = $1
	`

	if err := s.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewBackendError(fmt.Errorf("failed to get user prefs: %w", err))
	}

	return &domain.UserPrefs{
		UserID:               row.UserID,
		Initials:             row.Initials,
		LastActive:           row.LastActive,
		JobFormServiceHeight: row.JobFormServiceHeight,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func (s *PostgresStore) UpsertUserPrefs(ctx context.Context, prefs *domain.UserPrefs) error {
	row := userPrefsRow{
		UserID:               prefs.UserID,
		Initials:             prefs.Initials,
		LastActive:           prefs.LastActive,
		JobFormServiceHeight: prefs.JobFormServiceHeight,
		UpdatedAt:            prefs.UpdatedAt,
	}

	query := `
		INSERT INTO user_prefs (user_id, initials, last_active, job_form_service_height, updated_at)
		VALUES (:user_id, :initials, :last_active, :job_form_service_height, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			initials = EXCLUDED.initials,
			last_active = EXCLUDED.last_active,
			job_form_service_height = EXCLUDED.job_form_service_height,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to upsert user prefs: %w", err))
	}
	return nil
}

func expectOneRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return domain.NewBackendError(fmt.Errorf("failed to %s: %w", op, err))
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
