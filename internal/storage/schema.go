package storage

// Schema creates the tables used by PostgresStore. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id                      UUID PRIMARY KEY,
	clock_number_media_name TEXT NOT NULL,
	order_number            TEXT NOT NULL DEFAULT '',
	services                JSONB NOT NULL DEFAULT '[]',
	client                  TEXT NOT NULL DEFAULT '',
	agency                  TEXT NOT NULL DEFAULT '',
	delivery_date           TEXT NOT NULL DEFAULT '',
	po_reference            TEXT NOT NULL DEFAULT '',
	destination             TEXT NOT NULL DEFAULT '',
	production_notes        TEXT NOT NULL DEFAULT '',
	creator                 TEXT NOT NULL DEFAULT '',
	checker                 TEXT NOT NULL DEFAULT '',
	commercial_description  TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL,
	priority                BOOLEAN NOT NULL DEFAULT FALSE,
	on_hold                 BOOLEAN NOT NULL DEFAULT FALSE,
	in_sap                  BOOLEAN NOT NULL DEFAULT FALSE,
	stellar_task            BOOLEAN NOT NULL DEFAULT FALSE,
	rate                    DOUBLE PRECISION,
	adjusted                DOUBLE PRECISION,
	inputter                TEXT NOT NULL DEFAULT '',
	verifier                TEXT NOT NULL DEFAULT '',
	extcosts                DOUBLE PRECISION,
	billing_notes           TEXT NOT NULL DEFAULT '',
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL,
	CONSTRAINT jobs_status_check CHECK (status IN ('Booked', 'Received', 'Encoded', 'Delivered', 'Finished'))
);

CREATE INDEX IF NOT EXISTS idx_jobs_status_created ON jobs (status, created_at, id);
CREATE INDEX IF NOT EXISTS idx_jobs_clock_number ON jobs (clock_number_media_name text_pattern_ops);

CREATE TABLE IF NOT EXISTS deleted_jobs (
	id                      UUID PRIMARY KEY,
	original_job_id         UUID NOT NULL,
	clock_number_media_name TEXT NOT NULL,
	order_number            TEXT NOT NULL DEFAULT '',
	services                JSONB NOT NULL DEFAULT '[]',
	client                  TEXT NOT NULL DEFAULT '',
	agency                  TEXT NOT NULL DEFAULT '',
	delivery_date           TEXT NOT NULL DEFAULT '',
	po_reference            TEXT NOT NULL DEFAULT '',
	destination             TEXT NOT NULL DEFAULT '',
	production_notes        TEXT NOT NULL DEFAULT '',
	creator                 TEXT NOT NULL DEFAULT '',
	checker                 TEXT NOT NULL DEFAULT '',
	commercial_description  TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL,
	priority                BOOLEAN NOT NULL DEFAULT FALSE,
	on_hold                 BOOLEAN NOT NULL DEFAULT FALSE,
	in_sap                  BOOLEAN NOT NULL DEFAULT FALSE,
	stellar_task            BOOLEAN NOT NULL DEFAULT FALSE,
	rate                    DOUBLE PRECISION,
	adjusted                DOUBLE PRECISION,
	inputter                TEXT NOT NULL DEFAULT '',
	verifier                TEXT NOT NULL DEFAULT '',
	extcosts                DOUBLE PRECISION,
	billing_notes           TEXT NOT NULL DEFAULT '',
	deleted_by              TEXT NOT NULL,
	deleted_at              TIMESTAMPTZ NOT NULL,
	deletion_reason         TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_deleted_jobs_deleted_at ON deleted_jobs (deleted_at DESC);

CREATE TABLE IF NOT EXISTS user_prefs (
	user_id                 TEXT PRIMARY KEY,
	initials                TEXT NOT NULL DEFAULT '',
	last_active             TIMESTAMPTZ,
	job_form_service_height INTEGER,
	updated_at              TIMESTAMPTZ NOT NULL
);
`
