package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS subjects (
    id         TEXT PRIMARY KEY,
    slug       TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL,
    exam_types TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS topics (
    id         TEXT PRIMARY KEY,
    subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    name       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    id             TEXT PRIMARY KEY,
    subject_id     TEXT REFERENCES subjects(id) ON DELETE CASCADE,
    topic_id       TEXT REFERENCES topics(id) ON DELETE CASCADE,
    question_text  TEXT NOT NULL,
    option_a       TEXT NOT NULL,
    option_b       TEXT NOT NULL,
    option_c       TEXT NOT NULL,
    option_d       TEXT NOT NULL,
    correct_answer TEXT NOT NULL CHECK (correct_answer IN ('A', 'B', 'C', 'D')),
    explanation    TEXT,
    exam_type      TEXT,
    exam_year      INTEGER,
    is_active      BOOLEAN NOT NULL DEFAULT TRUE,
    CHECK (subject_id IS NOT NULL OR topic_id IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_topics_subject    ON topics(subject_id);
CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject_id);
CREATE INDEX IF NOT EXISTS idx_questions_topic   ON questions(topic_id);

CREATE TABLE IF NOT EXISTS attempts (
    id                 TEXT PRIMARY KEY,
    subject_id         TEXT REFERENCES subjects(id) ON DELETE SET NULL,
    quiz_mode          TEXT NOT NULL,
    total_questions    INTEGER NOT NULL,
    correct_answers    INTEGER NOT NULL,
    score_percentage   DOUBLE PRECISION NOT NULL,
    time_taken_seconds INTEGER NOT NULL,
    exam_type          TEXT,
    exam_year          INTEGER,
    auto_submitted     BOOLEAN NOT NULL DEFAULT FALSE,
    questions_data     JSONB NOT NULL DEFAULT '[]',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS attempts;
DROP TABLE IF EXISTS questions;
DROP TABLE IF EXISTS topics;
DROP TABLE IF EXISTS subjects;
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, dropSchemaSQL)
			return err
		},
	)
}
