package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// PostgresStore implements Store over a pgx connection pool. Schema
// migrations are managed outside this module; the store assumes the tables
// exist.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPosting inserts by fingerprint, merging on conflict: most recently
// seen non-empty values win, identity fields stay.
func (s *PostgresStore) UpsertPosting(ctx context.Context, posting *types.JobPosting) (bool, error) {
	var inserted bool
	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_postings
		   (id, source, source_family, title, company, location, required_skills,
		    seniority_level, excerpt, external_url, fingerprint, from_mock, first_seen, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (fingerprint) DO UPDATE SET
		   source          = EXCLUDED.source,
		   title           = COALESCE(NULLIF(EXCLUDED.title, ''), job_postings.title),
		   company         = COALESCE(NULLIF(EXCLUDED.company, ''), job_postings.company),
		   location        = COALESCE(NULLIF(EXCLUDED.location, ''), job_postings.location),
		   required_skills = CASE WHEN cardinality(EXCLUDED.required_skills) > 0
		                          THEN EXCLUDED.required_skills ELSE job_postings.required_skills END,
		   seniority_level = COALESCE(NULLIF(EXCLUDED.seniority_level, ''), job_postings.seniority_level),
		   excerpt         = COALESCE(NULLIF(EXCLUDED.excerpt, ''), job_postings.excerpt),
		   external_url    = COALESCE(NULLIF(EXCLUDED.external_url, ''), job_postings.external_url),
		   from_mock       = job_postings.from_mock AND EXCLUDED.from_mock,
		   last_seen       = GREATEST(job_postings.last_seen, EXCLUDED.last_seen)
		 RETURNING (xmax = 0)`,
		posting.ID, posting.Source, posting.SourceFamily, posting.Title, posting.Company,
		posting.Location, posting.RequiredSkills, posting.Seniority.String(), posting.Excerpt,
		posting.ExternalURL, posting.Fingerprint, posting.FromMock, posting.FirstSeen, posting.LastSeen,
	).Scan(&inserted)
	if err != nil {
		return false, &PersistenceError{Op: "upsert posting", Cause: err}
	}
	return inserted, nil
}

func (s *PostgresStore) GetPosting(ctx context.Context, fingerprint string) (*types.JobPosting, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, source_family, title, company, location, required_skills,
		        seniority_level, excerpt, external_url, fingerprint, from_mock, first_seen, last_seen
		 FROM job_postings WHERE fingerprint = $1`, fingerprint)
	posting, err := scanPosting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "get posting", Cause: err}
	}
	return posting, nil
}

func (s *PostgresStore) ListPostings(ctx context.Context, filters PostingFilters) ([]types.JobPosting, error) {
	query := `SELECT id, source, source_family, title, company, location, required_skills,
	                 seniority_level, excerpt, external_url, fingerprint, from_mock, first_seen, last_seen
	          FROM job_postings WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, filters.Source)
		argNum++
	}
	if filters.FromMock != nil {
		query += fmt.Sprintf(" AND from_mock = $%d", argNum)
		args = append(args, *filters.FromMock)
		argNum++
	}
	query += " ORDER BY last_seen DESC, fingerprint"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &PersistenceError{Op: "list postings", Cause: err}
	}
	defer rows.Close()

	var postings []types.JobPosting
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan posting", Cause: err}
		}
		postings = append(postings, *posting)
	}
	return postings, rows.Err()
}

func scanPosting(row pgx.Row) (*types.JobPosting, error) {
	var p types.JobPosting
	var seniority string
	err := row.Scan(&p.ID, &p.Source, &p.SourceFamily, &p.Title, &p.Company, &p.Location,
		&p.RequiredSkills, &seniority, &p.Excerpt, &p.ExternalURL, &p.Fingerprint,
		&p.FromMock, &p.FirstSeen, &p.LastSeen)
	if err != nil {
		return nil, err
	}
	p.Seniority = types.ParseSeniority(seniority)
	return &p, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, profile *types.CandidateProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO candidate_profiles
		   (id, version, profile_skills, experience_years, seniority_level,
		    location_preference, current_role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		profile.ID, profile.Version, profile.Skills, profile.ExperienceYears,
		profile.Seniority.String(), profile.LocationPreference, profile.CurrentRole,
		profile.CreatedAt)
	if err != nil {
		return &PersistenceError{Op: "save profile", Cause: err}
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	var p types.CandidateProfile
	var seniority string
	err := s.pool.QueryRow(ctx,
		`SELECT id, version, profile_skills, experience_years, seniority_level,
		        location_preference, current_role, created_at
		 FROM candidate_profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Version, &p.Skills, &p.ExperienceYears, &seniority,
		&p.LocationPreference, &p.CurrentRole, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "get profile", Cause: err}
	}
	p.Seniority = types.ParseSeniority(seniority)
	return &p, nil
}

// UpsertMatch writes a match keyed by (profile version, job fingerprint,
// weight version); recomputed scores overwrite stale ones.
func (s *PostgresStore) UpsertMatch(ctx context.Context, match *types.MatchResult) error {
	explanation, err := json.Marshal(match.Explanation)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO job_matches
		   (profile_id, profile_version, job_id, job_fingerprint, weight_version,
		    total_score, skill_score, seniority_score, location_score, explanation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (profile_version, job_fingerprint, weight_version) DO UPDATE SET
		   profile_id      = EXCLUDED.profile_id,
		   job_id          = EXCLUDED.job_id,
		   total_score     = EXCLUDED.total_score,
		   skill_score     = EXCLUDED.skill_score,
		   seniority_score = EXCLUDED.seniority_score,
		   location_score  = EXCLUDED.location_score,
		   explanation     = EXCLUDED.explanation`,
		match.ProfileID, match.ProfileVersion, match.JobID, match.JobFingerprint,
		match.WeightVersion, match.TotalScore, match.SkillScore, match.SeniorityScore,
		match.LocationScore, explanation)
	if err != nil {
		return &PersistenceError{Op: "upsert match", Cause: err}
	}
	return nil
}

func (s *PostgresStore) ListMatches(ctx context.Context, profileID uuid.UUID, minScore float64) ([]types.MatchResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT profile_id, profile_version, job_id, job_fingerprint, weight_version,
		        total_score, skill_score, seniority_score, location_score, explanation
		 FROM job_matches
		 WHERE profile_id = $1 AND total_score >= $2
		 ORDER BY total_score DESC, job_id`,
		profileID, minScore)
	if err != nil {
		return nil, &PersistenceError{Op: "list matches", Cause: err}
	}
	defer rows.Close()

	var matches []types.MatchResult
	for rows.Next() {
		var m types.MatchResult
		var explanation []byte
		if err := rows.Scan(&m.ProfileID, &m.ProfileVersion, &m.JobID, &m.JobFingerprint,
			&m.WeightVersion, &m.TotalScore, &m.SkillScore, &m.SeniorityScore,
			&m.LocationScore, &explanation); err != nil {
			return nil, &PersistenceError{Op: "scan match", Cause: err}
		}
		if err := json.Unmarshal(explanation, &m.Explanation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PostgresStore) CreateProcessingJob(ctx context.Context, job *types.ProcessingJob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO processing_jobs
		   (id, resume_key, profile_id, state, progress, error, attempt_count,
		    match_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.ResumeKey, nilUUID(job.ProfileID), job.State, job.Progress,
		nullIfEmpty(job.Error), job.AttemptCount, job.MatchCount, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return &PersistenceError{Op: "create processing job", Cause: err}
	}
	return nil
}

func (s *PostgresStore) UpdateProcessingJob(ctx context.Context, job *types.ProcessingJob) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE processing_jobs SET
		   profile_id = $2, state = $3, progress = $4, error = $5,
		   attempt_count = $6, match_count = $7, updated_at = NOW()
		 WHERE id = $1`,
		job.ID, nilUUID(job.ProfileID), job.State, job.Progress,
		nullIfEmpty(job.Error), job.AttemptCount, job.MatchCount)
	if err != nil {
		return &PersistenceError{Op: "update processing job", Cause: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetProcessingJob(ctx context.Context, id uuid.UUID) (*types.ProcessingJob, error) {
	job, err := s.scanJob(s.pool.QueryRow(ctx,
		`SELECT id, resume_key, profile_id, state, progress, error, attempt_count,
		        match_count, created_at, updated_at
		 FROM processing_jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "get processing job", Cause: err}
	}
	return job, nil
}

func (s *PostgresStore) FindCompletedJob(ctx context.Context, resumeKey string) (*types.ProcessingJob, error) {
	job, err := s.scanJob(s.pool.QueryRow(ctx,
		`SELECT id, resume_key, profile_id, state, progress, error, attempt_count,
		        match_count, created_at, updated_at
		 FROM processing_jobs
		 WHERE resume_key = $1 AND state = 'completed'
		 ORDER BY updated_at DESC LIMIT 1`, resumeKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "find completed job", Cause: err}
	}
	return job, nil
}

func (s *PostgresStore) scanJob(row pgx.Row) (*types.ProcessingJob, error) {
	var j types.ProcessingJob
	var profileID *uuid.UUID
	var errMsg *string
	var state string
	err := row.Scan(&j.ID, &j.ResumeKey, &profileID, &state, &j.Progress, &errMsg,
		&j.AttemptCount, &j.MatchCount, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.State = types.JobState(state)
	if profileID != nil {
		j.ProfileID = *profileID
	}
	if errMsg != nil {
		j.Error = *errMsg
	}
	return &j, nil
}

func nilUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
