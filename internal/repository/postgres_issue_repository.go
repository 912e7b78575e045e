package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/civic-report-service/internal/domain"
)

const issueColumns = `id, category, description, latitude, longitude,
               photo_key, audio_key, video_key, ai_analysis, status,
               reporter_name, reporter_email, reporter_avatar, created_at, updated_at`

type postgresIssueRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresIssueRepository returns a Postgres-backed implementation.
func NewPostgresIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &postgresIssueRepository{pool: pool}
}

func (r *postgresIssueRepository) Insert(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, category, description, latitude, longitude,
            photo_key, audio_key, video_key, ai_analysis, status,
            reporter_name, reporter_email, reporter_avatar, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query,
		issue.ID,
		issue.Category,
		issue.Description,
		issue.Latitude,
		issue.Longitude,
		issue.PhotoKey,
		issue.AudioKey,
		issue.VideoKey,
		issue.AIAnalysis,
		issue.Status,
		issue.Reporter.Name,
		issue.Reporter.Email,
		issue.Reporter.AvatarURL,
		issue.CreatedAt,
		issue.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (r *postgresIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE id=$1`, issueColumns)
	issue, err := scanIssueRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (r *postgresIssueRepository) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			args = append(args, category)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}

	// position is a bigserial assigned at insert, so this preserves
	// insertion order.
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY position ASC`,
		issueColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

func (r *postgresIssueRepository) Update(ctx context.Context, id string, mutate Mutator) (*domain.Issue, error) {
	issue, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(issue)

	const query = `
        UPDATE issues SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query, issue.Status, id).Scan(&issue.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (r *postgresIssueRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM issues`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanIssueRow(row pgx.Row) (*domain.Issue, error) {
	var issue domain.Issue
	if err := row.Scan(
		&issue.ID,
		&issue.Category,
		&issue.Description,
		&issue.Latitude,
		&issue.Longitude,
		&issue.PhotoKey,
		&issue.AudioKey,
		&issue.VideoKey,
		&issue.AIAnalysis,
		&issue.Status,
		&issue.Reporter.Name,
		&issue.Reporter.Email,
		&issue.Reporter.AvatarURL,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

func scanIssues(rows pgx.Rows) ([]domain.Issue, error) {
	var result []domain.Issue
	for rows.Next() {
		issue, err := scanIssueRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	return result, rows.Err()
}
