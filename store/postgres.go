package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"replyMateAPI/internal/submission"
	"replyMateAPI/internal/subscription"
	"replyMateAPI/internal/user"
)

// Postgres bundles the pgx-backed implementations of the store interfaces.
type Postgres struct {
	Subscriptions *PostgresSubscriptions
	Submissions   *PostgresSubmissions
	Users         *PostgresUsers

	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{
		Subscriptions: &PostgresSubscriptions{db: db},
		Submissions:   &PostgresSubmissions{db: db},
		Users:         &PostgresUsers{db: db},
		db:            db,
	}
}

// EnsureSchema creates the tables on startup and seeds the mock identity
// rows. Identity is externally issued, so the users table is read-only for
// the rest of the service.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id TEXT PRIMARY KEY,
			plan TEXT NOT NULL,
			status TEXT NOT NULL,
			current_period_end TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			input JSONB NOT NULL,
			result TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_user_created
			ON submissions (user_id, created_at DESC)`,
		`INSERT INTO users (id, name, email, is_admin) VALUES
			('user123', 'Alex', 'alex@example.com', FALSE),
			('admin456', 'Admin Sam', 'sam@example.com', TRUE),
			('user789', 'Beth', 'beth@example.com', FALSE),
			('user101', 'Charlie', 'charlie@example.com', FALSE)
			ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

type PostgresSubscriptions struct {
	db *pgxpool.Pool
}

func (p *PostgresSubscriptions) Get(ctx context.Context, userID string) (subscription.Subscription, error) {
	query := `
	SELECT user_id, plan, status, current_period_end, updated_at
	FROM subscriptions
	WHERE user_id = $1
	`

	var sub subscription.Subscription
	err := p.db.QueryRow(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.Plan,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscription.Subscription{}, ErrNotFound
		}
		return subscription.Subscription{}, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

func (p *PostgresSubscriptions) Put(ctx context.Context, sub subscription.Subscription) error {
	query := `
	INSERT INTO subscriptions (user_id, plan, status, current_period_end, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET
		plan = EXCLUDED.plan,
		status = EXCLUDED.status,
		current_period_end = EXCLUDED.current_period_end,
		updated_at = EXCLUDED.updated_at
	`

	if _, err := p.db.Exec(ctx, query, sub.UserID, sub.Plan, sub.Status, sub.CurrentPeriodEnd, sub.UpdatedAt); err != nil {
		return fmt.Errorf("failed to put subscription: %w", err)
	}
	return nil
}

func (p *PostgresSubscriptions) SetStatus(ctx context.Context, userID string, status subscription.Status) (subscription.Subscription, error) {
	query := `
	UPDATE subscriptions
	SET status = $2, updated_at = now()
	WHERE user_id = $1
	RETURNING user_id, plan, status, current_period_end, updated_at
	`

	var sub subscription.Subscription
	err := p.db.QueryRow(ctx, query, userID, status).Scan(
		&sub.UserID,
		&sub.Plan,
		&sub.Status,
		&sub.CurrentPeriodEnd,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return subscription.Subscription{}, ErrNotFound
		}
		return subscription.Subscription{}, fmt.Errorf("failed to update subscription status: %w", err)
	}
	return sub, nil
}

type PostgresSubmissions struct {
	db *pgxpool.Pool
}

func (p *PostgresSubmissions) Insert(ctx context.Context, sub submission.Submission) error {
	query := `
	INSERT INTO submissions (id, user_id, type, input, result, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := p.db.Exec(ctx, query, sub.ID, sub.UserID, sub.Type, sub.Input, sub.Result, sub.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (p *PostgresSubmissions) Get(ctx context.Context, id string) (submission.Submission, error) {
	query := `
	SELECT id, user_id, type, input, result, created_at
	FROM submissions
	WHERE id = $1
	`

	var sub submission.Submission
	err := p.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Type,
		&sub.Input,
		&sub.Result,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return submission.Submission{}, ErrNotFound
		}
		return submission.Submission{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

func (p *PostgresSubmissions) ListByUser(ctx context.Context, userID string) ([]submission.Submission, error) {
	query := `
	SELECT id, user_id, type, input, result, created_at
	FROM submissions
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func (p *PostgresSubmissions) ListAll(ctx context.Context) ([]submission.Submission, error) {
	query := `
	SELECT id, user_id, type, input, result, created_at
	FROM submissions
	ORDER BY created_at DESC
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func (p *PostgresSubmissions) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

func (p *PostgresSubmissions) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `
	SELECT COUNT(*) FROM submissions
	WHERE user_id = $1 AND created_at >= $2
	`

	var count int
	if err := p.db.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

type PostgresUsers struct {
	db *pgxpool.Pool
}

func (p *PostgresUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	query := `
	SELECT id, name, email, is_admin, created_at
	FROM users
	WHERE id = $1
	`

	var u user.User
	err := p.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (p *PostgresUsers) List(ctx context.Context) ([]user.User, error) {
	query := `
	SELECT id, name, email, is_admin, created_at
	FROM users
	ORDER BY created_at
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanSubmissions(rows pgx.Rows) ([]submission.Submission, error) {
	var subs []submission.Submission
	for rows.Next() {
		var sub submission.Submission
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Type, &sub.Input, &sub.Result, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
