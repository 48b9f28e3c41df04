package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gemini-relay-bot/internal/entities"
)

// UserRepository stores users, plans and daily token budgets in SQLite.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *UserRepository) today() string {
	return r.now().UTC().Format("2006-01-02")
}

// EnsureUser creates the user on first contact (default plan, full allowance)
// and refills the daily allowance when the last reset is before today.
func (r *UserRepository) EnsureUser(ctx context.Context, userID int64) (entities.User, error) {
	user, err := r.getUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		user = entities.User{
			ID:              userID,
			Plan:            entities.DefaultPlan,
			TokensRemaining: entities.DailyAllowance(entities.DefaultPlan),
			LastReset:       r.today(),
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO users (user_id, plan, tokens_remaining, last_reset) VALUES (?, ?, ?, ?)`,
			user.ID, user.Plan, user.TokensRemaining, user.LastReset,
		)
		if err != nil {
			return entities.User{}, fmt.Errorf("insert user: %w", err)
		}
		return user, nil
	}
	if err != nil {
		return entities.User{}, err
	}

	today := r.today()
	if user.LastReset != today {
		user.TokensRemaining = entities.DailyAllowance(user.Plan)
		user.LastReset = today
		_, err = r.db.ExecContext(ctx,
			`UPDATE users SET tokens_remaining = ?, last_reset = ? WHERE user_id = ?`,
			user.TokensRemaining, user.LastReset, user.ID,
		)
		if err != nil {
			return entities.User{}, fmt.Errorf("reset daily tokens: %w", err)
		}
	}
	return user, nil
}

func (r *UserRepository) getUser(ctx context.Context, userID int64) (entities.User, error) {
	var user entities.User
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, plan, tokens_remaining, last_reset FROM users WHERE user_id = ?`,
		userID,
	).Scan(&user.ID, &user.Plan, &user.TokensRemaining, &user.LastReset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.User{}, err
		}
		return entities.User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// SetPlan assigns a plan and resets the allowance to the plan's daily budget.
func (r *UserRepository) SetPlan(ctx context.Context, userID int64, plan string) error {
	if !entities.KnownPlan(plan) {
		return fmt.Errorf("unknown plan %q", plan)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users (user_id, plan, tokens_remaining, last_reset) VALUES (?, ?, ?, ?)`,
		userID, plan, entities.DailyAllowance(plan), r.today(),
	)
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}
	return nil
}

// DeductTokens subtracts used tokens from the user's budget, flooring at zero.
func (r *UserRepository) DeductTokens(ctx context.Context, userID int64, used int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET tokens_remaining = MAX(0, tokens_remaining - ?) WHERE user_id = ?`,
		used, userID,
	)
	if err != nil {
		return fmt.Errorf("deduct tokens: %w", err)
	}
	return nil
}

// Stats returns the registered user count and total remaining tokens.
func (r *UserRepository) Stats(ctx context.Context) (int, int64, error) {
	var count int
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), SUM(tokens_remaining) FROM users`,
	).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("query stats: %w", err)
	}
	return count, total.Int64, nil
}
