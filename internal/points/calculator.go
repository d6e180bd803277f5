package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerSource supplies the two sums the balance is derived from.
type LedgerSource interface {
	// ApprovedTaskPoints returns the sum of points over tasks assigned to
	// the user with approved = true.
	ApprovedTaskPoints(ctx context.Context, userID uuid.UUID) (int, error)
	// ApprovedRedemptionSpend returns the sum of points_spent over the
	// user's redemptions with status = 'approved'.
	ApprovedRedemptionSpend(ctx context.Context, userID uuid.UUID) (int, error)
}

// Balance recomputes a user's spendable point total: approved task points
// minus approved redemption spend. It is derived fresh on every call,
// never cached, so it cannot drift from the underlying rows. A fetch
// failure propagates as an error rather than reading as zero.
//
// The result can be negative if approved spend exceeds approved earnings;
// nothing upstream guards against that and callers must tolerate it.
func Balance(ctx context.Context, src LedgerSource, userID uuid.UUID) (int, error) {
	earned, err := src.ApprovedTaskPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("sum approved task points: %w", err)
	}

	spent, err := src.ApprovedRedemptionSpend(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("sum approved redemption spend: %w", err)
	}

	return earned - spent, nil
}

// Breakdown returns earned, spent, and the balance in one call.
func Breakdown(ctx context.Context, src LedgerSource, userID uuid.UUID) (earned, spent, balance int, err error) {
	earned, err = src.ApprovedTaskPoints(ctx, userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("sum approved task points: %w", err)
	}

	spent, err = src.ApprovedRedemptionSpend(ctx, userID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("sum approved redemption spend: %w", err)
	}

	return earned, spent, earned - spent, nil
}

// DBSource is the pgx-backed LedgerSource.
type DBSource struct {
	db *pgxpool.Pool
}

func NewDBSource(db *pgxpool.Pool) *DBSource {
	return &DBSource{db: db}
}

func (s *DBSource) ApprovedTaskPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	var earned int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM tasks WHERE assigned_to = $1 AND approved = true`,
		userID,
	).Scan(&earned)
	return earned, err
}

func (s *DBSource) ApprovedRedemptionSpend(ctx context.Context, userID uuid.UUID) (int, error) {
	var spent int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(points_spent), 0) FROM redemptions WHERE user_id = $1 AND status = 'approved'`,
		userID,
	).Scan(&spent)
	return spent, err
}
