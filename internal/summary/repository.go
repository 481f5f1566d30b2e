package summary

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Repository loads the aggregates behind a summary.
type Repository interface {
	ExpenseTotals(ctx context.Context, userID string, dates shared.DateRange) ([]CategoryTotal, error)
	YieldTotals(ctx context.Context, userID string, dates shared.DateRange) ([]CropTotal, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ExpenseTotals(ctx context.Context, userID string, dates shared.DateRange) ([]CategoryTotal, error) {
	where, args := rangeClause("spent_on", userID, dates)
	rows, err := r.pool.Query(ctx, `
		SELECT category, COALESCE(SUM(amount), 0)::float8, COUNT(*)
		FROM expenses`+where+`
		GROUP BY category
		ORDER BY 2 DESC, category`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []CategoryTotal{}
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total, &t.Count); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *repository) YieldTotals(ctx context.Context, userID string, dates shared.DateRange) ([]CropTotal, error) {
	where, args := rangeClause("harvested_on", userID, dates)
	rows, err := r.pool.Query(ctx, `
		SELECT crop, COALESCE(SUM(ROUND(quantity * price_per_unit, 2)), 0)::float8, COUNT(*)
		FROM yields`+where+`
		GROUP BY crop
		ORDER BY 2 DESC, crop`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []CropTotal{}
	for rows.Next() {
		var t CropTotal
		if err := rows.Scan(&t.Crop, &t.Revenue, &t.Harvests); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func rangeClause(column, userID string, dates shared.DateRange) (string, []any) {
	where := ` WHERE user_id = $1::uuid`
	args := []any{userID}
	if dates.From != "" {
		args = append(args, dates.From)
		where += ` AND ` + column + ` >= $` + strconv.Itoa(len(args)) + `::date`
	}
	if dates.To != "" {
		args = append(args, dates.To)
		where += ` AND ` + column + ` <= $` + strconv.Itoa(len(args)) + `::date`
	}
	return where, args
}
