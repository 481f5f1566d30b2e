package yields

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Repository defines persistence operations for yields scoped to their owner.
type Repository interface {
	List(ctx context.Context, userID string, filter ListFilter) ([]Yield, int, error)
	Get(ctx context.Context, userID string, id int64) (Yield, error)
	Create(ctx context.Context, userID string, in Input) (Yield, error)
	Update(ctx context.Context, userID string, id int64, in Input) (Yield, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const yieldColumns = `id, user_id::text, crop, quantity::float8, unit, harvested_on, price_per_unit::float8, notes, created_at, updated_at`

func listClause(userID string, filter ListFilter) (string, []any) {
	where := ` WHERE user_id = $1::uuid`
	args := []any{userID}
	argCount := 1

	if filter.Crop != "" {
		argCount++
		where += ` AND lower(crop) = lower($` + strconv.Itoa(argCount) + `)`
		args = append(args, filter.Crop)
	}
	if filter.Range.From != "" {
		argCount++
		where += ` AND harvested_on >= $` + strconv.Itoa(argCount) + `::date`
		args = append(args, filter.Range.From)
	}
	if filter.Range.To != "" {
		argCount++
		where += ` AND harvested_on <= $` + strconv.Itoa(argCount) + `::date`
		args = append(args, filter.Range.To)
	}
	return where, args
}

func (r *repository) List(ctx context.Context, userID string, filter ListFilter) ([]Yield, int, error) {
	where, args := listClause(userID, filter)
	argCount := len(args)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM yields`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, perPage := shared.NormalizePage(filter.Page, filter.PerPage)
	query := `SELECT ` + yieldColumns + ` FROM yields` + where +
		` ORDER BY harvested_on DESC, id DESC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, perPage, shared.Offset(page, perPage))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Yield, 0, perPage)
	for rows.Next() {
		y, err := scanYield(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, y)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID string, id int64) (Yield, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+yieldColumns+` FROM yields WHERE id = $1 AND user_id = $2::uuid`, id, userID)
	return scanYield(row)
}

func (r *repository) Create(ctx context.Context, userID string, in Input) (Yield, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO yields (user_id, crop, quantity, unit, harvested_on, price_per_unit, notes)
		VALUES ($1::uuid, $2, $3, $4, $5::date, $6, $7)
		RETURNING `+yieldColumns,
		userID, in.Crop, in.Quantity, in.Unit, in.HarvestDate, in.PricePerUnit, in.Notes)
	return scanYield(row)
}

func (r *repository) Update(ctx context.Context, userID string, id int64, in Input) (Yield, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE yields
		SET crop = $3, quantity = $4, unit = $5, harvested_on = $6::date, price_per_unit = $7, notes = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2::uuid
		RETURNING `+yieldColumns,
		id, userID, in.Crop, in.Quantity, in.Unit, in.HarvestDate, in.PricePerUnit, in.Notes)
	return scanYield(row)
}

func (r *repository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM yields WHERE id = $1 AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanYield(row pgx.Row) (Yield, error) {
	var y Yield
	var harvestedOn time.Time
	err := row.Scan(&y.ID, &y.UserID, &y.Crop, &y.Quantity, &y.Unit, &harvestedOn, &y.PricePerUnit, &y.Notes, &y.CreatedAt, &y.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Yield{}, shared.ErrNotFound
		}
		return Yield{}, err
	}
	y.HarvestDate = harvestedOn.Format(shared.DateLayout)
	return y, nil
}
