package expenses

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// Repository defines persistence operations for expenses. Every method is
// scoped to the owning user.
type Repository interface {
	List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int, error)
	Get(ctx context.Context, userID string, id int64) (Expense, error)
	Create(ctx context.Context, userID string, in Input) (Expense, error)
	Update(ctx context.Context, userID string, id int64, in Input) (Expense, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const expenseColumns = `id, user_id::text, category, amount::float8, spent_on, crop, description, created_at, updated_at`

// listClause builds the WHERE clause of a listing; every filter is optional.
func listClause(userID string, filter ListFilter) (string, []any) {
	where := ` WHERE user_id = $1::uuid`
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Crop != "" {
		args = append(args, filter.Crop)
		where += ` AND lower(crop) = lower($` + strconv.Itoa(len(args)) + `)`
	}
	if filter.Range.From != "" {
		args = append(args, filter.Range.From)
		where += ` AND spent_on >= $` + strconv.Itoa(len(args)) + `::date`
	}
	if filter.Range.To != "" {
		args = append(args, filter.Range.To)
		where += ` AND spent_on <= $` + strconv.Itoa(len(args)) + `::date`
	}
	return where, args
}

func (r *repository) List(ctx context.Context, userID string, filter ListFilter) ([]Expense, int, error) {
	where, args := listClause(userID, filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, perPage := shared.NormalizePage(filter.Page, filter.PerPage)
	args = append(args, perPage, shared.Offset(page, perPage))
	query := `SELECT ` + expenseColumns + ` FROM expenses` + where +
		` ORDER BY spent_on DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Expense, 0, perPage)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID string, id int64) (Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2::uuid`, id, userID)
	return scanExpense(row)
}

func (r *repository) Create(ctx context.Context, userID string, in Input) (Expense, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (user_id, category, amount, spent_on, crop, description)
		VALUES ($1::uuid, $2, $3, $4::date, $5, $6)
		RETURNING `+expenseColumns,
		userID, in.Category, in.Amount, in.Date, in.Crop, in.Description)
	return scanExpense(row)
}

func (r *repository) Update(ctx context.Context, userID string, id int64, in Input) (Expense, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET category = $3, amount = $4, spent_on = $5::date, crop = $6, description = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2::uuid
		RETURNING `+expenseColumns,
		id, userID, in.Category, in.Amount, in.Date, in.Crop, in.Description)
	return scanExpense(row)
}

func (r *repository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	var spentOn time.Time
	err := row.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &spentOn, &e.Crop, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, shared.ErrNotFound
		}
		return Expense{}, err
	}
	e.Date = spentOn.Format(shared.DateLayout)
	return e, nil
}
