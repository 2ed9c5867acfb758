package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Store is the Credential Store. Finders return (nil, nil) when no account
// matches. Save inserts accounts without an ID and updates the rest.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Save(ctx context.Context, acc *Account) error
}

// Querier is satisfied by *pgxpool.Pool and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AccountRepository struct {
	DB Querier
}

func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{DB: db}
}

const accountColumns = `"id","name","email","password_hash","is_verified","verify_otp","verify_otp_expires_at","reset_otp","reset_otp_expires_at","created_at","updated_at"`

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE "email"=$1`, email)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.With("operation", "find account by email").Wrap(err)
	}
	return acc, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := r.DB.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE "id"=$1`, id)
	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.With("operation", "find account by id").With("account_id", id).Wrap(err)
	}
	return acc, nil
}

func (r *AccountRepository) Save(ctx context.Context, acc *Account) error {
	now := time.Now().UTC()
	created := acc.ID == ""
	if created {
		acc.ID = uuid.NewString()
		acc.CreatedAt = now
	}
	acc.UpdatedAt = now

	_, err := r.DB.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT ("id") DO UPDATE SET
			"name"=EXCLUDED."name",
			"email"=EXCLUDED."email",
			"password_hash"=EXCLUDED."password_hash",
			"is_verified"=EXCLUDED."is_verified",
			"verify_otp"=EXCLUDED."verify_otp",
			"verify_otp_expires_at"=EXCLUDED."verify_otp_expires_at",
			"reset_otp"=EXCLUDED."reset_otp",
			"reset_otp_expires_at"=EXCLUDED."reset_otp_expires_at",
			"updated_at"=EXCLUDED."updated_at"
	`,
		acc.ID, acc.Name, acc.Email, acc.PasswordHash, acc.Verified,
		acc.VerifyOTP, nullTime(acc.VerifyOTPExpiresAt),
		acc.ResetOTP, nullTime(acc.ResetOTPExpiresAt),
		acc.CreatedAt, acc.UpdatedAt,
	)
	if err == nil {
		return nil
	}
	if created {
		acc.ID = ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicateEmail
	}
	return oops.With("operation", "save account").With("account_id", acc.ID).Wrap(err)
}

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		acc           Account
		verifyExpires *time.Time
		resetExpires  *time.Time
	)
	if err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.Email,
		&acc.PasswordHash,
		&acc.Verified,
		&acc.VerifyOTP,
		&verifyExpires,
		&acc.ResetOTP,
		&resetExpires,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	acc.VerifyOTPExpiresAt = derefTime(verifyExpires)
	acc.ResetOTPExpiresAt = derefTime(resetExpires)
	return &acc, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
