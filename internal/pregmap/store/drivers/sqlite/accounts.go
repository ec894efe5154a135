package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

const accountColumns = `id, email, phone_number, sign_in_method, password_hash,
	first_name, middle_name, last_name, full_name, photo_url, federated_id,
	email_verified, phone_verified, last_sign_in_at, created_at, updated_at`

type accountsRepo struct {
	db DBTX
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
}

func (r *accountsRepo) GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE phone_number = ?`, phone)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		mapStringNull(a.Email),
		mapStringNull(a.PhoneNumber),
		string(a.SignInMethod),
		a.PasswordHash,
		a.FirstName,
		a.MiddleName,
		a.LastName,
		a.FullName,
		a.PhotoURL,
		a.FederatedID,
		a.EmailVerified,
		a.PhoneVerified,
		mapOptionalMillis(a.LastSignInAt),
		toMillis(now),
		toMillis(now),
	)
	return mapConflict(err)
}

func (r *accountsRepo) TouchLastSignIn(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE accounts SET last_sign_in_at = ?, updated_at = ? WHERE id = ?`,
		toMillis(at), toMillis(time.Now()), id,
	))
}

func (r *accountsRepo) getOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	var (
		a                  domain.Account
		email, phone       sql.NullString
		method             string
		lastSignIn         sql.NullInt64
		createdAt, updated int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&email,
		&phone,
		&method,
		&a.PasswordHash,
		&a.FirstName,
		&a.MiddleName,
		&a.LastName,
		&a.FullName,
		&a.PhotoURL,
		&a.FederatedID,
		&a.EmailVerified,
		&a.PhoneVerified,
		&lastSignIn,
		&createdAt,
		&updated,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Email = mapNullString(email)
	a.PhoneNumber = mapNullString(phone)
	a.SignInMethod = domain.Method(method)
	a.LastSignInAt = mapNullMillis(lastSignIn)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}
