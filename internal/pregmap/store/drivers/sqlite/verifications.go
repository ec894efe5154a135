package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

const verificationColumns = `id, phone, secret, attempts, confirmed_at, consumed_at, expires_at, created_at`

type verificationsRepo struct {
	db DBTX
}

func (r *verificationsRepo) CreateVerification(ctx context.Context, v domain.VerificationChallenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO phone_verifications (`+verificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID,
		v.Phone,
		v.Secret,
		v.Attempts,
		mapOptionalMillis(v.ConfirmedAt),
		mapOptionalMillis(v.ConsumedAt),
		toMillis(v.ExpiresAt),
		toMillis(v.CreatedAt),
	)
	return mapConflict(err)
}

func (r *verificationsRepo) GetVerification(ctx context.Context, id string) (domain.VerificationChallenge, error) {
	return scanVerification(r.db.QueryRowContext(ctx,
		`SELECT `+verificationColumns+` FROM phone_verifications WHERE id = ?`, id))
}

func (r *verificationsRepo) IncrementVerificationAttempts(ctx context.Context, id string) (domain.VerificationChallenge, error) {
	return scanVerification(r.db.QueryRowContext(ctx, `
		UPDATE phone_verifications SET attempts = attempts + 1
		WHERE id = ?
		RETURNING `+verificationColumns, id))
}

func (r *verificationsRepo) ConfirmVerification(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE phone_verifications SET confirmed_at = ? WHERE id = ? AND confirmed_at IS NULL`,
		toMillis(at), id,
	))
}

func (r *verificationsRepo) ConsumeVerification(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE phone_verifications SET consumed_at = ?
		WHERE id = ? AND confirmed_at IS NOT NULL AND consumed_at IS NULL`,
		toMillis(at), id,
	))
}

func (r *verificationsRepo) DeleteExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM phone_verifications WHERE expires_at <= ? OR consumed_at IS NOT NULL`,
		toMillis(now),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanVerification(row *sql.Row) (domain.VerificationChallenge, error) {
	var (
		v                     domain.VerificationChallenge
		confirmedAt, consumed sql.NullInt64
		expiresAt, createdAt  int64
	)
	err := row.Scan(&v.ID, &v.Phone, &v.Secret, &v.Attempts, &confirmedAt, &consumed, &expiresAt, &createdAt)
	if err != nil {
		return domain.VerificationChallenge{}, mapNotFound(err)
	}
	v.ConfirmedAt = mapNullMillis(confirmedAt)
	v.ConsumedAt = mapNullMillis(consumed)
	v.ExpiresAt = fromMillis(expiresAt)
	v.CreatedAt = fromMillis(createdAt)
	return v, nil
}
