package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

type sessionsRepo struct {
	db DBTX
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, method, contact, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, string(s.Method), s.Contact, toMillis(s.ExpiresAt), toMillis(s.CreatedAt),
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s                    domain.Session
		method               string
		expiresAt, createdAt int64
		revokedAt            sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, method, contact, expires_at, created_at, revoked_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.AccountID, &method, &s.Contact, &expiresAt, &createdAt, &revokedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Method = domain.Method(method)
	s.ExpiresAt = fromMillis(expiresAt)
	s.CreatedAt = fromMillis(createdAt)
	s.RevokedAt = mapNullMillis(revokedAt)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		toMillis(time.Now()), id,
	)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ? OR revoked_at <= ?`,
		toMillis(cutoff), toMillis(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
