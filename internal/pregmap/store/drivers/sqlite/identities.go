package sqlite

import (
	"context"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

type identitiesRepo struct {
	db DBTX
}

func (r *identitiesRepo) GetIdentity(ctx context.Context, kind domain.Method, subject string) (domain.Identity, error) {
	var (
		id        domain.Identity
		k         string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, kind, subject, email, secret_hash, created_at
		FROM identities WHERE kind = ? AND subject = ?`,
		string(kind), subject,
	).Scan(&id.ID, &id.AccountID, &k, &id.Subject, &id.Email, &id.SecretHash, &createdAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	id.Kind = domain.Method(k)
	id.CreatedAt = fromMillis(createdAt)
	return id, nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, id domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, account_id, kind, subject, email, secret_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.ID, id.AccountID, string(id.Kind), id.Subject, id.Email, id.SecretHash, toMillis(id.CreatedAt),
	)
	return mapConflict(err)
}
