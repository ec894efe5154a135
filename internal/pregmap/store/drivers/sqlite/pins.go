package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

type pinsRepo struct {
	db DBTX
}

func (r *pinsRepo) GetPINRecord(ctx context.Context, accountID string) (domain.PINRecord, error) {
	var (
		rec                domain.PINRecord
		createdAt, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT account_id, pin_hash, created_at, updated_at FROM pin_records WHERE account_id = ?`,
		accountID,
	).Scan(&rec.AccountID, &rec.PINHash, &createdAt, &updated)
	if err != nil {
		return domain.PINRecord{}, mapNotFound(err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updated)
	return rec, nil
}

func (r *pinsRepo) UpsertPINHash(ctx context.Context, accountID, pinHash string) error {
	now := toMillis(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pin_records (account_id, pin_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE
		SET pin_hash = excluded.pin_hash, updated_at = excluded.updated_at`,
		accountID, pinHash, now, now,
	)
	return err
}
