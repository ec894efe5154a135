package pincache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/pincache/migrations"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store/drivers/sqlite"
)

// DurableTier persists entries to a sqlite file of its own, apart from the
// credential store.
type DurableTier struct {
	db *sql.DB
}

// OpenDurable opens (or creates) the durable tier at dsn and applies its
// migrations.
func OpenDurable(dsn string) (*DurableTier, error) {
	db, err := sqlite.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(db, migrations.Migrations, "pin_cache_migrations"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DurableTier{db: db}, nil
}

func (d *DurableTier) Close() error { return d.db.Close() }

func (d *DurableTier) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

func (d *DurableTier) Get(ctx context.Context, accountID string) (Entry, bool, error) {
	e := Entry{AccountID: accountID}
	err := d.db.QueryRowContext(ctx,
		`SELECT pin_hash, has_registered FROM pin_cache WHERE account_id = ?`, accountID,
	).Scan(&e.PINHash, &e.HasRegistered)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (d *DurableTier) Put(ctx context.Context, e Entry) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO pin_cache (account_id, pin_hash, has_registered, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE
		SET pin_hash = excluded.pin_hash,
		    has_registered = excluded.has_registered,
		    updated_at = excluded.updated_at`,
		e.AccountID, e.PINHash, e.HasRegistered, time.Now().UnixMilli(),
	)
	return err
}

func (d *DurableTier) Delete(ctx context.Context, accountID string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM pin_cache WHERE account_id = ?`, accountID)
	return err
}
