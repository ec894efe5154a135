package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/pincache"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// PINGate guards medical records behind a per-account PIN. Hashes are read
// through the two cache tiers before falling back to the credential store.
type PINGate struct {
	Store store.Store
	Cache *pincache.Cache
}

// Create hashes pin and writes it to the credential store, then to both
// cache tiers. A failed store write leaves the cache untouched.
func (g *PINGate) Create(ctx context.Context, accountID, pin string) error {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashSecret(pin)
	if err != nil {
		return fmt.Errorf("%w: hash pin: %v", ErrTransient, err)
	}

	if err := g.Store.PINs().UpsertPINHash(ctx, accountID, hash); err != nil {
		log.Error("failed to store pin", "account_id", accountID, "err", err)
		return fmt.Errorf("%w: store pin: %v", ErrTransient, err)
	}

	if err := g.Cache.Store(ctx, pincache.Entry{AccountID: accountID, PINHash: hash}); err != nil {
		log.Warn("pin cache: durable write failed", "account_id", accountID, "err", err)
	}

	log.Info("pin created", "account_id", accountID)
	return nil
}

// Verify checks pin against the cached hash, falling back to the credential
// store. A cached hash that no longer matches is refreshed from the store
// before the attempt is rejected.
func (g *PINGate) Verify(ctx context.Context, accountID, pin string) error {
	log := slogx.FromContext(ctx)

	e, src, ok := g.Cache.Lookup(ctx, accountID)
	if !ok {
		fresh, err := g.fetch(ctx, accountID)
		if err != nil {
			return err
		}
		return g.compare(pin, fresh.PINHash)
	}
	log.Debug("pin cache hit", "account_id", accountID, "tier", string(src))

	err := g.compare(pin, e.PINHash)
	if !errors.Is(err, ErrInvalidPIN) {
		return err
	}

	rec, ferr := g.Store.PINs().GetPINRecord(ctx, accountID)
	switch {
	case errors.Is(ferr, store.ErrNotFound):
		if err := g.Cache.Forget(ctx, accountID); err != nil {
			log.Warn("pin cache: forget failed", "account_id", accountID, "err", err)
		}
		return ErrNotRegistered
	case ferr != nil:
		log.Warn("pin refresh failed", "account_id", accountID, "err", ferr)
		return ErrInvalidPIN
	case rec.PINHash == e.PINHash:
		return ErrInvalidPIN
	}

	log.Info("pin cache stale, refreshed", "account_id", accountID)
	if err := g.Cache.Store(ctx, pincache.Entry{AccountID: accountID, PINHash: rec.PINHash}); err != nil {
		log.Warn("pin cache: durable write failed", "account_id", accountID, "err", err)
	}
	return g.compare(pin, rec.PINHash)
}

// HasRegistered reports whether either cache tier holds a PIN for the
// account. It never reaches the credential store.
func (g *PINGate) HasRegistered(ctx context.Context, accountID string) bool {
	return g.Cache.Has(ctx, accountID)
}

// ClearVolatile drops the memory tier.
func (g *PINGate) ClearVolatile() {
	g.Cache.ClearVolatile()
}

// ClearDurable drops the account from both tiers. The PIN record itself is
// kept.
func (g *PINGate) ClearDurable(ctx context.Context, accountID string) error {
	if err := g.Cache.Forget(ctx, accountID); err != nil {
		return fmt.Errorf("%w: clear pin cache: %v", ErrTransient, err)
	}
	return nil
}

func (g *PINGate) fetch(ctx context.Context, accountID string) (pincache.Entry, error) {
	rec, err := g.Store.PINs().GetPINRecord(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return pincache.Entry{}, ErrNotRegistered
	}
	if err != nil {
		return pincache.Entry{}, fmt.Errorf("%w: load pin: %v", ErrTransient, err)
	}

	e := pincache.Entry{AccountID: accountID, PINHash: rec.PINHash, HasRegistered: true}
	if err := g.Cache.Store(ctx, e); err != nil {
		slogx.FromContext(ctx).Warn("pin cache: durable write failed", "account_id", accountID, "err", err)
	}
	return e, nil
}

func (g *PINGate) compare(pin, hash string) error {
	err := cryptox.VerifySecret(pin, hash)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cryptox.ErrMismatch), errors.Is(err, cryptox.ErrMalformedHash):
		return ErrInvalidPIN
	default:
		return fmt.Errorf("%w: verify pin: %v", ErrTransient, err)
	}
}

// PINState is the progress of a single PIN attempt.
type PINState string

const (
	PINIdle    PINState = "idle"
	PINLoading PINState = "loading"
	PINSuccess PINState = "success"
	PINError   PINState = "error"
)

// ErrAttemptBusy is returned when an attempt is started outside Idle.
var ErrAttemptBusy = errors.New("pin_attempt_busy")

// PINAttempt tracks one create or verify attempt through
// Idle, Loading and a terminal Success or Error. The zero value is Idle.
type PINAttempt struct {
	mu    sync.Mutex
	state PINState
	err   error
}

func NewPINAttempt() *PINAttempt {
	return &PINAttempt{state: PINIdle}
}

// Run executes op once. It refuses to start unless the attempt is Idle.
func (a *PINAttempt) Run(ctx context.Context, op func(context.Context) error) error {
	a.mu.Lock()
	if a.state != "" && a.state != PINIdle {
		a.mu.Unlock()
		return ErrAttemptBusy
	}
	a.state = PINLoading
	a.mu.Unlock()

	err := op(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
	if err != nil {
		a.state = PINError
	} else {
		a.state = PINSuccess
	}
	return err
}

// State returns the current state and the error of the last run.
func (a *PINAttempt) State() (PINState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == "" {
		return PINIdle, nil
	}
	return a.state, a.err
}

// Reset returns the attempt to Idle.
func (a *PINAttempt) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = PINIdle
	a.err = nil
}

// PINAttempts holds the in-flight attempt of each session. A session gets
// one attempt at a time; a second one started while the first is Loading is
// refused with ErrAttemptBusy.
type PINAttempts struct {
	mu      sync.Mutex
	running map[string]*PINAttempt
}

func NewPINAttempts() *PINAttempts {
	return &PINAttempts{running: make(map[string]*PINAttempt)}
}

// Run executes op as the session's attempt and returns its terminal state.
func (a *PINAttempts) Run(ctx context.Context, sessionID string, op func(context.Context) error) (PINState, error) {
	a.mu.Lock()
	if _, busy := a.running[sessionID]; busy {
		a.mu.Unlock()
		return PINIdle, ErrAttemptBusy
	}
	attempt := NewPINAttempt()
	a.running[sessionID] = attempt
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.running, sessionID)
		a.mu.Unlock()
	}()

	_ = attempt.Run(ctx, op)
	return attempt.State()
}

// State reports the session's attempt, Idle when none is running.
func (a *PINAttempts) State(sessionID string) PINState {
	a.mu.Lock()
	attempt, ok := a.running[sessionID]
	a.mu.Unlock()
	if !ok {
		return PINIdle
	}
	state, _ := attempt.State()
	return state
}
