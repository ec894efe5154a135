package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/idx"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultVerificationTTL = 5 * time.Minute
	verificationIssuer     = "pregmap"
)

// CodeSender delivers a one-time code to a phone number.
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogCodeSender writes codes to the request logger. It stands in for an SMS
// gateway.
type LogCodeSender struct {
	Logger *slog.Logger
}

func (s LogCodeSender) SendCode(ctx context.Context, phone, code string) error {
	log := s.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}
	log.Info("verification code issued", "phone", phone, "code", code)
	return nil
}

// VerificationService runs the phone OTP challenge that precedes a phone
// sign-up. Each challenge has its own TOTP seed whose period is the TTL.
type VerificationService struct {
	Store            store.Store
	Sender           CodeSender
	TTL              time.Duration
	PhoneCountryCode string
	Now              func() time.Time
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *VerificationService) ttl() time.Duration {
	if s.TTL < time.Second {
		return DefaultVerificationTTL
	}
	return s.TTL
}

func (s *VerificationService) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(s.ttl() / time.Second),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Start issues a challenge for phone and sends its code. Numbers that
// already belong to an account are rejected up front.
func (s *VerificationService) Start(ctx context.Context, phone string) (domain.VerificationChallenge, error) {
	cc := s.PhoneCountryCode
	if cc == "" {
		cc = domain.DefaultCountryCode
	}
	phone, err := domain.NormalizePhone(phone, cc)
	if err != nil {
		return domain.VerificationChallenge{}, invalidInput("Please enter a valid phone number.")
	}

	_, err = s.Store.Accounts().GetAccountByPhone(ctx, phone)
	switch {
	case err == nil:
		return domain.VerificationChallenge{}, withMessage(ErrAlreadyRegistered, MsgPhoneRegistered)
	case !errors.Is(err, store.ErrNotFound):
		return domain.VerificationChallenge{}, fmt.Errorf("%w: lookup phone: %v", ErrTransient, err)
	}

	opts := s.opts()
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      verificationIssuer,
		AccountName: phone,
		Period:      opts.Period,
		Digits:      opts.Digits,
		Algorithm:   opts.Algorithm,
	})
	if err != nil {
		return domain.VerificationChallenge{}, fmt.Errorf("%w: generate seed: %v", ErrTransient, err)
	}

	now := s.now()
	code, err := totp.GenerateCodeCustom(key.Secret(), now, opts)
	if err != nil {
		return domain.VerificationChallenge{}, fmt.Errorf("%w: generate code: %v", ErrTransient, err)
	}

	v := domain.VerificationChallenge{
		ID:        idx.NewAt(now).String(),
		Phone:     phone,
		Secret:    key.Secret(),
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.Verifications().CreateVerification(ctx, v); err != nil {
		return domain.VerificationChallenge{}, fmt.Errorf("%w: store challenge: %v", ErrTransient, err)
	}

	if err := s.Sender.SendCode(ctx, phone, code); err != nil {
		return domain.VerificationChallenge{}, fmt.Errorf("%w: send code: %v", ErrTransient, err)
	}

	v.Secret = ""
	return v, nil
}

// Confirm checks code against the challenge. A confirmed challenge can be
// consumed once by SignUpPhone before it expires.
func (s *VerificationService) Confirm(ctx context.Context, id, code string) error {
	log := slogx.FromContext(ctx)

	v, err := s.Store.Verifications().GetVerification(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrVerificationMissing
	}
	if err != nil {
		return fmt.Errorf("%w: load challenge: %v", ErrTransient, err)
	}

	now := s.now()
	switch {
	case v.ConsumedAt != nil:
		return ErrVerificationMissing
	case v.ConfirmedAt != nil:
		return nil
	case !now.Before(v.ExpiresAt):
		return ErrVerificationExpired
	case v.Attempts >= domain.MaxVerificationAttempts:
		return ErrTooManyAttempts
	}

	ok, err := totp.ValidateCustom(code, v.Secret, now, s.opts())
	if err != nil && !errors.Is(err, otp.ErrValidateInputInvalidLength) {
		return fmt.Errorf("%w: validate code: %v", ErrTransient, err)
	}
	if !ok {
		v, err = s.Store.Verifications().IncrementVerificationAttempts(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: record attempt: %v", ErrTransient, err)
		}
		log.Warn("verification code rejected", "verification_id", id, "attempts", v.Attempts)
		if v.Attempts >= domain.MaxVerificationAttempts {
			return ErrTooManyAttempts
		}
		return ErrInvalidCode
	}

	if err := s.Store.Verifications().ConfirmVerification(ctx, id, now); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: confirm challenge: %v", ErrTransient, err)
	}
	log.Info("phone verified", "verification_id", id)
	return nil
}
