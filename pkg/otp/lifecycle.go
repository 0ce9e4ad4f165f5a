package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/sanitizer"
)

// Lifecycle issues and validates session codes on top of a Store.
type Lifecycle struct {
	store    Store
	validity int
	now      func() time.Time
	log      *slog.Logger
}

// NewLifecycle returns a Lifecycle with DefaultValidityMinutes, the system
// clock and a discard logger unless overridden by opts.
func NewLifecycle(store Store, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		store:    store,
		validity: DefaultValidityMinutes,
		now:      time.Now,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ValidityMinutes returns the window applied to new records.
func (l *Lifecycle) ValidityMinutes() int {
	return l.validity
}

// Issue stores code as the pending record for sessionID, replacing any previous one.
func (l *Lifecycle) Issue(ctx context.Context, sessionID, code string, ch channel.Channel, destination string) (Record, error) {
	code = strings.TrimSpace(code)
	if strings.TrimSpace(sessionID) == "" || code == "" {
		return Record{}, ErrInvalidRecord
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Record{}, fmt.Errorf("generate record id: %w", err)
	}

	rec := Record{
		ID:              id,
		Code:            code,
		IssuedAt:        l.now(),
		ValidityMinutes: l.validity,
		Channel:         ch,
		Destination:     destination,
	}
	if err := l.store.Put(ctx, sessionID, rec); err != nil {
		return Record{}, err
	}

	l.log.DebugContext(logger.WithSessionID(ctx, sessionID), "OTP record stored",
		logger.RecordID(rec.ID.String()),
		logger.Channel(ch.String()),
		slog.Time("expires_at", rec.ExpiresAt()),
	)
	return rec, nil
}

// Validate consumes the pending record for sessionID and checks submitted
// against it. Any attempt, successful or not, clears the record.
// Store failures are logged and reported as NoPendingOtp.
func (l *Lifecycle) Validate(ctx context.Context, sessionID, submitted string) Outcome {
	ctx = logger.WithSessionID(ctx, sessionID)
	out, rec := l.validate(ctx, sessionID, submitted)

	attrs := []any{logger.Outcome(out.Kind.String())}
	if rec.ID != uuid.Nil {
		attrs = append(attrs, logger.RecordID(rec.ID.String()))
	}
	l.log.InfoContext(ctx, "OTP validated", attrs...)
	return out
}

func (l *Lifecycle) validate(ctx context.Context, sessionID, submitted string) (Outcome, Record) {
	rec, err := l.store.GetAndClear(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.log.ErrorContext(ctx, "OTP store read failed", logger.Error(err))
		}
		return newOutcome(NoPendingOtp), Record{}
	}

	if strings.TrimSpace(submitted) == "" {
		return newOutcome(Empty), rec
	}
	expected := strings.TrimSpace(rec.Code)
	if expected == "" {
		return newOutcome(NoPendingOtp), rec
	}

	if sanitizer.NormalizeCode(submitted) != expected {
		return mismatchOutcome(utf8.RuneCountInString(expected), medium(rec.Channel)), rec
	}
	if rec.Expired(l.now()) {
		return newOutcome(Expired), rec
	}
	return newOutcome(Valid), rec
}

// Peek returns the pending record without consuming it.
func (l *Lifecycle) Peek(ctx context.Context, sessionID string) (Record, bool) {
	rec, err := l.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.log.ErrorContext(ctx, "OTP store read failed", logger.Error(err))
		}
		return Record{}, false
	}
	return rec, true
}

// State reports StatePending when a record exists for sessionID and
// StateNoRecord otherwise. Terminal states are only observable through the
// Outcome returned by Validate.
func (l *Lifecycle) State(ctx context.Context, sessionID string) State {
	if _, ok := l.Peek(ctx, sessionID); ok {
		return StatePending
	}
	return StateNoRecord
}

func medium(ch channel.Channel) string {
	if ch == channel.Email {
		return "email"
	}
	return "mobile"
}
