package stepup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/delivery"
	"github.com/dmitrymomot/otpgate/pkg/hotp"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/otp"
	"github.com/dmitrymomot/otpgate/pkg/sanitizer"
)

// Deliverer sends a code to a destination over the provider described by cfg.
type Deliverer interface {
	Send(ctx context.Context, cfg channel.Config, destination, code string) (delivery.DeliveryResult, error)
}

// IssueRequest carries the resolved destinations of the user behind a session.
// Channel is the optional channel requested by the client.
type IssueRequest struct {
	SessionID string
	Channel   string
	SMS       string
	Email     string
}

// IssueResult describes an issuance. On ErrDeliveryFailed only Channel,
// Destination and Message are set; on ErrThrottled only RetryAfter is set.
type IssueResult struct {
	RecordID    uuid.UUID
	Channel     channel.Channel
	Destination string // masked
	ExpiresAt   time.Time
	Message     string
	RetryAfter  time.Duration
}

// Service runs the step-up flow: select a channel, generate a code, deliver
// it, store what was delivered, and verify submissions.
type Service struct {
	lifecycle *otp.Lifecycle
	sender    Deliverer
	catalog   *channel.Catalog
	cfg       Config
	throttle  *Throttle
	metrics   *Metrics
	log       *slog.Logger
}

// New wires a Service. Without options it uses DefaultConfig, a throttle built
// from it, no metrics and a discard logger.
func New(lifecycle *otp.Lifecycle, sender Deliverer, catalog *channel.Catalog, opts ...Option) *Service {
	cfg := DefaultConfig()
	s := &Service{
		lifecycle: lifecycle,
		sender:    sender,
		catalog:   catalog,
		cfg:       cfg,
		throttle:  NewThrottle(cfg.ResendInterval, cfg.ResendBurst),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates and delivers a code for req and stores it for the session.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (IssueResult, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return IssueResult{}, fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	ctx = logger.WithSessionID(ctx, sessionID)

	ch := s.selectChannel(req.Channel)
	cfg, err := s.catalog.Config(ch)
	if err != nil {
		return IssueResult{}, err
	}

	destination := destinationFor(ch, req)
	if destination == "" {
		return IssueResult{Channel: ch}, fmt.Errorf("%w: %s", ErrNoDestination, ch)
	}
	masked := cfg.MaskDestination(destination)

	// Rejected requests above do not spend a resend.
	if ok, wait := s.throttle.Allow(sessionID); !ok {
		s.log.WarnContext(ctx, "OTP request throttled", slog.Duration("retry_after", wait))
		return IssueResult{RetryAfter: wait}, ErrThrottled
	}

	code, err := hotp.GenerateCode(cfg.LengthOr(s.cfg.codeLength()), codeOptions(cfg)...)
	if err != nil {
		s.log.ErrorContext(ctx, "OTP generation failed", logger.Channel(ch.String()), logger.Error(err))
		return IssueResult{}, err
	}

	res, err := s.sender.Send(ctx, cfg, destination, code)
	if err != nil {
		return IssueResult{}, err
	}
	if !res.Success {
		return IssueResult{Channel: ch, Destination: masked, Message: res.Message},
			errors.Join(ErrDeliveryFailed, errors.New(res.Message))
	}

	rec, err := s.lifecycle.Issue(ctx, sessionID, res.EffectiveCode, ch, destination)
	if err != nil {
		s.log.ErrorContext(ctx, "OTP record not stored", logger.Channel(ch.String()), logger.Error(err))
		return IssueResult{}, err
	}
	s.metrics.observeIssued(ch)

	s.log.InfoContext(ctx, "OTP issued",
		logger.RecordID(rec.ID.String()),
		logger.Channel(ch.String()),
		logger.Destination(masked),
		slog.Bool("provider_code", res.ProviderCode != ""),
	)
	return IssueResult{
		RecordID:    rec.ID,
		Channel:     ch,
		Destination: masked,
		ExpiresAt:   rec.ExpiresAt(),
		Message:     res.Message,
	}, nil
}

// Verify checks code against the session's pending record, consuming it.
func (s *Service) Verify(ctx context.Context, sessionID, code string) otp.Outcome {
	ctx = logger.WithSessionID(ctx, sessionID)
	out := s.lifecycle.Validate(ctx, sessionID, code)
	s.metrics.observeValidation(out.Kind)
	return out
}

// MaskedDestination returns the channel and masked address of the pending
// code, for display on the code entry page.
func (s *Service) MaskedDestination(ctx context.Context, sessionID string) (channel.Channel, string, bool) {
	rec, ok := s.lifecycle.Peek(ctx, sessionID)
	if !ok {
		return "", "", false
	}
	cfg, err := s.catalog.Config(rec.Channel)
	if err != nil {
		cfg = channel.Config{Channel: rec.Channel}
	}
	return rec.Channel, cfg.MaskDestination(rec.Destination), true
}

func (s *Service) selectChannel(requested string) channel.Channel {
	def := s.catalog.Default
	if ch, ok := channel.Parse(s.cfg.DefaultChannel); ok {
		def = ch.String()
	}
	return channel.Select(requested, def)
}

func destinationFor(ch channel.Channel, req IssueRequest) string {
	if ch == channel.Email {
		return strings.TrimSpace(req.Email)
	}
	return sanitizer.NormalizePhone(req.SMS)
}

func codeOptions(cfg channel.Config) []hotp.Option {
	var opts []hotp.Option
	if cfg.Alphanumeric {
		opts = append(opts, hotp.WithAlphanumeric())
	}
	if cfg.Checksum {
		opts = append(opts, hotp.WithChecksum())
	}
	return opts
}
