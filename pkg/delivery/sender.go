package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/httptemplate"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/sanitizer"
)

const (
	// DefaultMessage is sent when the channel has no message template.
	DefaultMessage = "Your verification code is: {code}"

	defaultUserAgent = "otpgate/1.0"
	maxResponseBody  = 64 * 1024
	maxLoggedBody    = 200
)

// Hook observes finished delivery calls, e.g. for metrics.
type Hook func(ch channel.Channel, res DeliveryResult)

// Sender delivers codes to providers described by channel.Config.
// Zero value is not usable; use NewSender.
type Sender struct {
	client    *http.Client
	log       *slog.Logger
	userAgent string
	hooks     []Hook
}

// NewSender creates a sender with a pooled HTTP client.
// Redirects are not followed so that 3xx codes can be matched as the expected response.
func NewSender(opts ...Option) *Sender {
	s := &Sender{
		// No client-wide timeout: each call is bounded by its channel's timeout.
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log:       logger.Discard(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send renders the provider request for cfg, performs it once and interprets the response.
//
// Only configuration problems are returned as errors (wrapping ErrConfiguration).
// Transport failures and provider rejections produce a DeliveryResult with Success false.
func (s *Sender) Send(ctx context.Context, cfg channel.Config, destination, code string) (DeliveryResult, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return DeliveryResult{}, fmt.Errorf("%w: %s endpoint URL is empty", ErrConfiguration, channelName(cfg))
	}
	if code == "" {
		return DeliveryResult{}, fmt.Errorf("%w: code is empty", ErrConfiguration)
	}

	start := time.Now()
	res := s.deliver(ctx, cfg, destination, code)
	res.Duration = time.Since(start)

	attrs := []any{
		logger.Channel(channelName(cfg)),
		logger.Destination(cfg.MaskDestination(destination)),
		logger.StatusCode(res.StatusCode),
		logger.Duration(res.Duration),
	}
	if res.Success {
		s.log.InfoContext(ctx, "OTP delivered", attrs...)
	} else {
		attrs = append(attrs, logger.Error(res.Err), slog.String("response", sanitizer.TruncateForLog(res.ErrorBody, maxLoggedBody)))
		s.log.ErrorContext(ctx, "OTP delivery failed", attrs...)
	}

	for _, h := range s.hooks {
		h(channel.Channel(channelName(cfg)), res)
	}
	return res, nil
}

func (s *Sender) deliver(ctx context.Context, cfg channel.Config, destination, code string) DeliveryResult {
	name := channelName(cfg)

	sent := destination
	if cfg.Channel != channel.Email {
		sent = sanitizer.WithCountryPrefix(destination, cfg.CountryPrefix)
	}
	secrets := append([]string{destination, sent, url.QueryEscape(sent)}, cfg.SensitiveValues...)
	// Provider output may echo the code; status messages never contain it.
	withCode := append([]string{code}, secrets...)

	fail := func(kind error, status int, msg, body string) DeliveryResult {
		return DeliveryResult{
			Message:    sanitizer.MaskValues(msg, secrets...),
			StatusCode: status,
			ErrorBody:  sanitizer.MaskValues(body, withCode...),
			Err:        kind,
		}
	}
	// Transport errors quote the rendered URL, so the detail goes to Err only.
	failTransport := func(kind error, msg string, cause error) DeliveryResult {
		res := fail(kind, 0, msg, "")
		res.Err = fmt.Errorf("%w: %s", kind, sanitizer.MaskValues(cause.Error(), withCode...))
		return res
	}

	req, err := s.buildRequest(ctx, cfg, sent, code)
	if err != nil {
		return failTransport(ErrTransport, name+" delivery failed", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	resp, err := s.client.Do(req.WithContext(reqCtx))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return failTransport(ErrTimeout, name+" delivery timed out", err)
		}
		return failTransport(ErrTransport, name+" delivery failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		raw = []byte("Unable to read response body")
	}
	body := string(raw)

	verdict := httptemplate.Interpret(resp.StatusCode, body, httptemplate.Matcher{
		ExpectedStatus: cfg.ExpectedResponse,
		BodyContains:   cfg.SuccessMarker,
	})
	if !verdict.Success {
		return fail(ErrRejected, resp.StatusCode,
			fmt.Sprintf("%s sending failed. Response code: %d", name, resp.StatusCode), verdict.ErrorBody)
	}

	res := DeliveryResult{
		Success:       true,
		Message:       name + " sent successfully",
		StatusCode:    resp.StatusCode,
		EffectiveCode: code,
	}
	if pc, ok := httptemplate.ExtractProviderCode(body); ok {
		pc = strings.TrimSpace(pc)
		if sanitizer.IsNumeric(pc) {
			res.ProviderCode = pc
			res.EffectiveCode = pc
		}
	}
	return res
}

func (s *Sender) buildRequest(ctx context.Context, cfg channel.Config, destination, code string) (*http.Request, error) {
	tmpl := cfg.MessageTemplate
	if tmpl == "" {
		tmpl = DefaultMessage
	}
	p := httptemplate.Placeholders{
		Destination: destination,
		Message:     httptemplate.Message(tmpl, code),
		Code:        code,
	}

	target := httptemplate.Render(cfg.URL, p)
	if cfg.EscapeURL {
		target = httptemplate.RenderEscaped(cfg.URL, p, url.QueryEscape)
	}
	target += cfg.PathSuffix

	method := httptemplate.NormalizeMethod(cfg.Method)
	headers, dropped := httptemplate.ParseHeaders(httptemplate.Render(cfg.Headers, p))
	for _, entry := range dropped {
		s.log.WarnContext(ctx, "Dropping malformed header entry",
			logger.Channel(channelName(cfg)),
			slog.String("entry", sanitizer.MaskValues(entry, cfg.SensitiveValues...)),
		)
	}

	var body io.Reader
	if httptemplate.HasBody(method) {
		if payload := httptemplate.Render(cfg.Payload, p); payload != "" {
			body = strings.NewReader(payload)
		} else {
			s.log.WarnContext(ctx, "Payload is empty for a body-carrying method",
				logger.Channel(channelName(cfg)), slog.String("method", method))
		}
		if len(headers) == 0 {
			headers.Set("Content-Type", "application/json")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header = headers
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	return req, nil
}

func channelName(cfg channel.Config) string {
	if cfg.Channel == "" {
		return channel.Fallback.String()
	}
	return cfg.Channel.String()
}
