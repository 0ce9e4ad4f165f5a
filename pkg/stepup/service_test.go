package stepup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/delivery"
	"github.com/dmitrymomot/otpgate/pkg/otp"
	"github.com/dmitrymomot/otpgate/pkg/stepup"
)

type provider struct {
	srv *httptest.Server

	mu     sync.Mutex
	status int
	body   string
	codes  []string
	dests  []string
}

func newProvider(t *testing.T) *provider {
	t.Helper()
	p := &provider{status: http.StatusOK}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.codes = append(p.codes, r.URL.Query().Get("code"))
		p.dests = append(p.dests, r.URL.Query().Get("to"))
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(p.body))
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *provider) respond(status int, body string) {
	p.mu.Lock()
	p.status, p.body = status, body
	p.mu.Unlock()
}

func (p *provider) lastCode() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.codes) == 0 {
		return ""
	}
	return p.codes[len(p.codes)-1]
}

func (p *provider) lastDestination() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.dests) == 0 {
		return ""
	}
	return p.dests[len(p.dests)-1]
}

type fixture struct {
	svc      *stepup.Service
	provider *provider
	registry *prometheus.Registry
}

func newFixture(t *testing.T, cfg stepup.Config) fixture {
	t.Helper()
	return newFixtureWithDefault(t, cfg, "sms")
}

func newFixtureWithDefault(t *testing.T, cfg stepup.Config, catalogDefault string) fixture {
	t.Helper()
	p := newProvider(t)
	catalog := &channel.Catalog{
		Default: catalogDefault,
		SMS: &channel.Config{
			URL:           p.srv.URL + "/sms?to=$ctx.num&code=$ctx.otp",
			Method:        "GET",
			CountryPrefix: "66",
		},
		Email: &channel.Config{
			URL:        p.srv.URL + "/email?to={email}&code={otp}",
			Method:     "GET",
			CodeLength: 6,
		},
	}

	reg := prometheus.NewRegistry()
	metrics := stepup.NewMetrics(reg)
	store := otp.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	svc := stepup.New(
		otp.NewLifecycle(store, otp.WithValidity(cfg.ValidityMinutes)),
		delivery.NewSender(delivery.WithHook(metrics.DeliveryHook())),
		catalog,
		stepup.WithConfig(cfg),
		stepup.WithMetrics(metrics),
	)
	return fixture{svc: svc, provider: p, registry: reg}
}

func metricValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if hasLabel(m, label, value) {
				if f.GetType() == dto.MetricType_HISTOGRAM {
					return float64(m.GetHistogram().GetSampleCount())
				}
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == name && l.GetValue() == value {
			return true
		}
	}
	return false
}

func TestIssueAndVerifySMS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, stepup.DefaultConfig())

	res, err := f.svc.Issue(ctx, stepup.IssueRequest{SessionID: "sess-1", SMS: "081-234-5678", Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, channel.SMS, res.Channel)
	assert.Equal(t, "******5678", res.Destination)
	assert.Equal(t, "SMS sent successfully", res.Message)
	assert.False(t, res.ExpiresAt.IsZero())

	code := f.provider.lastCode()
	assert.Len(t, code, 4)
	assert.Equal(t, "66812345678", f.provider.lastDestination())

	ch, masked, ok := f.svc.MaskedDestination(ctx, "sess-1")
	require.True(t, ok)
	assert.Equal(t, channel.SMS, ch)
	assert.Equal(t, "******5678", masked)

	out := f.svc.Verify(ctx, "sess-1", code)
	assert.Equal(t, otp.Valid, out.Kind)

	assert.Equal(t, otp.NoPendingOtp, f.svc.Verify(ctx, "sess-1", code).Kind)
	_, _, ok = f.svc.MaskedDestination(ctx, "sess-1")
	assert.False(t, ok)

	assert.Equal(t, 1.0, metricValue(t, f.registry, "otp_issued_total", "channel", "SMS"))
	assert.Equal(t, 1.0, metricValue(t, f.registry, "otp_validations_total", "outcome", "valid"))
	assert.Equal(t, 1.0, metricValue(t, f.registry, "otp_validations_total", "outcome", "no_pending_otp"))
	assert.Equal(t, 1.0, metricValue(t, f.registry, "otp_delivery_duration_seconds", "channel", "SMS"))
}

func TestIssueEmailUsesChannelLength(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, stepup.DefaultConfig())

	res, err := f.svc.Issue(ctx, stepup.IssueRequest{SessionID: "sess", Channel: "email", Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, channel.Email, res.Channel)
	assert.Equal(t, "j***@example.com", res.Destination)

	code := f.provider.lastCode()
	assert.Len(t, code, 6)
	assert.Equal(t, "john@example.com", f.provider.lastDestination())

	out := f.svc.Verify(ctx, "sess", "000000x")
	assert.Equal(t, otp.Mismatch, out.Kind)
	assert.Equal(t, "Invalid OTP code. Please enter the complete 6-digit OTP sent to your email.", out.Message)
}

func TestIssueGlobalCodeLength(t *testing.T) {
	t.Parallel()
	cfg := stepup.DefaultConfig()
	cfg.CodeLength = 8
	f := newFixture(t, cfg)

	_, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"})
	require.NoError(t, err)
	assert.Len(t, f.provider.lastCode(), 8)
}

func TestIssueDefaultChannelOverride(t *testing.T) {
	t.Parallel()
	cfg := stepup.DefaultConfig()
	cfg.DefaultChannel = "EMAIL"
	f := newFixture(t, cfg)

	res, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", SMS: "0812345678", Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, channel.Email, res.Channel)

	res, err = f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess2", Channel: "sms", SMS: "0812345678"})
	require.NoError(t, err)
	assert.Equal(t, channel.SMS, res.Channel, "request parameter wins")
}

func TestIssueUnknownDefaultChannelKeepsCatalogDefault(t *testing.T) {
	t.Parallel()
	cfg := stepup.DefaultConfig()
	cfg.DefaultChannel = "fax"
	f := newFixtureWithDefault(t, cfg, "email")

	res, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", SMS: "0812345678", Email: "john@example.com"})
	require.NoError(t, err)
	assert.Equal(t, channel.Email, res.Channel)
	assert.Equal(t, "john@example.com", f.provider.lastDestination())
}

func TestIssueProviderCodeIsStored(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, stepup.DefaultConfig())
	f.provider.respond(http.StatusOK, `{"status":"sent","oneTimePassword":"9081"}`)

	_, err := f.svc.Issue(ctx, stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"})
	require.NoError(t, err)

	assert.Equal(t, otp.Valid, f.svc.Verify(ctx, "sess", "9081").Kind)
}

func TestIssueDeliveryFailureStoresNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, stepup.DefaultConfig())
	f.provider.respond(http.StatusInternalServerError, `{"error":"quota"}`)

	res, err := f.svc.Issue(ctx, stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"})
	require.ErrorIs(t, err, stepup.ErrDeliveryFailed)
	assert.Equal(t, "SMS sending failed. Response code: 500", res.Message)
	assert.Equal(t, "******5678", res.Destination)

	_, _, ok := f.svc.MaskedDestination(ctx, "sess")
	assert.False(t, ok)
	assert.Equal(t, otp.NoPendingOtp, f.svc.Verify(ctx, "sess", f.provider.lastCode()).Kind)

	assert.Equal(t, 1.0, metricValue(t, f.registry, "otp_delivery_failures_total", "channel", "SMS"))
	assert.Zero(t, metricValue(t, f.registry, "otp_issued_total", "channel", "SMS"))
}

func TestIssueErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t, stepup.DefaultConfig())

	_, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "  ", SMS: "0812345678"})
	assert.ErrorIs(t, err, stepup.ErrInvalidRequest)

	_, err = f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", Email: "john@example.com"})
	assert.ErrorIs(t, err, stepup.ErrNoDestination)

	smsOnly := stepup.New(otp.NewLifecycle(otp.NewMemoryStore(0)), delivery.NewSender(),
		&channel.Catalog{SMS: &channel.Config{URL: "http://127.0.0.1:1"}})
	_, err = smsOnly.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", Channel: "EMAIL", Email: "john@example.com"})
	assert.ErrorIs(t, err, channel.ErrChannelNotConfigured)
}

func TestIssueThrottled(t *testing.T) {
	t.Parallel()
	cfg := stepup.DefaultConfig()
	cfg.ResendInterval = time.Hour
	cfg.ResendBurst = 2
	f := newFixture(t, cfg)
	req := stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"}

	for range 2 {
		_, err := f.svc.Issue(context.Background(), req)
		require.NoError(t, err)
	}
	res, err := f.svc.Issue(context.Background(), req)
	require.ErrorIs(t, err, stepup.ErrThrottled)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	other := stepup.IssueRequest{SessionID: "other", SMS: "0812345678"}
	_, err = f.svc.Issue(context.Background(), other)
	assert.NoError(t, err, "throttle is per session")
}

func TestRejectedIssueDoesNotSpendResend(t *testing.T) {
	t.Parallel()
	cfg := stepup.DefaultConfig()
	cfg.ResendInterval = time.Hour
	cfg.ResendBurst = 1
	f := newFixture(t, cfg)

	for range 3 {
		_, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", Channel: "EMAIL"})
		require.ErrorIs(t, err, stepup.ErrNoDestination)
	}

	_, err := f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"})
	require.NoError(t, err)

	_, err = f.svc.Issue(context.Background(), stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"})
	assert.ErrorIs(t, err, stepup.ErrThrottled)
}

func TestResendReplacesPendingCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, stepup.DefaultConfig())
	req := stepup.IssueRequest{SessionID: "sess", SMS: "0812345678"}

	f.provider.respond(http.StatusOK, `{"oneTimePassword":"1111"}`)
	_, err := f.svc.Issue(ctx, req)
	require.NoError(t, err)
	f.provider.respond(http.StatusOK, `{"oneTimePassword":"2222"}`)
	_, err = f.svc.Issue(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, otp.Valid, f.svc.Verify(ctx, "sess", "2222").Kind)
}
