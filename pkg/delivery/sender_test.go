package delivery_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/delivery"
)

type captured struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    string
}

func newProvider(t *testing.T, status int, respBody string) (*httptest.Server, func() captured) {
	t.Helper()

	var (
		mu   sync.Mutex
		last captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		last = captured{
			method:  r.Method,
			path:    r.URL.Path,
			query:   r.URL.RawQuery,
			headers: r.Header.Clone(),
			body:    string(body),
		}
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)

	return srv, func() captured {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestSendPostRendersTemplates(t *testing.T) {
	t.Parallel()

	srv, last := newProvider(t, http.StatusOK, `{"status":"ok"}`)
	sender := delivery.NewSender()

	cfg := channel.Config{
		Channel: channel.SMS,
		URL:     srv.URL + "/send?to=$ctx.num",
		Method:  "post",
		Headers: "Authorization:Bearer secret-token,X-Target:$ctx.num,broken",
		Payload: `{"to":"$ctx.num","text":"$ctx.msg","otp":"{otp}"}`,
	}

	res, err := sender.Send(context.Background(), cfg, "0812345678", "4821")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "4821", res.EffectiveCode)
	assert.Empty(t, res.ProviderCode)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	got := last()
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "to=0812345678", got.query)
	assert.Equal(t, "Bearer secret-token", got.headers.Get("Authorization"))
	assert.Equal(t, "0812345678", got.headers.Get("X-Target"))
	assert.Equal(t, `{"to":"0812345678","text":"Your verification code is: 4821","otp":"4821"}`, got.body)
}

func TestSendGetHasNoBody(t *testing.T) {
	t.Parallel()

	srv, last := newProvider(t, http.StatusOK, "")
	cfg := channel.Config{
		Channel:   channel.SMS,
		URL:       srv.URL + "/send?to=$ctx.num&msg=$ctx.msg",
		Method:    "GET",
		Payload:   `{"ignored":true}`,
		EscapeURL: true,
	}

	res, err := delivery.NewSender().Send(context.Background(), cfg, "0812345678", "1234")
	require.NoError(t, err)
	assert.True(t, res.Success)

	got := last()
	assert.Equal(t, http.MethodGet, got.method)
	assert.Empty(t, got.body)
	assert.Empty(t, got.headers.Get("Content-Type"))
	assert.Equal(t, "to=0812345678&msg=Your+verification+code+is%3A+1234", got.query)
}

func TestSendDefaultsContentTypeAndSuffix(t *testing.T) {
	t.Parallel()

	srv, last := newProvider(t, http.StatusAccepted, "")
	cfg := channel.Config{
		Channel:         channel.Email,
		URL:             srv.URL + "/v1/",
		PathSuffix:      "sendOneTimePW.json",
		Payload:         `{"to":"{email}","body":"{message}"}`,
		MessageTemplate: "Use {otp} to sign in",
	}

	res, err := delivery.NewSender().Send(context.Background(), cfg, "john@example.com", "5555")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "EMAIL sent successfully", res.Message)

	got := last()
	assert.Equal(t, "/v1/sendOneTimePW.json", got.path)
	assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
	assert.Equal(t, `{"to":"john@example.com","body":"Use 5555 to sign in"}`, got.body)
}

func TestSendCountryPrefix(t *testing.T) {
	t.Parallel()

	srv, last := newProvider(t, http.StatusOK, "")
	cfg := channel.Config{
		Channel:       channel.SMS,
		URL:           srv.URL,
		Payload:       `{"msisdn":"$ctx.num"}`,
		CountryPrefix: "66",
	}

	_, err := delivery.NewSender().Send(context.Background(), cfg, "0812345678", "1234")
	require.NoError(t, err)
	assert.Equal(t, `{"msisdn":"66812345678"}`, last().body)
}

func TestSendProviderCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		provider string
		want     string
	}{
		{name: "quoted provider code", body: `{"oneTimePassword":"9081","status":"ok"}`, provider: "9081", want: "9081"},
		{name: "bare provider code", body: `{"oneTimePassword":7310}`, provider: "7310", want: "7310"},
		{name: "no provider code", body: `{"status":"ok"}`, want: "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := newProvider(t, http.StatusOK, tt.body)
			res, err := delivery.NewSender().Send(context.Background(), channel.Config{Channel: channel.SMS, URL: srv.URL}, "0812345678", "1234")
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tt.provider, res.ProviderCode)
			assert.Equal(t, tt.want, res.EffectiveCode)
		})
	}
}

func TestSendRejected(t *testing.T) {
	t.Parallel()

	srv, _ := newProvider(t, http.StatusInternalServerError, `{"error":"bad token secret-token for 0812345678"}`)
	cfg := channel.Config{
		Channel:         channel.SMS,
		URL:             srv.URL,
		SensitiveValues: []string{"secret-token"},
	}

	res, err := delivery.NewSender().Send(context.Background(), cfg, "0812345678", "1234")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, delivery.ErrRejected)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "SMS sending failed. Response code: 500", res.Message)
	assert.Equal(t, `{"error":"bad token *** for ***"}`, res.ErrorBody)
	assert.Empty(t, res.EffectiveCode)
}

func TestSendExpectedResponse(t *testing.T) {
	t.Parallel()

	t.Run("redirect status accepted when expected", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		}))
		t.Cleanup(srv.Close)

		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.SMS, URL: srv.URL, ExpectedResponse: "302"}, "0812345678", "1234")
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, http.StatusFound, res.StatusCode)
	})

	t.Run("200 rejected when another status expected", func(t *testing.T) {
		t.Parallel()
		srv, _ := newProvider(t, http.StatusOK, "ok")
		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.SMS, URL: srv.URL, ExpectedResponse: "202"}, "0812345678", "1234")
		require.NoError(t, err)
		assert.False(t, res.Success)
	})

	t.Run("success marker required in body", func(t *testing.T) {
		t.Parallel()
		srv, _ := newProvider(t, http.StatusOK, `{"result":"rejected"}`)
		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.Email, URL: srv.URL, SuccessMarker: "queued"}, "john@example.com", "1234")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, `{"result":"rejected"}`, res.ErrorBody)
	})
}

func TestSendConfigurationError(t *testing.T) {
	t.Parallel()

	sender := delivery.NewSender()

	_, err := sender.Send(context.Background(), channel.Config{Channel: channel.SMS, URL: "  "}, "0812345678", "1234")
	assert.ErrorIs(t, err, delivery.ErrConfiguration)

	_, err = sender.Send(context.Background(), channel.Config{Channel: channel.SMS, URL: "https://sms.example.com"}, "0812345678", "")
	assert.ErrorIs(t, err, delivery.ErrConfiguration)
}

func TestSendTransportErrors(t *testing.T) {
	t.Parallel()

	t.Run("malformed url", func(t *testing.T) {
		t.Parallel()
		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.SMS, URL: "http://[::1"}, "0812345678", "1234")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, delivery.ErrTransport)
		assert.Contains(t, res.Message, "SMS delivery failed")
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.SMS, URL: addr + "?to=$ctx.num&code=$ctx.otp&key=api-key-9"}, "0812345678", "4821")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, delivery.ErrTransport)
		assert.Equal(t, "SMS delivery failed", res.Message)

		detail := res.Err.Error()
		assert.Contains(t, detail, "code=***")
		for _, secret := range []string{"0812345678", "4821"} {
			assert.NotContains(t, detail, secret)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		start := time.Now()
		res, err := delivery.NewSender().Send(context.Background(),
			channel.Config{Channel: channel.SMS, URL: srv.URL, Timeout: 50 * time.Millisecond}, "0812345678", "1234")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, delivery.ErrTimeout)
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestSendHookAndLogging(t *testing.T) {
	t.Parallel()

	srv, _ := newProvider(t, http.StatusOK, "")
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var (
		hookChannel channel.Channel
		hookResult  delivery.DeliveryResult
	)
	sender := delivery.NewSender(
		delivery.WithLogger(log),
		delivery.WithUserAgent("otpgate-test"),
		delivery.WithHook(func(ch channel.Channel, res delivery.DeliveryResult) {
			hookChannel = ch
			hookResult = res
		}),
	)

	res, err := sender.Send(context.Background(), channel.Config{URL: srv.URL, Headers: "nocolon"}, "0812345678", "1234")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, channel.SMS, hookChannel, "channel defaults to SMS")
	assert.Equal(t, res, hookResult)

	logs := buf.String()
	assert.Contains(t, logs, "Dropping malformed header entry")
	assert.Contains(t, logs, "OTP delivered")
	assert.Contains(t, logs, "******5678")
	assert.NotContains(t, logs, "0812345678")
}
