package httptemplate_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/otpgate/pkg/httptemplate"
)

func TestRender(t *testing.T) {
	t.Parallel()

	p := httptemplate.Placeholders{
		Destination: "0812345678",
		Message:     "Your code: 1234",
		Code:        "1234",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "legacy url placeholders",
			template: "https://api/x?to=$ctx.num&msg=$ctx.msg",
			want:     "https://api/x?to=0812345678&msg=Your code: 1234",
		},
		{
			name:     "brace payload placeholders",
			template: `{"to":"{email}","body":"{message}","otp":"{otp}"}`,
			want:     `{"to":"0812345678","body":"Your code: 1234","otp":"1234"}`,
		},
		{
			name:     "mixed aliases and repeats",
			template: "$ctx.email|{destination}|$ctx.otp|{code}|$ctx.num",
			want:     "0812345678|0812345678|1234|1234|0812345678",
		},
		{
			name:     "no placeholders",
			template: "Content-Type:application/json",
			want:     "Content-Type:application/json",
		},
		{name: "empty", template: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := httptemplate.Render(tt.template, p)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "$ctx.")
		})
	}
}

func TestRenderDoesNotReexpandValues(t *testing.T) {
	t.Parallel()

	got := httptemplate.Render("$ctx.msg", httptemplate.Placeholders{Message: "hi {otp}", Code: "9999"})
	assert.Equal(t, "hi {otp}", got)
}

func TestRenderEscaped(t *testing.T) {
	t.Parallel()

	got := httptemplate.RenderEscaped(
		"https://api/x?to=$ctx.email&msg=$ctx.msg",
		httptemplate.Placeholders{Destination: "john@example.com", Message: "Your code: 1234"},
		url.QueryEscape,
	)
	assert.Equal(t, "https://api/x?to=john%40example.com&msg=Your+code%3A+1234", got)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Your verification code is: 4821", httptemplate.Message("Your verification code is: {code}", "4821"))
	assert.Equal(t, "Code 4821 (4821)", httptemplate.Message("Code {otp} ($ctx.otp)", "4821"))
	assert.Equal(t, "static", httptemplate.Message("static", "4821"))
}
