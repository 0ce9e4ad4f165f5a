package httptemplate

import "strings"

// Placeholder aliases. Each slot accepts a legacy $ctx form and a brace form.
var (
	DestinationAliases = []string{"$ctx.num", "$ctx.email", "{email}", "{destination}"}
	MessageAliases     = []string{"$ctx.msg", "{message}"}
	CodeAliases        = []string{"$ctx.otp", "{otp}", "{code}"}
)

// Placeholders are the values substituted into a template.
type Placeholders struct {
	Destination string
	Message     string
	Code        string
}

// Render replaces every placeholder alias in template with its value.
// Substitution is literal and single-pass, so values containing alias text are not expanded again.
func Render(template string, p Placeholders) string {
	if template == "" {
		return ""
	}
	return p.replacer(nil).Replace(template)
}

// RenderEscaped is Render with every value passed through escape first.
func RenderEscaped(template string, p Placeholders, escape func(string) string) string {
	if template == "" {
		return ""
	}
	return p.replacer(escape).Replace(template)
}

// Message composes the text sent to the user by substituting the code into template.
func Message(template, code string) string {
	pairs := make([]string, 0, len(CodeAliases)*2)
	for _, alias := range CodeAliases {
		pairs = append(pairs, alias, code)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func (p Placeholders) replacer(escape func(string) string) *strings.Replacer {
	if escape == nil {
		escape = func(s string) string { return s }
	}

	pairs := make([]string, 0, 2*(len(DestinationAliases)+len(MessageAliases)+len(CodeAliases)))
	add := func(aliases []string, value string) {
		value = escape(value)
		for _, alias := range aliases {
			pairs = append(pairs, alias, value)
		}
	}
	add(DestinationAliases, p.Destination)
	add(MessageAliases, p.Message)
	add(CodeAliases, p.Code)
	return strings.NewReplacer(pairs...)
}
