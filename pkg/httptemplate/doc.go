// Package httptemplate renders provider HTTP requests from text templates and
// interprets provider responses.
//
// Templates are plain strings with placeholders. The destination slot accepts
// $ctx.num, $ctx.email, {email} and {destination}; the message slot accepts
// $ctx.msg and {message}; the code slot accepts $ctx.otp, {otp} and {code}.
// Header blocks are comma separated Name:Value pairs.
//
//	url := httptemplate.Render("https://api/x?to=$ctx.num&msg=$ctx.msg", httptemplate.Placeholders{
//		Destination: "0812345678",
//		Message:     "Your code: 1234",
//	})
//
// Interpret decides success from the status code, an optional expected status
// and an optional body marker. ExtractProviderCode finds a code a provider
// generated on its own in the response body.
package httptemplate
