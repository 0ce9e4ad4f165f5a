// Package stepup orchestrates OTP step-up authentication.
//
// Issue selects the channel (request, then configured default, then SMS),
// generates a code with the channel's length and alphabet, delivers it, and
// stores the code the provider actually sent. A failed delivery stores
// nothing, so a retry is simply a new Issue call, subject to the per-session
// Throttle.
//
//	svc := stepup.New(lifecycle, sender, catalog,
//		stepup.WithConfig(cfg),
//		stepup.WithMetrics(metrics),
//		stepup.WithLogger(log),
//	)
//	res, err := svc.Issue(ctx, stepup.IssueRequest{SessionID: id, SMS: mobile, Email: email})
//	out := svc.Verify(ctx, id, submitted)
package stepup
