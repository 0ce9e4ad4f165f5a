// Package delivery sends one-time codes through an HTTP provider described by
// a channel.Config.
//
// A Sender renders the provider request from the channel templates, performs
// a single bounded call and interprets the response. There is no retry:
// re-sending means issuing a new code.
//
// Send returns an error only for configuration problems such as an empty
// endpoint URL (ErrConfiguration). Timeouts, network errors and provider
// rejections are reported through DeliveryResult so the caller can decide
// whether to issue again.
//
//	sender := delivery.NewSender(delivery.WithLogger(log))
//	res, err := sender.Send(ctx, cfg, "0812345678", code)
//	if err != nil {
//		return err // misconfigured channel
//	}
//	if !res.Success {
//		// tell the user delivery failed
//	}
//	// persist res.EffectiveCode
package delivery
