// Package otp implements the lifecycle of a session's one-time code.
//
// A Lifecycle stores the code that was actually delivered (Issue) and later
// consumes it on the first validation attempt (Validate). Validation checks
// run in a fixed order: missing record, empty submission, mismatch, expiry.
// A mismatch is therefore reported even for an expired record, and the
// expected code never appears in an Outcome.
//
// Stores:
//
//   - MemoryStore keeps records in process memory with an optional sweep.
//   - RedisStore keeps JSON records with a TTL and clears them with GETDEL,
//     so at most one concurrent validation can succeed across instances.
//
//	store := otp.NewMemoryStore(time.Minute)
//	defer store.Close()
//	lc := otp.NewLifecycle(store, otp.WithValidity(5), otp.WithLogger(log))
//	if _, err := lc.Issue(ctx, sessionID, code, channel.SMS, mobile); err != nil {
//		return err
//	}
//	out := lc.Validate(ctx, sessionID, submitted)
package otp
