// Package redis connects to the Redis server that can back the OTP session
// store and exposes a readiness probe for it.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		store := otp.NewRedisStore(client, otp.WithKeyPrefix(cfg.KeyPrefix))
//		probe := redis.Healthcheck(client)
//	}
//
// Connect retries the initial ping, so the service can start alongside a
// Redis container that is still booting.
package redis
