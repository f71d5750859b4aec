// Package redis connects to Redis and provides a session frame store on top
// of it.
//
// Connect parses a redis:// URL and pings the server, retrying according to
// Config.
//
// Store implements session.AtomicStore. Every record is stored as JSON under
// KeyPrefix + lookup key; records with an expiry carry the same TTL on the
// key, and new frames are claimed with SET NX. Store.Ping serves readiness
// probes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	manager, err := session.New(redis.NewStoreFromConfig(client, cfg))
package redis
