// Package mongo connects to MongoDB with retries and stores session frame
// records in a collection.
//
// New and NewWithDatabase build a client from Config and ping it before
// returning.
//
// Store implements session.AtomicStore. Frames are documents keyed by their
// lookup key; EnsureIndexes adds a TTL index on expires_at so MongoDB removes
// expired frames, and reads skip the ones it has not reached yet. Store.Ping
// serves readiness probes.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	store := mongo.NewStore(db, cfg.Collection)
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    return err
//	}
package mongo
