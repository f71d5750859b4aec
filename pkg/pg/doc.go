// Package pg connects to PostgreSQL through pgx/v5 and stores session frame
// records in it.
//
// Connect opens a *pgxpool.Pool and waits for it to answer, Migrate applies
// the session schema with goose and Store.Ping checks both for readiness
// probes. The
// schema ships embedded in the binary; Config.MigrationsPath switches to a
// directory on disk.
//
// Store implements session.AtomicStore on the session_frames table:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	manager, err := session.New(pg.NewStore(pool))
//
// Expired rows are invisible to reads and are replaced by PutIfAbsent;
// DeleteExpired reclaims their space.
package pg
