// Package logger builds *slog.Logger instances for the session service and
// keeps attribute names consistent across packages.
//
// New is the single factory. Options pick the format and level (directly or
// through an environment preset), add static attributes, and register
// ContextExtractor callbacks that pull request-scoped values such as the
// request id out of the context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "sessiond"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.DebugContext(ctx, "session frame pushed",
//	    logger.SessionID(sess.ID()),
//	    logger.StackDepth(sess.Depth()),
//	)
//
// SessionID and LookupKey write only a short prefix of their value. Error
// and Errors return an empty attribute for nil errors, so they can be passed
// unconditionally.
package logger
