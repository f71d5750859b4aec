// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware accepts an inbound X-Request-ID made of letters, digits, "-" and
// "_" (at most 128 characters) and otherwise generates a UUIDv7. The id is
// stored in the request context, echoed in the response header and, through
// LoggerExtractor, added to every log record written with that context.
package requestid
