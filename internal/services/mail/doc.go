// Package mail delivers the finished weekly report over SMTP. Delivery is
// best-effort: the report file on disk is the canonical output and is always
// written before any send attempt.
package mail
