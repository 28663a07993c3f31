// Package httputil provides HTTP helpers shared by the hosting-platform clients.
//
// The core primitive is [Retry], which re-executes an operation with
// exponential backoff whenever it fails with a [RetryableError]. Terminal
// outcomes (a successful response, a definitive status code such as 404,
// or a rate-limit signal) are returned immediately so callers can react
// to them without burning retry attempts.
//
// [Sleep] is a context-aware time.Sleep used for rate-limit cooldowns.
package httputil
