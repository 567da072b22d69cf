// Package roli is a low level client for the Rolimons.com API.
//
// Every Client method issues exactly one request and returns either a typed
// value or an *Error. The API is rate limited and several endpoints are
// expensive; caching and pacing are left to the caller.
//
//	client := roli.New()
//	items, err := client.AllItemDetails(ctx)
//	if errors.Is(err, roli.ErrTooManyRequests) {
//		// back off
//	}
//
// Errors carry a Kind (network, status, application, decode, auth, argument)
// and wrap one of the package sentinels, so callers can tell "retry later"
// (IsRetryable) from "parameters invalid" from "unexpected response".
package roli
