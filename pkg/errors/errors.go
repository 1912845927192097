// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package errors defines the data-layer error taxonomy shared across
// the archive components.
package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNetworkUnavailable marks a rejected fetch or a non-2xx response.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrMalformedResponse marks a JSON parse failure or schema mismatch.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrStoreUnavailable marks inaccessible local persistence. The
	// cache degrades to a no-op; callers fall back to network-only mode.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrStoreWriteFailed marks a failed seed or upsert batch. The
	// whole batch is rolled back.
	ErrStoreWriteFailed = errors.New("store write failed")

	// ErrRecordNotFound marks a cache miss for a dossier id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrIndexUnavailable marks the one user-visible failure: no cached
	// index and no network.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrDataLayerFatal marks an invariant violation such as a corrupt
	// stored schema. It is the only class that halts an operation.
	ErrDataLayerFatal = errors.New("data layer fatal")
)

// Is, As and New are re-exported so callers need only one errors import.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// HTTPStatusCode maps a data-layer error to an HTTP status for the API
// server.
func HTTPStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNetworkUnavailable), errors.Is(err, ErrIndexUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrStoreWriteFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
