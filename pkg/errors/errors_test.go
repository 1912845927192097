// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrRecordNotFound, http.StatusNotFound},
		{ErrNetworkUnavailable, http.StatusServiceUnavailable},
		{ErrIndexUnavailable, http.StatusServiceUnavailable},
		{ErrMalformedResponse, http.StatusBadGateway},
		{ErrStoreUnavailable, http.StatusServiceUnavailable},
		{ErrStoreWriteFailed, http.StatusServiceUnavailable},
		{ErrDataLayerFatal, http.StatusInternalServerError},
		{New("unclassified"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatusCode(tc.err); got != tc.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHTTPStatusCode_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("%w: fetching index: connection refused", ErrNetworkUnavailable)
	if got := HTTPStatusCode(err); got != http.StatusServiceUnavailable {
		t.Errorf("wrapped error mapped to %d", got)
	}
}
