/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package timezone

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "40.7,-74.0", r.URL.Query().Get("location"))
		require.Equal(t, "1700000000", r.URL.Query().Get("timestamp"))
		fmt.Fprint(w, `{"status": "OK", "rawOffset": -18000, "dstOffset": 3600}`)
	}))
	defer server.Close()

	r := NewResolver(server.URL)
	local, err := r.Resolve(1700000000, "40.7,-74.0")
	require.NoError(t, err)
	require.Equal(t, int64(1699985600), local)
}

func TestResolveFailures(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{"service status not OK", http.StatusOK, `{"status": "ZERO_RESULTS", "rawOffset": 0, "dstOffset": 0}`},
		{"http error", http.StatusInternalServerError, ""},
		{"malformed json", http.StatusOK, `{"status": "OK", "rawOffs`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			_, err := NewResolver(server.URL).Resolve(1700000000, "40.7,-74.0")
			require.Error(t, err)
		})
	}
}

func TestResolveNoServer(t *testing.T) {
	r := NewResolver("http://127.0.0.1:1")
	_, err := r.Resolve(1700000000, "40.7,-74.0")
	require.Error(t, err)
}
