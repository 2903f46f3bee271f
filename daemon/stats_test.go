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

package daemon

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStatsCounters(t *testing.T) {
	s := NewStats()

	s.UpdateCounterBy("ntp_requests", 1)
	s.UpdateCounterBy("ntp_requests", 1)
	s.SetCounter("drift_sec", 42)

	got := s.Get()
	require.Equal(t, int64(2), got["ntp_requests"])
	require.Equal(t, int64(42), got["drift_sec"])

	require.Equal(t, float64(2), testutil.ToFloat64(s.gauge("ntp_requests")))
	require.Equal(t, float64(42), testutil.ToFloat64(s.gauge("drift_sec")))
}
