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

package clock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvanceOneSecond(t *testing.T) {
	testCases := []struct {
		in   Time
		want Time
	}{
		{Time{1, 0, 0}, Time{1, 0, 1}},
		{Time{3, 15, 59}, Time{3, 16, 0}},
		{Time{5, 59, 59}, Time{6, 0, 0}},
		{Time{12, 59, 59}, Time{1, 0, 0}},
		{Time{11, 59, 59}, Time{12, 0, 0}},
	}
	for _, tc := range testCases {
		got := tc.in
		got.AdvanceOneSecond()
		require.Equal(t, tc.want, got, "advance from %s", tc.in)
	}
}

func TestAdvanceNeverLeavesFace(t *testing.T) {
	c := Time{Hour: 12, Minute: 0, Second: 0}
	for i := 0; i < FaceSeconds+10; i++ {
		c.AdvanceOneSecond()
		require.True(t, c.Hour >= 1 && c.Hour <= 12, "hour %d after %d steps", c.Hour, i+1)
		require.Less(t, c.Minute, uint8(60))
		require.Less(t, c.Second, uint8(60))
	}
	// full face plus ten seconds lands back at 12:00:10
	require.Equal(t, Time{12, 0, 10}, c)
}

func TestSeconds(t *testing.T) {
	require.Equal(t, 0, Time{12, 0, 0}.Seconds())
	require.Equal(t, 3600, Time{1, 0, 0}.Seconds())
	require.Equal(t, FaceSeconds-1, Time{11, 59, 59}.Seconds())
}

func TestDrift(t *testing.T) {
	testCases := []struct {
		a, b Time
		want int
	}{
		{Time{1, 0, 0}, Time{1, 0, 0}, 0},
		{Time{1, 0, 0}, Time{1, 0, 5}, 5},
		{Time{12, 0, 0}, Time{11, 59, 59}, 1}, // across the wrap
		{Time{12, 0, 0}, Time{6, 0, 0}, FaceSeconds / 2},
		{Time{1, 0, 0}, Time{1, 4, 30}, 270},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, Drift(tc.a, tc.b), "drift %s vs %s", tc.a, tc.b)
		// symmetric
		require.Equal(t, tc.want, Drift(tc.b, tc.a), "drift %s vs %s", tc.b, tc.a)
		require.LessOrEqual(t, Drift(tc.a, tc.b), FaceSeconds/2)
	}
}

func TestFoldedDiff(t *testing.T) {
	// displayed ahead of target
	require.Equal(t, 5, FoldedDiff(Time{1, 0, 5}, Time{1, 0, 0}))
	// displayed behind target folds the long way around
	require.Equal(t, FaceSeconds-270, FoldedDiff(Time{1, 0, 0}, Time{1, 4, 30}))
	require.Equal(t, 0, FoldedDiff(Time{7, 30, 0}, Time{7, 30, 0}))
}

func TestFromEpoch(t *testing.T) {
	testCases := []struct {
		name  string
		epoch int64
		want  Time
	}{
		{"midnight folds to 12", 1699920000, Time{12, 0, 0}}, // 2023-11-14 00:00:00
		{"morning", 1699985600, Time{6, 13, 20}},             // 18:13:20 -> 6:13:20
		{"noon", 1699963200, Time{12, 0, 0}},                 // 12:00:00
		{"just past noon", 1699963201, Time{12, 0, 1}},
		{"one am", 1699923600, Time{1, 0, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FromEpoch(tc.epoch))
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	c := Time{7, 42, 13}
	got, err := FromBytes(c.Bytes())
	require.NoError(t, err)
	require.Equal(t, c, got)

	_, err = FromBytes([]byte{13, 0, 0})
	require.Error(t, err)
	_, err = FromBytes([]byte{0, 0, 0})
	require.Error(t, err)
	_, err = FromBytes([]byte{1, 60, 0})
	require.Error(t, err)
	_, err = FromBytes([]byte{1, 2})
	require.Error(t, err)
}
