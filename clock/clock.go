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

/*
Package clock implements the 12-hour wall-clock value used to track both the
physical position of the clock hands and the target local time. The type only
ever moves forward one second at a time, the same way the mechanism does.
*/
package clock

import (
	"fmt"
)

// FaceSeconds is the number of seconds on a full 12-hour face
const FaceSeconds = 43200

// RecordSize is the size of the persisted [hour, minute, second] record
const RecordSize = 3

// Time is a wall-clock value on a 12-hour face.
// Hour is in [1, 12], never 0 or 13.
type Time struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// AdvanceOneSecond moves t forward by one second, wrapping
// seconds into minutes, minutes into hours and hour 12 into hour 1.
func (t *Time) AdvanceOneSecond() {
	t.Second++
	if t.Second < 60 {
		return
	}
	t.Second = 0
	t.Minute++
	if t.Minute < 60 {
		return
	}
	t.Minute = 0
	t.Hour++
	if t.Hour > 12 {
		t.Hour = 1
	}
}

// Seconds linearizes t to seconds since 12:00:00, in [0, FaceSeconds)
func (t Time) Seconds() int {
	h := int(t.Hour) % 12
	return h*3600 + int(t.Minute)*60 + int(t.Second)
}

// String implements fmt.Stringer
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Bytes serializes t into the persisted 3-byte record
func (t Time) Bytes() []byte {
	return []byte{t.Hour, t.Minute, t.Second}
}

// FromBytes restores a Time from the persisted 3-byte record.
// Out of range fields are rejected so a corrupt store can't produce
// a value the face arithmetic would choke on.
func FromBytes(b []byte) (Time, error) {
	if len(b) != RecordSize {
		return Time{}, fmt.Errorf("bad record size %d, want %d", len(b), RecordSize)
	}
	t := Time{Hour: b[0], Minute: b[1], Second: b[2]}
	if t.Hour < 1 || t.Hour > 12 || t.Minute > 59 || t.Second > 59 {
		return Time{}, fmt.Errorf("bad stored time %s", t)
	}
	return t, nil
}

// FromEpoch derives the 12-hour wall clock from a local Unix epoch.
// Hour 0 folds to 12, hours above 12 fold back onto the face.
func FromEpoch(epoch int64) Time {
	day := epoch % 86400
	if day < 0 {
		day += 86400
	}
	h := uint8(day / 3600)
	if h == 0 {
		h = 12
	} else if h > 12 {
		h -= 12
	}
	return Time{
		Hour:   h,
		Minute: uint8(day % 3600 / 60),
		Second: uint8(day % 60),
	}
}

// Drift is the circular distance between two clock faces in seconds,
// always in [0, FaceSeconds/2]
func Drift(a, b Time) int {
	d := a.Seconds() - b.Seconds()
	if d < 0 {
		d = -d
	}
	if FaceSeconds-d < d {
		d = FaceSeconds - d
	}
	return d
}

// FoldedDiff is the signed displayed-minus-target difference folded
// into [0, FaceSeconds). A small positive value means the displayed
// time is slightly ahead; a large one means it is behind and the
// hands have to chase the target the long way around.
func FoldedDiff(displayed, target Time) int {
	d := displayed.Seconds() - target.Seconds()
	if d < 0 {
		d += FaceSeconds
	}
	return d
}
