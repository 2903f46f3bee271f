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
Package actuator drives the stepper movement of an analog clock one second
at a time. The movement is a bipolar coil: every step is a 100ms high /
100ms low pulse on one of two lines, alternating lines between steps. The
same waveform can be emitted without moving the hands ("stall pulse"), which
the controller uses as visual feedback while it waits for the target time to
become reachable.
*/
package actuator

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stepclock/stepclock/clock"
)

// PulseWidth is how long each half of the drive waveform lasts
const PulseWidth = 100 * time.Millisecond

// Coil lines of the bipolar drive
const (
	LineA = 0
	LineB = 1
)

// PulseDriver sets the electrical level of one coil line.
// The two lines are never driven high at the same time.
type PulseDriver interface {
	Set(line int, high bool) error
}

// ByteStore reads and writes a fixed-size byte record.
// Implementations must complete Store fully before returning.
type ByteStore interface {
	Load(buf []byte) error
	Store(buf []byte) error
}

// Actuator owns the displayed time and the mechanism that shows it
type Actuator struct {
	// Sleep is swappable so tests don't pay for real pulse widths
	Sleep func(time.Duration)

	driver    PulseDriver
	store     ByteStore
	displayed clock.Time
	line      int
}

// New restores the displayed time from the store and wires up the driver.
// A store that can't be read at all is a hard error: without it there is
// no way to know where the hands are.
func New(driver PulseDriver, store ByteStore) (*Actuator, error) {
	buf := make([]byte, clock.RecordSize)
	if err := store.Load(buf); err != nil {
		return nil, fmt.Errorf("loading displayed time: %w", err)
	}
	displayed, err := clock.FromBytes(buf)
	if err != nil {
		// corrupt record, start from a known face position
		log.Warningf("stored displayed time unusable (%v), assuming 12:00:00", err)
		displayed = clock.Time{Hour: 12}
	}
	return &Actuator{
		Sleep:     time.Sleep,
		driver:    driver,
		store:     store,
		displayed: displayed,
	}, nil
}

// Displayed returns the current position of the hands
func (a *Actuator) Displayed() clock.Time {
	return a.displayed
}

// SetDisplayed overwrites and persists the hand position. Used by the
// provisioning flow after the hands have been aligned by hand.
func (a *Actuator) SetDisplayed(t clock.Time) error {
	if err := a.store.Store(t.Bytes()); err != nil {
		return fmt.Errorf("persisting displayed time: %w", err)
	}
	a.displayed = t
	return nil
}

// Tick emits one full drive pulse. With advance the hands move one second
// forward and the new position is persisted before the coil fires, so a
// power cut mid-pulse loses at most the one second being displayed.
// Without advance the identical waveform goes out and the hands stay put.
func (a *Actuator) Tick(advance bool) error {
	if advance {
		next := a.displayed
		next.AdvanceOneSecond()
		if err := a.store.Store(next.Bytes()); err != nil {
			return fmt.Errorf("persisting displayed time: %w", err)
		}
		a.displayed = next
	}
	if err := a.driver.Set(a.line, true); err != nil {
		return fmt.Errorf("driving line %d high: %w", a.line, err)
	}
	a.Sleep(PulseWidth)
	if err := a.driver.Set(a.line, false); err != nil {
		return fmt.Errorf("driving line %d low: %w", a.line, err)
	}
	a.Sleep(PulseWidth)
	// alternate coil polarity
	a.line = 1 - a.line
	return nil
}
