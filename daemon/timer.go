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
	"context"
	"sync"
	"time"

	"github.com/stepclock/stepclock/clock"
)

// targetState holds the controller's belief about correct local time.
// The timer goroutine and the control loop both touch it, so all three
// fields move together under one short critical section.
type targetState struct {
	mu     sync.Mutex
	target clock.Time
}

func (s *targetState) get() clock.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func (s *targetState) set(t clock.Time) {
	s.mu.Lock()
	s.target = t
	s.mu.Unlock()
}

func (s *targetState) advance() {
	s.mu.Lock()
	s.target.AdvanceOneSecond()
	s.mu.Unlock()
}

// runTimer advances the target clock once per interval and signals the
// control loop. The tick channel has a single slot: if the loop is busy
// fast-forwarding, ticks coalesce instead of queueing up, but the target
// itself never misses a second. Nothing here blocks or does I/O.
func (d *Daemon) runTimer(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.target.advance()
			select {
			case d.ticks <- struct{}{}:
			default:
			}
		}
	}
}
