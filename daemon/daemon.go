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
Package daemon is the synchronization engine of stepclock. It keeps two
12-hour clocks: the displayed time (where the hands physically are) and
the target time (where they should be). A once-per-second timer advances
the target; every 90 seconds a fresh NTP reading, localized through the
timezone service, replaces it. Each tick the controller compares the two
and decides whether to advance the hands, stall them, or fast-forward.
Hands never move backward.
*/
package daemon

import (
	"context"
	"time"

	"github.com/eclesh/welford"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stepclock/stepclock/clock"
	"github.com/stepclock/stepclock/store"
)

const (
	// ntpCheckInterval is the length of one sync cycle in ticks
	ntpCheckInterval = 90
	// pollEvery is how often within a cycle we check for a reply
	pollEvery = 5
	// clockDiffRange is the drift we tolerate without correcting
	clockDiffRange = 5
	// catchupThreshold separates stall-pulse waiting from fast-forward
	catchupThreshold = 180
)

// TimeSource fires time requests and picks up replies without blocking
type TimeSource interface {
	SendRequest() error
	PollReply() (epoch int64, ok bool, err error)
}

// Localizer turns a UTC epoch into a local epoch for a location
type Localizer interface {
	Resolve(epoch int64, location string) (int64, error)
}

// Mechanism moves (or just pulses) the physical clock
type Mechanism interface {
	Tick(advance bool) error
	Displayed() clock.Time
}

// Daemon runs the synchronization engine
type Daemon struct {
	cfg    *Config
	source TimeSource
	local  Localizer
	mech   Mechanism
	portal store.Portal
	stats  StatsServer

	target targetState
	ticks  chan struct{}

	// sync cycle state, owned by the control loop
	cycle    int
	replied  bool
	location string

	drift       *welford.Stats
	corrections int

	// sleep is swappable so tests don't wait out real catch-up delays
	sleep func(time.Duration)
}

// New creates a stepclock daemon
func New(cfg *Config, source TimeSource, local Localizer, mech Mechanism, portal store.Portal, stats StatsServer) *Daemon {
	return &Daemon{
		cfg:    cfg,
		source: source,
		local:  local,
		mech:   mech,
		portal: portal,
		stats:  stats,
		ticks:  make(chan struct{}, 1),
		drift:  welford.New(),
		sleep:  time.Sleep,
	}
}

// Run starts the timer and the control loop and blocks until ctx is done
func (d *Daemon) Run(ctx context.Context) error {
	// until the first correction the target starts where the hands are
	d.target.set(d.mech.Displayed())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.runTimer(ctx) })
	g.Go(func() error { return d.runLoop(ctx) })
	return g.Wait()
}

func (d *Daemon) runLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ticks:
		}
		d.advanceCycle()
		d.reconcile()
	}
}

// advanceCycle drives the NTP request/poll machinery one tick forward.
// A cycle that never sees a reply is abandoned when the counter wraps
// and a fresh request goes out.
func (d *Daemon) advanceCycle() {
	switch {
	case d.cycle == 0:
		d.replied = false
		if loc, err := d.portal.Location(); err == nil {
			d.location = loc
		} else {
			log.Warningf("reading location: %v", err)
		}
		if err := d.source.SendRequest(); err != nil {
			log.Warningf("NTP request: %v", err)
		} else {
			d.stats.UpdateCounterBy("ntp_requests", 1)
		}
	case !d.replied && d.cycle%pollEvery == 0:
		epoch, ok, err := d.source.PollReply()
		if err != nil {
			log.Warningf("NTP poll: %v", err)
		} else if ok {
			d.replied = true
			d.stats.UpdateCounterBy("ntp_replies", 1)
			d.correct(epoch)
		}
	}
	d.cycle = (d.cycle + 1) % ntpCheckInterval
}

// correct localizes a fresh UTC reading and replaces the target time.
// On any lookup failure the target is left exactly as it was: the timer
// keeps advancing it and the next cycle tries again.
func (d *Daemon) correct(epoch int64) {
	local, err := d.local.Resolve(epoch, d.location)
	if err != nil {
		log.Warningf("timezone lookup: %v", err)
		d.stats.UpdateCounterBy("timezone_errors", 1)
		return
	}
	corrected := clock.FromEpoch(local)
	observed := clock.Drift(d.mech.Displayed(), corrected)
	d.drift.Add(float64(observed))
	d.corrections++
	d.target.set(corrected)
	d.stats.SetCounter("last_correction_drift_sec", int64(observed))
	log.Infof("corrected target to %s, drift %ds (mean %.1f stddev %.1f over %d corrections)",
		corrected, observed, d.drift.Mean(), d.drift.Stddev(), d.corrections)
}

// reconcile compares displayed and target time and performs at most one
// physical tick, except in the fast-forward case which catches up in one
// long synchronous burst.
func (d *Daemon) reconcile() {
	for {
		displayed := d.mech.Displayed()
		target := d.target.get()
		drift := clock.Drift(displayed, target)
		d.stats.SetCounter("drift_sec", int64(drift))

		if drift <= clockDiffRange {
			// synchronized, hands track the target second by second
			d.tick(true)
			return
		}
		diff := clock.FoldedDiff(displayed, target)
		log.Debugf("displayed %s target %s diff %d", displayed, target, diff)
		if diff > catchupThreshold {
			d.fastForward()
			return
		}
		if diff > clockDiffRange+1 {
			// hands are ahead: hold position, but show the clock is alive
			d.tick(false)
			d.stats.UpdateCounterBy("stall_pulses", 1)
			return
		}
		// a second or so ahead: one extra second of real time closes
		// the gap, then look again
		d.sleep(time.Second)
	}
}

// fastForward spins the hands forward until they come back within the
// catch-up threshold of the target. This is a deliberate monopoly: no
// NTP sends or polls and no timer ticks are consumed until it finishes,
// however long that takes. The timer keeps advancing the target
// underneath, so the loop chases a moving goal and exits once the hands
// have effectively caught it.
func (d *Daemon) fastForward() {
	start := d.mech.Displayed()
	log.Infof("fast-forwarding from %s to catch %s", start, d.target.get())
	n := 0
	for clock.FoldedDiff(d.mech.Displayed(), d.target.get()) > catchupThreshold {
		if err := d.mech.Tick(true); err != nil {
			log.Errorf("actuator: %v", err)
			return
		}
		n++
	}
	d.stats.UpdateCounterBy("fast_forward_ticks", int64(n))
	log.Infof("fast-forward done after %d steps, displayed %s", n, d.mech.Displayed())
}

func (d *Daemon) tick(advance bool) {
	if err := d.mech.Tick(advance); err != nil {
		log.Errorf("actuator: %v", err)
	}
}
