// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package driver runs a deadlinewheel.Wheel against a real clock.
//
// A Driver owns a nanosecond wheel whose origin is the clock's reading at
// construction, serializes every call with a mutex and polls the wheel on a
// ticker from Run.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"sync"
	"time"

	"github.com/aristanetworks/goarista/monotime"
	"go.yuchanns.xyz/deadlinewheel"
)

// Clock returns the current time in nanoseconds.
type Clock func() int64

// MonotonicClock reads the runtime's monotonic clock.
func MonotonicClock() int64 {
	return int64(monotime.Now())
}

// Driver is a goroutine-safe wrapper around a nanosecond deadline wheel.
type Driver struct {
	mu       sync.Mutex
	wheel    *deadlinewheel.Wheel
	clock    Clock
	interval time.Duration
	limit    int
	logger   *slog.Logger
}

// New creates a Driver with a wheel of ticksPerWheel spokes.
func New(ticksPerWheel int, opts ...Option) (*Driver, error) {
	o := options{
		clock:    MonotonicClock,
		logger:   slog.Default(),
		interval: defaultPollInterval,
		limit:    defaultExpiryLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive: %s", deadlinewheel.ErrInvalidConfig, o.interval)
	}
	if o.limit <= 0 {
		return nil, fmt.Errorf("%w: expiry limit must be positive: %d", deadlinewheel.ErrInvalidConfig, o.limit)
	}

	w, err := deadlinewheel.New(time.Nanosecond, o.clock(), nextPowerOfTwo(int64(o.interval)), ticksPerWheel, o.wheelOpts...)
	if err != nil {
		return nil, err
	}

	return &Driver{
		wheel:    w,
		clock:    o.clock,
		interval: o.interval,
		limit:    o.limit,
		logger:   o.logger,
	}, nil
}

// Now returns the driver clock's current reading.
func (d *Driver) Now() int64 {
	return d.clock()
}

// Schedule schedules an absolute deadline in clock nanoseconds.
func (d *Driver) Schedule(deadline int64) (deadlinewheel.TimerID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id, err := d.wheel.ScheduleTimer(deadline)
	if err != nil {
		d.logger.Warn("schedule timer failed",
			"deadline", deadline,
			"timers", d.wheel.TimerCount(),
			"error", err)
		return id, err
	}
	return id, nil
}

// ScheduleAfter schedules a timer that expires delay from now.
func (d *Driver) ScheduleAfter(delay time.Duration) (deadlinewheel.TimerID, error) {
	return d.Schedule(d.clock() + int64(delay))
}

// Cancel cancels a timer, reporting whether it was still scheduled.
func (d *Driver) Cancel(id deadlinewheel.TimerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wheel.CancelTimer(id)
}

// Deadline returns the deadline of id or deadlinewheel.NullDeadline.
func (d *Driver) Deadline(id deadlinewheel.TimerID) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wheel.Deadline(id)
}

// Len returns the number of scheduled timers.
func (d *Driver) Len() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wheel.TimerCount()
}

// Snapshot returns the deadlines of all scheduled timers keyed by id.
func (d *Driver) Snapshot() map[deadlinewheel.TimerID]int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := make(map[deadlinewheel.TimerID]int64, d.wheel.TimerCount())
	d.wheel.ForEach(func(deadline int64, id deadlinewheel.TimerID) {
		snapshot[id] = deadline
	})
	return snapshot
}

// PollOnce polls the wheel once at the current clock reading and returns
// the number of consumed expiries.
//
// handler runs with the driver locked and must not call back into d.
func (d *Driver) PollOnce(handler deadlinewheel.TimerHandler) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock()
	n := d.wheel.Poll(now, handler, d.limit)
	if n > 0 {
		d.logger.Debug("timers expired",
			"count", n,
			"remaining", d.wheel.TimerCount(),
			"now", now)
	}
	return n
}

// Run polls every poll interval until ctx is done and returns ctx.Err().
// A poll that hits the expiry limit is repeated straight away so a burst of
// expiries drains without waiting for further ticks.
func (d *Driver) Run(ctx context.Context, handler deadlinewheel.TimerHandler) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("timer driver started", "interval", d.interval.String(), "expiry_limit", d.limit)
	defer d.logger.Info("timer driver stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for d.PollOnce(handler) >= d.limit {
				if ctx.Err() != nil {
					break
				}
			}
		}
	}
}

// Close releases the wheel. The driver must not be used afterwards.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wheel.Destroy()
}

// nextPowerOfTwo rounds n up to a power of two; n must be positive.
func nextPowerOfTwo(n int64) int64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(n-1))
}
