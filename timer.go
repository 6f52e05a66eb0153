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

// Package deadlinewheel provides a hashed deadline timer wheel that tracks a
// large, changing set of absolute deadlines and reports which ones have
// elapsed as time advances.
//
// It is designed for scenarios that require:
//   - No per-timer heap allocation: deadlines live in one flat int64 arena.
//   - Bounded work per poll, so it can be driven from an event loop.
//   - Deterministic behaviour: the wheel never reads a clock, every time
//     value is supplied by the caller.
//
// # Layout
//
// The arena is split into TicksPerWheel spokes of TickAllocation slots each.
// A deadline is hashed to the spoke of its tick,
// ((deadline - start) >> log2(resolution)) & (ticksPerWheel - 1), and stored
// in the first free slot of that spoke. When a spoke is full the allocation
// of every spoke is doubled; existing entries keep their slot numbers so
// previously issued TimerIDs stay valid.
//
// # Polling
//
// Poll scans the spoke of the current tick, resuming where the previous call
// stopped, and hands each expired deadline to a TimerHandler. The handler may
// decline an expiry by returning false, in which case the entry is put back
// and offered again on the next Poll. Once the current tick's time window has
// passed, the cursor moves to the next tick.
//
// # Concurrency
//
// A Wheel is not safe for concurrent use. All calls, including read-only
// ones, must come from one goroutine at a time. See package driver for a
// locked wrapper that polls on a ticker.
//
// # Example
//
//	w, _ := deadlinewheel.New(time.Millisecond, 0, 1, 512)
//	id, _ := w.ScheduleTimer(250)
//
//	// In a loop:
//	w.Poll(now, func(unit time.Duration, now int64, id deadlinewheel.TimerID) bool {
//	    fmt.Println("expired:", id)
//	    return true
//	}, 100)
package deadlinewheel

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// NullDeadline marks an empty slot and is returned by Deadline for ids that
// do not resolve to a scheduled timer.
const NullDeadline int64 = math.MaxInt64

// maxWheelCapacity is the largest number of slots a wheel may hold.
const maxWheelCapacity = 1 << 30

// Wheel is a hashed timer wheel of absolute deadlines.
type Wheel struct {
	timeUnit              time.Duration
	tickResolution        int64
	ticksPerWheel         int
	tickMask              int64
	resolutionBitsToShift uint

	startTime             int64
	currentTick           int64
	timerCount            int64
	tickAllocation        int
	allocationBitsToShift uint
	pollIndex             int

	maxCapacity int
	wheel       []int64
	alloc       Allocator
}

// New creates a wheel whose ticks are tickResolution units long, starting at
// startTime. The unit is only a label handed back to TimerHandler.
//
// tickResolution, ticksPerWheel and the initial tick allocation (see
// WithInitialTickAllocation) must be powers of two; otherwise New returns an
// error wrapping ErrInvalidConfig.
func New(timeUnit time.Duration, startTime, tickResolution int64, ticksPerWheel int, opts ...Option) (*Wheel, error) {
	o := options{initialTickAllocation: defaultTickAllocation}
	for _, opt := range opts {
		opt(&o)
	}

	if !isPowerOfTwo(tickResolution) {
		return nil, fmt.Errorf("%w: tick resolution must be a power of 2: %d", ErrInvalidConfig, tickResolution)
	}
	if !isPowerOfTwo(int64(ticksPerWheel)) {
		return nil, fmt.Errorf("%w: ticks per wheel must be a power of 2: %d", ErrInvalidConfig, ticksPerWheel)
	}
	if !isPowerOfTwo(int64(o.initialTickAllocation)) {
		return nil, fmt.Errorf("%w: tick allocation must be a power of 2: %d", ErrInvalidConfig, o.initialTickAllocation)
	}
	if ticksPerWheel > maxWheelCapacity/o.initialTickAllocation {
		return nil, fmt.Errorf("%w: %d ticks of %d slots exceeds %d slots",
			ErrInvalidConfig, ticksPerWheel, o.initialTickAllocation, maxWheelCapacity)
	}

	w := &Wheel{
		timeUnit:              timeUnit,
		tickResolution:        tickResolution,
		ticksPerWheel:         ticksPerWheel,
		tickMask:              int64(ticksPerWheel - 1),
		resolutionBitsToShift: uint(bits.TrailingZeros64(uint64(tickResolution))),
		startTime:             startTime,
		tickAllocation:        o.initialTickAllocation,
		allocationBitsToShift: uint(bits.TrailingZeros(uint(o.initialTickAllocation))),
		maxCapacity:           maxWheelCapacity,
		alloc:                 o.allocator,
	}
	w.wheel = allocSlots(w.alloc, ticksPerWheel*o.initialTickAllocation)

	return w, nil
}

// Destroy releases the slot storage, returning it to the allocator if one
// was configured. The wheel must not be used afterwards.
//
// It is safe to call Destroy multiple times or on a nil wheel.
func (w *Wheel) Destroy() {
	if w == nil || w.wheel == nil {
		return
	}
	freeSlots(w.alloc, w.wheel)
	w.wheel = nil
	w.timerCount = 0
}

// TimeUnit returns the unit label the wheel was created with.
func (w *Wheel) TimeUnit() time.Duration {
	w.assert()
	return w.timeUnit
}

// TickResolution returns the length of one tick in TimeUnit.
func (w *Wheel) TickResolution() int64 {
	w.assert()
	return w.tickResolution
}

// TicksPerWheel returns the number of spokes.
func (w *Wheel) TicksPerWheel() int {
	w.assert()
	return w.ticksPerWheel
}

// TickAllocation returns the current number of slots per spoke.
func (w *Wheel) TickAllocation() int {
	w.assert()
	return w.tickAllocation
}

// StartTime returns the time origin of the wheel.
func (w *Wheel) StartTime() int64 {
	w.assert()
	return w.startTime
}

// TimerCount returns the number of scheduled timers.
func (w *Wheel) TimerCount() int64 {
	w.assert()
	return w.timerCount
}

// ResetStartTime moves the time origin to startTime and rewinds the cursor.
// It fails with ErrInvalidState while any timer is scheduled.
func (w *Wheel) ResetStartTime(startTime int64) error {
	w.assert()
	if w.timerCount > 0 {
		return fmt.Errorf("%w: can not reset start time with %d active timers", ErrInvalidState, w.timerCount)
	}
	w.startTime = startTime
	w.currentTick = 0
	w.pollIndex = 0
	return nil
}

// CurrentTickTime returns the time at which the current tick ends.
func (w *Wheel) CurrentTickTime() int64 {
	w.assert()
	return w.currentTickTime()
}

// SetCurrentTickTime winds the cursor forward to the tick containing now.
// Earlier times leave the cursor where it is. Timers passed over are not
// expired; Poll finds them when their spoke is visited again.
func (w *Wheel) SetCurrentTickTime(now int64) {
	w.assert()
	tick := (now - w.startTime) >> w.resolutionBitsToShift
	if tick > w.currentTick {
		w.currentTick = tick
		w.pollIndex = 0
	}
}

// Clear removes every scheduled timer.
func (w *Wheel) Clear() {
	w.assert()
	remaining := w.timerCount
	if remaining == 0 {
		return
	}
	for i, deadline := range w.wheel {
		if deadline == NullDeadline {
			continue
		}
		w.wheel[i] = NullDeadline
		if remaining--; remaining <= 0 {
			break
		}
	}
	w.timerCount = 0
}

func (w *Wheel) currentTickTime() int64 {
	return ((w.currentTick + 1) << w.resolutionBitsToShift) + w.startTime
}

func (w *Wheel) assert() {
	if w == nil {
		panic("wheel is nil")
	}
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}
