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

package deadlinewheel

import "time"

// TimerHandler is invoked by Poll for each expired timer.
//
// It returns true to consume the expiry. Returning false declines it: the
// timer stays scheduled, Poll stops immediately and the same timer is offered
// first on the next Poll. A handler that declines must not schedule timers
// during that call.
type TimerHandler func(unit time.Duration, now int64, id TimerID) bool

// TimerConsumer receives each scheduled timer during ForEach.
type TimerConsumer func(deadline int64, id TimerID)

// Poll expires timers whose deadline is at or before now and returns the
// number of expiries the handler consumed. At most expiryLimit expiries are
// delivered per call.
//
// Poll scans the spoke of the current tick starting where the previous call
// left off. When a spoke has been fully scanned without reaching expiryLimit
// and now has passed the end of the current tick, the cursor advances and
// the next spoke is scanned, for at most one revolution per call. With no
// timers scheduled the cursor advances by at most one tick.
func (w *Wheel) Poll(now int64, handler TimerHandler, expiryLimit int) int {
	w.assert()
	if w.timerCount == 0 {
		if now >= w.currentTickTime() {
			w.currentTick++
			w.pollIndex = 0
		}
		return 0
	}

	expired := 0
	for range w.ticksPerWheel {
		spoke := int(w.currentTick & w.tickMask)

		for i := 0; i < w.tickAllocation && expired < expiryLimit; i++ {
			index := spoke<<w.allocationBitsToShift + w.pollIndex
			deadline := w.wheel[index]

			if deadline != NullDeadline && now >= deadline {
				w.wheel[index] = NullDeadline
				w.timerCount--

				if !handler(w.timeUnit, now, timerIDForSlot(spoke, w.pollIndex)) {
					// roll back; pollIndex stays on this slot
					w.wheel[spoke<<w.allocationBitsToShift+w.pollIndex] = deadline
					w.timerCount++
					return expired
				}
				expired++
			}

			if w.pollIndex++; w.pollIndex >= w.tickAllocation {
				w.pollIndex = 0
			}
		}

		if expired >= expiryLimit || now < w.currentTickTime() {
			break
		}
		w.currentTick++
		w.pollIndex = 0

		if w.timerCount == 0 {
			break
		}
	}

	return expired
}

// ForEach calls consumer for every scheduled timer in storage order, which
// is not deadline order. It does not remove timers. The consumer must not
// schedule timers.
func (w *Wheel) ForEach(consumer TimerConsumer) {
	w.assert()
	remaining := w.timerCount
	if remaining == 0 {
		return
	}

	slotMask := w.tickAllocation - 1
	for i, deadline := range w.wheel {
		if deadline == NullDeadline {
			continue
		}
		consumer(deadline, timerIDForSlot(i>>w.allocationBitsToShift, i&slotMask))
		if remaining--; remaining <= 0 {
			return
		}
	}
}
