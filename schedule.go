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

import (
	"fmt"
	"math/bits"
)

// ScheduleTimer schedules deadline, an absolute time in TimeUnit, and returns
// the id assigned to it.
//
// Deadlines earlier than the current tick are placed on the current tick so
// they expire on the next Poll. When the target spoke is full the wheel
// doubles its tick allocation; if that would exceed the capacity ceiling the
// call fails with ErrCapacityExceeded and the wheel is unchanged.
func (w *Wheel) ScheduleTimer(deadline int64) (TimerID, error) {
	w.assert()
	if deadline == NullDeadline {
		return TimerID{}, fmt.Errorf("%w: %d is reserved", ErrInvalidDeadline, deadline)
	}

	deadlineTick := max((deadline-w.startTime)>>w.resolutionBitsToShift, w.currentTick)
	spoke := int(deadlineTick & w.tickMask)
	tickStart := spoke << w.allocationBitsToShift

	for i := range w.tickAllocation {
		if w.wheel[tickStart+i] == NullDeadline {
			w.wheel[tickStart+i] = deadline
			w.timerCount++
			return timerIDForSlot(spoke, i), nil
		}
	}

	return w.increaseCapacity(deadline, spoke)
}

// CancelTimer removes the timer referenced by id. It reports false if id
// does not resolve to a scheduled timer, which covers expired, cancelled and
// foreign ids alike.
func (w *Wheel) CancelTimer(id TimerID) bool {
	w.assert()
	index, ok := w.wheelIndex(id)
	if !ok || w.wheel[index] == NullDeadline {
		return false
	}
	w.wheel[index] = NullDeadline
	w.timerCount--
	return true
}

// Deadline returns the deadline scheduled under id, or NullDeadline.
func (w *Wheel) Deadline(id TimerID) int64 {
	w.assert()
	index, ok := w.wheelIndex(id)
	if !ok {
		return NullDeadline
	}
	return w.wheel[index]
}

func (w *Wheel) wheelIndex(id TimerID) (int, bool) {
	spoke, slot := int(id.spoke), int(id.slot)
	if spoke >= w.ticksPerWheel || slot >= w.tickAllocation {
		return 0, false
	}
	return spoke<<w.allocationBitsToShift + slot, true
}

// increaseCapacity doubles the allocation of every spoke and stores deadline
// in the first new slot of spoke. Each spoke's entries are copied to the same
// offset in its enlarged region.
func (w *Wheel) increaseCapacity(deadline int64, spoke int) (TimerID, error) {
	newTickAllocation := w.tickAllocation << 1
	newAllocationBitsToShift := uint(bits.TrailingZeros(uint(newTickAllocation)))

	newCapacity := int64(w.ticksPerWheel) * int64(newTickAllocation)
	if newCapacity > int64(w.maxCapacity) {
		return TimerID{}, fmt.Errorf("%w: max capacity reached at tick allocation %d",
			ErrCapacityExceeded, w.tickAllocation)
	}

	newWheel := allocSlots(w.alloc, int(newCapacity))
	for j := range w.ticksPerWheel {
		oldTickStart := j << w.allocationBitsToShift
		newTickStart := j << newAllocationBitsToShift
		copy(newWheel[newTickStart:], w.wheel[oldTickStart:oldTickStart+w.tickAllocation])
	}

	newWheel[spoke<<newAllocationBitsToShift+w.tickAllocation] = deadline
	id := timerIDForSlot(spoke, w.tickAllocation)
	w.timerCount++

	freeSlots(w.alloc, w.wheel)
	w.tickAllocation = newTickAllocation
	w.allocationBitsToShift = newAllocationBitsToShift
	w.wheel = newWheel

	return id, nil
}
