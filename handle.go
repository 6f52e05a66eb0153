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

import "fmt"

// TimerID is an opaque reference to a scheduled deadline, returned by
// ScheduleTimer and passed back to CancelTimer, Deadline and the poll
// handler.
//
// A TimerID stays valid across capacity growth: existing entries keep their
// slot number inside the enlarged spoke. It stops resolving once the timer
// expires or is cancelled, and the slot may then be reused by a later
// ScheduleTimer call.
//
// TimerID values are comparable and may be used as map keys.
type TimerID struct {
	spoke uint32
	slot  uint32
}

func timerIDForSlot(spoke, slot int) TimerID {
	return TimerID{spoke: uint32(spoke), slot: uint32(slot)}
}

// Uint64 returns the packed form of the id, spoke in the high 32 bits and
// slot in the low 32 bits.
func (id TimerID) Uint64() uint64 {
	return uint64(id.spoke)<<32 | uint64(id.slot)
}

func (id TimerID) String() string {
	return fmt.Sprintf("timer(%d/%d)", id.spoke, id.slot)
}
