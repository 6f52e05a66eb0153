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

import "errors"

var (
	// ErrInvalidConfig is returned by New when a power-of-two constraint is
	// violated or the initial storage would not fit under the capacity ceiling.
	ErrInvalidConfig = errors.New("deadlinewheel: invalid configuration")

	// ErrInvalidState is returned by ResetStartTime while timers are active.
	ErrInvalidState = errors.New("deadlinewheel: invalid state")

	// ErrCapacityExceeded is returned by ScheduleTimer when growing the wheel
	// would exceed the maximum number of slots. The wheel is left untouched.
	ErrCapacityExceeded = errors.New("deadlinewheel: capacity exceeded")

	// ErrInvalidDeadline is returned by ScheduleTimer for NullDeadline, which
	// is reserved to mark empty slots.
	ErrInvalidDeadline = errors.New("deadlinewheel: invalid deadline")
)
