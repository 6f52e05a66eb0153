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

package deadlinewheel_test

import (
	"testing"
	"time"

	"go.yuchanns.xyz/deadlinewheel"
)

func BenchmarkWheelMassive(b *testing.B) {
	const nodeCount = 100_000

	b.ResetTimer()
	for b.Loop() {
		b.StopTimer()
		w, err := deadlinewheel.New(time.Millisecond, 0, 1, 1024)
		if err != nil {
			b.Fatal(err)
		}
		for i := range nodeCount {
			if _, err := w.ScheduleTimer(int64(i % 1024)); err != nil {
				b.Fatal(err)
			}
		}

		b.StartTimer()

		for w.TimerCount() > 0 {
			w.Poll(1024, func(time.Duration, int64, deadlinewheel.TimerID) bool { return true }, nodeCount)
		}

		b.StopTimer()

		w.Destroy()

		b.StartTimer()
	}
}

func BenchmarkWheelScheduleCancel(b *testing.B) {
	w, err := deadlinewheel.New(time.Millisecond, 0, 1, 1024)
	if err != nil {
		b.Fatal(err)
	}
	defer w.Destroy()

	var i int64
	for b.Loop() {
		id, err := w.ScheduleTimer(i)
		if err != nil {
			b.Fatal(err)
		}
		w.CancelTimer(id)
		i++
	}
}

func BenchmarkStdTimerMassive(b *testing.B) {
	const precision = 10 * time.Millisecond
	const nodeCount = 100_000

	b.ResetTimer()
	for b.Loop() {
		b.StopTimer()
		timers := make([]*time.Timer, nodeCount)
		for i := range nodeCount {
			timers[i] = time.NewTimer(precision)
		}
		time.Sleep(precision)

		b.StartTimer()
		for _, t := range timers {
			<-t.C
		}
		b.StopTimer()

		for _, t := range timers {
			t.Stop()
		}
		b.StartTimer()
	}
}
