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

package driver

import (
	"log/slog"
	"time"

	"go.yuchanns.xyz/deadlinewheel"
)

const (
	defaultPollInterval = time.Millisecond
	defaultExpiryLimit  = 1024
)

type options struct {
	clock     Clock
	logger    *slog.Logger
	interval  time.Duration
	limit     int
	wheelOpts []deadlinewheel.Option
}

// Option configures a Driver created with New.
type Option func(*options)

// WithClock sets the nanosecond time source. The default is MonotonicClock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPollInterval sets how often Run polls. The wheel's tick resolution is
// the interval rounded up to a power of two nanoseconds.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// WithExpiryLimit caps the number of expiries delivered by a single poll.
func WithExpiryLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithWheelOptions passes opts through to deadlinewheel.New.
func WithWheelOptions(opts ...deadlinewheel.Option) Option {
	return func(o *options) {
		o.wheelOpts = append(o.wheelOpts, opts...)
	}
}
