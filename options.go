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

const defaultTickAllocation = 16

type options struct {
	initialTickAllocation int
	allocator             Allocator
}

// Option configures a Wheel created with New.
type Option func(*options)

// WithInitialTickAllocation sets the number of slots reserved per spoke
// before the first growth. It must be a power of two; the default is 16.
func WithInitialTickAllocation(n int) Option {
	return func(o *options) {
		o.initialTickAllocation = n
	}
}

// WithAllocator makes the wheel obtain its slot storage from alloc instead of
// the Go heap.
func WithAllocator(alloc Allocator) Option {
	return func(o *options) {
		o.allocator = alloc
	}
}
