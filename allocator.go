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

import "unsafe"

// Allocator defines the interface for a custom memory allocator.
//
// A user-provided Allocator can be installed per wheel via WithAllocator to
// keep the slot storage off the Go heap. The wheel requests one contiguous
// block at construction and a new, twice as large block on every capacity
// growth, releasing the previous block once its entries have been copied.
//
// Alloc returns a pointer to a newly allocated memory block of the given size.
// The returned pointer must be aligned for int64 and valid for use with
// unsafe.Pointer. The block does not need to be zeroed.
//
// Free releases the memory block pointed to by ptr. The pointer must have
// been previously returned by Alloc from the same Allocator implementation.
type Allocator interface {
	Alloc(size uint) unsafe.Pointer
	Free(ptr unsafe.Pointer)
}

const slotSize = uint(unsafe.Sizeof(int64(0)))

// allocSlots returns n slots, all set to NullDeadline.
func allocSlots(alloc Allocator, n int) []int64 {
	var slots []int64
	if alloc == nil {
		slots = make([]int64, n)
	} else {
		ptr := alloc.Alloc(uint(n) * slotSize)
		slots = unsafe.Slice((*int64)(ptr), n)
	}
	for i := range slots {
		slots[i] = NullDeadline
	}
	return slots
}

func freeSlots(alloc Allocator, slots []int64) {
	if alloc == nil || len(slots) == 0 {
		return
	}
	alloc.Free(unsafe.Pointer(unsafe.SliceData(slots)))
}
