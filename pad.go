// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringqueue

// pad is cache-line padding to prevent false sharing between head and tail.
type pad [64]byte

// padShort follows a slot's 8-byte sequence field and its value, so each
// slot spans at least one cache line (64 bytes plus the size of the value).
// An optimization, not required for correctness: it keeps two neighboring
// ring slots from bouncing between cores on every push/pop.
type padShort [64 - 8]byte
