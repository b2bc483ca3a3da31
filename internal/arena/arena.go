// Package arena pins result buffers between the moment the boundary
// allocates them and the moment the caller releases them. Opaque handles
// stand in for the raw pointers a native surface would hand out; keeping a
// reference to each slice pins it until the matching Release.
package arena

import "sync"

// DefaultLimit is the maximum total bytes an arena will keep pinned at once.
// It bounds memory growth when a caller leaks buffers it never releases.
const DefaultLimit = 100 * 1024 * 1024

// Handle identifies one allocation. The zero handle is the null buffer.
type Handle uint64

// Arena is a mutex-guarded allocation table.
type Arena struct {
	mu    sync.Mutex
	next  Handle
	bufs  map[Handle][]byte
	total int
	limit int
}

// New returns an arena that refuses allocations once limit total bytes are
// pinned. A non-positive limit falls back to DefaultLimit.
func New(limit int) *Arena {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Arena{bufs: make(map[Handle][]byte), limit: limit}
}

// Allocate copies data into a fresh buffer and returns its handle. The
// second return is false when the allocation would push the arena past its
// limit.
func (a *Arena) Allocate(data []byte) (Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.total+len(data) > a.limit {
		return 0, false
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	a.next++
	a.bufs[a.next] = buf
	a.total += len(buf)
	return a.next, true
}

// Bytes returns the buffer behind h, or false for the null handle and for
// handles already released.
func (a *Arena) Bytes(h Handle) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.bufs[h]
	return buf, ok
}

// Release unpins the buffer behind h. Untracked handles are ignored, so a
// second Release of the same handle is a no-op rather than corruption.
func (a *Arena) Release(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf, ok := a.bufs[h]
	if !ok {
		return
	}
	delete(a.bufs, h)
	a.total -= len(buf)
}

// ReleaseAll unpins every buffer. Used on shutdown paths.
func (a *Arena) ReleaseAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.bufs)
	a.total = 0
}

// Count returns the number of live allocations.
func (a *Arena) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.bufs)
}

// Total returns the total bytes currently pinned.
func (a *Arena) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}
