package panel

import "sync/atomic"

// Handle is an opaque reference to fetched document bytes. The panel that
// created it owns it until the next transition out of the document view,
// at which point the state machine releases it. Release is safe to call
// more than once but takes effect exactly once.
type Handle struct {
	blob      atomic.Pointer[Blob]
	released  atomic.Bool
	onRelease func(*Handle)
}

func (p *Panel) newHandleLocked(blob *Blob) *Handle {
	h := &Handle{onRelease: p.onRelease}
	h.blob.Store(blob)
	return h
}

// Release drops the held bytes. Subsequent Bytes calls return nil.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.onRelease != nil {
		h.onRelease(h)
	}
	h.blob.Store(nil)
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Snapshot returns the held blob in one atomic read, or nil after
// release. Callers that serve the bytes must work from the snapshot; the
// handle may be released concurrently between reads.
func (h *Handle) Snapshot() *Blob {
	return h.blob.Load()
}

// Bytes returns the held document bytes, or nil after release.
func (h *Handle) Bytes() []byte {
	if b := h.blob.Load(); b != nil {
		return b.Data
	}
	return nil
}

// ContentType returns the document's content type, or "" after release.
func (h *Handle) ContentType() string {
	if b := h.blob.Load(); b != nil {
		return b.ContentType
	}
	return ""
}

// Name returns the fetched blob name, or "" after release.
func (h *Handle) Name() string {
	if b := h.blob.Load(); b != nil {
		return b.Name
	}
	return ""
}
