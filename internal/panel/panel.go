// Package panel drives the citation sidebar: open/closed, list versus
// document view, the selected citation's loading state, and the lifetime
// of fetched document bytes.
package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/amital-ui/aichat/internal/citation"
	"github.com/amital-ui/aichat/internal/model"
)

// Blob is a fetched document: raw bytes plus enough metadata to serve
// them back to a viewer.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// BlobFetcher downloads a cited document by name.
type BlobFetcher interface {
	DownloadBlob(ctx context.Context, name string) (*Blob, error)
}

// View is the sidebar state.
type View int

const (
	ViewClosed View = iota
	ViewList
	ViewDocument
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDocument:
		return "document"
	default:
		return "closed"
	}
}

// Selection is the citation currently shown in the document view.
type Selection struct {
	Citation  model.Citation
	Handle    *Handle
	IsLoading bool
	Err       string
}

// Panel owns the single live selection. Every transition out of the
// document view releases the held byte resource; release is guaranteed by
// the state machine itself, not by individual call sites.
type Panel struct {
	mu        sync.Mutex
	fetcher   BlobFetcher
	indexFn   func() *citation.Index
	view      View
	citations []citation.Entry
	sel       *Selection

	// gen guards against a stale fetch resolving after the selection it
	// belongs to was replaced or cleared.
	gen uint64

	onRelease func(*Handle)
}

// New builds a closed panel. indexFn supplies the conversation's current
// citation index; it is consulted when the panel opens, not continuously.
func New(fetcher BlobFetcher, indexFn func() *citation.Index) *Panel {
	return &Panel{fetcher: fetcher, indexFn: indexFn}
}

// SetReleaseHook registers a hook invoked once per released handle.
func (p *Panel) SetReleaseHook(fn func(*Handle)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRelease = fn
}

// Toggle flips the sidebar. Opening lands on the list view with the
// citation list captured from the index at this moment; closing releases
// any held document.
func (p *Panel) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == ViewClosed {
		p.view = ViewList
		p.citations = p.indexFn().Entries()
		return
	}
	p.closeLocked()
}

// Select transitions to the document view for the given citation and
// fetches its bytes. A selection made while another document is open
// behaves like Back followed by the new selection: the old resource is
// released before the new fetch starts. If the fetch fails the citation
// stays selected with an error recorded, so the caller can retry.
func (p *Panel) Select(ctx context.Context, c model.Citation) {
	p.mu.Lock()
	p.releaseLocked()
	if p.view == ViewClosed {
		p.citations = p.indexFn().Entries()
	}
	p.view = ViewDocument
	p.sel = &Selection{Citation: c, IsLoading: true}
	p.gen++
	gen := p.gen
	fetcher := p.fetcher
	p.mu.Unlock()

	blob, err := fetcher.DownloadBlob(ctx, c.FilenameForDownload())

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.sel == nil {
		// A newer selection superseded this fetch; its result must not
		// overwrite the now-current one. The stale bytes still go through
		// a handle so the release hook sees them.
		if err == nil {
			p.newHandleLocked(blob).Release()
		}
		return
	}
	p.sel.IsLoading = false
	if err != nil {
		p.sel.Err = fmt.Sprintf("Failed to load document: %v", err)
		return
	}
	p.sel.Handle = p.newHandleLocked(blob)
}

// Back returns from the document view to the list, releasing the held
// document. Outside the document view it does nothing.
func (p *Panel) Back() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view != ViewDocument {
		return
	}
	p.releaseLocked()
	p.view = ViewList
}

// Close shuts the sidebar from any state, releasing the held document.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

// Teardown releases all panel resources on widget destruction.
func (p *Panel) Teardown() {
	p.Close()
}

// ViewState reports the current sidebar state.
func (p *Panel) ViewState() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Current returns the live selection, if any.
func (p *Panel) Current() (Selection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sel == nil {
		return Selection{}, false
	}
	return *p.sel, true
}

// Citations returns the list captured when the sidebar was last opened.
func (p *Panel) Citations() []citation.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]citation.Entry, len(p.citations))
	copy(out, p.citations)
	return out
}

func (p *Panel) closeLocked() {
	p.releaseLocked()
	// Invalidate any in-flight fetch for the cleared selection.
	p.gen++
	p.view = ViewClosed
}

func (p *Panel) releaseLocked() {
	if p.sel != nil {
		if p.sel.Handle != nil {
			p.sel.Handle.Release()
		}
		p.sel = nil
		p.gen++
	}
}
