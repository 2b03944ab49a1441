package history

import "sync"

// Container is the target element the history is rendered into.
type Container interface {
	// SetInnerHTML replaces the content of the container.
	SetInnerHTML(markup string)
}

// Buffer is a Container that keeps the last rendered markup.
type Buffer struct {
	mu     sync.RWMutex
	markup string
	writes int
}

// SetInnerHTML replaces the buffered markup.
func (b *Buffer) SetInnerHTML(markup string) {
	b.mu.Lock()
	b.markup = markup
	b.writes++
	b.mu.Unlock()
}

// InnerHTML returns the last rendered markup.
func (b *Buffer) InnerHTML() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.markup
}

// Writes returns how many times the container was rendered into.
func (b *Buffer) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}
