// Package clipboard abstracts the system clipboard behind an interface so
// UI code can be tested without touching the real clipboard.
package clipboard

import "github.com/atotto/clipboard"

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard implements Clipboard using the system clipboard.
type SystemClipboard struct{}

// Copy copies text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// MockClipboard records the last copied text. Used in tests.
type MockClipboard struct {
	Copied []string
}

// Copy appends text to Copied and always succeeds.
func (m *MockClipboard) Copy(text string) error {
	m.Copied = append(m.Copied, text)
	return nil
}
