// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package selectsvc

// Modal tracks whether an overlay is showing. Closing always runs every
// registered reset hook, then the close callback, so hosted content
// never carries state from one opening into the next.
type Modal struct {
	Title string

	open    bool
	resets  []func()
	onClose func()
}

// NewModal returns a closed modal.
func NewModal(title string) *Modal {
	return &Modal{Title: title}
}

// IsOpen reports visibility.
func (m *Modal) IsOpen() bool { return m != nil && m.open }

// Open shows the modal.
func (m *Modal) Open() { m.open = true }

// Close hides the modal and resets its content. Closing a closed modal
// still resets.
func (m *Modal) Close() {
	m.open = false
	for _, reset := range m.resets {
		reset()
	}
	if m.onClose != nil {
		m.onClose()
	}
}

// OnReset registers a hook run on every Close.
func (m *Modal) OnReset(fn func()) {
	m.resets = append(m.resets, fn)
}

// SetOnClose installs the callback run after the reset hooks.
func (m *Modal) SetOnClose(fn func()) { m.onClose = fn }
