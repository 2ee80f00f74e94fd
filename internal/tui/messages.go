// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package tui

import (
	"github.com/confighub/flowdesk/internal/formsvc"
	"github.com/confighub/flowdesk/internal/selectsvc"
)

// Results of background work carry the navigator epoch they were started
// under; the console drops any whose epoch has moved on.

type listLoadedMsg struct {
	epoch  uint64
	entity string
	rows   []selectsvc.Row
	err    error
}

type optionsLoadedMsg struct {
	epoch uint64
	opts  formsvc.Options
}

type savedMsg struct {
	epoch uint64
	mode  formsvc.Mode
	row   selectsvc.Row
	err   error
}

type deletedMsg struct {
	epoch uint64
	label string
	id    string
	err   error
}

type toastExpiredMsg struct {
	seq int
}
