// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows progress of a long-running solve. In plain mode it prints
// a single PROGRESS line instead of animating.
//
// Thread Safety: Update may be called from any goroutine.
type Spinner struct {
	console  *Console
	interval time.Duration

	mu      sync.Mutex
	message string
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// Spinner creates a stopped spinner.
func (c *Console) Spinner(message string) *Spinner {
	return &Spinner{
		console:  c,
		interval: 80 * time.Millisecond,
		message:  message,
	}
}

// Start begins animating. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	msg := s.message
	s.mu.Unlock()

	if !s.console.styled {
		fmt.Fprintf(s.console.out, "PROGRESS: %s\n", msg)
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
			select {
			case <-s.stop:
				fmt.Fprint(s.console.out, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()
				fmt.Fprintf(s.console.out, "\r%s %s", s.console.st.title.Render(spinnerFrames[frame]), msg)
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears its line. Stopping a stopped
// spinner does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

// While runs fn with the spinner shown and reports the result through the
// console.
func (s *Spinner) While(fn func() error) error {
	s.Start()
	err := fn()
	s.Stop()

	s.mu.Lock()
	msg := s.message
	s.mu.Unlock()
	if err != nil {
		s.console.Error(fmt.Sprintf("%s: %v", msg, err))
		return err
	}
	s.console.Success(msg)
	return nil
}
