package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/shopcart/core"
)

// RecordingNotifier keeps every result it receives.
type RecordingNotifier struct {
	mu      sync.Mutex
	results []core.Result
}

// Notify records res.
func (r *RecordingNotifier) Notify(_ context.Context, res core.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

// Results returns a copy of the recorded results.
func (r *RecordingNotifier) Results() []core.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Result(nil), r.results...)
}

// Last returns the most recent result and whether there was one.
func (r *RecordingNotifier) Last() (core.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) == 0 {
		return core.Result{}, false
	}
	return r.results[len(r.results)-1], true
}

// FlakySlot wraps a slot and can be told to fail loads or saves.
type FlakySlot struct {
	core.Slot

	mu      sync.Mutex
	loadErr error
	saveErr error
}

// NewFlakySlot wraps inner.
func NewFlakySlot(inner core.Slot) *FlakySlot { return &FlakySlot{Slot: inner} }

// FailLoad makes Load return err (nil restores normal behaviour).
func (f *FlakySlot) FailLoad(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

// FailSave makes Save return err (nil restores normal behaviour).
func (f *FlakySlot) FailSave(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

// Load delegates unless a load failure is armed.
func (f *FlakySlot) Load(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Slot.Load(ctx)
}

// Save delegates unless a save failure is armed.
func (f *FlakySlot) Save(ctx context.Context, data []byte) error {
	f.mu.Lock()
	err := f.saveErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Slot.Save(ctx, data)
}
