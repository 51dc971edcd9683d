// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package editor

import (
	"context"
	"sync"

	"github.com/bufbuild/razor/source"
)

// worker runs full reparses one at a time, in the order changes were
// queued. Changes that arrive while a parse is running are batched into the
// next one.
type worker struct {
	process func(context.Context, []source.TextChange)

	mu      sync.Mutex
	pending []source.TextChange
	busy    bool
	wake    chan struct{}
}

func newWorker(process func(context.Context, []source.TextChange)) *worker {
	return &worker{
		process: process,
		wake:    make(chan struct{}, 1),
	}
}

// idle returns whether no parse is running or queued.
func (w *worker) idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.busy && len(w.pending) == 0
}

// queue adds change to the next batch.
func (w *worker) queue(change source.TextChange) {
	w.mu.Lock()
	w.pending = append(w.pending, change)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// take removes and returns the next batch, marking the worker busy. Returns
// nil and marks the worker idle if nothing is queued.
func (w *worker) take() []source.TextChange {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := w.pending
	w.pending = nil
	w.busy = len(batch) > 0
	return batch
}

// settle marks the worker idle if nothing was queued while it was busy.
func (w *worker) settle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		w.busy = false
	}
}

// run processes batches until ctx is done. A batch that has started always
// runs to completion.
func (w *worker) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.wake:
		}
		for ctx.Err() == nil {
			batch := w.take()
			if batch == nil {
				break
			}
			w.process(ctx, batch)
		}
	}
}
