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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/razor/parser"
	"github.com/bufbuild/razor/source"
	"github.com/bufbuild/razor/syntax"
	"github.com/bufbuild/razor/taghelper"
)

// ErrDisposed is returned by a [Parser] that has been closed.
var ErrDisposed = errors.Base("editor parser is closed")

// Options configures a [Parser].
type Options struct {
	// Passed to every full parse.
	Parse parser.Options
	// If set, every full parse is followed by tag helper resolution and
	// rewriting.
	Resolver taghelper.Resolver
	// Called on the worker goroutine after every full parse, in order.
	//
	// Close waits for the worker, so the callback must not call Close
	// directly; it may start a goroutine that does.
	OnParseComplete func(DocumentParseComplete)
}

// DocumentParseComplete describes the result of a full parse.
type DocumentParseComplete struct {
	Tree *syntax.Tree
	// The last change included in this parse.
	Change source.TextChange
	// Whether Tree differs in structure from the previous tree with every
	// change in the parse applied to it. Always set for the first parse.
	TreeStructureChanged bool
	// Incremented for every new tree, partial or full.
	Generation int
}

// Parser maintains the syntax tree of one document as it is edited.
//
// A Parser must be closed with [Parser.Close] to stop its worker.
type Parser struct {
	path   string
	opts   Options
	logger *zerolog.Logger

	mu              sync.Mutex
	tree            *syntax.Tree
	generation      int
	lastOwner       *syntax.Span
	lastProvisional bool
	closed          bool

	worker *worker
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewParser starts a parser for the document at path. The document is empty
// until the first change is checked.
//
// Logging goes to the logger in ctx; see [zerolog.Ctx].
func NewParser(ctx context.Context, path string, opts Options) (*Parser, error) {
	if path == "" {
		return nil, errors.Errorf("%w: document path must not be empty", source.ErrInvalidArgument)
	}

	p := &Parser{
		path:   path,
		opts:   opts,
		logger: zerolog.Ctx(ctx),
	}
	p.worker = newWorker(p.reparse)

	ctx, p.cancel = context.WithCancel(ctx)
	p.group, ctx = errgroup.WithContext(ctx)
	p.group.Go(func() error { return p.worker.run(ctx) })
	return p, nil
}

// CurrentTree returns the most recent tree, or nil if no full parse has
// completed yet.
func (p *Parser) CurrentTree() *syntax.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree
}

// LastResultProvisional returns whether the last change checked was
// accepted provisionally.
func (p *Parser) LastResultProvisional() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastProvisional
}

// CheckForStructureChanges applies change to the current tree if the span
// that owns it accepts it, and otherwise queues a full reparse.
//
// A rejected change always leads to a [DocumentParseComplete] notification.
func (p *Parser) CheckForStructureChanges(change source.TextChange) (PartialParseResult, error) {
	if _, err := source.NewTextChangeAt(
		change.OldPosition, change.OldLength, change.OldBuffer,
		change.NewPosition, change.NewLength, change.NewBuffer,
	); err != nil {
		return 0, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, errors.WithStack(ErrDisposed)
	}

	result := Rejected
	if p.tree != nil && p.worker.idle() {
		result = p.tryPartialParse(change)
	}
	if result.Has(Rejected) {
		p.worker.queue(change)
	}
	p.lastProvisional = result.Has(Provisional)
	generation := p.generation
	p.mu.Unlock()

	p.logger.Debug().
		Str("path", p.path).
		Stringer("change", change).
		Stringer("result", result).
		Int("generation", generation).
		Msg("checked change")
	return result, nil
}

func (p *Parser) tryPartialParse(change source.TextChange) PartialParseResult {
	if owner := p.lastOwner; owner != nil && p.tree.Contains(owner) && OwnsChange(owner, change) {
		return p.apply(owner, change)
	}

	p.lastOwner = locateOwner(p.tree, change)
	switch {
	case p.lastProvisional:
		// The provisional change is confined to the last owner.
		return Rejected
	case p.lastOwner == nil, inTagHelper(p.tree, p.lastOwner):
		return Rejected
	}
	return p.apply(p.lastOwner, change)
}

func (p *Parser) apply(owner *syntax.Span, change source.TextChange) PartialParseResult {
	result, span := ApplyChange(owner, change, false)
	if !result.Has(Rejected) {
		p.tree = p.tree.Replace(owner, span)
		p.lastOwner = span
		p.generation++
	}
	return result
}

// reparse parses the document as of the last change in batch.
func (p *Parser) reparse(_ context.Context, batch []source.TextChange) {
	last := batch[len(batch)-1]
	start := time.Now()
	p.logger.Debug().Str("path", p.path).Int("changes", len(batch)).Msg("full parse started")

	p.mu.Lock()
	base := p.tree
	p.mu.Unlock()

	tree := parser.ParseString(p.path, last.NewBuffer, p.opts.Parse)
	if p.opts.Resolver != nil {
		tree = taghelper.Apply(tree, p.opts.Resolver)
	}
	changed := base == nil || TreesAreDifferent(base, tree, batch)

	p.mu.Lock()
	p.tree = tree
	p.lastOwner = nil
	p.generation++
	generation := p.generation
	p.mu.Unlock()
	p.worker.settle()

	p.logger.Debug().
		Str("path", p.path).
		Int("generation", generation).
		Dur("duration", time.Since(start)).
		Bool("structure_changed", changed).
		Msg("full parse finished")

	p.notify(DocumentParseComplete{
		Tree:                 tree,
		Change:               last,
		TreeStructureChanged: changed,
		Generation:           generation,
	})
}

func (p *Parser) notify(event DocumentParseComplete) {
	if p.opts.OnParseComplete == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().Str("path", p.path).Interface("panic", r).Msg("parse complete handler panicked")
		}
	}()
	p.opts.OnParseComplete(event)
}

// Close stops the worker, dropping queued changes. A parse that is already
// running completes and is reported first.
//
// Every later call to [Parser.CheckForStructureChanges] fails with
// [ErrDisposed]. Close is idempotent. It must not be called from
// [Options.OnParseComplete] on the worker goroutine.
func (p *Parser) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	return p.group.Wait()
}
