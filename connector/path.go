package connector

import (
	"context"
	"sync"
)

// path is the execution path selected by the declared driver.
//
// The synchronous path runs work on the caller's goroutine. The
// asynchronous path hands work to a dispatch loop owned by the connector;
// the caller waits on a reply channel and may abandon the wait on context
// cancellation even when the underlying driver ignores the context.
type path interface {
	run(ctx context.Context, fn func() error) error
	close()
}

// syncPath executes work inline.
type syncPath struct{}

func (syncPath) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func (syncPath) close() {}

type submission struct {
	ctx   context.Context
	fn    func() error
	reply chan error // buffered, size 1: the loop never blocks replying
}

// asyncPath serializes work through a single dispatch loop goroutine.
type asyncPath struct {
	submit    chan submission
	done      chan struct{}
	closeOnce sync.Once
}

func newAsyncPath() *asyncPath {
	p := &asyncPath{
		submit: make(chan submission),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *asyncPath) loop() {
	for {
		select {
		case sub := <-p.submit:
			// The submitter may have given up between handoff and here.
			if err := sub.ctx.Err(); err != nil {
				sub.reply <- err
				continue
			}
			sub.reply <- sub.fn()
		case <-p.done:
			// Reject anything that raced the shutdown.
			for {
				select {
				case sub := <-p.submit:
					sub.reply <- ErrClosed
				default:
					return
				}
			}
		}
	}
}

func (p *asyncPath) run(ctx context.Context, fn func() error) error {
	sub := submission{ctx: ctx, fn: fn, reply: make(chan error, 1)}

	select {
	case p.submit <- sub:
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Accepted: the loop always replies. A cancelled caller stops waiting;
	// the in-flight work finishes and its result is discarded into the
	// buffered reply channel.
	select {
	case err := <-sub.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *asyncPath) close() {
	p.closeOnce.Do(func() { close(p.done) })
}
