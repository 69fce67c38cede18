package chat

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/diogo/wedeliver/internal/models"
)

// Call is the handle of one in-flight completion started by SubmitUserMessage.
// A call always resolves, even when cancelled; a cancelled or superseded call
// resolves with Discarded set and its result is not appended.
type Call struct {
	ID         string
	generation uint64

	cancel  context.CancelFunc
	abandon func(*Call)

	done      chan struct{}
	once      sync.Once
	result    models.CompletionResult
	discarded atomic.Bool
}

func newCall(generation uint64, cancel context.CancelFunc, abandon func(*Call)) *Call {
	return &Call{
		ID:         uuid.NewString(),
		generation: generation,
		cancel:     cancel,
		abandon:    abandon,
		done:       make(chan struct{}),
	}
}

// Done is closed once the call has resolved and the session state reflects it
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call resolves and returns the completion result
func (c *Call) Wait() models.CompletionResult {
	<-c.done
	return c.result
}

// Cancel abandons the call. The session stops loading immediately and the
// eventual result is discarded.
func (c *Call) Cancel() {
	if c.abandon != nil {
		c.abandon(c)
	}
	c.cancel()
}

// Discarded reports whether the result was dropped instead of appended
func (c *Call) Discarded() bool {
	return c.discarded.Load()
}

func (c *Call) resolve(result models.CompletionResult, discarded bool) {
	c.once.Do(func() {
		c.result = result
		if discarded {
			c.discarded.Store(true)
		}
		c.cancel()
		close(c.done)
	})
}
