package simulation

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// ErrPoolClosed is returned for submissions after Close.
var ErrPoolClosed = errors.New("simulation pool closed")

// Pool bounds concurrent Monte Carlo runs so request-handling paths
// can offload the expensive draw without unbounded goroutine growth.
// Submissions optionally pass through a rate limiter to smooth bursts.
type Pool struct {
	workers chan struct{}
	limiter *rate.Limiter
	wg      sync.WaitGroup
	closed  bool
	mu      sync.Mutex
}

// NewPool creates a pool with the specified worker count. perSecond
// caps simulation starts per second; 0 disables rate limiting.
func NewPool(workers int, perSecond float64) *Pool {
	if workers <= 0 {
		workers = 4
	}
	var limiter *rate.Limiter
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), workers)
	}
	return &Pool{
		workers: make(chan struct{}, workers),
		limiter: limiter,
	}
}

// Run executes one simulation on the pool, blocking until a worker
// slot is free (or ctx is done). The computation itself holds no lock.
func (p *Pool) Run(ctx context.Context, in Input) (*Result, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	select {
	case p.workers <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.workers }()

	return Run(in)
}

// Close drains in-flight runs and rejects further submissions.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
}
