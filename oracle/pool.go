package oracle

import (
	"context"
	"sync"
)

// DefaultPoolSize caps how many idle connections the pool retains.
const DefaultPoolSize = 8

// Pool keeps a bounded free list of idle connections plus the parameters to
// open fresh ones. Acquire hands out an idle connection or opens a new one;
// only retained idle connections are bounded, concurrent opens are not. A
// connection is owned either by the pool (idle) or by exactly one borrower.
type Pool struct {
	mu       sync.Mutex
	idle     []*Connection
	params   Parameters
	maxIdle  int
	openFunc func(ctx context.Context, params Parameters) (*Connection, error)
}

func NewPool(params Parameters, maxIdle int) *Pool {
	if maxIdle <= 0 {
		maxIdle = DefaultPoolSize
	}
	return &Pool{
		params:   params,
		maxIdle:  maxIdle,
		openFunc: Open,
	}
}

func (p *Pool) Params() Parameters {
	return p.params
}

// Acquire returns an idle connection if one is available, opening a fresh
// session otherwise. The open happens outside the pool lock.
func (p *Pool) Acquire(ctx context.Context) (*Connection, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		conn := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	return p.openFunc(ctx, p.params)
}

// Release returns a connection to the free list, or closes it when the list
// is at capacity.
func (p *Pool) Release(conn *Connection) {
	if conn == nil {
		return
	}
	p.mu.Lock()
	if len(p.idle) < p.maxIdle {
		p.idle = append(p.idle, conn)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	conn.Close()
}

// Clear closes and drops every idle connection. Borrowed connections are
// unaffected.
func (p *Pool) Clear() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, conn := range idle {
		conn.Close()
	}
}

// IdleCount reports the current free-list size.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
