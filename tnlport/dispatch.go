package tnlport

import (
	"hash/maphash"

	"k8s.io/klog/v2"
)

// dispatchRequest is one resolve job handed to a Dispatcher worker.
type dispatchRequest struct {
	odpPort uint32
	flow    *Flow
	result  chan<- dispatchResult
}

type dispatchResult struct {
	port OFPort
	ok   bool
}

// Dispatcher fans concurrent Receive calls out across a fixed pool of
// worker goroutines, each ultimately serving whichever tunnel ids hash
// to it, so a high packet rate doesn't serialize every lookup through
// one caller goroutine holding the registry's read lock. Workers are
// plain klog-logged consumers of a buffered channel, the same shape as
// the teacher's OpenFlow message-stream workers - those dispatched
// inbound protocol messages to a worker pool keyed by Xid; this
// dispatches inbound tunnel flows keyed by tunnel id instead.
type Dispatcher struct {
	registry *Registry
	workers  []chan dispatchRequest
	seed     maphash.Seed
}

// NewDispatcher starts n worker goroutines resolving against registry.
// n below 1 is treated as 1.
func NewDispatcher(registry *Registry, n int) *Dispatcher {
	if n < 1 {
		n = 1
	}
	d := &Dispatcher{
		registry: registry,
		workers:  make([]chan dispatchRequest, n),
		seed:     maphash.MakeSeed(),
	}
	for i := range d.workers {
		ch := make(chan dispatchRequest, 64)
		d.workers[i] = ch
		go d.run(ch)
	}
	return d
}

func (d *Dispatcher) run(ch <-chan dispatchRequest) {
	for req := range ch {
		port, ok := d.registry.Receive(req.odpPort, req.flow)
		if !ok {
			klog.V(4).InfoS("tunnel receive: no match", "odpPort", req.odpPort, "tunID", req.flow.Tunnel.TunID)
		}
		req.result <- dispatchResult{port: port, ok: ok}
	}
}

func (d *Dispatcher) workerFor(tunID uint64) int {
	var h maphash.Hash
	h.SetSeed(d.seed)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(tunID >> (8 * uint(i)))
	}
	h.Write(buf[:])
	return int(h.Sum64() % uint64(len(d.workers)))
}

// Resolve submits flow for resolution on the worker its tunnel id
// hashes to, and blocks for the result.
func (d *Dispatcher) Resolve(odpPort uint32, flow *Flow) (OFPort, bool) {
	result := make(chan dispatchResult, 1)
	d.workers[d.workerFor(flow.Tunnel.TunID)] <- dispatchRequest{odpPort: odpPort, flow: flow, result: result}
	res := <-result
	return res.port, res.ok
}

// Close stops every worker goroutine. Resolve must not be called
// after Close.
func (d *Dispatcher) Close() {
	for _, ch := range d.workers {
		close(ch)
	}
}
