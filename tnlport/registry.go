// Package tnlport implements the tunnel-port demultiplexing and
// encapsulation core: a registry of tunnel vports partitioned into a
// fixed 12-bucket match space (C2), the receive-side resolver that
// walks those buckets in priority order (C3), the send-side flow
// rewriter and ECN policy (C4), and the outer-header builder (C5).
package tnlport

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ovs-tnl/tnlport/internal/config"
	"github.com/ovs-tnl/tnlport/internal/ratelimit"
	"github.com/ovs-tnl/tnlport/netdevif"
)

// registryOptions is the internal target functional options mutate;
// it embeds the ambient config.Config plus the one knob that isn't an
// ambient concern (the native-tunnel collaborator).
type registryOptions struct {
	config.Config
	nativeTunnels netdevif.NativeTunnelRegistry
}

// Option configures a Registry at construction time.
type Option func(*registryOptions)

// WithLogger overrides the registry's logrus entry.
func WithLogger(log *logrus.Entry) Option {
	return func(o *registryOptions) { o.Logger = log }
}

// WithNativeTunnels supplies the native-tunnel-device collaborator;
// without it, native tunnel registration/unregistration is skipped.
func WithNativeTunnels(nt netdevif.NativeTunnelRegistry) Option {
	return func(o *registryOptions) { o.nativeTunnels = nt }
}

// Registry is a self-contained tunnel-port table: one rwlock, one
// ofport index, and 12 match-space buckets. Unlike the C original's
// process-wide global table, callers construct as many independent
// Registry values as they need - there is no package-level state.
type Registry struct {
	mu          sync.RWMutex
	ofportIndex map[OFPort]*TnlPort
	buckets     [numBuckets]map[TnlMatch]*TnlPort

	nativeTunnels netdevif.NativeTunnelRegistry
	limiter       *ratelimit.Limiter
	log           *logrus.Entry
}

// New builds a ready-to-use Registry. Passing WithNativeTunnels wires
// up native-tunnel-device notifications; omitting it is valid and
// simply skips that step on Add/Del.
func New(opts ...Option) *Registry {
	o := registryOptions{Config: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		ofportIndex:   make(map[OFPort]*TnlPort),
		nativeTunnels: o.nativeTunnels,
		limiter:       ratelimit.New(o.WarnEvery, o.DebugEvery, o.DebugBurst),
		log:           o.Logger,
	}
}

func (r *Registry) warnf(format string, args ...interface{}) {
	if r.limiter.AllowWarn() {
		r.log.Warnf(format, args...)
	}
}

func (r *Registry) debugf(format string, args ...interface{}) {
	if r.limiter.AllowDebug() {
		r.log.Debugf(format, args...)
	}
}

func matchFromConfig(cfg netdevif.TunnelConfig, odpPort uint32) TnlMatch {
	m := TnlMatch{
		OdpPort:   odpPort,
		InKeyFlow: cfg.InKeyFlow,
		IPSrcFlow: cfg.IPSrcFlow,
		IPDstFlow: cfg.IPDstFlow,
	}
	if cfg.IPsec {
		m.PktMark = IPsecMark
	}
	if !cfg.InKeyFlow {
		m.InKey = cfg.InKey
	}
	if !cfg.IPSrcFlow {
		m.IPv6Src = cfg.IPv6Src
	}
	if !cfg.IPDstFlow {
		m.IPv6Dst = cfg.IPv6Dst
	}
	return m
}

// Add registers ofport under the match tuple derived from nd's
// current configuration. It fails with ErrDuplicateMatch if another
// port already occupies that exact tuple.
func (r *Registry) Add(ofport OFPort, nd netdevif.Netdev, odpPort uint32, nativeTunnel bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.addLocked(ofport, nd, odpPort, nativeTunnel, true)
	return err
}

func (r *Registry) addLocked(ofport OFPort, nd netdevif.Netdev, odpPort uint32, nativeTunnel, warn bool) (*TnlPort, error) {
	cfg, err := nd.Config()
	if err != nil {
		return nil, fmt.Errorf("tnlport: reading config for %s: %w", nd.Name(), err)
	}
	match := matchFromConfig(cfg, odpPort)
	idx := bucketIndex(match)

	if existing, ok := r.buckets[idx][match]; ok {
		if warn {
			r.warnf("tnlport: %s: match tuple already registered to port %q", nd.Name(), existing.Name)
		}
		return nil, ErrDuplicateMatch
	}

	port := &TnlPort{
		OFPort:        ofport,
		Netdev:        nd,
		ChangeSeq:     nd.ChangeSeq(),
		Match:         match,
		Name:          nd.Name(),
		NativeTunnel:  nativeTunnel,
		NativeDstPort: cfg.DstPort,
	}

	if r.buckets[idx] == nil {
		r.buckets[idx] = make(map[TnlMatch]*TnlPort)
	}
	r.buckets[idx][match] = port
	r.ofportIndex[ofport] = port

	if nativeTunnel && r.nativeTunnels != nil {
		if err := r.nativeTunnels.Insert(odpPort, cfg.DstPort, port.Name); err != nil {
			delete(r.buckets[idx], match)
			delete(r.ofportIndex, ofport)
			return nil, fmt.Errorf("tnlport: registering native tunnel for %s: %w", port.Name, err)
		}
	}

	r.debugf("tnlport: added port %q in bucket %d", port.Name, idx)
	return port, nil
}

// Del unregisters ofport, if present. It is a no-op if ofport was
// never added (or was already removed).
func (r *Registry) Del(ofport OFPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delLocked(ofport)
}

func (r *Registry) delLocked(ofport OFPort) {
	port, ok := r.ofportIndex[ofport]
	if !ok {
		return
	}
	if port.NativeTunnel && r.nativeTunnels != nil {
		if err := r.nativeTunnels.Delete(port.NativeDstPort); err != nil {
			r.warnf("tnlport: unregistering native tunnel for %q: %v", port.Name, err)
		}
	}
	delete(r.ofportIndex, ofport)
	idx := bucketIndex(port.Match)
	delete(r.buckets[idx], port.Match)
	if len(r.buckets[idx]) == 0 {
		r.buckets[idx] = nil
	}
}

// Reconfigure brings ofport's registration in line with nd's current
// state. If ofport isn't registered yet, it behaves like Add with
// warnings suppressed. If it is registered and the netdev reference,
// datapath port, or cached change sequence has drifted, the old
// registration is deleted and a fresh one added. changed reports
// whether any of that happened.
func (r *Registry) Reconfigure(ofport OFPort, nd netdevif.Netdev, odpPort uint32, nativeTunnel bool) (changed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.ofportIndex[ofport]
	if !ok {
		_, err := r.addLocked(ofport, nd, odpPort, nativeTunnel, false)
		return err == nil, err
	}

	drifted := existing.Netdev != nd || existing.Match.OdpPort != odpPort || existing.ChangeSeq != nd.ChangeSeq()
	if !drifted {
		return false, nil
	}

	r.delLocked(ofport)
	if _, err := r.addLocked(ofport, nd, odpPort, nativeTunnel, true); err != nil {
		return true, err
	}
	return true, nil
}

// Lookup returns the TnlPort registered under ofport, if any.
func (r *Registry) Lookup(ofport OFPort) (*TnlPort, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	port, ok := r.ofportIndex[ofport]
	return port, ok
}

// Ports returns a snapshot of every registered port, for introspection
// tooling; mutating the returned slice has no effect on the registry.
func (r *Registry) Ports() []TnlPort {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TnlPort, 0, len(r.ofportIndex))
	for _, p := range r.ofportIndex {
		out = append(out, *p)
	}
	return out
}

// BucketStats returns the number of ports occupying each of the 12
// match-space buckets, indexed by bucketIndex's numbering.
func (r *Registry) BucketStats() [numBuckets]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats [numBuckets]int
	for i, b := range r.buckets {
		stats[i] = len(b)
	}
	return stats
}
