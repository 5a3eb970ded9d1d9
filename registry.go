// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/nxgtw/go-msgchan/mq"

	"github.com/pkg/errors"
)

const bucketCount = 16

// Unbounded is the limit of a channel, which never blocks senders.
const Unbounded = mq.Unbounded

// Registry is a directory of named channels.
// At most one channel with a given name is registered at a time.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	buckets [bucketCount][]*entry
	count   int
	closed  bool
	log     *slog.Logger
	onError func(name string, err error)
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.onError == nil {
		r.onError = r.logError
	}
	return r
}

// Create creates a channel and registers it under the name.
//	limit - the queue limit: negative - unbounded, 0 - rendezvous, positive - bounded.
// The returned handle holds the only reference to the channel.
// With WithNotify the channel starts notifying the loop right away.
func (r *Registry) Create(name string, limit int, opts ...CreateOption) (*Channel, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "registry: empty channel name")
	}
	var co createOptions
	for _, opt := range opts {
		opt(&co)
	}
	e := newEntry(r, name, limit)
	// the bridge is set up before the channel becomes visible.
	if co.loop != nil || co.cb != nil {
		if err := e.enableBridge(co.loop, co.cb); err != nil {
			e.destroy()
			return nil, errors.Wrapf(err, "registry: failed to bind channel %q to the loop", name)
		}
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		e.destroy()
		return nil, errors.Wrap(ErrClosed, "registry: create")
	}
	if r.findLocked(name) != nil {
		r.mu.Unlock()
		e.destroy()
		return nil, errors.Wrapf(ErrDuplicateName, "registry: channel %q", name)
	}
	r.attachLocked(e)
	r.mu.Unlock()
	r.log.Debug("channel created", "name", name, "limit", limit, "notify", co.loop != nil)
	return &Channel{e: e}, nil
}

// Get looks up a channel by name and returns a new handle to it,
// incrementing its reference count.
func (r *Registry) Get(name string) (*Channel, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "registry: empty channel name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.Wrap(ErrClosed, "registry: get")
	}
	e := r.findLocked(name)
	if e == nil {
		return nil, errors.Wrapf(ErrNotFound, "registry: channel %q", name)
	}
	e.refs.Add(1)
	return &Channel{e: e}, nil
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Names returns sorted names of registered channels.
func (r *Registry) Names() []string {
	r.mu.Lock()
	result := make([]string, 0, r.count)
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			result = append(result, e.name)
		}
	}
	r.mu.Unlock()
	sort.Strings(result)
	return result
}

// Close destroys all registered channels regardless of their reference counts.
// Blocked senders and receivers return ErrClosed, outstanding handles become unusable,
// and later calls to Create and Get fail with ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var entries []*entry
	for i := range r.buckets {
		for _, e := range r.buckets[i] {
			e.bucket = -1
			entries = append(entries, e)
		}
		r.buckets[i] = nil
	}
	r.count = 0
	r.mu.Unlock()
	for _, e := range entries {
		e.destroy()
	}
	r.log.Debug("registry closed", "channels", len(entries))
	return nil
}

// release drops one reference. The last one detaches the entry and destroys it.
// The zero transition happens under the registry lock, so Get can't resurrect the entry.
// acquire adds a reference to a registered entry.
// It returns false, if the entry has been detached.
func (r *Registry) acquire(e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.bucket < 0 || e.refs.Load() == 0 {
		return false
	}
	e.refs.Add(1)
	return true
}

func (r *Registry) release(e *entry) {
	r.mu.Lock()
	last := e.refs.Add(-1) == 0
	if last {
		r.detachLocked(e)
	}
	r.mu.Unlock()
	if last {
		e.destroy()
	}
}

func (r *Registry) findLocked(name string) *entry {
	for _, e := range r.buckets[bucketOf(name)] {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (r *Registry) attachLocked(e *entry) {
	e.bucket = bucketOf(e.name)
	r.buckets[e.bucket] = append(r.buckets[e.bucket], e)
	r.count++
}

// detachLocked removes the entry from its bucket. It is a no-op for detached entries.
func (r *Registry) detachLocked(e *entry) {
	if e.bucket < 0 {
		return
	}
	bucket := r.buckets[e.bucket]
	for i, other := range bucket {
		if other == e {
			copy(bucket[i:], bucket[i+1:])
			bucket[len(bucket)-1] = nil
			r.buckets[e.bucket] = bucket[:len(bucket)-1]
			r.count--
			break
		}
	}
	e.bucket = -1
}

func (r *Registry) reportError(name string, err error) {
	r.onError(name, err)
}

func (r *Registry) logError(name string, err error) {
	r.log.Error("uncaught error in channel callback", "channel", name, "error", err)
}

// bucketOf sums name bytes modulo 256 and takes the low four bits of the sum.
func bucketOf(name string) int {
	var h byte
	for i := 0; i < len(name); i++ {
		h += name[i]
	}
	return int(h & (bucketCount - 1))
}

// entry is a registered channel, shared by all handles to it.
type entry struct {
	name  string
	reg   *Registry
	queue *mq.Queue
	refs  atomic.Int32
	// bucket is the index of the registry bucket, or -1 if detached.
	// It is guarded by the registry lock.
	bucket      int
	bridgeMu    sync.Mutex
	bridge      atomic.Pointer[bridge]
	destroyOnce sync.Once
}

func newEntry(r *Registry, name string, limit int) *entry {
	e := &entry{name: name, reg: r, queue: mq.New(name, limit), bucket: -1}
	e.refs.Store(1)
	return e
}

// destroy stops notifications and closes the queue, discarding pending messages
// and waking all blocked callers. It runs once.
func (e *entry) destroy() {
	e.destroyOnce.Do(func() {
		e.stopBridge()
		var discarded int
		e.queue.CloseFunc(func([]byte) {
			discarded++
		})
		e.reg.log.Debug("channel destroyed", "name", e.name, "discarded", discarded)
	})
}
