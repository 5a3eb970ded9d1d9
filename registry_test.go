// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nxgtw/go-msgchan/internal/logging"
	testutil "github.com/nxgtw/go-msgchan/internal/test"
	"github.com/nxgtw/go-msgchan/mq"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const testChanName = "go-msgchan.chan"

func newTestRegistry(opts ...Option) *Registry {
	return NewRegistry(append([]Option{WithLogger(logging.Nop())}, opts...)...)
}

func TestBucketOf(t *testing.T) {
	a := assert.New(t)
	a.Equal(0, bucketOf(""))
	a.Equal(int('a')&15, bucketOf("a"))
	// 'a' + 'b' = 195 = 0xc3.
	a.Equal(3, bucketOf("ab"))
	// the sum wraps at 256: 0xff + 0x02 = 0x101 -> 0x01.
	a.Equal(1, bucketOf("\xff\x02"))
	// anagrams share a bucket.
	a.Equal(bucketOf("abc"), bucketOf("cba"))
}

func TestRegistryCreateGet(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	ch, err := r.Create(testChanName, 4)
	if !a.NoError(err) {
		return
	}
	a.Equal(testChanName, ch.Name())
	a.Equal(4, ch.Cap())
	a.Equal(1, ch.Refs())
	a.Equal(1, r.Len())
	ch2, err := r.Get(testChanName)
	if !a.NoError(err) {
		return
	}
	a.Equal(2, ch.Refs())
	a.Equal(ch.e, ch2.e)
	a.NoError(ch2.Close())
	a.NoError(ch.Close())
	a.Equal(0, r.Len())
}

func TestRegistryUniqueness(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	ch, err := r.Create(testChanName, 1)
	if !a.NoError(err) {
		return
	}
	defer ch.Close()
	_, err = r.Create(testChanName, 2)
	a.True(IsDuplicateName(err))
	a.Equal(ErrDuplicateName, errors.Cause(err))
	a.Equal(1, r.Len())
	a.Equal(1, ch.Refs())
	a.Equal(1, ch.Cap())
}

func TestRegistryInvalidName(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	_, err := r.Create("", 1)
	a.Equal(ErrInvalidArgument, errors.Cause(err))
	_, err = r.Get("")
	a.Equal(ErrInvalidArgument, errors.Cause(err))
}

func TestRegistryGetMissing(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	_, err := r.Get("missing")
	a.True(IsNotFound(err))
	a.Contains(err.Error(), "not found")
}

func TestRegistryLookupAfterDestruction(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	ch, err := r.Create(testChanName, 1)
	if !a.NoError(err) {
		return
	}
	a.NoError(ch.Close())
	_, err = r.Get(testChanName)
	a.True(IsNotFound(err))
	// the name can be reused.
	ch, err = r.Create(testChanName, 1)
	if a.NoError(err) {
		a.NoError(ch.Close())
	}
}

func TestRegistrySameBucket(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	names := []string{"abc", "bca", "cab", "acb"}
	var handles []*Channel
	for _, name := range names {
		ch, err := r.Create(name, Unbounded)
		if !a.NoError(err) {
			return
		}
		handles = append(handles, ch)
	}
	a.Equal(4, len(r.buckets[bucketOf("abc")]))
	a.NoError(handles[1].Close())
	a.Equal(3, len(r.buckets[bucketOf("abc")]))
	for i, name := range names {
		ch, err := r.Get(name)
		if i == 1 {
			a.True(IsNotFound(err))
			continue
		}
		if a.NoError(err) {
			a.Equal(name, ch.Name())
			a.NoError(ch.Close())
		}
	}
	a.Equal([]string{"abc", "acb", "cab"}, r.Names())
}

func TestRegistryConcurrentCreate(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	defer r.Close()
	var wg sync.WaitGroup
	results := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(testChanName, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	var created, dup int
	for err := range results {
		switch {
		case err == nil:
			created++
		case IsDuplicateName(err):
			dup++
		}
	}
	a.Equal(1, created)
	a.Equal(15, dup)
}

func TestRegistryClose(t *testing.T) {
	a := assert.New(t)
	r := newTestRegistry()
	ch, err := r.Create(testChanName, 0)
	if !a.NoError(err) {
		return
	}
	received := make(chan error, 1)
	go func() {
		_, err := ch.Recv(mq.Forever)
		received <- err
	}()
	// let the receiver block.
	time.Sleep(20 * time.Millisecond)
	a.NoError(r.Close())
	err, ok := testutil.WaitForChan(received, time.Second)
	a.True(ok)
	a.True(IsClosed(err))
	a.Equal(0, r.Len())
	_, err = r.Create("other", 1)
	a.True(IsClosed(err))
	_, err = r.Get(testChanName)
	a.True(IsClosed(err))
	_, err = ch.Acquire()
	a.True(IsClosed(err))
	a.True(IsClosed(ch.Send(nil, mq.NoWait)))
	a.NoError(ch.Close())
	a.NoError(r.Close())
}

func TestRegistryDefaultErrorHandler(t *testing.T) {
	a := assert.New(t)
	var reported []string
	r := newTestRegistry(WithErrorHandler(func(name string, err error) {
		reported = append(reported, fmt.Sprintf("%s: %v", name, err))
	}))
	defer r.Close()
	r.reportError("x", errors.New("failed"))
	a.Equal([]string{"x: failed"}, reported)
	// the default handler logs.
	NewRegistry(WithLogger(logging.Nop())).reportError("x", errors.New("failed"))
}
