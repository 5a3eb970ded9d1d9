// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan_test

import (
	"fmt"

	"github.com/nxgtw/go-msgchan"
	"github.com/nxgtw/go-msgchan/mq"
	"github.com/nxgtw/go-msgchan/payload"
)

func ExampleRegistry() {
	reg := msgchan.NewRegistry()
	defer reg.Close()
	ch, err := reg.Create("jobs", 4)
	if err != nil {
		panic("create")
	}
	defer ch.Close()
	go func() {
		worker, err := reg.Get("jobs")
		if err != nil {
			panic("get")
		}
		defer worker.Close()
		if _, err := worker.SendArgs(mq.Forever, "resize", 640, 480); err != nil {
			panic("send")
		}
	}()
	p, err := ch.Recv(mq.Forever)
	if err != nil {
		panic("recv")
	}
	fmt.Println(p.Args()...)
	// Output: resize 640 480
}

func ExampleChannel_Recv() {
	reg := msgchan.NewRegistry()
	defer reg.Close()
	ch, _ := reg.Create("empty", msgchan.Unbounded)
	defer ch.Close()
	_, err := ch.Recv(mq.NoWait)
	fmt.Println(err == msgchan.ErrEmpty, msgchan.IsTemporary(err))
	// Output: true true
}

func ExampleWithNotify() {
	reg := msgchan.NewRegistry()
	defer reg.Close()
	loop := &stepLoop{}
	ch, _ := reg.Create("events", msgchan.Unbounded, msgchan.WithNotify(loop, func(p payload.Payload) error {
		fmt.Println("got", p)
		return nil
	}))
	defer ch.Close()
	ch.SendArgs(mq.NoWait, "e1")
	ch.SendArgs(mq.NoWait, "e2")
	loop.step()
	// Output:
	// got ["e1"]
	// got ["e2"]
}

// stepLoop runs its handles only when step is called.
type stepLoop struct {
	fns []func()
}

func (l *stepLoop) NewAsync(fn func()) (msgchan.Async, error) {
	l.fns = append(l.fns, fn)
	return stepAsync{}, nil
}

func (l *stepLoop) step() {
	for _, fn := range l.fns {
		fn()
	}
}

type stepAsync struct{}

func (stepAsync) Send() error  { return nil }
func (stepAsync) Close() error { return nil }
