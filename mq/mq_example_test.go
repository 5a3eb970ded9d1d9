// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mq

import (
	"fmt"
	"math/rand"
	"time"
)

func ExampleMessenger() {
	mq := New("mq", 1)
	defer mq.Close()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	go func() {
		if err := mq.Send(data); err != nil {
			panic("send")
		}
	}()
	received, err := mq.Receive()
	if err != nil {
		panic("receive")
	}
	fmt.Println(received)
	// Output: [1 2 3 4 5 6 7 8]
}

func ExampleTimedMessenger() {
	mq := New("mq", 0)
	defer mq.Close()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	go func() {
		// receive after [0..500] ms delay.
		time.Sleep(time.Duration((rand.Int() % 6)) * time.Millisecond * 100)
		if _, err := mq.ReceiveTimeout(After(time.Second)); err != nil {
			panic("receive")
		}
	}()
	// a queue with zero limit accepts a message only when a receiver is waiting.
	if err := mq.SendTimeout(data, After(time.Second)); err != nil {
		panic("send")
	}
}

func ExampleIsTemporary() {
	mq := New("mq", 1)
	defer mq.Close()
	mq.SendTimeout([]byte("a"), NoWait)
	err := mq.SendTimeout([]byte("b"), NoWait)
	fmt.Println(err, IsTemporary(err))
	// Output: the queue is full true
}
