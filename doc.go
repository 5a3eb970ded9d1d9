// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package msgchan provides named message channels for goroutines.
// A Registry maps names to bounded FIFO queues of typed payloads.
// Any goroutine may create a channel or look it up by name, send to it
// and receive from it with a timeout, and a channel stays alive while
// at least one handle to it is open.
// A channel can also be bound to a cooperative event loop: every send
// then wakes the loop, which drains the channel and calls a callback
// for each message on the loop goroutine.
package msgchan
