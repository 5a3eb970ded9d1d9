// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package mq implements in-process message queues.
// Queue is a named FIFO of byte messages, which can be bounded, unbounded,
// or work as a rendezvous point, and supports blocking, timed and
// non-blocking send and receive operations.
package mq
