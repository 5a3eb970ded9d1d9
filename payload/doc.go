// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package payload implements typed messages, which are passed through channels.
// A Payload is an ordered list of scalar values. It is serialized with msgpack
// before it is enqueued, so a sender and a receiver never share memory.
package payload
