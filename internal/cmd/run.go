// Copyright 2016 Aleksandr Demakin. All rights reserved.

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/nxgtw/go-msgchan"
	"github.com/nxgtw/go-msgchan/eventloop"
	"github.com/nxgtw/go-msgchan/internal/manifest"
	"github.com/nxgtw/go-msgchan/payload"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "run <manifest.hcl>",
		Short: "Create channels from a manifest and deliver their messages",
		Long: `run creates every channel declared in the manifest, starts its producers,
and waits until all messages are delivered. Messages of notify channels are
delivered to a callback on the event loop, others to a blocking consumer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return a.runManifest(ctx, m, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "maximum time to deliver all messages")
	return cmd
}

// delivery counts messages received from one channel.
type delivery struct {
	name     string
	expected int64
	got      atomic.Int64
}

func (a *app) runManifest(ctx context.Context, m *manifest.Manifest, out io.Writer) error {
	for _, decl := range m.Channels {
		if decl.Notify && decl.LimitOr(a.cfg.Registry.DefaultLimit) == 0 {
			// the loop drains without waiting, so a rendezvous sender is never admitted.
			return errors.Errorf("run: notify channel %q needs a non-zero limit", decl.Name)
		}
	}
	loop, err := eventloop.New(eventloop.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer loop.Close()
	reg := msgchan.NewRegistry(msgchan.WithLogger(a.log))
	defer reg.Close()

	var loopPending atomic.Int64
	deliveries := make([]*delivery, 0, len(m.Channels))
	handles := make([]*msgchan.Channel, 0, len(m.Channels))
	defer func() {
		for _, h := range handles {
			h.Close()
		}
	}()
	for i := range m.Channels {
		decl := &m.Channels[i]
		d := &delivery{name: decl.Name, expected: int64(decl.Producers * len(decl.Messages))}
		deliveries = append(deliveries, d)
		var opts []msgchan.CreateOption
		if decl.Notify {
			loopPending.Add(d.expected)
			opts = append(opts, msgchan.WithNotify(loop, func(p payload.Payload) error {
				d.got.Add(1)
				a.log.Info("message delivered", "channel", d.name, "via", "loop", "payload", p.String())
				if loopPending.Add(-1) == 0 {
					loop.Stop()
				}
				return nil
			}))
		}
		h, err := reg.Create(decl.Name, decl.LimitOr(a.cfg.Registry.DefaultLimit), opts...)
		if err != nil {
			return err
		}
		handles = append(handles, h)
	}

	var loopWg conc.WaitGroup
	var loopErr error
	if loopPending.Load() > 0 {
		loopWg.Go(func() {
			loopErr = loop.Run(ctx)
		})
	}

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i := range m.Channels {
		decl := &m.Channels[i]
		for n := 0; n < decl.Producers; n++ {
			p.Go(func(ctx context.Context) error {
				return produce(ctx, reg, decl.Name, decl.Messages)
			})
		}
		if d := deliveries[i]; !decl.Notify && d.expected > 0 {
			h := handles[i]
			p.Go(func(ctx context.Context) error {
				return a.consume(ctx, h, d)
			})
		}
	}
	err = p.Wait()
	if err != nil || ctx.Err() != nil {
		loop.Stop()
	}
	loopWg.Wait()
	if err == nil {
		err = loopErr
	}
	if err == nil && loopPending.Load() > 0 {
		err = ctx.Err()
	}
	for _, d := range deliveries {
		fmt.Fprintf(out, "channel %s: delivered %d of %d messages\n", d.name, d.got.Load(), d.expected)
	}
	if err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}

// produce sends all messages to the named channel through its own handle.
func produce(ctx context.Context, reg *msgchan.Registry, name string, msgs []payload.Payload) error {
	h, err := reg.Get(name)
	if err != nil {
		return err
	}
	defer h.Close()
	for _, msg := range msgs {
		if err := sendContext(ctx, h, msg); err != nil {
			return errors.Wrapf(err, "producer of %q", name)
		}
	}
	return nil
}

func (a *app) consume(ctx context.Context, h *msgchan.Channel, d *delivery) error {
	for d.got.Load() < d.expected {
		p, err := recvContext(ctx, h)
		if err != nil {
			return errors.Wrapf(err, "consumer of %q", d.name)
		}
		d.got.Add(1)
		a.log.Info("message delivered", "channel", d.name, "via", "recv", "payload", p.String())
	}
	return nil
}

// sendContext sends p, waiting until it is accepted or ctx is done.
func sendContext(ctx context.Context, h *msgchan.Channel, p payload.Payload) error {
	for {
		err := h.Send(p, pollTimeout)
		if !msgchan.IsTemporary(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// recvContext receives a message, waiting until there is one or ctx is done.
func recvContext(ctx context.Context, h *msgchan.Channel) (payload.Payload, error) {
	for {
		p, err := h.Recv(pollTimeout)
		if !msgchan.IsTemporary(err) {
			return p, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
}
