// Copyright 2016 Aleksandr Demakin. All rights reserved.

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/nxgtw/go-msgchan"
	"github.com/nxgtw/go-msgchan/internal/config"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

const benchChannel = "chanctl.bench"

// benchResult is the outcome of one bench run.
type benchResult struct {
	sent     int64
	dropped  int64
	received int64
	elapsed  time.Duration
}

func (r benchResult) rate() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.received) / r.elapsed.Seconds()
}

func newBenchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure channel throughput with concurrent producers and consumers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.bench(cmd.Context(), a.cfg.Bench)
			if err != nil {
				return err
			}
			return writeBenchResult(cmd.OutOrStdout(), a.cfg.Bench, res)
		},
	}
	flags := cmd.Flags()
	flags.Int("producers", 0, "number of producer goroutines")
	flags.Int("consumers", 0, "number of consumer goroutines")
	flags.Int("messages", 0, "messages sent by every producer")
	flags.Int("limit", 0, "channel limit: negative - unbounded, 0 - rendezvous")
	flags.Int("send-timeout-ms", 0, "send timeout: 0 - no wait, negative - forever")
	flags.Int("recv-timeout-ms", 0, "receive timeout: 0 - no wait, negative - forever")
	for key, flag := range map[string]string{
		"bench.producers":       "producers",
		"bench.consumers":       "consumers",
		"bench.messages":        "messages",
		"bench.limit":           "limit",
		"bench.send_timeout_ms": "send-timeout-ms",
		"bench.recv_timeout_ms": "recv-timeout-ms",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func (a *app) bench(ctx context.Context, cfg config.BenchConfig) (benchResult, error) {
	var res benchResult
	if cfg.Limit == 0 && cfg.RecvTimeout().IsNoWait() {
		return res, errors.New("bench: a rendezvous channel needs waiting receivers")
	}
	reg := msgchan.NewRegistry(msgchan.WithLogger(a.log))
	defer reg.Close()
	ch, err := reg.Create(benchChannel, cfg.Limit)
	if err != nil {
		return res, err
	}
	defer ch.Close()

	var sent, dropped, received atomic.Int64
	start := time.Now()
	var consumers conc.WaitGroup
	for i := 0; i < cfg.Consumers; i++ {
		consumers.Go(func() {
			for {
				_, err := ch.Recv(cfg.RecvTimeout())
				switch {
				case err == nil:
					received.Add(1)
				case msgchan.IsClosed(err):
					return
				case !msgchan.IsTemporary(err):
					a.log.Error("bench receive failed", "error", err)
					return
				}
			}
		})
	}
	var producers conc.WaitGroup
	for id := 0; id < cfg.Producers; id++ {
		producers.Go(func() {
			h, err := reg.Get(benchChannel)
			if err != nil {
				a.log.Error("bench producer failed", "error", err)
				return
			}
			defer h.Close()
			for n := 0; n < cfg.Messages; n++ {
				ok, err := h.SendArgs(cfg.SendTimeout(), id, n, "chanctl bench message")
				switch {
				case ok:
					sent.Add(1)
				case err == nil:
					dropped.Add(1)
				default:
					a.log.Error("bench send failed", "error", err)
					return
				}
			}
		})
	}
	producers.Wait()
	for received.Load() < sent.Load() {
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	res.elapsed = time.Since(start)
	// closing the registry wakes consumers blocked in Recv.
	reg.Close()
	consumers.Wait()
	res.sent, res.dropped, res.received = sent.Load(), dropped.Load(), received.Load()
	a.log.Debug("bench finished", "sent", res.sent, "dropped", res.dropped, "received", res.received, "elapsed", res.elapsed)
	return res, ctx.Err()
}

func writeBenchResult(w io.Writer, cfg config.BenchConfig, res benchResult) error {
	_, err := fmt.Fprintf(w,
		"producers=%d consumers=%d limit=%d\nsent=%d dropped=%d received=%d elapsed=%v rate=%.0f msg/s\n",
		cfg.Producers, cfg.Consumers, cfg.Limit,
		res.sent, res.dropped, res.received, res.elapsed.Round(time.Microsecond), res.rate())
	return err
}
