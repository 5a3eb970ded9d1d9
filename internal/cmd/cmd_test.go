// Copyright 2016 Aleksandr Demakin. All rights reserved.

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nxgtw/go-msgchan/internal/config"
	"github.com/nxgtw/go-msgchan/internal/logging"
	"github.com/nxgtw/go-msgchan/internal/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func testApp() *app {
	return &app{cfg: config.Default(), log: logging.Nop()}
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "chanctl dev")
}

func TestRunManifest(t *testing.T) {
	a := assert.New(t)
	isolate(t)
	path := filepath.Join(t.TempDir(), "chans.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
channel "jobs" {
  limit     = 1
  producers = 3
  messages  = ["a", 1, ["resize", 640, 480]]
}

channel "events" {
  limit    = 2
  notify   = true
  messages = ["e1", "e2", true]
}

channel "handoff" {
  limit    = 0
  messages = ["x"]
}

channel "idle" {
}
`), 0644))
	out, logs, err := execute(t, "run", path, "--log-level", "debug", "--timeout", "10s")
	if !a.NoError(err, logs) {
		return
	}
	a.Contains(out, "channel jobs: delivered 9 of 9 messages")
	a.Contains(out, "channel events: delivered 3 of 3 messages")
	a.Contains(out, "channel handoff: delivered 1 of 1 messages")
	a.Contains(out, "channel idle: delivered 0 of 0 messages")
	a.Contains(logs, "via=loop")
	a.Contains(logs, "via=recv")
	a.Contains(logs, "channel destroyed")
}

func TestRunNotifyRendezvous(t *testing.T) {
	m, err := manifest.Parse([]byte(`channel "r" {
  limit = 0
  notify = true
}`), "test.hcl")
	require.NoError(t, err)
	err = testApp().runManifest(context.Background(), m, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	a := assert.New(t)
	m, err := manifest.Parse([]byte(`channel "events" {
  limit    = 4
  notify   = true
  messages = [1, 2]
}`), "test.hcl")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err = testApp().runManifest(ctx, m, &out)
	a.ErrorIs(err, context.Canceled)
	a.Contains(out.String(), "channel events: delivered 0 of 2 messages")
}

func TestRunMissingManifest(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestBench(t *testing.T) {
	a := assert.New(t)
	isolate(t)
	out, _, err := execute(t, "bench", "--producers", "2", "--consumers", "3", "--messages", "500", "--limit", "8")
	if !a.NoError(err) {
		return
	}
	a.Contains(out, "producers=2 consumers=3 limit=8")
	a.Contains(out, "sent=1000 dropped=0 received=1000")
}

func TestBenchRendezvous(t *testing.T) {
	a := assert.New(t)
	cfg := config.Default().Bench
	cfg.Limit = 0
	cfg.Messages = 100
	res, err := testApp().bench(context.Background(), cfg)
	if !a.NoError(err) {
		return
	}
	a.Equal(int64(400), res.sent)
	a.Equal(int64(400), res.received)

	cfg.RecvTimeoutMs = 0
	_, err = testApp().bench(context.Background(), cfg)
	a.Error(err)
}

func TestBenchNoWaitDrops(t *testing.T) {
	a := assert.New(t)
	cfg := config.Default().Bench
	cfg.Limit = 1
	cfg.Consumers = 1
	cfg.Messages = 200
	cfg.SendTimeoutMs = 0
	res, err := testApp().bench(context.Background(), cfg)
	if !a.NoError(err) {
		return
	}
	a.Equal(int64(cfg.Producers*cfg.Messages), res.sent+res.dropped)
	a.Equal(res.sent, res.received)
}

func TestBenchConfigFile(t *testing.T) {
	a := assert.New(t)
	isolate(t)
	require.NoError(t, os.WriteFile("chanctl.yaml", []byte(`
bench:
  producers: 1
  consumers: 1
  messages: 10
  limit: -1
`), 0644))
	out, _, err := execute(t, "bench")
	if !a.NoError(err) {
		return
	}
	a.Contains(out, "producers=1 consumers=1 limit=-1")
	a.Contains(out, "sent=10 dropped=0 received=10")
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "version", "--log-level", "loud")
	assert.Error(t, err)
}
