package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	down atomic.Bool
}

func (p *fakePinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestProbe_TracksPinger(t *testing.T) {
	p := &fakePinger{}
	m := NewMonitor(p, time.Second, false)

	assert.True(t, m.Probe(context.Background()))
	assert.True(t, m.Online())

	p.down.Store(true)
	assert.False(t, m.Probe(context.Background()))
	assert.False(t, m.Online())
}

func TestSubscribe_ReceivesTransitionsOnly(t *testing.T) {
	m := NewMonitor(&fakePinger{}, time.Second, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := m.Subscribe(ctx)

	m.Set(true) // unchanged, nothing sent
	m.Set(false)
	m.Set(true)

	require.Equal(t, false, <-ch)
	require.Equal(t, true, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra transition %v", v)
	default:
	}
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	m := NewMonitor(&fakePinger{}, time.Second, true)
	ctx, cancel := context.WithCancel(context.Background())
	ch := m.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestSet_SlowSubscriberKeepsLatest(t *testing.T) {
	m := NewMonitor(&fakePinger{}, time.Second, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := m.Subscribe(ctx)

	for i := 0; i < subscriberBuffer*3; i++ {
		m.Set(i%2 == 0)
	}
	m.Set(true)
	m.Set(false)

	var last bool
	for len(ch) > 0 {
		last = <-ch
	}
	assert.False(t, last)
}
