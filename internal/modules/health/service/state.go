package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	channelConnected atomic.Bool
	lastSignalUnix   atomic.Int64 // unix seconds
	processed        atomic.Int64
	failed           atomic.Int64
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetChannelConnected(v bool) { s.channelConnected.Store(v) }
func (s *State) ChannelConnected() bool     { return s.channelConnected.Load() }

// SignalHandled вызывается конвейером после каждого сигнала.
func (s *State) SignalHandled(ok bool, at time.Time) {
	s.lastSignalUnix.Store(at.Unix())
	if ok {
		s.processed.Add(1)
		return
	}
	s.failed.Add(1)
}

func (s *State) LastSignal() time.Time {
	u := s.lastSignalUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Processed() int64 { return s.processed.Load() }
func (s *State) Failed() int64    { return s.failed.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
