package events

import "context"

// MultiSink fans one event out to several sinks.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Emit(ctx context.Context, event string, verdict Verdict) {
	for _, sink := range s.sinks {
		sink.Emit(ctx, event, verdict)
	}
}
