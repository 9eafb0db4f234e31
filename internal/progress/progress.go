// Package progress carries search progress and improvement events from the
// core enumeration to presentation layers. Observers implement
// search.Observer; the subject fans a single event stream out to several of
// them.
package progress

import (
	"sync"

	"github.com/agbru/nearmiss/internal/logging"
	"github.com/agbru/nearmiss/internal/search"
)

// Update reports how far the enumeration has advanced.
type Update struct {
	// Checked is the number of combinations evaluated so far.
	Checked uint64
	// Total is the full grid size, (k-9)^2.
	Total uint64
}

// Fraction returns the completed fraction in [0, 1].
func (u Update) Fraction() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Checked) / float64(u.Total)
}

// Improvement reports a new best result together with the progress at which
// it was found.
type Improvement struct {
	Best    search.BestResult
	Checked uint64
	Total   uint64
}

// ChannelObserver forwards events to channels for consumption by a reporter
// goroutine. Sends block when the buffers fill, so consumers must drain both
// channels until they are closed. The zero value is not usable; create one
// with NewChannelObserver.
type ChannelObserver struct {
	updates      chan<- Update
	improvements chan<- Improvement
}

// Verify interface compliance.
var _ search.Observer = ChannelObserver{}

// NewChannelObserver creates an observer feeding the given channels.
func NewChannelObserver(updates chan<- Update, improvements chan<- Improvement) ChannelObserver {
	return ChannelObserver{updates: updates, improvements: improvements}
}

// OnImprovement forwards a new best to the improvements channel.
func (o ChannelObserver) OnImprovement(best search.BestResult, checked, total uint64) {
	o.improvements <- Improvement{Best: best, Checked: checked, Total: total}
}

// OnProgress forwards a progress update to the updates channel.
func (o ChannelObserver) OnProgress(checked, total uint64) {
	o.updates <- Update{Checked: checked, Total: total}
}

// LoggingObserver logs improvements at info level and progress at debug
// level. Useful for quiet and server modes where no interactive reporter
// runs.
type LoggingObserver struct {
	logger logging.Logger
}

// Verify interface compliance.
var _ search.Observer = LoggingObserver{}

// NewLoggingObserver creates an observer writing to the given logger.
func NewLoggingObserver(logger logging.Logger) LoggingObserver {
	return LoggingObserver{logger: logger}
}

// OnImprovement logs the new best result.
func (o LoggingObserver) OnImprovement(best search.BestResult, checked, total uint64) {
	o.logger.Info("new best near miss",
		logging.Int("x", best.X),
		logging.Int("y", best.Y),
		logging.Field{Key: "z", Value: best.Z},
		logging.String("absolute_miss", best.AbsoluteMiss.String()),
		logging.Float64("relative_miss", best.RelativeMiss),
		logging.Uint64("checked", checked),
		logging.Uint64("total", total),
	)
}

// OnProgress logs the progress update.
func (o LoggingObserver) OnProgress(checked, total uint64) {
	o.logger.Debug("progress",
		logging.Uint64("checked", checked),
		logging.Uint64("total", total),
	)
}

// Subject fans events out to any number of attached observers, in
// attachment order. Attach is not safe to call concurrently with a running
// search; attach everything first.
type Subject struct {
	mu        sync.RWMutex
	observers []search.Observer
}

// Verify interface compliance.
var _ search.Observer = (*Subject)(nil)

// NewSubject creates an empty subject.
func NewSubject() *Subject {
	return &Subject{}
}

// Attach adds an observer to the fan-out list.
func (s *Subject) Attach(obs search.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// OnImprovement forwards the event to every attached observer.
func (s *Subject) OnImprovement(best search.BestResult, checked, total uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obs := range s.observers {
		obs.OnImprovement(best, checked, total)
	}
}

// OnProgress forwards the event to every attached observer.
func (s *Subject) OnProgress(checked, total uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obs := range s.observers {
		obs.OnProgress(checked, total)
	}
}
