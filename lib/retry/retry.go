// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package retry absorbs transient contention errors from the hive
// container layer. The container format does not arbitrate
// multi-process writers, so concurrent opens surface "resource busy"
// conditions that should be retried rather than returned to callers.
//
// Only errors the classifier marks as transient are retried. Anything
// else propagates immediately. After the attempt budget is exhausted,
// the last transient error is returned as ordinary data.
package retry

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/hive/lib/clock"
)

// Policy controls the retry loop.
type Policy struct {
	// Attempts is the maximum number of calls to the operation. Zero
	// means retry without bound.
	Attempts int

	// Delay is the wait before the first retry. Defaults to one
	// second when zero or negative.
	Delay time.Duration

	// Factor multiplies Delay after every retry. Defaults to 1.0
	// (constant delay) when zero or negative.
	Factor float64

	// Clock supplies sleeps. Defaults to the real clock.
	Clock clock.Clock

	// Logger receives a warning per transient failure. Defaults to a
	// no-op logger.
	Logger *slog.Logger
}

func (p Policy) withDefaults() Policy {
	if p.Delay <= 0 {
		p.Delay = time.Second
	}
	if p.Factor <= 0 {
		p.Factor = 1.0
	}
	if p.Clock == nil {
		p.Clock = clock.Real()
	}
	if p.Logger == nil {
		p.Logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Do calls op until it succeeds or fails with a non-transient error.
// A transient error (per the transient classifier) triggers a warning
// log, a sleep of the current delay, and another attempt with the
// delay multiplied by the backoff factor. When the attempt budget is
// exhausted, the last transient error is returned.
func Do[T any](policy Policy, transient func(error) bool, op func() (T, error)) (T, error) {
	policy = policy.withDefaults()

	delay := policy.Delay
	var lastErr error
	for attempt := 1; policy.Attempts <= 0 || attempt <= policy.Attempts; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		if !transient(err) {
			var zero T
			return zero, err
		}
		lastErr = err
		policy.Logger.Warn("transient contention, retrying",
			"error", err,
			"attempt", attempt,
			"delay", delay,
		)
		policy.Clock.Sleep(delay)
		delay = time.Duration(float64(delay) * policy.Factor)
	}
	var zero T
	return zero, lastErr
}
