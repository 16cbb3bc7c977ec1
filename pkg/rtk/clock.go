package rtk

import "time"

// Clock supplies the timestamp the pipeline samples once per tick. All
// waiting in the toolkit is expressed as comparisons against that sample;
// tests inject a manual clock to drive timing-dependent behavior.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
