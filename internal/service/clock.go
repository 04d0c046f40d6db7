package service

import "time"

// systemClock is the production [Clock] backed by the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns the wall-clock [Clock] used outside tests.
func SystemClock() Clock {
	return systemClock{}
}
