package evrt

import "time"

// LoopTime returns seconds elapsed since the loop's monotonic epoch,
// the same clock TimerHandle.When is measured against. It is not wall
// clock time and is not comparable across loops.
func (lt *EventThread) LoopTime() float64 {
	return time.Since(lt.epoch).Seconds()
}

func (lt *EventThread) whenFor(d time.Duration) float64 {
	return lt.LoopTime() + d.Seconds()
}
