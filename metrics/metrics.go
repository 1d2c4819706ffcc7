package metrics

import "time"

// Recorder knows how to measure different kind of metrics.
type Recorder interface {
	// WithID will set the ID name to the recorder and every metric
	// measured with the obtained recorder will be identified with
	// the name.
	WithID(id string) Recorder
	// ObserveCommandExecution will measure the execution of the runner chain.
	ObserveCommandExecution(start time.Time, success bool)
	// IncTimeout will increment the number of timeouts.
	IncTimeout()
	// ObservePermitWait will measure the time spent acquiring a permit of a kind.
	ObservePermitWait(kind string, start time.Time)
	// SetPermitsHeld will set the number of permits of a kind currently held.
	SetPermitsHeld(kind string, held int)
	// IncFetchFailure increments the number of failed upstream fetches by the failure kind.
	IncFetchFailure(kind string)
	// IncCollectedItem increments the number of items processed by the collector by result.
	IncCollectedItem(result string)
	// ObserveCollection will measure a whole collection run.
	ObserveCollection(start time.Time, success bool)
}

// Dummy is a dummy recorder that doesn't measure anything.
var Dummy Recorder = &dummy{}

type dummy struct{}

func (d dummy) WithID(id string) Recorder                             { return d }
func (dummy) ObserveCommandExecution(start time.Time, success bool) {}
func (dummy) IncTimeout()                                            {}
func (dummy) ObservePermitWait(kind string, start time.Time)         {}
func (dummy) SetPermitsHeld(kind string, held int)                   {}
func (dummy) IncFetchFailure(kind string)                            {}
func (dummy) IncCollectedItem(result string)                         {}
func (dummy) ObserveCollection(start time.Time, success bool)        {}
