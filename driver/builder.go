package driver

import "github.com/sarchlab/akita/v4/sim"

// Builder creates a new instance of Driver.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	sink   BitSink
}

// MakeBuilder returns a builder that drives a 1 GHz configuration clock.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the configuration clock.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithSink sets where shifted bits go.
func (b Builder) WithSink(sink BitSink) Builder {
	b.sink = sink
	return b
}

// Build creates a driver.
func (b Builder) Build(name string) *Driver {
	if b.sink == nil {
		panic("driver needs a bit sink")
	}

	d := &Driver{
		engine: b.engine,
		sink:   b.sink,
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
