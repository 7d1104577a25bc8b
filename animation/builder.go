// Package animation wires the heading-animation registry, its lifecycle
// coordinator, the monitor, and the data recorder into one runnable unit.
package animation

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/xid"

	"github.com/geoanim/headings/anim"
	"github.com/geoanim/headings/datarecording"
	"github.com/geoanim/headings/monitoring"
)

// Builder can be used to build an animation.
type Builder struct {
	tickRate  anim.TickRate
	sweepRate anim.TickRate
	seed      int64
	seedSet   bool

	monitorOn   bool
	monitorPort int

	recordingOn  bool
	recorderPath string

	iconCache anim.IconCache
}

// MakeBuilder creates a new builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		tickRate:  anim.DefaultTickRate,
		sweepRate: anim.DefaultSweepRate,
		monitorOn: true,
	}
}

// WithTickRate sets the rate at which entity headings are advanced.
func (b Builder) WithTickRate(rate anim.TickRate) Builder {
	b.tickRate = rate
	return b
}

// WithSweepRate sets the rate of the eligibility reassignment sweep.
func (b Builder) WithSweepRate(rate anim.TickRate) Builder {
	b.sweepRate = rate
	return b
}

// WithSeed makes the animation deterministic by seeding its random source.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	b.seedSet = true
	return b
}

// WithoutMonitoring sets the animation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithRecording enables recording of every processed tick into an SQLite
// database.
func (b Builder) WithRecording() Builder {
	b.recordingOn = true
	return b
}

// WithRecorderPath sets the output path of the tick recorder.
func (b Builder) WithRecorderPath(path string) Builder {
	b.recorderPath = path
	return b
}

// WithIconCache attaches the icon cache collaborator that cleanup
// notifies.
func (b Builder) WithIconCache(cache anim.IconCache) Builder {
	b.iconCache = cache
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.recorderPath != "" {
		panic("recorder path cannot be set when recording is disabled")
	}
}

// Build builds the animation. Values from the environment (or a .env file
// in the working directory) override the builder configuration.
func (b Builder) Build() *Animation {
	b = b.applyEnv()
	b.parametersMustBeValid()

	a := &Animation{id: xid.New().String()}

	seed := b.seed
	if !b.seedSet {
		seed = time.Now().UnixNano()
	}

	a.registry = anim.NewRegistry(
		anim.NewRand(seed), b.tickRate, b.sweepRate)
	a.coordinator = anim.NewCoordinator(a.registry)

	if b.iconCache != nil {
		a.coordinator.AttachIconCache(b.iconCache)
	}

	if b.recordingOn {
		outputPath := b.recorderPath
		if outputPath == "" {
			outputPath = "headings_run_" + a.id
		}

		a.dataRecorder = datarecording.NewDataRecorder(outputPath)
		a.registry.AcceptHook(
			datarecording.NewTickRecorder(a.dataRecorder))
	}

	if b.monitorOn {
		a.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			a.monitor.WithPortNumber(b.monitorPort)
		}
		a.monitor.RegisterRegistry(a.registry)
		a.monitor.RegisterCoordinator(a.coordinator)
		a.monitor.StartServer()
	}

	return a
}

// applyEnv loads a .env file when present and applies the recognized
// environment variables on top of the builder configuration.
func (b Builder) applyEnv() Builder {
	// A missing .env file is not an error; the environment still applies.
	_ = godotenv.Load()

	if v, ok := envInt("HEADINGS_TICK_PERIOD_MS"); ok {
		b.tickRate = anim.RateFromPeriod(
			time.Duration(v) * time.Millisecond)
	}

	if v, ok := envInt("HEADINGS_SWEEP_PERIOD_MS"); ok {
		b.sweepRate = anim.RateFromPeriod(
			time.Duration(v) * time.Millisecond)
	}

	if v, ok := envInt("HEADINGS_MONITOR_PORT"); ok {
		b.monitorPort = int(v)
	}

	if v, ok := envInt("HEADINGS_SEED"); ok {
		b.seed = v
		b.seedSet = true
	}

	if v := os.Getenv("HEADINGS_RECORDER_PATH"); v != "" {
		b.recordingOn = true
		b.recorderPath = v
	}

	return b
}

func envInt(key string) (int64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		panic("invalid value for " + key + ": " + raw)
	}

	return v, true
}
