package cmd

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/geoanim/headings/anim"
	"github.com/geoanim/headings/animation"
)

var runFlags = struct {
	markers     int
	duration    time.Duration
	seed        int64
	monitorPort int
	noMonitor   bool
	record      bool
	openBrowser bool
	verbose     bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo animation with a fleet of markers",
	Run: func(_ *cobra.Command, _ []string) {
		runAnimation()
	},
}

func init() {
	runCmd.Flags().IntVar(&runFlags.markers, "markers", 20,
		"number of markers to register")
	runCmd.Flags().DurationVar(&runFlags.duration, "duration",
		30*time.Second, "how long to animate before cleaning up")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 0,
		"seed for the random source, 0 picks one from the clock")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port of the monitoring server, 0 picks a random port")
	runCmd.Flags().BoolVar(&runFlags.noMonitor, "no-monitor", false,
		"disable the monitoring server")
	runCmd.Flags().BoolVar(&runFlags.record, "record", false,
		"record every processed tick into an SQLite database")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open", false,
		"open the monitor in the local browser")
	runCmd.Flags().BoolVar(&runFlags.verbose, "verbose", false,
		"log every processed tick")

	rootCmd.AddCommand(runCmd)
}

// demoIconCache stands in for the rendering layer's icon cache.
type demoIconCache struct{}

func (demoIconCache) ClearCache() {
	fmt.Fprintln(os.Stderr, "icon cache cleared")
}

func runAnimation() {
	builder := animation.MakeBuilder().WithIconCache(demoIconCache{})

	if runFlags.seed != 0 {
		builder = builder.WithSeed(runFlags.seed)
	}
	if runFlags.noMonitor {
		builder = builder.WithoutMonitoring()
	} else if runFlags.monitorPort != 0 {
		builder = builder.WithMonitorPort(runFlags.monitorPort)
	}
	if runFlags.record {
		builder = builder.WithRecording()
	}

	a := builder.Build()

	if runFlags.verbose {
		a.Registry().AcceptHook(anim.NewTickLogger(
			log.New(os.Stderr, "", 0)))
	}

	var updates atomic.Int64
	onTick := func() { updates.Add(1) }

	for i := 0; i < runFlags.markers; i++ {
		id := fmt.Sprintf("marker-%d", i)
		a.Registry().Register(id)
		a.Registry().StartTicking(id, onTick)
	}

	if runFlags.openBrowser && a.Monitor() != nil {
		a.Monitor().OpenDashboard()
	}

	time.Sleep(runFlags.duration)

	for _, id := range a.Registry().AllIDs() {
		stats := a.Registry().Stats(id)
		fmt.Printf("%s: angle %s -> %s, speed %s, ticks %s\n",
			id, stats["currentAngle"], stats["targetAngle"],
			stats["animationSpeed"], stats["tickCount"])
	}
	fmt.Printf("%d marker updates in %s\n",
		updates.Load(), runFlags.duration)

	if err := a.Cleanup(); err != nil {
		fmt.Fprintf(os.Stderr, "cleanup failed: %s\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
