// Package monitoring turns a running animation into a small web server so
// that the per-entity state can be inspected and the lifecycle driven from
// outside the process.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/geoanim/headings/anim"
)

// Monitor exposes a registry and its lifecycle coordinator over HTTP.
type Monitor struct {
	registry    *anim.Registry
	coordinator *anim.Coordinator

	portNumber int
	actualPort int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRegistry registers the registry to be monitored.
func (m *Monitor) RegisterRegistry(r *anim.Registry) {
	m.registry = r
}

// RegisterCoordinator registers the lifecycle coordinator that the pause
// and resume endpoints drive.
func (m *Monitor) RegisterCoordinator(c *anim.Coordinator) {
	m.coordinator = c
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/resume", m.resume)
	r.HandleFunc("/api/validate", m.validate)
	r.HandleFunc("/api/entities", m.listEntities)
	r.HandleFunc("/api/active", m.listActive)
	r.HandleFunc("/api/animatable", m.listAnimatable)
	r.HandleFunc("/api/entity/{id}", m.entityStats)
	r.HandleFunc("/api/state/{id}", m.entityRawState)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	http.Handle("/", m.router())

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.actualPort = listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring animation with http://localhost:%d\n", m.actualPort)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

// Port returns the port the server listens on. Valid after StartServer.
func (m *Monitor) Port() int {
	return m.actualPort
}

// OpenDashboard opens the monitor address in the local browser.
func (m *Monitor) OpenDashboard() {
	err := browser.OpenURL(
		"http://localhost:" + strconv.Itoa(m.actualPort) + "/api/entities")
	dieOnErr(err)
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.coordinator.PauseAll()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) resume(w http.ResponseWriter, _ *http.Request) {
	m.coordinator.ForceResume()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) validate(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"consistent\":%t,\"paused\":%t}",
		m.coordinator.ValidateState(), m.coordinator.Paused())
}

func (m *Monitor) listEntities(w http.ResponseWriter, _ *http.Request) {
	m.writeIDList(w, m.registry.AllIDs())
}

func (m *Monitor) listActive(w http.ResponseWriter, _ *http.Request) {
	m.writeIDList(w, m.registry.ActiveIDs())
}

func (m *Monitor) listAnimatable(w http.ResponseWriter, _ *http.Request) {
	m.writeIDList(w, m.registry.AnimatableIDs())
}

func (*Monitor) writeIDList(w http.ResponseWriter, ids []string) {
	sort.Strings(ids)

	bytes, err := json.Marshal(ids)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) entityStats(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	stats := m.registry.Stats(id)
	if len(stats) == 0 {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "entity %s does not exist\n", id)
		return
	}

	bytes, err := json.Marshal(stats)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) entityRawState(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state := m.registry.EntityState(id)
	if state == nil {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "entity %s does not exist\n", id)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(state)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
