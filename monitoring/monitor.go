// Package monitoring turns paging models into an HTTP server so that they can
// be inspected and driven while the process is alive.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/pagingsim/mem/vm"
	"github.com/sarchlab/pagingsim/sim"
)

type monitoredModel struct {
	sync.Mutex
	name  string
	model *vm.Model
}

// modelState is the snapshot of a model served to clients.
type modelState struct {
	Name           string
	Config         vm.Config
	NumPages       uint64
	NumFrames      uint64
	PageTableSize  uint64
	AllocatedPages uint64
}

// Monitor can turn a simulation into a server and allows external monitoring
// and controlling of its models.
type Monitor struct {
	portNumber      int
	profileDuration time.Duration

	modelsLock sync.Mutex
	models     []*monitoredModel

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterModel registers a model to be monitored under a name. Names must be
// unique.
func (m *Monitor) RegisterModel(name string, model *vm.Model) {
	m.modelsLock.Lock()
	defer m.modelsLock.Unlock()

	for _, mm := range m.models {
		if mm.name == name {
			log.Panicf("model %s is already registered", name)
		}
	}

	m.models = append(m.models, &monitoredModel{name: name, model: model})
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the handler that serves the monitoring API.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_models", m.listModels).Methods(http.MethodGet)
	r.HandleFunc("/api/model/{name}", m.modelDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/model/{name}/page_table", m.pageTable).
		Methods(http.MethodGet)
	r.HandleFunc("/api/model/{name}/translate/{addr}", m.translate).
		Methods(http.MethodGet)
	r.HandleFunc("/api/model/{name}/allocate", m.allocate).
		Methods(http.MethodPost)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() (int, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return 0, err
	}

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return port, nil
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) listModels(w http.ResponseWriter, _ *http.Request) {
	m.modelsLock.Lock()
	names := make([]string, 0, len(m.models))
	for _, mm := range m.models {
		names = append(names, mm.name)
	}
	m.modelsLock.Unlock()

	writeJSON(w, names)
}

func (m *Monitor) modelDetails(w http.ResponseWriter, r *http.Request) {
	mm := m.findModelOr404(w, mux.Vars(r)["name"])
	if mm == nil {
		return
	}

	mm.Lock()
	state := &modelState{
		Name:           mm.name,
		Config:         mm.model.Config(),
		NumPages:       mm.model.NumPages(),
		NumFrames:      mm.model.NumFrames(),
		PageTableSize:  mm.model.CalculatePageTableSize(),
		AllocatedPages: mm.model.NumAllocatedPages(),
	}
	mm.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(state)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) pageTable(w http.ResponseWriter, r *http.Request) {
	mm := m.findModelOr404(w, mux.Vars(r)["name"])
	if mm == nil {
		return
	}

	mm.Lock()
	entries := mm.model.PageTable()
	mm.Unlock()

	frames := make([]*uint64, len(entries))
	for i, e := range entries {
		if e.Valid {
			frame := e.Frame
			frames[i] = &frame
		}
	}

	writeJSON(w, frames)
}

type translationRsp struct {
	VirtualAddress  uint64  `json:"virtual_address"`
	Page            uint64  `json:"page"`
	Offset          uint64  `json:"offset"`
	Result          string  `json:"result"`
	Reason          string  `json:"reason,omitempty"`
	PhysicalAddress *uint64 `json:"physical_address,omitempty"`
}

func (m *Monitor) translate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	vAddr, err := strconv.ParseUint(vars["addr"], 0, 64)
	if err != nil {
		http.Error(w, "Invalid address: "+vars["addr"], http.StatusBadRequest)
		return
	}

	mm := m.findModelOr404(w, vars["name"])
	if mm == nil {
		return
	}

	mm.Lock()
	t := mm.model.TranslateAddress(vAddr)
	mm.Unlock()

	rsp := translationRsp{
		VirtualAddress: t.VAddr,
		Page:           t.Page,
		Offset:         t.Offset,
		Result:         t.Kind.String(),
	}

	if pAddr, ok := t.PhysicalAddress(); ok {
		rsp.PhysicalAddress = &pAddr
	} else {
		rsp.Reason = t.Reason.String()
	}

	writeJSON(w, rsp)
}

type allocateRsp struct {
	AllocatedPages uint64 `json:"allocated_pages"`
	NumPages       uint64 `json:"num_pages"`
}

func (m *Monitor) allocate(w http.ResponseWriter, r *http.Request) {
	mm := m.findModelOr404(w, mux.Vars(r)["name"])
	if mm == nil {
		return
	}

	mm.Lock()
	mm.model.AllocatePages()
	rsp := allocateRsp{
		AllocatedPages: mm.model.NumAllocatedPages(),
		NumPages:       mm.model.NumPages(),
	}
	mm.Unlock()

	writeJSON(w, rsp)
}

func (m *Monitor) findModelOr404(
	w http.ResponseWriter,
	name string,
) *monitoredModel {
	m.modelsLock.Lock()
	defer m.modelsLock.Unlock()

	for _, mm := range m.models {
		if mm.name == name {
			return mm
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Model not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	states := make([]progressBarState, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		states = append(states, b.state())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, states)
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

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
