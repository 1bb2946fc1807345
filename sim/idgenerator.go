package sim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	idGeneratorMutex sync.Mutex
	idGenerator      IDGenerator
)

// IDGenerator can generate IDs. Runs and recorded tables are named with them.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// GetIDGenerator returns the sequential ID generator shared by the current
// process.
func GetIDGenerator() IDGenerator {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGenerator == nil {
		idGenerator = &sequentialIDGenerator{}
	}

	return idGenerator
}

// NewSequentialIDGenerator returns a private sequential generator that does not
// affect the process-wide one.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type parallelIDGenerator struct {
}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}

// NewParallelIDGenerator returns a private generator of globally unique IDs.
func NewParallelIDGenerator() IDGenerator {
	return parallelIDGenerator{}
}
