package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Counter renders a single-line running count for scans whose total is not
// known up front.
type Counter struct {
	writer     io.Writer
	mu         sync.Mutex
	files      int
	current    string
	enabled    bool
	lastUpdate time.Time
}

func New() *Counter {
	return &Counter{
		writer:  os.Stdout,
		enabled: true,
	}
}

// Update records the running file count and the directory being visited.
func (c *Counter) Update(files int, current string) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = files
	c.current = filepath.Base(filepath.Dir(current))

	// Render at most every 100ms to reduce flickering
	now := time.Now()
	if now.Sub(c.lastUpdate) > 100*time.Millisecond {
		c.lastUpdate = now
		c.render()
	}
}

// render must be called with mu already locked
func (c *Counter) render() {
	fmt.Fprintf(c.writer, "\r\033[KScanning... %d files | %s", c.files, c.current)
}

func (c *Counter) Finish() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\r\033[K")
}
