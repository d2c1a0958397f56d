package runtime

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/mem"
)

// parseHeap reads JVM sizes ("512m", "2g", "1048576"); letter suffixes are binary units.
func parseHeap(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty heap size")
	}
	switch s[len(s)-1] {
	case 'k', 'K', 'm', 'M', 'g', 'G', 't', 'T':
		s += "iB"
	}
	return humanize.ParseBytes(s)
}

// checkHeap warns when the requested heap is larger than what the host can currently offer.
func (r *JavaRunner) checkHeap() {
	if r.heapBytes == 0 {
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		r.log.Debug("Could not read host memory", "error", err)
		return
	}
	if r.heapBytes > vm.Available {
		r.log.Warn("Requested JVM heap exceeds available memory",
			"heap", humanize.IBytes(r.heapBytes),
			"available", humanize.IBytes(vm.Available))
	}
}
