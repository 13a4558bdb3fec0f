package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RecommendedWorkers sizes the frame worker pool. A positive request is
// returned unchanged. Otherwise one worker per logical CPU is used, capped
// so that in-flight frame buffers stay within half of the available memory.
func RecommendedWorkers(requested int, frameBytes uint64) int {
	if requested > 0 {
		return requested
	}

	workers, err := cpu.Counts(true)
	if err != nil || workers <= 0 {
		workers = runtime.NumCPU()
	}

	if frameBytes == 0 {
		return workers
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return workers
	}
	return capByMemory(workers, frameBytes, vm.Available)
}

// capByMemory limits workers so that workers*frameBytes*BatchFactor fits in
// half of available.
func capByMemory(workers int, frameBytes, available uint64) int {
	perWorker := frameBytes * BatchFactor
	if perWorker == 0 {
		return workers
	}
	limit := int(available / 2 / perWorker)
	if limit < 1 {
		limit = 1
	}
	if workers > limit {
		return limit
	}
	return workers
}

// BatchFactor is the number of frames each worker may hold while a batch
// waits for in-order delivery to the encoder.
const BatchFactor = 4
