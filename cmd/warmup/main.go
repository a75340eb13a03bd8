// warmup pre-touches the Go runtime's scheduler and heap before the
// server starts taking traffic, the same idea as the teacher's
// warmup.go: a cold GOMAXPROCS/GC state makes the first few submissions
// visibly slower than steady state, so a short synthetic burst ahead of
// the real listener absorbs that cost.
package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

func main() {
	start := time.Now()

	procs := runtime.GOMAXPROCS(0)
	fmt.Printf("warmup: GOMAXPROCS=%d\n", procs)

	var wg sync.WaitGroup
	for i := 0; i < procs*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			burn := make([][]byte, 0, 64)
			for j := 0; j < 64; j++ {
				burn = append(burn, make([]byte, 1<<16))
			}
			_ = burn
		}()
	}
	wg.Wait()

	debug.FreeOSMemory()
	runtime.GC()

	fmt.Printf("warmup: done in %s\n", time.Since(start))
}
