// jobsclean walks the sandbox jobs root and removes workspace directories
// left behind by a worker that crashed before its cleanup step ran.
// Adapted from the teacher's dockerkill.go, which swept orphaned
// containers the same way after a crash; here the leftover is a
// directory instead of a container, so the sweep is a stat+age check
// plus os.RemoveAll instead of a Docker API call.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codearena/internal/config"
)

// maxAge is how long a workspace directory may exist before it is
// considered orphaned rather than in-flight. A healthy job finishes well
// within its wall-clock timeout plus grace, so anything older than this
// was abandoned by a crashed worker.
const maxAge = 10 * time.Minute

func main() {
	cfg := config.Load()

	entries, err := os.ReadDir(cfg.SandboxJobs)
	if err != nil {
		fmt.Printf("jobsclean: could not read %s: %v\n", cfg.SandboxJobs, err)
		os.Exit(1)
	}

	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(cfg.SandboxJobs, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			fmt.Printf("jobsclean: failed to remove %s: %v\n", path, err)
			continue
		}
		removed++
	}

	fmt.Printf("jobsclean: removed %d stale workspace(s) under %s\n", removed, cfg.SandboxJobs)
}
