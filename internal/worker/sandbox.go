package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sandbox owns the on-disk pieces a job needs outside of the process
// itself: a private workspace directory and a rendered launcher config.
// Grounded on sempr-hustoj-go/judged/fetcher.go's per-submission workspace
// directory and sandbox/main.go's templated launcher config file.
type Sandbox struct {
	configDir   string
	launcherBin string
	jobsRoot    string
}

func NewSandbox(configDir, launcherBin, jobsRoot string) *Sandbox {
	return &Sandbox{configDir: configDir, launcherBin: launcherBin, jobsRoot: jobsRoot}
}

// newWorkspace creates a fresh, exclusive per-job directory. O_EXCL-style
// exclusivity comes from Mkdir itself returning an error if the job id
// directory already exists, which should never happen given jobid's
// random ids.
func (s *Sandbox) newWorkspace(jobID string) (string, error) {
	path := filepath.Join(s.jobsRoot, jobID)
	if err := os.Mkdir(path, 0o700); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return path, nil
}

func (s *Sandbox) cleanup(workspace string) {
	_ = os.RemoveAll(workspace)
}

// renderConfig substitutes {{WORKSPACE}} into the language's launcher
// config template and writes the result inside the workspace so the
// launcher binary can be pointed at a plain file path.
func (s *Sandbox) renderConfig(templateName, workspace string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(s.configDir, templateName))
	if err != nil {
		return "", fmt.Errorf("read sandbox template: %w", err)
	}
	rendered := strings.ReplaceAll(string(raw), "{{WORKSPACE}}", workspace)

	out := filepath.Join(workspace, "sandbox.cfg")
	if err := os.WriteFile(out, []byte(rendered), 0o600); err != nil {
		return "", fmt.Errorf("write sandbox config: %w", err)
	}
	return out, nil
}

// launcherArgv builds the argv for invoking the sandbox launcher binary
// around a program invocation, per spec.md §4.6's launcher contract:
// <launcher> --config <rendered> -- <program...>.
func (s *Sandbox) launcherArgv(configPath string, program []string) []string {
	argv := make([]string, 0, 4+len(program))
	argv = append(argv, s.launcherBin, "--config", configPath, "--")
	argv = append(argv, program...)
	return argv
}
