package worker

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"codearena/internal/cache"
	"codearena/internal/model"
	"codearena/internal/registry"
	"codearena/internal/store"
)

const compileTimeout = 30 * time.Second
const executionGrace = 5 * time.Second

// Pipeline runs the full lifecycle of one job: workspace setup, optional
// compile, sandboxed run, result shaping, cache write-through, and
// cleanup. It mirrors the thirteen-step sequence the teacher's
// executor/executor.go + container_manager.go perform via Docker exec,
// reworked around an external launcher binary instead of the Docker API.
// Logged with logrus.Fields, the same library the teacher's executor
// subsystem uses, kept distinct from the zap logger the HTTP layer uses.
type Pipeline struct {
	sandbox *Sandbox
	cache   *cache.Cache
	log     *logrus.Logger
}

func NewPipeline(sandbox *Sandbox, c *cache.Cache, log *logrus.Logger) *Pipeline {
	return &Pipeline{sandbox: sandbox, cache: c, log: log}
}

// Run executes job and returns the shaped result ready for storage. It
// never returns an error for program-side failure (compile errors,
// nonzero exit, timeouts, output overflow) — those are represented in
// the returned model.Result. An error return means the pipeline itself
// could not run the job (workspace creation, missing registry record).
func (p *Pipeline) Run(ctx context.Context, job model.Job) (model.Result, error) {
	pickup := time.Now()

	record, ok := registry.Get(job.Language)
	if !ok {
		return model.Result{}, store.ErrNotFound
	}

	workspace, err := p.sandbox.newWorkspace(job.ID)
	if err != nil {
		return model.Result{}, err
	}
	defer p.sandbox.cleanup(workspace)

	srcPath := filepath.Join(workspace, record.SourceFilename)
	if err := os.WriteFile(srcPath, []byte(job.Code), 0o600); err != nil {
		return model.Result{}, err
	}

	env := baseEnv(record)

	if record.IsCompiled {
		compileArgv := substituteArgv(record.CompilerArgs, record)
		argv := append([]string{record.CompilerPath}, compileArgv...)

		compileCtx, cancel := context.WithTimeout(ctx, compileTimeout)
		res, err := runSupervised(compileCtx, argv, workspace, env, compileTimeout)
		cancel()
		if err != nil {
			return model.Result{}, err
		}
		if res.ExitCode != 0 {
			return model.Result{
				Stdout:          res.Stdout,
				Stderr:          filterLauncherNoise(res.Stderr, p.sandbox.launcherBin),
				ExitCode:        res.ExitCode,
				CompileError:    true,
				ExecutionTimeMs: time.Since(pickup).Milliseconds(),
			}, nil
		}
	}

	program := runArgv(record)
	configPath, err := p.sandbox.renderConfig(record.SandboxConfigTemplate, workspace)
	if err != nil {
		return model.Result{}, err
	}
	launcherArgv := p.sandbox.launcherArgv(configPath, program)

	wallTimeout := record.WallTimeout + executionGrace
	runCtx, cancel := context.WithTimeout(ctx, wallTimeout)
	res, err := runSupervised(runCtx, launcherArgv, workspace, env, wallTimeout)
	cancel()
	if err != nil {
		return model.Result{}, err
	}

	result := model.Result{
		Stdout:          res.Stdout,
		Stderr:          filterLauncherNoise(res.Stderr, p.sandbox.launcherBin),
		ExitCode:        res.ExitCode,
		ExecutionTimeMs: time.Since(pickup).Milliseconds(),
	}

	if p.cache != nil {
		fingerprint := cache.Fingerprint(job.Language, job.Code)
		if err := p.cache.Put(ctx, fingerprint, result); err != nil && p.log != nil {
			p.log.WithFields(logrus.Fields{"job_id": job.ID, "error": err}).Warn("cache write-through failed")
		}
	}

	return result, nil
}

// runArgv builds the program invocation the launcher wraps: the compiled
// artifact plus run args for compiled languages that produce one (RunPath
// empty), or the interpreter/runtime plus run args for interpreted
// languages (followed by the source filename) and Java, whose run step is
// itself an interpreter over compiled class files rather than a directly
// executable artifact.
func runArgv(r registry.Record) []string {
	if r.RunPath != "" {
		argv := make([]string, 0, 2+len(r.RunArgs))
		argv = append(argv, r.RunPath)
		argv = append(argv, r.RunArgs...)
		if !r.IsCompiled {
			argv = append(argv, r.SourceFilename)
		}
		return argv
	}
	return append([]string{"./main"}, r.RunArgs...)
}

func substituteArgv(args []string, r registry.Record) []string {
	out := make([]string, len(args))
	for i, a := range args {
		a = strings.ReplaceAll(a, "{{SRC}}", r.SourceFilename)
		a = strings.ReplaceAll(a, "{{BIN}}", "main")
		out[i] = a
	}
	return out
}

func baseEnv(r registry.Record) []string {
	env := []string{"PATH=/usr/bin:/bin:/usr/local/bin", "HOME=/tmp"}
	return append(env, r.Env...)
}

// filterLauncherNoise drops stderr lines the launcher binary itself emits
// (startup/seccomp/namespace diagnostics prefixed with its own name in
// brackets), generalizing sempr-hustoj-go/sandbox/main.go's convention of
// tagging its own log lines so callers can strip them from program
// stderr.
func filterLauncherNoise(stderr, launcherBin string) string {
	if stderr == "" {
		return stderr
	}
	prefix := "[" + launcherBin
	var kept []string
	scanner := bufio.NewScanner(strings.NewReader(stderr))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, prefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
