// Package registry holds the static catalog of supported languages and
// their per-language execution parameters, the same shape as the teacher's
// executor/config.go languageConfigs map, generalized from Docker-exec
// argument vectors to compiler/runtime argument vectors plus a sandbox
// config template.
package registry

import "time"

// Record describes how to compile (optionally) and run one language inside
// the sandbox.
type Record struct {
	ID          string
	DisplayName string
	Extension   string

	// SourceFilename is the name the source must be written under inside
	// the workspace. Some languages mandate a fixed name (e.g. Main.java).
	SourceFilename string

	IsCompiled bool

	// CompilerPath/CompilerArgs build the compile argv. {{SRC}} and
	// {{BIN}} are substituted with the workspace-relative source and
	// artifact names.
	CompilerPath string
	CompilerArgs []string

	// RunPath/RunArgs build the run argv for an interpreted language, or
	// the extra run args appended after the compiled artifact path.
	RunPath string
	RunArgs []string

	WallTimeout  time.Duration
	MemoryBytes  int64
	ProcessCap   int

	// SandboxConfigTemplate is a filename (relative to SANDBOX_CONFIG_DIR)
	// containing the {{WORKSPACE}} token.
	SandboxConfigTemplate string

	// Env holds extra environment variables the worker should set when
	// invoking the compiler/runtime for this language, on top of the
	// worker's own environment.
	Env []string
}

// PublicRecord is the subset exposed by the list-languages endpoint: id,
// display name, extension, compiled flag, wall timeout and memory cap.
// Host paths, argument templates, source filename, process cap, sandbox
// template and extra environment are not exposed.
type PublicRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Extension   string `json:"extension"`
	IsCompiled  bool   `json:"is_compiled"`
	WallTimeoutMs int64 `json:"wall_timeout_ms"`
	MemoryBytes   int64 `json:"memory_bytes"`
}

var records = map[string]Record{
	"python": {
		ID:                    "python",
		DisplayName:           "Python 3",
		Extension:             "py",
		SourceFilename:        "main.py",
		IsCompiled:            false,
		RunPath:               "/usr/bin/python3",
		RunArgs:               nil,
		WallTimeout:           5 * time.Second,
		MemoryBytes:           256 << 20,
		ProcessCap:            16,
		SandboxConfigTemplate: "python.cfg.tmpl",
	},
	"javascript": {
		ID:                    "javascript",
		DisplayName:           "JavaScript (Node.js)",
		Extension:             "js",
		SourceFilename:        "main.js",
		IsCompiled:            false,
		RunPath:               "/usr/bin/node",
		RunArgs:               nil,
		WallTimeout:           5 * time.Second,
		MemoryBytes:           256 << 20,
		ProcessCap:            16,
		SandboxConfigTemplate: "javascript.cfg.tmpl",
	},
	"go": {
		ID:                    "go",
		DisplayName:           "Go",
		Extension:             "go",
		SourceFilename:        "main.go",
		IsCompiled:            true,
		CompilerPath:          "/usr/local/go/bin/go",
		CompilerArgs:          []string{"build", "-o", "main", "main.go"},
		RunPath:               "",
		RunArgs:               nil,
		WallTimeout:           10 * time.Second,
		MemoryBytes:           512 << 20,
		ProcessCap:            16,
		SandboxConfigTemplate: "go.cfg.tmpl",
	},
	"c": {
		ID:                    "c",
		DisplayName:           "C (gcc)",
		Extension:             "c",
		SourceFilename:        "main.c",
		IsCompiled:            true,
		CompilerPath:          "/usr/bin/gcc",
		CompilerArgs:          []string{"-O2", "-o", "main", "main.c"},
		RunPath:               "",
		RunArgs:               nil,
		WallTimeout:           5 * time.Second,
		MemoryBytes:           256 << 20,
		ProcessCap:            8,
		SandboxConfigTemplate: "c.cfg.tmpl",
	},
	"cpp": {
		ID:                    "cpp",
		DisplayName:           "C++ (g++)",
		Extension:             "cpp",
		SourceFilename:        "main.cpp",
		IsCompiled:            true,
		CompilerPath:          "/usr/bin/g++",
		CompilerArgs:          []string{"-O2", "-std=c++17", "-o", "main", "main.cpp"},
		RunPath:               "",
		RunArgs:               nil,
		WallTimeout:           5 * time.Second,
		MemoryBytes:           256 << 20,
		ProcessCap:            8,
		SandboxConfigTemplate: "cpp.cfg.tmpl",
	},
	"java": {
		ID:                    "java",
		DisplayName:           "Java",
		Extension:             "java",
		SourceFilename:        "Main.java",
		IsCompiled:            true,
		CompilerPath:          "/usr/bin/javac",
		CompilerArgs:          []string{"Main.java"},
		RunPath:               "/usr/bin/java",
		RunArgs:               []string{"-cp", ".", "Main"},
		WallTimeout:           10 * time.Second,
		MemoryBytes:           512 << 20,
		ProcessCap:            32,
		SandboxConfigTemplate: "java.cfg.tmpl",
	},
}

// Has reports whether a language id is in the registry.
func Has(id string) bool {
	_, ok := records[id]
	return ok
}

// Get returns the record for a language id.
func Get(id string) (Record, bool) {
	r, ok := records[id]
	return r, ok
}

// PublicView strips internal paths/templates for the list-languages
// endpoint.
func PublicView() map[string]PublicRecord {
	out := make(map[string]PublicRecord, len(records))
	for id, r := range records {
		out[id] = PublicRecord{
			ID:            r.ID,
			DisplayName:   r.DisplayName,
			Extension:     r.Extension,
			IsCompiled:    r.IsCompiled,
			WallTimeoutMs: r.WallTimeout.Milliseconds(),
			MemoryBytes:   r.MemoryBytes,
		}
	}
	return out
}
