// Package logging builds the process zap.Logger, optionally teeing
// entries to Better Stack over HTTP. Adapted from the teacher's
// logger/zap_betterstack.go BetterStackLogStreamer: same buffered,
// best-effort HTTP shipping, generalized to a zapcore.WriteSyncer so it
// composes with zapcore.NewTee instead of wrapping zap.Logger calls by
// hand.
package logging

import (
	"bytes"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. In "production" environment it emits
// JSON at info level to stdout; otherwise a human-readable console
// encoder at debug level, matching the teacher's environment-gated
// verbosity. When uploadURL and sourceToken are both set, entries are
// additionally shipped to Better Stack.
func New(environment, uploadURL, sourceToken string) (*zap.Logger, error) {
	level := zapcore.DebugLevel
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	if environment == "production" {
		level = zapcore.InfoLevel
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if uploadURL != "" && sourceToken != "" {
		sink := newBetterStackSink(uploadURL, sourceToken)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// NewWorkerLogger builds the logrus logger for the worker/execution
// subsystem, mirroring the teacher's executor package: JSON output and
// info level in production, a human-readable text formatter at debug
// level otherwise.
func NewWorkerLogger(environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// betterStackSink queues encoded log entries and ships them to Better
// Stack's HTTP ingest endpoint from a single background goroutine, so a
// slow or unreachable collector never blocks the logging call site.
type betterStackSink struct {
	url    string
	token  string
	client *http.Client
	lines  chan []byte
}

func newBetterStackSink(url, token string) *betterStackSink {
	s := &betterStackSink{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
		lines:  make(chan []byte, 1024),
	}
	go s.run()
	return s
}

func (s *betterStackSink) run() {
	for line := range s.lines {
		req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(line))
		if err != nil {
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.token)
		resp, err := s.client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
	}
}

// Write implements zapcore.WriteSyncer. A full buffer drops the entry
// rather than blocking the caller — remote log shipping is best-effort.
func (s *betterStackSink) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case s.lines <- line:
	default:
	}
	return len(p), nil
}

func (s *betterStackSink) Sync() error { return nil }
