package worker

import (
	"context"
	"testing"
	"time"
)

func TestRunSupervisedCapturesStdout(t *testing.T) {
	res, err := runSupervised(context.Background(), []string{"/bin/echo", "hello"}, "", nil, time.Second)
	if err != nil {
		t.Fatalf("runSupervised: %v", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Killed != killNone {
		t.Errorf("Killed = %v, want killNone", res.Killed)
	}
}

func TestRunSupervisedNonZeroExit(t *testing.T) {
	res, err := runSupervised(context.Background(), []string{"/bin/sh", "-c", "exit 7"}, "", nil, time.Second)
	if err != nil {
		t.Fatalf("runSupervised: %v", err)
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
}

func TestRunSupervisedTimeoutKillsProcess(t *testing.T) {
	res, err := runSupervised(context.Background(), []string{"/bin/sleep", "5"}, "", nil, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("runSupervised: %v", err)
	}
	if res.Killed != killTimeout {
		t.Errorf("Killed = %v, want killTimeout", res.Killed)
	}
	if res.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", res.ExitCode)
	}
	if res.Stderr != timeoutMessage {
		t.Errorf("Stderr = %q, want %q", res.Stderr, timeoutMessage)
	}
}

func TestRunSupervisedOutputCapKillsProcess(t *testing.T) {
	// Write far more than the 64KiB cap as fast as possible.
	res, err := runSupervised(context.Background(), []string{"/bin/sh", "-c", "yes | head -c 10000000"}, "", nil, 5*time.Second)
	if err != nil {
		t.Fatalf("runSupervised: %v", err)
	}
	if res.Killed != killOutput {
		t.Errorf("Killed = %v, want killOutput", res.Killed)
	}
	if res.Stderr != outputMessage {
		t.Errorf("Stderr = %q, want %q", res.Stderr, outputMessage)
	}
}
