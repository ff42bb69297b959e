//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// TestServerStartStop tests the server start and graceful shutdown
func TestServerStartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()

	configFile := filepath.Join(tmpDir, "config.yaml")
	writeTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18090"

history:
  backend: "memory"

cache:
  enabled: false
`)

	binaryPath := buildRelayBinary(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, "run", "--config", configFile)
	cmd.Dir = tmpDir
	cmd.Env = hermeticEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	if !waitForHealthy("http://127.0.0.1:18090/healthz", 10*time.Second) {
		t.Fatalf("server failed to start\nStdout: %s\nStderr: %s", stdout.String(), stderr.String())
	}

	// Provider info should answer even with nothing registered
	resp, err := http.Get("http://127.0.0.1:18090/api/ai/providers")
	if err != nil {
		t.Fatalf("providers request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("providers status = %d, want 200", resp.StatusCode)
	}

	// Graceful shutdown on SIGINT: the run command handles the signal
	// and exits cleanly.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Errorf("failed to send SIGINT: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got: %v\nStdout: %s\nStderr: %s",
				err, stdout.String(), stderr.String())
		}
		if !bytes.Contains(stdout.Bytes(), []byte("Server stopped")) {
			t.Errorf("shutdown message missing from output: %s", stdout.String())
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not shut down within 5 seconds")
	}
}

// TestDryRunValidation tests config validation with --dry-run
func TestDryRunValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	binaryPath := buildRelayBinary(t)

	t.Run("valid config", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "valid-config.yaml")
		writeTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18091"
`)

		cmd := exec.Command(binaryPath, "run", "--config", configFile, "--dry-run")
		cmd.Dir = tmpDir
		cmd.Env = hermeticEnv()

		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Errorf("dry-run should succeed with valid config: %v\nOutput: %s", err, output)
		}
		if !bytes.Contains(output, []byte("Configuration valid")) {
			t.Errorf("expected confirmation in output, got: %s", output)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "invalid-config.yaml")
		writeTestConfig(t, configFile, `
logging:
  level: "loud"
`)

		cmd := exec.Command(binaryPath, "run", "--config", configFile, "--dry-run")
		cmd.Env = hermeticEnv()

		output, err := cmd.CombinedOutput()
		if err == nil {
			t.Fatalf("dry-run should fail with invalid config\nOutput: %s", output)
		}
		// Configuration errors exit with code 2
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("expected exit error, got: %v", err)
		}
		if exitErr.ExitCode() != 2 {
			t.Errorf("exit code = %d, want 2\nOutput: %s", exitErr.ExitCode(), output)
		}
	})
}

// TestValidateCommand tests the standalone validate command
func TestValidateCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	binaryPath := buildRelayBinary(t)

	t.Run("valid config", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "config.yaml")
		writeTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18092"
`)

		cmd := exec.Command(binaryPath, "validate", "--config", configFile)
		cmd.Env = hermeticEnv()

		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("validate failed: %v\nOutput: %s", err, output)
		}
		if !bytes.Contains(output, []byte("Configuration valid")) {
			t.Errorf("expected confirmation, got: %s", output)
		}
	})

	t.Run("invalid config reports fields", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "bad-config.yaml")
		writeTestConfig(t, configFile, `
logging:
  level: "loud"
quota:
  enabled: true
  daily_limit: -5
`)

		cmd := exec.Command(binaryPath, "validate", "--config", configFile)
		cmd.Env = hermeticEnv()

		output, err := cmd.CombinedOutput()
		if err == nil {
			t.Fatalf("validate should fail\nOutput: %s", output)
		}
		if !bytes.Contains(output, []byte("logging.level")) {
			t.Errorf("expected field path in output, got: %s", output)
		}
	})
}

// TestProvidersCommandJSON tests machine-readable provider listing
func TestProvidersCommandJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	writeTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18093"
`)

	binaryPath := buildRelayBinary(t)

	cmd := exec.Command(binaryPath, "providers", "--config", configFile, "--output", "json")
	cmd.Env = hermeticEnv()

	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("providers command failed: %v", err)
	}

	var rows []struct {
		Name       string `json:"name"`
		Registered bool   `json:"registered"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal(output, &rows); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	if len(rows) != 5 {
		t.Fatalf("expected 5 backends, got %d", len(rows))
	}

	// Without keys only the local backend registers
	for _, row := range rows {
		if row.Name == "ollama" {
			if !row.Registered {
				t.Error("ollama should register without an API key")
			}
		} else if row.Registered {
			t.Errorf("%s should not register without an API key", row.Name)
		}
	}
}

// TestCommandVersionOutput tests the version command
func TestCommandVersionOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildRelayBinary(t)

	cmd := exec.Command(binaryPath, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	if !bytes.Contains(output, []byte("Relay")) {
		t.Errorf("version output should contain 'Relay', got: %s", output)
	}
}

// Helper functions

// buildRelayBinary builds the relay binary for testing
func buildRelayBinary(t *testing.T) string {
	t.Helper()

	binaryPath := "../bin/relay"
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	t.Log("Building relay binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/relay")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build relay: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

// hermeticEnv strips the provider key variables so the host environment
// cannot register backends the tests do not expect.
func hermeticEnv() []string {
	env := os.Environ()
	for _, key := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "GROQ_API_KEY",
		"DEFAULT_AI_PROVIDER", "REDIS_URL", "CACHE_ENABLED",
	} {
		env = append(env, key+"=")
	}
	return env
}

// waitForHealthy waits for a health endpoint to return 200
func waitForHealthy(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// writeTestConfig creates a test configuration file
func writeTestConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}
}
