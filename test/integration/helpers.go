//go:build integration

// Package integration exercises the built dataverse binary against a live
// Dataverse environment. Tests are skipped unless credentials are present
// in the environment.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	DataverseURL string
	ClientID     string
	ClientSecret string
	TenantID     string
	BinaryPath   string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		DataverseURL: os.Getenv("DATAVERSE_URL"),
		ClientID:     os.Getenv("DATAVERSE_CLIENT_ID"),
		ClientSecret: os.Getenv("DATAVERSE_CLIENT_SECRET"),
		TenantID:     os.Getenv("DATAVERSE_TENANT_ID"),
		BinaryPath:   binaryPath(),
		Verbose:      os.Getenv("DATAVERSE_VERBOSE") == "true",
	}
}

// binaryPath determines the path to the dataverse binary
func binaryPath() string {
	if path := os.Getenv("DATAVERSE_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../dataverse",
		"./dataverse",
		"../dataverse",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "dataverse" // Fallback to PATH
}

// SkipIfMissingConfig skips the test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.DataverseURL == "" || config.ClientID == "" ||
		config.ClientSecret == "" || config.TenantID == "" {
		t.Skip("Dataverse credentials not set, skipping integration test")
	}

	if _, err := os.Stat(config.BinaryPath); os.IsNotExist(err) {
		t.Skipf("dataverse binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner provides utilities for running dataverse commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{config: config, t: t}
}

// Run executes the dataverse binary with the given arguments
func (r *CommandRunner) Run(args ...string) (string, string, error) {
	r.t.Helper()

	cmd := exec.Command(r.config.BinaryPath, args...)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.config.Verbose {
		r.t.Logf("running: dataverse %v", args)
	}

	start := time.Now()
	err := cmd.Run()

	if r.config.Verbose {
		r.t.Logf("finished in %v: stdout=%q stderr=%q", time.Since(start), stdout.String(), stderr.String())
	}

	return stdout.String(), stderr.String(), err
}

// AssertJSONOutput fails the test when output is not valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	var decoded interface{}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("expected valid JSON output, got: %s", output)
	}
}
