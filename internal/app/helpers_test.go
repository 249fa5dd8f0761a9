package app

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/vk/tamigo/internal/hcl"
	"github.com/vk/tamigo/internal/testutil"
)

// setupAppTest creates an app over a project written from files, feeding
// input to the console. It returns the player output and the log buffer.
func setupAppTest(t *testing.T, files map[string]string, cfg Config, input string) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.ProjectPath = testutil.WriteProject(t, files)
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	testApp := NewApp(out, logs, strings.NewReader(input), appConfig, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("TAMI_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return testApp, out, logs
}
