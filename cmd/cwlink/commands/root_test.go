package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haivivi/cwlink/pkg/cli"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args     []string
		wantPort int
		wantHost string
		wantOK   bool
	}{
		{[]string{"5000"}, 5000, "", true},
		{[]string{"5000", "10.0.0.2"}, 5000, "10.0.0.2", true},
		{[]string{"0"}, 0, "", true},
		{nil, 0, "", false},
		{[]string{"5000", "host", "extra"}, 0, "", false},
		{[]string{"port"}, 0, "", false},
		{[]string{"-1"}, 0, "", false},
		{[]string{"70000"}, 0, "", false},
	}
	for _, tt := range tests {
		port, host, ok := parseArgs(tt.args)
		if ok != tt.wantOK || port != tt.wantPort || host != tt.wantHost {
			t.Errorf("parseArgs(%q) = %d, %q, %v; want %d, %q, %v",
				tt.args, port, host, ok, tt.wantPort, tt.wantHost, tt.wantOK)
		}
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_BadArityPrintsUsage(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"5000", "host", "extra"},
		{"notaport"},
	} {
		_, stderr, err := execute(t, args...)
		if err != nil {
			t.Errorf("args %q: err = %v, want nil", args, err)
		}
		if strings.TrimSpace(stderr) != usage {
			t.Errorf("args %q: stderr = %q, want usage", args, stderr)
		}
	}
}

func TestConfigContext_SetUseListDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if _, _, err := execute(t, "--config", path, "config", "context", "set", "shack", "speed=20", "console=terminal"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "--config", path, "config", "context", "set", "field", "audio=null"); err != nil {
		t.Fatal(err)
	}

	cfg, err := cli.LoadConfigWithPath(appName, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "shack" {
		t.Errorf("current context = %q, want the first one created", cfg.CurrentContext)
	}
	shack, err := cfg.GetContext("shack")
	if err != nil {
		t.Fatal(err)
	}
	if shack.Speed != 20 || shack.Console != "terminal" {
		t.Errorf("shack = %+v", shack)
	}

	if _, _, err := execute(t, "--config", path, "config", "context", "use", "field"); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "--config", path, "config", "context", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"CURRENT", "shack", "20", "terminal", "*  ", "field", "null"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := execute(t, "--config", path, "config", "context", "delete", "field"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "--config", path, "config", "context", "use", "field"); err == nil {
		t.Error("use of deleted context succeeded")
	}
}

func TestConfigContext_SetRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	for _, pair := range []string{"speed=fast", "console=gui", "novalue"} {
		if _, _, err := execute(t, "--config", path, "config", "context", "set", "x", pair); err == nil {
			t.Errorf("set %q succeeded", pair)
		}
	}
}
