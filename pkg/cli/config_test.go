package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func loadTemp(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfigWithPath("cwlink", filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	return cfg
}

func TestContext_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(*Context) bool
		wantErr bool
	}{
		{"speed", "20", func(c *Context) bool { return c.Speed == 20 }, false},
		{"speed", "fast", nil, true},
		{"frequency", "700", func(c *Context) bool { return c.Frequency == 700 }, false},
		{"sidetone_prime", "2", func(c *Context) bool { return c.SidetonePrime == 2 }, false},
		{"console", "terminal", func(c *Context) bool { return c.Console == "terminal" }, false},
		{"console", "none", func(c *Context) bool { return c.Console == "none" }, false},
		{"console", "gui", nil, true},
		{"audio", "null", func(c *Context) bool { return c.Audio == "null" }, false},
		{"audio", "alsa", nil, true},
		{"input_device", "USB", func(c *Context) bool { return c.InputDevice == "USB" }, false},
		{"output_device", "2", func(c *Context) bool { return c.OutputDevice == "2" }, false},
		{"monitor", ":8080", func(c *Context) bool { return c.Monitor == ":8080" }, false},
		{"record", "peer.wav", func(c *Context) bool { return c.Record == "peer.wav" }, false},
		{"callsign", "N0CALL", func(c *Context) bool { return c.GetExtra("callsign") == "N0CALL" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			ctx := &Context{}
			err := ctx.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(ctx) {
				t.Errorf("Set(%q, %q) left %+v", tt.key, tt.value, ctx)
			}
		})
	}
}

func TestContextKeys_AllSettable(t *testing.T) {
	for _, key := range ContextKeys {
		ctx := &Context{}
		value := "1"
		switch key {
		case "console":
			value = "window"
		case "audio":
			value = "portaudio"
		}
		if err := ctx.Set(key, value); err != nil {
			t.Errorf("Set(%q) error: %v", key, err)
		}
		if ctx.Extra != nil {
			t.Errorf("known key %q went to Extra", key)
		}
	}
}

func TestContext_GetExtra_NilMap(t *testing.T) {
	ctx := &Context{Name: "test"}
	if got := ctx.GetExtra("key"); got != "" {
		t.Errorf("GetExtra on nil map = %q, want empty string", got)
	}
}

func TestLoadConfigWithPath_NewConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cwlink", "config.yaml")

	cfg, err := LoadConfigWithPath("cwlink", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	if cfg.AppName != "cwlink" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "cwlink")
	}
	if cfg.Contexts == nil {
		t.Error("Contexts should be initialized")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file should be created")
	}
	if cfg.Path() != configPath {
		t.Errorf("Path = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoadConfigWithPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("contexts: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigWithPath("cwlink", path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_UseAndDeleteContext(t *testing.T) {
	cfg := loadTemp(t)

	if err := cfg.UseContext("missing"); err == nil {
		t.Error("UseContext on missing context should fail")
	}
	if err := cfg.AddContext("home", &Context{Speed: 18}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("home"); err != nil {
		t.Fatal(err)
	}
	ctx, err := cfg.GetCurrentContext()
	if err != nil || ctx.Name != "home" || ctx.Speed != 18 {
		t.Fatalf("GetCurrentContext = %+v, %v", ctx, err)
	}

	if err := cfg.DeleteContext("home"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after delete", cfg.CurrentContext)
	}
	if err := cfg.DeleteContext("home"); err == nil {
		t.Error("DeleteContext twice should fail")
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	cfg := loadTemp(t)

	ctx, err := cfg.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext with nothing set: %v", err)
	}
	if ctx.Speed != 0 || ctx.Name != "" {
		t.Errorf("empty resolve = %+v", ctx)
	}

	cfg.AddContext("a", &Context{Speed: 10})
	cfg.AddContext("b", &Context{Speed: 20})
	cfg.UseContext("a")

	if ctx, _ := cfg.ResolveContext(""); ctx.Speed != 10 {
		t.Errorf("current context speed = %d, want 10", ctx.Speed)
	}
	if ctx, _ := cfg.ResolveContext("b"); ctx.Speed != 20 {
		t.Errorf("named context speed = %d, want 20", ctx.Speed)
	}
	if _, err := cfg.ResolveContext("c"); err == nil {
		t.Error("ResolveContext on missing name should fail")
	}
}

func TestConfig_ListContexts(t *testing.T) {
	cfg := loadTemp(t)
	for _, name := range []string{"portable", "home", "field"} {
		cfg.AddContext(name, &Context{})
	}
	want := []string{"field", "home", "portable"}
	if got := cfg.ListContexts(); !slices.Equal(got, want) {
		t.Errorf("ListContexts = %v, want %v", got, want)
	}
}

func TestConfig_Persistence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg1, err := LoadConfigWithPath("cwlink", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	cfg1.AddContext("field", &Context{
		Speed:       22,
		Frequency:   640,
		Console:     "terminal",
		Audio:       "portaudio",
		InputDevice: "USB",
		Extra:       map[string]string{"callsign": "N0CALL"},
	})
	cfg1.UseContext("field")

	cfg2, err := LoadConfigWithPath("cwlink", configPath)
	if err != nil {
		t.Fatalf("LoadConfigWithPath error: %v", err)
	}
	if cfg2.CurrentContext != "field" {
		t.Errorf("CurrentContext = %q, want %q", cfg2.CurrentContext, "field")
	}
	ctx, err := cfg2.GetContext("field")
	if err != nil {
		t.Fatalf("GetContext error: %v", err)
	}
	if ctx.Speed != 22 || ctx.Frequency != 640 || ctx.Console != "terminal" || ctx.InputDevice != "USB" {
		t.Errorf("reloaded context = %+v", ctx)
	}
	if ctx.GetExtra("callsign") != "N0CALL" {
		t.Errorf("extra not persisted: %v", ctx.Extra)
	}
}
