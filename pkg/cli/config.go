package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name
	DefaultBaseDir = ".giztoy"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.yaml"
)

// Config represents the main configuration structure for a CLI app
type Config struct {
	// AppName is the application name (e.g., "cwlink")
	AppName string `yaml:"-"`

	// CurrentContext is the name of the currently active context
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts is a map of context name to context configuration
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is the path to the config file
	configPath string
}

// Context is one station profile. Zero values mean "use the built-in
// default"; command-line flags override whatever is set here.
type Context struct {
	// Name is the context name
	Name string `yaml:"name"`

	// Speed is the keyer speed in words per minute
	Speed int `yaml:"speed,omitempty"`

	// Frequency is the tone frequency in Hz
	Frequency int `yaml:"frequency,omitempty"`

	// SidetonePrime is the number of silent frames before local sidetone
	SidetonePrime int `yaml:"sidetone_prime,omitempty"`

	// Console selects the operator console: window, terminal or none
	Console string `yaml:"console,omitempty"`

	// Audio selects the audio backend: portaudio or null
	Audio string `yaml:"audio,omitempty"`

	// InputDevice and OutputDevice select PortAudio devices by index or
	// name prefix
	InputDevice  string `yaml:"input_device,omitempty"`
	OutputDevice string `yaml:"output_device,omitempty"`

	// Monitor is the status server listen address
	Monitor string `yaml:"monitor,omitempty"`

	// Record is the WAV file that peer audio is recorded to
	Record string `yaml:"record,omitempty"`

	// Extra stores settings not covered above
	Extra map[string]string `yaml:"extra,omitempty"`
}

// LoadConfigWithPath loads or creates the configuration of appName. An empty
// customPath uses the default location
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		AppName:    appName,
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config file
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Ensure contexts map is initialized
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}

	cfg.AppName = appName
	cfg.configPath = configPath

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the config file path
func (c *Config) Path() string {
	return c.configPath
}

// AddContext adds or replaces a context
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// GetCurrentContext returns the current context
func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the context by name, the current context if name
// is empty, or an empty context when neither exists.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name != "" {
		return c.GetContext(name)
	}
	if c.CurrentContext == "" {
		return &Context{}, nil
	}
	return c.GetCurrentContext()
}

// ListContexts returns all context names, sorted
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ContextKeys lists the keys accepted by Context.Set.
var ContextKeys = []string{
	"speed", "frequency", "sidetone_prime", "console", "audio",
	"input_device", "output_device", "monitor", "record",
}

// Consoles lists the accepted console values.
var Consoles = []string{"window", "terminal", "none"}

// AudioBackends lists the accepted audio values.
var AudioBackends = []string{"portaudio", "null"}

// Set sets a context value by key. Unknown keys are stored in Extra.
func (ctx *Context) Set(key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", key, value)
		}
		return n, nil
	}
	var err error
	switch key {
	case "speed":
		ctx.Speed, err = atoi()
	case "frequency":
		ctx.Frequency, err = atoi()
	case "sidetone_prime":
		ctx.SidetonePrime, err = atoi()
	case "console":
		if !slices.Contains(Consoles, value) {
			return fmt.Errorf("console: %q is not one of %v", value, Consoles)
		}
		ctx.Console = value
	case "audio":
		if !slices.Contains(AudioBackends, value) {
			return fmt.Errorf("audio: %q is not one of %v", value, AudioBackends)
		}
		ctx.Audio = value
	case "input_device":
		ctx.InputDevice = value
	case "output_device":
		ctx.OutputDevice = value
	case "monitor":
		ctx.Monitor = value
	case "record":
		ctx.Record = value
	default:
		ctx.SetExtra(key, value)
	}
	return err
}

// GetExtra returns an extra value for the context
func (ctx *Context) GetExtra(key string) string {
	if ctx.Extra == nil {
		return ""
	}
	return ctx.Extra[key]
}

// SetExtra sets an extra value for the context
func (ctx *Context) SetExtra(key, value string) {
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]string)
	}
	ctx.Extra[key] = value
}
