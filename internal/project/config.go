package project

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"gcir/internal/backend/llvm"
)

// Config is the decoded gcir.toml.
type Config struct {
	Target TargetConfig `toml:"target"`
	GC     GCConfig     `toml:"gc"`
	Build  BuildConfig  `toml:"build"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type TargetConfig struct {
	Triple      string `toml:"triple"`
	PointerBits int    `toml:"pointer-bits"`
	DataLayout  string `toml:"data-layout"`
}

type GCConfig struct {
	TrackPointers bool   `toml:"track-pointers"`
	Strategy      string `toml:"strategy"`
}

type BuildConfig struct {
	Jobs      int    `toml:"jobs"`
	Output    string `toml:"output"`
	Stackmaps bool   `toml:"stackmaps"`
}

// Default returns the configuration used when no gcir.toml exists.
func Default() Config {
	return Config{
		Target: TargetConfig{PointerBits: 64},
		GC:     GCConfig{TrackPointers: true, Strategy: llvm.DefaultGCStrategy},
		Build:  BuildConfig{Jobs: runtime.GOMAXPROCS(0), Output: "build"},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("gc", "strategy") && strings.TrimSpace(cfg.GC.Strategy) == "" {
		return Config{}, fmt.Errorf("%s: [gc].strategy must not be empty", path)
	}
	if meta.IsDefined("build", "output") && strings.TrimSpace(cfg.Build.Output) == "" {
		return Config{}, fmt.Errorf("%s: [build].output must not be empty", path)
	}
	cfg.Path = path
	if !filepath.IsAbs(cfg.Build.Output) {
		cfg.Build.Output = filepath.Join(filepath.Dir(path), cfg.Build.Output)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the gcir.toml found above startDir, or the defaults when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Target.PointerBits {
	case 32, 64:
	default:
		return fmt.Errorf("[target].pointer-bits must be 32 or 64, got %d", c.Target.PointerBits)
	}
	if c.Build.Jobs < 1 {
		return fmt.Errorf("[build].jobs must be positive, got %d", c.Build.Jobs)
	}
	return nil
}

// BuilderOptions maps the configuration onto per-builder options. The
// shared patch-point counter and stack-map table are set by the driver.
func (c Config) BuilderOptions() llvm.Options {
	return llvm.Options{
		TrackPointers: c.GC.TrackPointers,
		GCStrategy:    c.GC.Strategy,
		PointerBits:   c.Target.PointerBits,
		TargetTriple:  c.Target.Triple,
		DataLayout:    c.Target.DataLayout,
	}
}
