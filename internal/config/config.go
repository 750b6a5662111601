// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"

	"github.com/lumipallolabs/foldersize/internal/core"
	"github.com/lumipallolabs/foldersize/internal/model"
)

var (
	ErrNotDirectory  = errors.New("not a directory")
	ErrInvalidOutput = errors.New("invalid output format")
	ErrInvalidValue  = errors.New("invalid value")
)

// Size is a byte count parsed from strings like "10MB" or "1.5GiB"
type Size uint64

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (s *Size) UnmarshalText(text []byte) error {
	v, err := humanize.ParseBytes(string(text))
	if err != nil {
		return fmt.Errorf("%w: size %q: %w", ErrInvalidValue, string(text), err)
	}
	*s = Size(v)
	return nil
}

func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// Config holds the application configuration
type Config struct {
	Path           string          `arg:"positional" help:"directory to open (default: last viewed directory, then the current directory)"`
	Workers        int             `arg:"-w,--workers" help:"parallel walkers per folder (0 = number of CPUs)"`
	FollowSymlinks bool            `arg:"-L,--follow-symlinks" help:"size link targets and descend into linked folders"`
	OneFileSystem  bool            `arg:"-x,--one-file-system" help:"don't descend into other mounted filesystems"`
	DiskUsage      bool            `arg:"-u,--disk-usage" help:"report allocated disk blocks instead of apparent size"`
	Policy         core.Policy     `arg:"--policy" default:"cancel" help:"what a new scan does while one runs: cancel|reject"`
	PollInterval   time.Duration   `arg:"--poll-interval" default:"50ms" help:"how often the UI drains scan events"`
	Watch          bool            `arg:"--watch" help:"rescan when the shown directory changes on disk"`
	Print          bool            `arg:"-p,--print" help:"scan once and print a report instead of starting the UI"`
	Output         string          `arg:"-o,--output" default:"table" help:"report format: table|json"`
	Top            int             `arg:"-n,--top" help:"report only the N largest entries (0 = all)"`
	MinSize        Size            `arg:"--min-size" help:"report only entries at least this large, e.g. 10MB"`
	Sort           *model.SortMode `arg:"-s,--sort" help:"sort entries by name|size|files|folders"`
	Debug          bool            `arg:"--debug" help:"write debug log to foldersize-debug.log"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return heredoc.Doc(`
		foldersize shows how much space each entry of a directory takes.

		Files are listed immediately; folder sizes are computed in the background
		and cached until you refresh. Without --print an interactive terminal UI
		starts.
	`)
}

// Epilogue returns the text go-arg prints after the options
func (Config) Epilogue() string {
	return heredoc.Doc(`
		Examples:
		  foldersize ~/Downloads
		  foldersize --print --top 10 --min-size 100MB /var
		  foldersize -p -o json . > usage.json
	`)
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "foldersize 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		Policy:       core.PolicyCancelPrevious,
		PollInterval: 50 * time.Millisecond,
		Output:       "table",
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// Parse parses args without exiting, for tests
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	p, err := arg.NewParser(arg.Config{Program: "foldersize"}, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(args); err != nil {
		return nil, err
	}
	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	cfg.Output = strings.ToLower(cfg.Output)
	if cfg.Output != "table" && cfg.Output != "json" {
		return nil, fmt.Errorf("%w: %s (valid: table, json)", ErrInvalidOutput, cfg.Output)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative", ErrInvalidValue)
	}
	if cfg.Top < 0 {
		return nil, fmt.Errorf("%w: top must not be negative", ErrInvalidValue)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", ErrInvalidValue)
	}

	if cfg.Path != "" {
		if err := cfg.ValidatePath(); err != nil {
			return nil, err
		}
	} else if cfg.Print {
		cfg.Path = "."
		if err := cfg.ValidatePath(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ValidatePath checks the path exists and is a directory, and makes it absolute
func (cfg *Config) ValidatePath() error {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", cfg.Path, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", cfg.Path)
	}
	if err != nil {
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Path)
	}

	cfg.Path = abs
	return nil
}

// SortMode returns the configured sort mode, or fallback when none was given
func (cfg *Config) SortMode(fallback model.SortMode) model.SortMode {
	if cfg.Sort == nil {
		return fallback
	}
	return *cfg.Sort
}
