// Package config provides Viper-based configuration loading for the game server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds level simulation settings.
type GameConfig struct {
	// LevelsDir holds the YAML level files loaded at startup.
	LevelsDir string `mapstructure:"levels_dir"`
	// TickInterval is the period of the simulation tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// RestoreDelay is how long a broken brick stays open. Zero means never.
	RestoreDelay time.Duration `mapstructure:"restore_delay"`
	// Strategy is the hint field resolution: "reference" or "optimal".
	Strategy string `mapstructure:"strategy"`
	// FallCost is the cost of dropping one tile, relative to a step of 1.
	FallCost float64 `mapstructure:"fall_cost"`
	// BrickCost is the cost of breaking through the brick below.
	BrickCost float64 `mapstructure:"brick_cost"`
}

// GameServerConfig holds game server gRPC settings.
type GameServerConfig struct {
	// GRPCHost is the bind address for the navigation gRPC service.
	GRPCHost string `mapstructure:"grpc_host"`
	// GRPCPort is the TCP port for the navigation gRPC service.
	GRPCPort int `mapstructure:"grpc_port"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GameServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.GRPCHost, g.GRPCPort)
}

// ScriptingConfig holds Lua pursuer script settings.
type ScriptingConfig struct {
	// Dir holds scripts shared by every level. Empty disables them.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps each hook call. Zero selects the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Game       GameConfig       `mapstructure:"game"`
	GameServer GameServerConfig `mapstructure:"gameserver"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	err := errors.Join(
		validateLogging(c.Logging),
		validateGame(c.Game),
		validateGameServer(c.GameServer),
		validateScripting(c.Scripting),
	)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []error
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return errors.Join(errs...)
}

func validateGame(g GameConfig) error {
	var errs []error
	if g.LevelsDir == "" {
		errs = append(errs, errors.New("game.levels_dir must not be empty"))
	}
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	if g.RestoreDelay < 0 {
		errs = append(errs, fmt.Errorf("game.restore_delay must not be negative, got %s", g.RestoreDelay))
	}
	if g.Strategy != "reference" && g.Strategy != "optimal" {
		errs = append(errs, fmt.Errorf("game.strategy must be one of [reference, optimal], got %q", g.Strategy))
	}
	if g.FallCost <= 0 || g.FallCost >= 1 {
		errs = append(errs, fmt.Errorf("game.fall_cost must be in (0, 1), got %g", g.FallCost))
	}
	if g.BrickCost <= 1 {
		errs = append(errs, fmt.Errorf("game.brick_cost must be > 1, got %g", g.BrickCost))
	}
	return errors.Join(errs...)
}

func validateGameServer(g GameServerConfig) error {
	var errs []error
	if g.GRPCHost == "" {
		errs = append(errs, errors.New("gameserver.grpc_host must not be empty"))
	}
	if g.GRPCPort < 1 || g.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("gameserver.grpc_port must be 1-65535, got %d", g.GRPCPort))
	}
	return errors.Join(errs...)
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance carrying the defaults and GIFTRUN_
// environment overrides, with no config file attached.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GIFTRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.levels_dir", "content/levels")
	v.SetDefault("game.tick_interval", "60ms")
	v.SetDefault("game.restore_delay", "5s")
	v.SetDefault("game.strategy", "reference")
	v.SetDefault("game.fall_cost", 0.9)
	v.SetDefault("game.brick_cost", 48.0)

	v.SetDefault("gameserver.grpc_host", "127.0.0.1")
	v.SetDefault("gameserver.grpc_port", 50051)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 0)
}
