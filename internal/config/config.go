// Package config loads server configuration from an embedded YAML
// default, overridden first by environment variables and then by CLI
// flags, in that order: embedded default -> env override -> flag
// override, widened from a JSON-only base to YAML plus CLI flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"hqmgo/internal/physics"
	"hqmgo/internal/rink"
)

// Config is the fully resolved server configuration.
type Config struct {
	Server  ServerConfig
	Network NetworkConfig
	Physics PhysicsConfig
	Rink    RinkConfig
	Russian RussianConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Name          string `yaml:"name"`
	Password      string `yaml:"password"`
	AdminPassword string `yaml:"adminPassword"`
}

type NetworkConfig struct {
	MaxConnections         int `yaml:"maxConnections"`
	SendChannelSize        int `yaml:"sendChannelSize"`
	DisconnectTimeoutTicks int `yaml:"disconnectTimeoutTicks"`
	RateLimitPerSecond     int `yaml:"rateLimitPerSecond"`
	RateLimitBurst         int `yaml:"rateLimitBurst"`
	ReadBufferBytes        int `yaml:"readBufferBytes"`
	WriteBufferBytes       int `yaml:"writeBufferBytes"`
}

// PhysicsConfig mirrors physics.Config field for field so it can be
// loaded from YAML/env/flags and handed straight to physics.NewWorld.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	LimitJumpSpeed   bool    `yaml:"limitJumpSpeed"`
	RinkKPush        float64 `yaml:"rinkKPush"`
	RinkKDamp        float64 `yaml:"rinkKDamp"`
	RinkFriction     float64 `yaml:"rinkFriction"`
	SkaterKPush      float64 `yaml:"skaterKPush"`
	PuckRinkKPush    float64 `yaml:"puckRinkKPush"`
	PuckRinkKDamp    float64 `yaml:"puckRinkKDamp"`
	PuckRinkFriction float64 `yaml:"puckRinkFriction"`
	StickSpringK     float64 `yaml:"stickSpringK"`
	StickDampK       float64 `yaml:"stickDampK"`
}

// ToPhysicsConfig converts the loaded tuning into physics.Config.
func (p PhysicsConfig) ToPhysicsConfig() physics.Config {
	return physics.Config{
		Gravity:          float32(p.Gravity),
		LimitJumpSpeed:   p.LimitJumpSpeed,
		RinkKPush:        float32(p.RinkKPush),
		RinkKDamp:        float32(p.RinkKDamp),
		RinkFriction:     float32(p.RinkFriction),
		SkaterKPush:      float32(p.SkaterKPush),
		PuckRinkKPush:    float32(p.PuckRinkKPush),
		PuckRinkKDamp:    float32(p.PuckRinkKDamp),
		PuckRinkFriction: float32(p.PuckRinkFriction),
		StickSpringK:     float32(p.StickSpringK),
		StickDampK:       float32(p.StickDampK),
	}
}

type RinkConfig struct {
	Width        float64 `yaml:"width"`
	Length       float64 `yaml:"length"`
	CornerRadius float64 `yaml:"cornerRadius"`
}

// ToRink builds a *rink.Rink from the loaded dimensions.
func (c RinkConfig) ToRink() *rink.Rink {
	return rink.New(float32(c.Width), float32(c.Length), float32(c.CornerRadius))
}

type RussianConfig struct {
	Attempts int `yaml:"attempts"`
	TeamMax  int `yaml:"teamMax"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load resolves configuration in three layers: the embedded
// default.yaml, then environment variable overrides, then CLI flag
// overrides (highest precedence). args is normally os.Args[1:].
func Load(args []string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefault, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse embedded default: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := applyFlagOverrides(&cfg, args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Host = getEnvString("HQM_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("HQM_PORT", cfg.Server.Port)
	cfg.Server.Name = getEnvString("HQM_SERVER_NAME", cfg.Server.Name)
	cfg.Server.Password = getEnvString("HQM_PASSWORD", cfg.Server.Password)
	cfg.Server.AdminPassword = getEnvString("HQM_ADMIN_PASSWORD", cfg.Server.AdminPassword)

	cfg.Network.MaxConnections = getEnvInt("HQM_MAX_CONNECTIONS", cfg.Network.MaxConnections)
	cfg.Network.RateLimitPerSecond = getEnvInt("HQM_RATE_LIMIT_PER_SEC", cfg.Network.RateLimitPerSecond)
	cfg.Network.RateLimitBurst = getEnvInt("HQM_RATE_LIMIT_BURST", cfg.Network.RateLimitBurst)

	cfg.Physics.Gravity = getEnvFloat("HQM_GRAVITY", cfg.Physics.Gravity)
	cfg.Physics.LimitJumpSpeed = getEnvBool("HQM_LIMIT_JUMP_SPEED", cfg.Physics.LimitJumpSpeed)

	cfg.Russian.Attempts = getEnvInt("HQM_RUSSIAN_ATTEMPTS", cfg.Russian.Attempts)
	cfg.Russian.TeamMax = getEnvInt("HQM_RUSSIAN_TEAM_MAX", cfg.Russian.TeamMax)

	cfg.Log.Level = getEnvString("HQM_LOG_LEVEL", cfg.Log.Level)
}

func applyFlagOverrides(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("hqmgo", pflag.ContinueOnError)

	host := fs.String("host", cfg.Server.Host, "bind address")
	port := fs.Int("port", cfg.Server.Port, "UDP port")
	name := fs.String("name", cfg.Server.Name, "server name, logged at startup")
	password := fs.String("password", cfg.Server.Password, "join password, empty for none")
	adminPassword := fs.String("admin-password", cfg.Server.AdminPassword, "admin command password")
	attempts := fs.Int("russian-attempts", cfg.Russian.Attempts, "Russian mode rounds per team")
	teamMax := fs.Int("russian-team-max", cfg.Russian.TeamMax, "Russian mode per-team roster cap")
	logLevel := fs.String("log-level", cfg.Log.Level, "debug, info, warn, or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Server.Host = *host
	cfg.Server.Port = *port
	cfg.Server.Name = *name
	cfg.Server.Password = *password
	cfg.Server.AdminPassword = *adminPassword
	cfg.Russian.Attempts = *attempts
	cfg.Russian.TeamMax = *teamMax
	cfg.Log.Level = *logLevel
	return nil
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			return iv
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if fv, err := strconv.ParseFloat(v, 64); err == nil {
			return fv
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if bv, err := strconv.ParseBool(v); err == nil {
			return bv
		}
	}
	return defaultValue
}
