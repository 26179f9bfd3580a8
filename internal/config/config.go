// ABOUTME: Bootstrap configuration loading for the deepracer-config binary.
// ABOUTME: YAML with environment variable expansion and duration parsing.

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389/deepracer-config/internal/envconfig"
)

// Config is the complete bootstrap configuration.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Client      ClientConfig      `yaml:"client"`
	Environment EnvironmentConfig `yaml:"environment"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ClientConfig holds the sync client's timing settings.
type ClientConfig struct {
	Timeout          time.Duration `yaml:"-"`
	MaxRetryAttempts int           `yaml:"max_retry_attempts"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// EnvironmentConfig holds the server's initial environment state. Absent
// sections fall back to the package defaults.
type EnvironmentConfig struct {
	Area   *AreaConfig   `yaml:"area"`
	Track  *TrackConfig  `yaml:"track"`
	Agents []AgentConfig `yaml:"agents"`
}

// AreaConfig mirrors envconfig.Area in YAML form.
type AreaConfig struct {
	GameOverCondition string   `yaml:"game_over_condition"`
	TrackNames        []string `yaml:"track_names"`
	ShellNames        []string `yaml:"shell_names"`
}

// TrackConfig mirrors envconfig.Track in YAML form.
type TrackConfig struct {
	Name       string  `yaml:"name"`
	FinishLine float64 `yaml:"finish_line"`
	Direction  string  `yaml:"direction"`
}

// LocationConfig mirrors envconfig.Location in YAML form.
type LocationConfig struct {
	NormalizedDistance float64 `yaml:"normalized_distance"`
	TrackLine          string  `yaml:"track_line"`
}

// AgentConfig mirrors envconfig.Agent in YAML form. A zero lap_count is
// treated as unset and defaults to 1.
type AgentConfig struct {
	Name             string          `yaml:"name"`
	Shell            string          `yaml:"shell"`
	SensorConfigType string          `yaml:"sensor_config_type"`
	StartLocation    *LocationConfig `yaml:"start_location"`
	LifeCount        int             `yaml:"life_count"`
	LapCount         int             `yaml:"lap_count"`
	OfftrackPenalty  float64         `yaml:"offtrack_penalty"`
	CrashPenalty     float64         `yaml:"crash_penalty"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Client.TimeoutRaw != "" {
		cfg.Client.Timeout, err = time.ParseDuration(cfg.Client.TimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing client.timeout %q: %w", cfg.Client.TimeoutRaw, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks the settings and the initial environment for errors.
func (c *Config) Validate() error {
	if c.Client.MaxRetryAttempts < 0 {
		return fmt.Errorf("client.max_retry_attempts must not be negative")
	}
	if _, _, _, err := c.Environment.Build(); err != nil {
		return err
	}
	return nil
}

// Build converts the environment section into entity values, applying
// defaults for absent fields and validating the result. Returns the
// initial area, track, and agents for server construction; nil slices and
// pointers mean "use the server's defaults".
func (e *EnvironmentConfig) Build() (*envconfig.Area, *envconfig.Track, []*envconfig.Agent, error) {
	var area *envconfig.Area
	if e.Area != nil {
		area = envconfig.NewArea()
		if e.Area.GameOverCondition != "" {
			area.GameOverCondition = envconfig.GameOverCondition(e.Area.GameOverCondition)
		}
		if e.Area.TrackNames != nil {
			area.TrackNames = append([]string(nil), e.Area.TrackNames...)
		}
		if e.Area.ShellNames != nil {
			area.ShellNames = append([]string(nil), e.Area.ShellNames...)
		}
		if err := area.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("environment.area: %w", err)
		}
	}

	var track *envconfig.Track
	if e.Track != nil {
		track = envconfig.NewTrack()
		if e.Track.Name != "" {
			track.Name = e.Track.Name
		}
		track.FinishLine = e.Track.FinishLine
		if e.Track.Direction != "" {
			track.Direction = envconfig.TrackDirection(e.Track.Direction)
		}
		if err := track.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("environment.track: %w", err)
		}
	}

	var agents []*envconfig.Agent
	for i, ac := range e.Agents {
		agent := envconfig.NewAgent()
		if ac.Name != "" {
			agent.Name = ac.Name
		}
		if ac.Shell != "" {
			agent.Shell = ac.Shell
		}
		if ac.SensorConfigType != "" {
			agent.SensorConfigType = envconfig.SensorConfigType(ac.SensorConfigType)
		}
		if ac.StartLocation != nil {
			agent.StartLocation.NormalizedDistance = ac.StartLocation.NormalizedDistance
			if ac.StartLocation.TrackLine != "" {
				agent.StartLocation.TrackLine = envconfig.TrackLine(ac.StartLocation.TrackLine)
			}
		}
		agent.LifeCount = ac.LifeCount
		if ac.LapCount != 0 {
			agent.LapCount = ac.LapCount
		}
		agent.OfftrackPenalty = ac.OfftrackPenalty
		agent.CrashPenalty = ac.CrashPenalty

		if err := agent.Validate(); err != nil {
			return nil, nil, nil, fmt.Errorf("environment.agents[%d]: %w", i, err)
		}
		agents = append(agents, agent)
	}

	return area, track, agents, nil
}
