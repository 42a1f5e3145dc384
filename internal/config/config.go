package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	Redis      Redis      `yaml:"redis"`
	Generation Generation `yaml:"generation"`
	Game       Game       `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Generation struct {
	BaseURL        string `yaml:"base-url" env:"GENERATION_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	APIKey         string `yaml:"api-key" env:"GENERATION_API_KEY"`
	Model          string `yaml:"model" env:"GENERATION_MODEL" env-default:"llama-3.3-70b-versatile"`
	TimeoutSeconds int    `yaml:"timeout-seconds" env-default:"10"`
}

type Game struct {
	MaxRounds            int            `yaml:"max-rounds" env-default:"20"`
	MinWords             int            `yaml:"min-words" env-default:"5"`
	MaxWords             int            `yaml:"max-words" env-default:"100"`
	DiscussionTurnRounds int            `yaml:"discussion-turn-rounds" env-default:"5"`
	NightTurnRounds      int            `yaml:"night-turn-rounds" env-default:"3"`
	TurnDelayMS          int            `yaml:"turn-delay-ms" env-default:"500"`
	Transparency         bool           `yaml:"transparency" env:"GAME_TRANSPARENCY" env-default:"false"`
	PhaseDurations       PhaseDurations `yaml:"phase-durations"`
	Personalities        []string       `yaml:"personalities"`
}

// PhaseDurations - per-phase duration table in seconds, 0 means the phase is untimed.
type PhaseDurations struct {
	Night           int `yaml:"night" env-default:"45"`
	DayAnnouncement int `yaml:"day-announcement" env-default:"10"`
	Discussion      int `yaml:"discussion" env-default:"180"`
	Voting          int `yaml:"voting" env-default:"120"`
	WinCheck        int `yaml:"win-check" env-default:"0"`
}

// For - returns the duration for a phase name, 0 for untimed or unknown phases.
func (that *PhaseDurations) For(phase string) time.Duration {
	seconds := map[string]int{
		"NIGHT":            that.Night,
		"DAY_ANNOUNCEMENT": that.DayAnnouncement,
		"DISCUSSION":       that.Discussion,
		"VOTING":           that.Voting,
		"WIN_CHECK":        that.WinCheck,
	}[phase]

	return time.Duration(seconds) * time.Second
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Generation) Timeout() time.Duration {
	return time.Duration(that.TimeoutSeconds) * time.Second
}

func (that *Game) TurnDelay() time.Duration {
	return time.Duration(that.TurnDelayMS) * time.Millisecond
}
