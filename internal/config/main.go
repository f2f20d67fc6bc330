package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	CheckCommand  = "check"
	ReplayCommand = "replay"
	PlayCommand   = "play"

	defaultLead = 2 * time.Second
)

type Config struct {
	Command    string
	Chart      string
	Inputs     string
	Record     string
	Difficulty int

	Rate           float64
	Offset         time.Duration
	Delay          time.Duration
	Lead           time.Duration
	Lanes          int
	Keys           string
	FramePeriod    time.Duration
	Pass           string
	JudgementsFile string
	LogLevel       string
	Device         string
	ReleaseGap     time.Duration
	Grace          time.Duration
}

func newApp(c *Config) *kingpin.Application {
	app := kingpin.New("lanes", "Lane note judgement engine.")
	app.Version("0.3.0")

	app.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64Var(&c.Rate)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	app.Flag("lead", "How long before its target time a note becomes active").DurationVar(&c.Lead)
	app.Flag("lanes", "Lane count, 0 uses the chart").Default("0").IntVar(&c.Lanes)
	app.Flag("keys", "Keys for each lane, left to right").Short('k').StringVar(&c.Keys)
	app.Flag("frame-period", "Tick period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("pass", "Worst tier that keeps the combo").EnumVar(&c.Pass, "perfect", "great", "good", "bad")
	app.Flag("judgements", "YAML judgement table").Short('j').ExistingFileVar(&c.JudgementsFile)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&c.LogLevel, "debug", "info", "warn", "error")
	app.Flag("device", "Linux input device to read keys from instead of the terminal").StringVar(&c.Device)
	app.Flag("release-gap", "Terminal only, time without key repeat before a key counts as released").Default("550ms").DurationVar(&c.ReleaseGap)
	app.Flag("grace", "Time to keep running after the last note").Default("1s").DurationVar(&c.Grace)
	app.Flag("difficulty", "Index of the chart in the file, as listed by check").Short('i').Default("0").IntVar(&c.Difficulty)

	check := app.Command(CheckCommand, "Parse and validate a chart")
	check.Arg("chart", "Chart file (.json, .sm, .mid)").Required().ExistingFileVar(&c.Chart)

	replay := app.Command(ReplayCommand, "Judge a recorded input log against a chart")
	replay.Arg("chart", "Chart file (.json, .sm, .mid)").Required().ExistingFileVar(&c.Chart)
	replay.Arg("inputs", "Input log (.json)").Required().ExistingFileVar(&c.Inputs)

	play := app.Command(PlayCommand, "Play a chart live")
	play.Arg("chart", "Chart file (.json, .sm, .mid)").Required().ExistingFileVar(&c.Chart)
	play.Flag("record", "Write the input log here for replay").StringVar(&c.Record)

	return app
}

// Parse reads the command line. Usage and errors go to w.
func Parse(args []string, w io.Writer) (*Config, error) {
	c := &Config{}
	app := newApp(c)
	app.UsageWriter(w)
	app.ErrorWriter(w)
	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = command
	if c.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", c.Rate)
	}
	if c.FramePeriod <= 0 {
		return nil, fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	return c, nil
}

// Judgements builds the judgement table: defaults, then the YAML file,
// then flags.
func (c *Config) Judgements() (game.Judgements, time.Duration, error) {
	j := game.DefaultJudgements()
	lead := defaultLead

	if c.JudgementsFile != "" {
		f, err := os.Open(c.JudgementsFile)
		if nil != err {
			return j, 0, fmt.Errorf("unable to open judgement table: %w", err)
		}
		defer f.Close()
		var fileLead time.Duration
		j, fileLead, err = LoadJudgements(f, j)
		if nil != err {
			return j, 0, fmt.Errorf("unable to load %v: %w", c.JudgementsFile, err)
		}
		if fileLead > 0 {
			lead = fileLead
		}
	}

	if c.Pass != "" {
		pass, err := game.ParseTier(c.Pass)
		if nil != err {
			return j, 0, err
		}
		j.Pass = pass
	}
	if c.Lead > 0 {
		lead = c.Lead
	}
	return j, lead, nil
}

func (c *Config) Engine() (engine.Config, error) {
	j, lead, err := c.Judgements()
	if nil != err {
		return engine.Config{}, err
	}
	return engine.Config{
		Lanes:      c.Lanes,
		Lead:       lead,
		Judgements: j,
	}, nil
}

func (c *Config) Logger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); nil != err {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if nil != err {
		return nil, fmt.Errorf("unable to initialize logger: %w", err)
	}
	return logger, nil
}
