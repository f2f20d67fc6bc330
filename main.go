package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/parser"
	"git.lost.host/meutraa/lanes/internal/render"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/session"
	"git.lost.host/meutraa/lanes/internal/theme"
	"github.com/eiannone/keyboard"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	c, err := config.Parse(args, os.Stderr)
	if nil != err {
		return err
	}
	logger, err := c.Logger()
	if nil != err {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("session", uuid.NewString()))

	psr, err := parser.ForFile(c.Chart, c.Lanes)
	if nil != err {
		return err
	}
	charts, err := psr.Parse(c.Chart)
	if nil != err {
		return err
	}
	if len(charts) == 0 {
		return fmt.Errorf("no playable charts in %v", c.Chart)
	}

	if c.Command == config.CheckCommand {
		return check(charts, stdout)
	}

	if c.Difficulty < 0 || c.Difficulty >= len(charts) {
		return fmt.Errorf("difficulty %d not in 0..%d", c.Difficulty, len(charts)-1)
	}
	chart := charts[c.Difficulty]
	logger.Info("loaded chart",
		zap.String("file", c.Chart),
		zap.String("title", chart.Title),
		zap.Int("notes", chart.NoteCount()),
	)

	switch c.Command {
	case config.ReplayCommand:
		return replay(c, chart, stdout, logger)
	case config.PlayCommand:
		return play(c, chart, stdout, logger)
	}
	return fmt.Errorf("unknown command %v", c.Command)
}

func check(charts []*game.Chart, w io.Writer) error {
	for i, c := range charts {
		fmt.Fprintf(w, "%2v) %5v notes  %4v holds  %v lanes  %6.2f bpm  %8v  %v\n",
			i, c.NoteCount(), c.HoldCount(), c.Lanes, c.BPM, c.Length().Round(time.Millisecond), c.Title)
	}
	return nil
}

func replay(c *config.Config, chart *game.Chart, w io.Writer, logger *zap.Logger) error {
	f, err := os.Open(c.Inputs)
	if nil != err {
		return fmt.Errorf("unable to open input log: %w", err)
	}
	defer f.Close()
	inputs, err := score.ReadInputs(f)
	if nil != err {
		return err
	}

	cfg, err := c.Engine()
	if nil != err {
		return err
	}
	printer := render.NewPrinter(w, theme.NewDefaultTheme(w))
	result, err := score.Replay(chart, inputs, cfg, logger, printer)
	if nil != err {
		return err
	}
	printer.Summary(result.Tally, result.Combo, cfg.Judgements.Tiers())
	return printer.Flush()
}

func play(c *config.Config, chart *game.Chart, w io.Writer, logger *zap.Logger) error {
	cfg, err := c.Engine()
	if nil != err {
		return err
	}

	tally := score.NewTally()
	printer := render.NewPrinter(w, theme.NewDefaultTheme(w))
	eng, err := engine.New(chart, cfg, engine.Tee(tally, printer), logger)
	if nil != err {
		return err
	}
	lanes := eng.Config().Lanes

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clk := clock.NewWall(c.Delay, c.Rate, c.Offset)
	var inputs <-chan game.Input
	if c.Device != "" {
		f, err := os.Open(c.Device)
		if nil != err {
			return fmt.Errorf("unable to open input device: %w", err)
		}
		defer f.Close()
		inputs = input.ReadDevice(ctx, f, c.DeviceCodes(lanes), clk, logger)
		fmt.Fprintf(w, "Reading %v, ctrl-c to stop\n", c.Device)
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("play needs a terminal, or an input device with --device")
		}
		keys, err := keyboard.GetKeys(128)
		if nil != err {
			return fmt.Errorf("unable to open keyboard: %w", err)
		}
		defer func() {
			if err := keyboard.Close(); nil != err {
				logger.Warn("unable to close keyboard", zap.Error(err))
			}
		}()
		// The keyboard puts the terminal in raw mode
		printer.LineEnding = "\r\n"
		inputs = input.ReadTerminal(ctx, keys, c.KeyLanes(lanes), clk, c.ReleaseGap, logger)
		fmt.Fprintf(w, "Keys %q, escape to stop\r\n", string(c.LaneKeys(lanes)))
	}

	recorded := []game.Input{}
	loop := &session.Loop{
		Engine: eng,
		Clock:  clk,
		Inputs: inputs,
		Period: c.FramePeriod,
		Grace:  c.Grace,
		Input: func(in game.Input) {
			recorded = append(recorded, in)
		},
		Frame: func(time.Duration) {
			if err := printer.Flush(); nil != err {
				logger.Warn("unable to write judgements", zap.Error(err))
			}
		},
		Logger: logger,
	}
	clk.Start()
	if err := loop.Run(ctx); nil != err && !errors.Is(err, context.Canceled) {
		return err
	}

	printer.Summary(tally, eng.Combo(), cfg.Judgements.Tiers())
	if err := printer.Flush(); nil != err {
		return err
	}
	if c.Record != "" {
		return record(c.Record, recorded)
	}
	return nil
}

func record(file string, inputs []game.Input) error {
	f, err := os.Create(file)
	if nil != err {
		return fmt.Errorf("unable to create input log: %w", err)
	}
	if err := score.WriteInputs(f, inputs); nil != err {
		f.Close()
		return err
	}
	return f.Close()
}
