package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"ookscan/pkg/app"
	"ookscan/pkg/app/config"
	"ookscan/pkg/protocol"
	"ookscan/pkg/report"
	"ookscan/pkg/scan"
	"ookscan/pkg/trace"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "decode OOK remote switch frames from a logic analyzer trace",
		Version: app.VERSION,
		Description: "Decode the frames of 433MHz remote switches (rc-switch protocols) from a csv trace" +
			"\n with the columns time (seconds) and level (0/1), as exported by a logic analyzer." +
			"\n Every configured protocol is tried against the trace.",
		UsageText: "ookscan [--config <file>] [--log standard|debug|trace] command [options] [arguments]" +
			"\n\nEXAMPLE:" +
			"\n\tdecode the trace capture.csv with a tolerance of 6% and a receiver delay of 66µs" +
			"\n\t\tookscan scan -t 6 -d 66 capture.csv" +
			"\n\tstart the decode web service and use the configuration file ookscan.yaml" +
			"\n\t\tookscan --config /opt/womat/config/ookscan.yaml serve",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.Debug, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "decode a trace file",
				ArgsUsage: "FILE (- reads the standard input)",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "tolerance", Aliases: []string{"t"}, Usage: "relative tolerance in `PERCENT` of the pulse length"},
					&cli.IntFlag{Name: "absolute", Usage: "absolute tolerance in `µs`"},
					&cli.IntFlag{Name: "delay", Aliases: []string{"d"}, Usage: "receiver delay in `µs` added to every pulse"},
					&cli.IntFlag{Name: "min-glitch", Usage: "pulses shorter than `µs` are ignored"},
					&cli.IntFlag{Name: "bits", Usage: "`COUNT` of data bits of a frame"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output `FORMAT` (plain|csv|json)"},
					&cli.IntSliceFlag{Name: "protocol", Aliases: []string{"p"}, Usage: "decode only the protocol `INDEX` (may be repeated)"},
					&cli.BoolFlag{Name: "no-flush", Usage: "drop a frame in progress at the end of the trace"},
				},
				Action: func(ctx *cli.Context) error {
					if err := loadConfig(cfg); err != nil {
						return err
					}
					if err := applyScanFlags(ctx, cfg); err != nil {
						return err
					}
					return runScan(ctx, cfg)
				},
			},
			{
				Name:  "serve",
				Usage: "start the decode web service",
				Action: func(ctx *cli.Context) error {
					if err := loadConfig(cfg); err != nil {
						return err
					}
					return runServe(cfg)
				},
			},
			{
				Name:  "protocols",
				Usage: "list the configured protocols",
				Action: func(ctx *cli.Context) error {
					if err := loadConfig(cfg); err != nil {
						return err
					}
					for i, p := range cfg.Protocols {
						fmt.Printf("%d: %s\n", i, p)
					}
					return nil
				},
			},
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
}

// loadConfig loads the configuration and enables the configured logging.
func loadConfig(cfg *config.Config) error {
	if err := cfg.LoadConfig(); err != nil {
		return err
	}

	debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
	return nil
}

// applyScanFlags overwrites the configuration with the flags of the scan command.
func applyScanFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("tolerance") {
		cfg.Tolerance.Percent = ctx.Float64("tolerance")
	}
	if ctx.IsSet("absolute") {
		cfg.Tolerance.AbsoluteInt = ctx.Int("absolute")
	}
	if ctx.IsSet("delay") {
		cfg.Tolerance.DelayInt = ctx.Int("delay")
	}
	if ctx.IsSet("min-glitch") {
		cfg.Tolerance.MinGlitchInt = ctx.Int("min-glitch")
	}
	if ctx.IsSet("bits") {
		cfg.BitCount = ctx.Int("bits")
	}
	if ctx.IsSet("format") {
		cfg.Format = ctx.String("format")
	}
	if ctx.IsSet("no-flush") {
		cfg.NoFlush = ctx.Bool("no-flush")
	}

	return cfg.Update()
}

// runScan decodes the trace file of the command line and writes the reports to stdout.
func runScan(ctx *cli.Context, cfg *config.Config) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("scan expects one trace file, got %d arguments", ctx.NArg())
	}

	indexes, templates, err := selectProtocols(cfg.Protocols, ctx.IntSlice("protocol"))
	if err != nil {
		return err
	}

	opts := cfg.ScanOptions()
	w, err := report.NewWriter(cfg.Format, os.Stdout, opts)
	if err != nil {
		return err
	}

	f, err := trace.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	edges, err := trace.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read trace %q: %w", ctx.Args().First(), err)
	}
	debug.InfoLog.Printf("decoding %d edges with %d protocols", len(edges), len(templates))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := scan.Run(sigCtx, edges, templates, opts)
	if err != nil {
		return err
	}

	for i := range reports {
		reports[i].Index = indexes[i]
		if err = w.Write(reports[i]); err != nil {
			return err
		}
	}
	return nil
}

// selectProtocols returns the templates with the given indexes, all templates if no index is given.
func selectProtocols(all []protocol.Template, indexes []int) ([]int, []protocol.Template, error) {
	if len(indexes) == 0 {
		indexes = make([]int, len(all))
		for i := range all {
			indexes[i] = i
		}
		return indexes, all, nil
	}

	templates := make([]protocol.Template, 0, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= len(all) {
			return nil, nil, fmt.Errorf("invalid protocol index %d, valid are 0..%d", i, len(all)-1)
		}
		templates = append(templates, all[i])
	}
	return indexes, templates, nil
}

// runServe starts the web service and waits for an exit signal.
func runServe(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		debug.InfoLog.Printf("closing app %s", app.Version())
		_ = a.Close()
	}()

	debug.InfoLog.Printf("starting app %s", app.Version())
	if err = a.Run(); err != nil {
		return err
	}

	// capture exit signals to ensure resources are released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// wait for am os.Interrupt signal (CTRL C)
	select {
	case sig := <-quit:
		debug.InfoLog.Printf("Got %s signal. Aborting...", sig)
	case <-a.Shutdown():
	}

	return nil
}
