package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/cachesim/metrics/prom"
	"github.com/IvanBrykalov/cachesim/sim"
	"github.com/IvanBrykalov/cachesim/trace"
)

type runFlags struct {
	config     string
	tracePath  string
	script     string
	seed       int64
	scriptArgs []string

	capacity       int
	policies       []string
	animate        bool
	snapshotEvery  int
	arcBoundGhosts bool

	output     string
	metricsOut string
	logLevel   string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	def := sim.DefaultRequest()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a trace against one or more policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(f.logLevel); err != nil {
				return err
			}
			if f.output != "table" && f.output != "json" {
				return fmt.Errorf("unknown output format %q (want table or json)", f.output)
			}
			if f.tracePath != "" && f.script != "" {
				return errors.New("--trace and --script are mutually exclusive")
			}
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			return execute(cmd, f, req)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "YAML or JSON request file")
	fl.StringVar(&f.tracePath, "trace", "", "Trace file ('-' reads stdin)")
	fl.StringVar(&f.script, "script", "", "Lua script generating the trace")
	fl.Int64Var(&f.seed, "seed", 1, "Seed for the script's math.random")
	fl.StringArrayVar(&f.scriptArgs, "arg", nil, "Value appended to the script's ARGS table (repeatable)")
	fl.IntVar(&f.capacity, "capacity", def.Capacity, "Maximum resident entries per policy")
	fl.StringSliceVar(&f.policies, "policies", def.Policies, "Policies to simulate (LRU, FIFO, LFU, ARC)")
	fl.BoolVar(&f.animate, "animate", def.Animate, "Record every step for playback")
	fl.IntVar(&f.snapshotEvery, "snapshot-every", def.SnapshotEvery, "Record every Nth step when not animating (<= 0 keeps all)")
	fl.BoolVar(&f.arcBoundGhosts, "arc-bound-ghosts", def.ARC.BoundGhosts, "Bound ARC ghost lists to |T1|+|B1| <= c and |T2|+|B2| <= 2c")
	fl.StringVar(&f.output, "output", "table", "Output format (table, json)")
	fl.StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
	fl.StringVar(&f.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	return cmd
}

// request merges the config file (or defaults) with explicitly set flags.
func (f runFlags) request(cmd *cobra.Command) (sim.Request, error) {
	req := sim.DefaultRequest()
	if f.config != "" {
		var err error
		if req, err = sim.LoadRequest(f.config); err != nil {
			return sim.Request{}, err
		}
		logrus.WithField("config", f.config).Debug("loaded request")
	}

	fl := cmd.Flags()
	if fl.Changed("capacity") {
		req.Capacity = f.capacity
	}
	if fl.Changed("policies") {
		req.Policies = f.policies
	}
	if fl.Changed("animate") {
		req.Animate = f.animate
	}
	if fl.Changed("snapshot-every") {
		req.SnapshotEvery = f.snapshotEvery
	}
	if fl.Changed("arc-bound-ghosts") {
		req.ARC.BoundGhosts = f.arcBoundGhosts
	}

	if f.tracePath != "" {
		text, err := readTrace(cmd.InOrStdin(), f.tracePath)
		if err != nil {
			return sim.Request{}, err
		}
		req.TraceText = text
	}
	return req, nil
}

func readTrace(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading trace: %w", err)
	}
	return string(b), nil
}

// execute replays req, writes the report and, if requested, the metrics
// textfile. Failures are reported in the chosen output format before the
// error is returned.
func execute(cmd *cobra.Command, f runFlags, req sim.Request) error {
	var opt sim.Options
	var reg *prometheus.Registry
	if f.metricsOut != "" {
		reg = prometheus.NewRegistry()
		opt.Metrics = prom.New(reg, "cachesim", "", nil)
	}

	var (
		results []sim.Result
		err     error
	)
	if f.script != "" {
		var ops []trace.Operation
		ops, err = generate(f.script, trace.ScriptOptions{
			Seed:    f.seed,
			Args:    f.scriptArgs,
			Context: cmd.Context(),
		})
		if err == nil {
			results, err = sim.Replay(req, ops, opt)
		}
	} else {
		results, err = sim.Run(req, opt)
	}

	out := cmd.OutOrStdout()
	if f.output == "json" {
		if werr := writeJSON(out, sim.NewResponse(results, err)); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	if f.output == "table" {
		if err := writeTable(out, results); err != nil {
			return err
		}
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(f.metricsOut, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logrus.WithField("path", f.metricsOut).Info("metrics written")
	}
	return nil
}

func writeJSON(w io.Writer, resp sim.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func writeTable(w io.Writer, results []sim.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tCAPACITY\tHITS\tMISSES\tHIT RATIO\tEVICTIONS\tSTEPS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.4f\t%d\t%d\n",
			r.Policy, r.Capacity, r.Stats.Hits, r.Stats.Misses, r.Stats.HitRatio, r.Stats.Evictions, len(r.Steps))
	}
	return tw.Flush()
}
