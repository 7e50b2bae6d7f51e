/**
 * Filename: /Users/marcin/code/sbh/cmd/sbh/main.go
 * Path: /Users/marcin/code/sbh/cmd/sbh
 * Created Date: Saturday, March 16th 2024, 11:05:12 am
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	logging "github.com/op/go-logging"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
	"github.com/spf13/viper"
	"github.com/urfave/cli"

	"github.com/mkonicki/sbh"
)

var log = logging.MustGetLogger("main")

// init customizes how cli lays out the command interface
// Logo banner (Varsity style):
// http://patorjk.com/software/taag/#p=testall&f=3D-ASCII&t=SBH
func init() {
	cli.AppHelpTemplate = `
  ______   ______   ____  ____
.' ____ \ |_   _ \ |_   ||   _|
| (___ \_|  | |_) |  | |__| |
 _.____` + "`" + `.   |  __'.  |  __  |
| \____) | _| |__) |_| |  | |_
 \______.'|_______/|____||____|

` + cli.AppHelpTemplate
}

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Notice(strings.Repeat("*", len(message)))
	log.Notice(message)
	log.Notice(strings.Repeat("*", len(message)))
}

// loadSettings reads optional overrides from an sbh.yaml next to the
// binary or in the working directory. Flags take precedence over the file.
func loadSettings() {
	viper.SetConfigName("sbh")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.sbh")
	viper.SetDefault("candidate-size", sbh.DefaultCandidateSize)
	viper.SetDefault("time-limit", int(sbh.DefaultTimeLimit/time.Second))
	viper.SetDefault("npop", sbh.DefaultNPop)
	viper.SetDefault("ngen", sbh.DefaultNGen)
	if err := viper.ReadInConfig(); err == nil {
		log.Noticef("Settings loaded from `%s`", viper.ConfigFileUsed())
	}
}

// readFasta loads the first record of a FASTA file
func readFasta(filename string) (string, error) {
	reader, err := fastx.NewDefaultReader(filename)
	if err != nil {
		return "", err
	}
	seq.ValidateSeq = false
	rec, err := reader.Read()
	if err == io.EOF {
		return "", fmt.Errorf("no sequence records in `%s`", filename)
	}
	if err != nil {
		return "", err
	}
	return strings.ToUpper(string(rec.Seq.Seq)), nil
}

// writeFasta writes one reconstruction record
func writeFasta(filename, name, sequence string) error {
	w, err := xopen.Wopen(filename)
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.WriteString(fmt.Sprintf(">%s\n%s\n", name, sequence))
	return err
}

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(sbh.BackendFormatter)
	loadSettings()

	app := cli.NewApp()
	app.Compiled = time.Now()
	app.Copyright = "(c) Marcin Konicki 2024"
	app.Name = "SBH"
	app.Usage = "DNA sequence reconstruction from hybridization spectra"
	app.Version = sbh.Version

	engineFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "candidateSize",
			Usage: "Number of scored candidates kept per rescue iteration",
			Value: viper.GetInt("candidate-size"),
		},
		cli.IntFlag{
			Name:  "timeLimit",
			Usage: "Wall-clock budget in seconds for one reconstruction",
			Value: viper.GetInt("time-limit"),
		},
		cli.BoolFlag{
			Name:  "ga",
			Usage: "Refine the contig scan order with a genetic algorithm",
		},
		cli.IntFlag{
			Name:  "npop",
			Usage: "GA population size",
			Value: viper.GetInt("npop"),
		},
		cli.IntFlag{
			Name:  "ngen",
			Usage: "Number of GA generations",
			Value: viper.GetInt("ngen"),
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "Random seed",
			Value: 42,
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "reconstruct",
			Usage: "Reconstruct a sequence from the spectrum of a FASTA record",
			UsageText: `
	sbh reconstruct fastafile [options]

Reconstruct function:
Reads the first record of the FASTA file, decomposes it into k-mers with the
requested error rates, runs the adaptive reconstruction and reports how well
the result covers the spectrum. Use --out to write the reconstruction.
`,
			Flags: append([]cli.Flag{
				cli.IntFlag{Name: "k", Usage: "K-mer length", Value: 10},
				cli.IntFlag{Name: "length", Usage: "Target length (default: input sequence length)", Value: 0},
				cli.Float64Flag{Name: "neg", Usage: "Negative (missing k-mer) error rate", Value: 0},
				cli.Float64Flag{Name: "pos", Usage: "Positive (spurious k-mer) error rate", Value: 0},
				cli.StringFlag{Name: "out", Usage: "Output FASTA file", Value: ""},
			}, engineFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					_ = cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify fastafile", 1)
				}
				banner("Adaptive reconstruction")
				sequence, err := readFasta(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				rng := rand.New(rand.NewSource(c.Int64("seed")))
				spectrum, err := sbh.GenerateSpectrum(sequence, c.Int("k"), c.Float64("neg"), c.Float64("pos"), rng)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				target := c.Int("length")
				if target == 0 {
					target = len(sequence)
				}
				engine := &sbh.Reconstructor{
					Spectrum:      spectrum,
					TargetLength:  target,
					K:             c.Int("k"),
					CandidateSize: c.Int("candidateSize"),
					TimeLimit:     time.Duration(c.Int("timeLimit")) * time.Second,
					GAOrder:       c.Bool("ga"),
					NPop:          c.Int("npop"),
					NGen:          c.Int("ngen"),
					Rand:          rng,
				}
				reconstructed, err := engine.Run()
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				valid, coverage := sbh.Validate(reconstructed, spectrum, c.Int("k"))
				log.Noticef("Reconstructed %d bp, spectrum coverage %.2f %%, valid: %v",
					len(reconstructed), coverage, valid)
				if out := c.String("out"); out != "" {
					if err := writeFasta(out, "reconstruction", reconstructed); err != nil {
						return cli.NewExitError(err.Error(), 1)
					}
					log.Noticef("Reconstruction written to `%s`", out)
				}
				return nil
			},
		},
		{
			Name:  "simulate",
			Usage: "Round-trip a random sequence through the engine",
			UsageText: `
	sbh simulate [options]

Simulate function:
Generates a random sequence of length n, corrupts its spectrum with the
given error rates, reconstructs it and reports coverage and identity.
`,
			Flags: append([]cli.Flag{
				cli.IntFlag{Name: "n", Usage: "Sequence length", Value: 300},
				cli.IntFlag{Name: "k", Usage: "K-mer length", Value: 10},
				cli.Float64Flag{Name: "neg", Usage: "Negative error rate", Value: 0.05},
				cli.Float64Flag{Name: "pos", Usage: "Positive error rate", Value: 0.05},
			}, engineFlags...),
			Action: func(c *cli.Context) error {
				banner("Simulation")
				rng := rand.New(rand.NewSource(c.Int64("seed")))
				sequence, err := sbh.RandomSequence(c.Int("n"), rng)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				spectrum, err := sbh.GenerateSpectrum(sequence, c.Int("k"), c.Float64("neg"), c.Float64("pos"), rng)
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				engine := &sbh.Reconstructor{
					Spectrum:      spectrum,
					TargetLength:  len(sequence),
					K:             c.Int("k"),
					CandidateSize: c.Int("candidateSize"),
					TimeLimit:     time.Duration(c.Int("timeLimit")) * time.Second,
					GAOrder:       c.Bool("ga"),
					NPop:          c.Int("npop"),
					NGen:          c.Int("ngen"),
					Rand:          rng,
				}
				reconstructed, err := engine.Run()
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				valid, coverage := sbh.Validate(reconstructed, spectrum, c.Int("k"))
				log.Noticef("Reconstructed %d/%d bp, coverage %.2f %%, valid: %v",
					len(reconstructed), len(sequence), coverage, valid)
				return nil
			},
		},
		{
			Name:  "benchmark",
			Usage: "Run repeated reconstruction trials and export results",
			UsageText: `
	sbh benchmark [options]

Benchmark function:
Runs independent generate/corrupt/reconstruct trials in parallel and
aggregates accuracy and timing. Results can be exported as CSV for the
report generator and as an npy matrix for the chart renderer.
`,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "trials", Usage: "Number of trials", Value: 20},
				cli.IntFlag{Name: "n", Usage: "Sequence length", Value: 300},
				cli.IntFlag{Name: "k", Usage: "K-mer length", Value: 10},
				cli.Float64Flag{Name: "neg", Usage: "Negative error rate", Value: 0.05},
				cli.Float64Flag{Name: "pos", Usage: "Positive error rate", Value: 0.05},
				cli.Int64Flag{Name: "seed", Usage: "Random seed", Value: 42},
				cli.StringFlag{Name: "engine", Usage: "Engine: adaptive or classic", Value: "adaptive"},
				cli.BoolFlag{Name: "ga", Usage: "Refine contig order with the GA"},
				cli.StringFlag{Name: "csv", Usage: "CSV output file", Value: "benchmark.csv"},
				cli.StringFlag{Name: "npy", Usage: "npy matrix output file", Value: ""},
			},
			Action: func(c *cli.Context) error {
				banner("Benchmark")
				b := &sbh.Benchmarker{
					K:       c.Int("k"),
					N:       c.Int("n"),
					Trials:  c.Int("trials"),
					NegRate: c.Float64("neg"),
					PosRate: c.Float64("pos"),
					Seed:    c.Int64("seed"),
					Engine:  c.String("engine"),
					GAOrder: c.Bool("ga"),
					CSVFile: c.String("csv"),
					NpyFile: c.String("npy"),
				}
				b.Run()
				return nil
			},
		},
		{
			Name:  "plot",
			Usage: "Serve a chart of benchmark results",
			UsageText: `
	sbh plot [options]

Plot function:
Serves an HTML scatter chart over a benchmark CSV file in the working
directory.
`,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "csv", Usage: "Benchmark CSV file", Value: "benchmark.csv"},
				cli.IntFlag{Name: "port", Usage: "Port to serve on", Value: 3000},
			},
			Action: func(c *cli.Context) error {
				p := &sbh.Plotter{CSVFile: c.String("csv"), Port: c.Int("port")}
				p.Run()
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
