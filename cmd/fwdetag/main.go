// fwdetag signs a raw binary as a Frost Wing Deployed Executable by
// prepending the 7-byte FWDE header, keeping an untagged copy beside it.
//
// Usage:
//
//	fwdetag [--config FILE] [--arch N] [--archive PATH] [--lock] [-v] <artifact>
//	fwdetag --inspect <artifact>
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/CreditWorthy/fwdeforge"
	"github.com/CreditWorthy/fwdeforge/internal/config"
)

var exitFunc = os.Exit
var stderr io.Writer = os.Stderr
var stdout io.Writer = os.Stdout

func main() {
	flags := pflag.NewFlagSet("fwdetag", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML file with source, architecture, archive and lock settings")
	arch := flags.String("arch", "", "target architecture: 64, 32, 16, 8 or header code 1-4 (default 64)")
	archive := flags.String("archive", "", "path for the untagged copy (default: artifact with .raw extension)")
	lock := flags.Bool("lock", false, "hold an exclusive lock on <artifact>.lock while tagging")
	inspect := flags.Bool("inspect", false, "print the header of an already tagged artifact and exit")
	verbose := flags.BoolP("verbose", "v", false, "log each step")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			exitFunc(0)
			return
		}
		fmt.Fprintf(stderr, "fwdetag: %v\n", err)
		exitFunc(1)
		return
	}

	logLevel := slog.LevelWarn
	if *verbose || os.Getenv("FWDETAG_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if *inspect {
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "fwdetag: --inspect takes exactly one artifact path")
			exitFunc(1)
			return
		}
		if err := runInspect(flags.Arg(0)); err != nil {
			fmt.Fprintf(stderr, "fwdetag: %v\n", err)
			exitFunc(1)
		}
		return
	}

	var cfg config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "fwdetag: %v\n", err)
			exitFunc(1)
			return
		}
		cfg = loaded
	}
	if flags.NArg() > 1 {
		fmt.Fprintln(stderr, "fwdetag: expected at most one artifact path")
		exitFunc(1)
		return
	}
	if flags.NArg() == 1 {
		cfg.Source = flags.Arg(0)
	}
	if flags.Changed("arch") {
		cfg.Architecture = *arch
	}
	if flags.Changed("archive") {
		cfg.Archive = *archive
	}
	if flags.Changed("lock") {
		cfg.Lock = *lock
	}

	if cfg.Source == "" {
		fmt.Fprintln(stderr, "fwdetag: an artifact path (or source in --config) is required")
		exitFunc(1)
		return
	}

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(stderr, "fwdetag: %v\n", err)
		exitFunc(1)
		return
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	arch, err := cfg.Arch()
	if err != nil {
		return err
	}

	opts := []fwdeforge.TagOption{
		fwdeforge.WithArchivePath(cfg.Archive),
		fwdeforge.WithLogger(logger),
	}
	if cfg.Lock {
		opts = append(opts, fwdeforge.WithExclusiveLock())
	}

	res, err := fwdeforge.Tag(cfg.Source, arch, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %s %s-endian, %d payload bytes (untagged copy: %s)\n",
		res.Path, res.Header.Arch, res.Header.Endian, res.PayloadSize, res.ArchivePath)
	return nil
}

func runInspect(path string) error {
	h, err := fwdeforge.Inspect(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: signature=%s arch=%s marker=0x%02x endian=%s byte_order=%s\n",
		path, h.Magic[:], h.Arch, h.Marker, h.Endian, h.Endian.ByteOrder())
	return nil
}
