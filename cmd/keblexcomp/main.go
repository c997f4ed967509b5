// Command keblexcomp runs the compressor over a WAV file, either offline to
// another WAV file or live to the default audio device with a level meter.
//
// Usage:
//
//	keblexcomp [flags] -in input.wav (-out output.wav | -play)
//
// Examples:
//
//	keblexcomp -in drums.wav -out drums-comp.wav -threshold -18 -ratio 4 -release 80
//	keblexcomp -in vocal.wav -play -control knobs.json -watch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-comp/internal/control"
	"github.com/sirupsen/logrus"
)

type options struct {
	in, out     string
	play, loop  bool
	controlFile string
	watch       bool
	blockSize   int
	meter       bool
}

func main() {
	knobs := control.RegisterFlags(flag.CommandLine)

	var opts options
	flag.StringVar(&opts.in, "in", "", "input WAV file")
	flag.StringVar(&opts.out, "out", "", "output WAV file (offline mode)")
	flag.BoolVar(&opts.play, "play", false, "play the processed input on the default audio device")
	flag.BoolVar(&opts.loop, "loop", false, "repeat the input while playing")
	flag.StringVar(&opts.controlFile, "control", "", "JSON control file applied on top of the flags")
	flag.BoolVar(&opts.watch, "watch", false, "reload the control file when it changes (play mode)")
	flag.IntVar(&opts.blockSize, "block", 512, "host block size in samples")
	flag.BoolVar(&opts.meter, "meter", true, "show the output level meter while playing")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: keblexcomp [flags] -in input.wav (-out output.wav | -play)\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	err := run(logger, knobs, opts)
	if err != nil {
		logger.WithError(err).Error("keblexcomp failed")

		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}

		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(logger *logrus.Logger, knobs *control.Flags, opts options) error {
	if opts.in == "" || (opts.out == "") == !opts.play {
		return fmt.Errorf("%w: need -in and exactly one of -out or -play", errUsage)
	}

	if opts.blockSize < 1 {
		return fmt.Errorf("%w: block size must be at least 1: %d", errUsage, opts.blockSize)
	}

	params, err := knobs.Parameters()
	if err != nil {
		return err
	}

	if opts.play {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runPlay(ctx, logger, params, opts)
	}

	return runOffline(logger, params, opts)
}
