// Copyright 2016 Aleksandr Demakin. All rights reserved.

// shmctl manages a uint64 counter placed in typed shared memory.
// It is also used as a helper program by multi-process tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nxgtw/typedshm"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	objName    = flag.String("object", "", "shared memory object name")
	configPath = flag.String("config", "", "toml config file")
	global     = flag.Bool("global", false, "use the global namespace on windows")
	verbose    = flag.Bool("v", false, "debug logging")
)

const usage = `  shmctl manages a uint64 counter in shared memory.
available commands:
  serve [initial]   create the counter and hold it until interrupted
  get               print the value
  set {value}       overwrite the value
  add {delta}       add delta to the value
  test {expected}   fail, if the value differs from expected
  destroy           remove a stale object (unix only)
`

func resolveConfig() (config, error) {
	cfg := defaultConfig()
	if len(*configPath) > 0 {
		var err error
		if cfg, err = loadConfig(*configPath, cfg); err != nil {
			return config{}, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "object":
			cfg.Object = *objName
		case "global":
			cfg.Global = *global
		case "v":
			if *verbose {
				cfg.LogLevel = zerolog.DebugLevel
			}
		}
	})
	if len(cfg.Object) == 0 {
		return config{}, errors.New("object name is not set")
	}
	return cfg, nil
}

func newLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "shmctl").Logger()
}

func attach(cfg config) (*typedshm.Segment[uint64], error) {
	return typedshm.New(typedshm.Config[uint64]{Name: cfg.Object, Global: cfg.Global})
}

func parseArg(n int) (uint64, error) {
	if flag.NArg() != n+1 {
		return 0, errors.Errorf("%s: must provide exactly %d argument(s)", flag.Arg(0), n)
	}
	if n == 0 {
		return 0, nil
	}
	value, err := strconv.ParseUint(flag.Arg(1), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: invalid value", flag.Arg(0))
	}
	return value, nil
}

func serve(cfg config, log zerolog.Logger) error {
	var initial uint64
	if flag.NArg() > 1 {
		var err error
		if initial, err = parseArg(1); err != nil {
			return err
		}
	}
	seg, err := typedshm.New(typedshm.Config[uint64]{
		Name:    cfg.Object,
		Owner:   true,
		Initial: &initial,
		Perm:    cfg.Perm,
		Global:  cfg.Global,
	})
	if err != nil {
		return err
	}
	log.Info().Str("object", seg.Name()).Uint64("initial", initial).Msg("serving")
	fmt.Println("ready")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	log.Info().Str("signal", s.String()).Uint64("value", seg.Load()).Msg("shutting down")
	return seg.Close()
}

func withSegment(cfg config, f func(seg *typedshm.Segment[uint64]) error) error {
	seg, err := attach(cfg)
	if err != nil {
		return err
	}
	err = f(seg)
	if closeErr := seg.Close(); err == nil {
		err = closeErr
	}
	return err
}

func get(cfg config) error {
	if _, err := parseArg(0); err != nil {
		return err
	}
	return withSegment(cfg, func(seg *typedshm.Segment[uint64]) error {
		fmt.Println(seg.Load())
		return nil
	})
}

func set(cfg config) error {
	value, err := parseArg(1)
	if err != nil {
		return err
	}
	return withSegment(cfg, func(seg *typedshm.Segment[uint64]) error {
		seg.Store(value)
		return seg.Flush()
	})
}

func add(cfg config) error {
	delta, err := parseArg(1)
	if err != nil {
		return err
	}
	return withSegment(cfg, func(seg *typedshm.Segment[uint64]) error {
		*seg.Get() += delta
		fmt.Println(seg.Load())
		return nil
	})
}

func test(cfg config) error {
	expected, err := parseArg(1)
	if err != nil {
		return err
	}
	return withSegment(cfg, func(seg *typedshm.Segment[uint64]) error {
		if actual := seg.Load(); actual != expected {
			return errors.Errorf("invalid value. expected '%d', got '%d'", expected, actual)
		}
		return nil
	})
}

func destroy(cfg config) error {
	if _, err := parseArg(0); err != nil {
		return err
	}
	return typedshm.Destroy(cfg.Object)
}

func runCommand(cfg config, log zerolog.Logger) error {
	switch command := flag.Arg(0); command {
	case "serve":
		return serve(cfg, log)
	case "get":
		return get(cfg)
	case "set":
		return set(cfg)
	case "add":
		return add(cfg)
	case "test":
		return test(cfg)
	case "destroy":
		return destroy(cfg)
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Print(usage)
		flag.Usage()
		os.Exit(1)
	}
	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shmctl: %v\n", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)
	typedshm.SetLogger(log)
	if err := runCommand(cfg, log); err != nil {
		log.Error().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
		os.Exit(1)
	}
}
