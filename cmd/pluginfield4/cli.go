package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jessevdk/go-flags"

	"github.com/aledsz/pluginfield4/internal/config"
	"github.com/aledsz/pluginfield4/internal/dispatcher"
	"github.com/aledsz/pluginfield4/internal/payload"
	"github.com/aledsz/pluginfield4/internal/plugin"
)

// options are the command-line flags. Set flags override the config file.
type options struct {
	ConfigDir string `short:"c" long:"config-dir" description:"Directory holding pluginfield4.cfg.json and .env" default:"."`
	Input     string `short:"i" long:"input" description:"Notification source: a JSON-lines file, or - for stdin"`
	Follow    bool   `short:"f" long:"follow" description:"Keep reading the input file as it grows"`
	Listen    string `short:"l" long:"listen" description:"Serve the HTTP bridge on this address"`
	Version   bool   `short:"v" long:"version" description:"Print version and build info"`
}

// errHelp is returned when --help was requested and printed.
var errHelp = errors.New("help requested")

func parseOptions(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = ExtensionName

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, errHelp
		}
		return nil, err
	}
	return &opts, nil
}

// applyOverrides copies set flags over the loaded configuration.
func applyOverrides(opts *options) {
	if opts.Input != "" {
		config.Set("bridge.input", opts.Input)
	}
	if opts.Follow {
		config.Set("bridge.follow", true)
	}
	if opts.Listen != "" {
		config.Set("http.enabled", true)
		config.Set("http.address", opts.Listen)
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s (built %s)\n", plugin.Name, plugin.Version, BuildDate)
}

// dispatchOptions turns the dispatch section into dispatcher options.
func dispatchOptions(cfg config.DispatchConfig, debug bool) ([]dispatcher.Option, error) {
	mode, err := payload.ParseArrayMode(cfg.ArrayMode)
	if err != nil {
		return nil, err
	}

	opts := []dispatcher.Option{
		dispatcher.Workers(cfg.Workers),
		dispatcher.QueueSize(cfg.QueueSize),
		dispatcher.ArrayMode(mode),
	}
	if cfg.Blocking {
		opts = append(opts, dispatcher.Blocking())
	}
	if cfg.SendTimeout > 0 {
		opts = append(opts, dispatcher.SendTimeout(cfg.SendTimeout))
	}
	if debug {
		opts = append(opts, dispatcher.Logged())
	}
	return opts, nil
}
