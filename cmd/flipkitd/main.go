// Command flipkitd serves the conversion API: POST a PDF with a
// password to /convert and receive a self-contained flipbook HTML.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/raster"
	"github.com/wudi/flipkit/server"
)

type options struct {
	addr string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flipkitd: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "flipkitd: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: flipkitd [flags]\n")
		flag.PrintDefaults()
	}
	addr := flag.String("addr", "", `Listen address (default ":8000", or ":$PORT" when PORT is set)`)
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		return options{}, fmt.Errorf("unexpected arguments")
	}
	opts.addr = *addr
	if opts.addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			opts.addr = ":" + port
		} else {
			opts.addr = ":8000"
		}
	}
	return opts, nil
}

func run(opts options) error {
	log := observability.NewStderrLogger()
	srv := server.New(raster.NewFitz(log), log)
	return srv.Start(opts.addr)
}
