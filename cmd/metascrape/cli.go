package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/metascrape"
	mshttp "github.com/fwojciec/metascrape/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Service metascrape.MetadataService
}

// CLI defines the command-line interface structure for Kong.
// Every flag can also be set through its METASCRAPE_* environment variable.
type CLI struct {
	LogLevel     string        `default:"info" enum:"debug,info,warn,error" env:"METASCRAPE_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat    string        `default:"text" enum:"text,json" env:"METASCRAPE_LOG_FORMAT" help:"Log format (text, json)"`
	FetchTimeout time.Duration `default:"10s" env:"METASCRAPE_FETCH_TIMEOUT" help:"Timeout for fetching the target page"`
	UserAgent    string        `default:"${user_agent}" env:"METASCRAPE_USER_AGENT" help:"User-Agent sent to target sites"`

	Serve   ServeCmd   `cmd:"" help:"Run the metadata extraction HTTP server"`
	Extract ExtractCmd `cmd:"" help:"Extract metadata from one URL and print it as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr            string        `default:":8080" env:"METASCRAPE_ADDR" help:"Listen address"`
	Path            string        `default:"/" env:"METASCRAPE_PATH" help:"Route of the extraction endpoint"`
	ShutdownTimeout time.Duration `default:"10s" env:"METASCRAPE_SHUTDOWN_TIMEOUT" help:"Grace period for in-flight requests on shutdown"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Absolute URL of the page to extract"`
}

// vars are interpolated into struct tag defaults.
var vars = kong.Vars{
	"user_agent": mshttp.DefaultUserAgent,
}
