// Package cli holds the offline commands of alloc-cli. Every command runs the same
// services as the HTTP API, fed from CSV or YAML files instead of the database.
package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/catalog"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// Root is the alloc-cli command grammar.
type Root struct {
	Version  kong.VersionFlag `help:"Print version and exit."`
	Format   string           `help:"Output format." enum:"json,csv,table" default:"json" short:"f"`
	Comma    string           `help:"Field delimiter of input CSV files." default:","`
	LogLevel string           `help:"Log level written to stderr." default:"warn" env:"LOG_LEVEL"`
	Trace    bool             `help:"Log every search step at debug level."`

	Allocate AllocateCmd `cmd:"" help:"Allocate course seats by priority."`
	Schedule ScheduleCmd `cmd:"" help:"Place club activities into venues."`
	Plan     PlanCmd     `cmd:"" help:"Plan a reading order with the earliest finish."`
	Rank     RankCmd     `cmd:"" help:"Recommend courses under a credit ceiling."`
	Export   ExportCmd   `cmd:"" help:"Write an allocation or timetable as CSV or PDF."`
	Token    TokenCmd    `cmd:"" help:"Issue an access token for the HTTP API."`
}

// Context is passed to every command's Run method.
type Context struct {
	Logger *zap.Logger
	Out    io.Writer
	Format string
	Comma  rune
	Trace  bool
}

// NewContext builds the command context from parsed global flags.
func (r *Root) NewContext(out io.Writer, logger *zap.Logger) (*Context, error) {
	comma, err := parseComma(r.Comma)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{Logger: logger, Out: out, Format: r.Format, Comma: comma, Trace: r.Trace}, nil
}

func parseComma(raw string) (rune, error) {
	if raw == `\t` || strings.EqualFold(raw, "tab") {
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return r, nil
}

func loadInstance(path string) (*catalog.Instance, error) {
	if path == "" {
		return &catalog.Instance{}, nil
	}
	return catalog.LoadInstance(path)
}
