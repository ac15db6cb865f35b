// Command tzfield parses and formats single fields of tzdb source lines and
// checks whole releases for lines that cannot be turned into records.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ngrash/tzfield/tzfield"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Error(err)
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tzfield",
		Usage:     "parse time specs and UTC offsets from tzdb source lines",
		Writer:    stdout,
		ErrWriter: stderr,
		// Errors are returned from Run and handled in main.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "logging level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: "text",
				Usage: "log output format: text or json",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.App.ErrWriter, c.String("log-level"), c.String("log-format"))
		},
		Commands: []*cli.Command{
			timeCommand(),
			offsetCommand(),
			formatCommand(),
			monthCommand(),
			checkCommand(),
		},
	}
}

func setupLogging(w io.Writer, level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return cli.Exit(err, 2)
	}
	log.SetLevel(lvl)
	log.SetOutput(w)
	switch format {
	case "text":
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return cli.Exit(fmt.Sprintf("unknown log format %q", format), 2)
	}
	return nil
}

func timeCommand() *cli.Command {
	return &cli.Command{
		Name:      "time",
		Usage:     "print the UTC instant of a time spec such as \"2014 Jun 04 21:56:01\"",
		ArgsUsage: "TEXT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "offset",
				Aliases: []string{"o"},
				Value:   "0",
				Usage:   "UTC offset of the zone the time is local to, as seconds or [-]H:MM[:SS]",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("time needs exactly one argument", 2)
			}
			off, err := parseOffsetFlag(c.String("offset"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			unix, ok, err := tzfield.ParseTime(c.Args().First(), off)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if !ok {
				fmt.Fprintln(c.App.Writer, "-")
				return nil
			}
			log.WithFields(log.Fields{
				"text":   c.Args().First(),
				"offset": off,
			}).Debug("parsed time spec")
			fmt.Fprintln(c.App.Writer, unix)
			return nil
		},
	}
}

// parseOffsetFlag accepts plain seconds as well as the offset syntax.
func parseOffsetFlag(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	return tzfield.ParseOffset(s)
}

func offsetCommand() *cli.Command {
	return &cli.Command{
		Name:      "offset",
		Usage:     "print a [-]H:MM[:SS] offset in seconds east of UTC",
		ArgsUsage: "TEXT",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("offset needs exactly one argument", 2)
			}
			off, err := tzfield.ParseOffset(c.Args().First())
			if err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintln(c.App.Writer, off)
			return nil
		},
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "print an offset given in seconds as ±HHMM[SS]",
		ArgsUsage: "[--] SECONDS",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("format needs exactly one argument", 2)
			}
			n, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return cli.Exit(fmt.Errorf("%w: %q", tzfield.ErrInvalidOffsetType, c.Args().First()), 1)
			}
			fmt.Fprintln(c.App.Writer, tzfield.FormatOffset(n))
			return nil
		},
	}
}

func monthCommand() *cli.Command {
	return &cli.Command{
		Name:      "month",
		Usage:     "print the number of a month abbreviation",
		ArgsUsage: "ABBREV",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("month needs exactly one argument", 2)
			}
			m, err := tzfield.ParseMonth(c.Args().First())
			if err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintln(c.App.Writer, int(m))
			return nil
		},
	}
}
