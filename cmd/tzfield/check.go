package main

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ngrash/tzfield/tzdb/ianadist"
	"github.com/ngrash/tzfield/tzrecord"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "build records from every line of tzdb source files and report the lines that fail",
		Description: "Sources are plain source files given as arguments, the data files of a release\n" +
			"archive (--archive) or the data files of the latest IANA release (--latest).",
		ArgsUsage: "[FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "archive",
				Aliases: []string{"a"},
				Usage:   "read the data files of a tzdata release `ARCHIVE` (.tar.gz)",
			},
			&cli.BoolFlag{
				Name:  "latest",
				Usage: "download and check the latest release from IANA",
			},
		},
		Action: func(c *cli.Context) error {
			src, err := loadSources(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if len(src.names) == 0 {
				return cli.Exit("check needs files, --archive or --latest", 2)
			}

			var failed int
			for _, name := range src.names {
				f, lineErrs, err := tzrecord.ParseAll(bytes.NewReader(src.files[name]))
				if err != nil {
					return cli.Exit(fmt.Errorf("read %s: %w", name, err), 1)
				}
				for _, lerr := range lineErrs {
					log.WithFields(log.Fields{
						"file":  name,
						"line":  lerr.Line,
						"error": lerr.Err,
					}).Warn("bad record")
				}
				failed += len(lineErrs)
				log.WithFields(log.Fields{
					"file":  name,
					"zones": len(f.Zones),
					"rules": len(f.Rules),
					"links": len(f.Links),
				}).Debug("checked file")
			}

			fmt.Fprintf(c.App.Writer, "%s: %d files, %d bad lines\n", src.version, len(src.names), failed)
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d lines failed", failed), 1)
			}
			return nil
		},
	}
}

type sources struct {
	version string
	names   []string
	files   map[string][]byte
}

func loadSources(c *cli.Context) (sources, error) {
	var release *ianadist.Release
	switch {
	case c.Bool("latest"):
		r, _, err := ianadist.Latest(c.Context, "")
		if err != nil {
			return sources{}, err
		}
		release = r
	case c.IsSet("archive"):
		f, err := os.Open(c.String("archive"))
		if err != nil {
			return sources{}, err
		}
		defer f.Close()
		if release, err = ianadist.ReadArchive(f); err != nil {
			return sources{}, fmt.Errorf("%s: %w", c.String("archive"), err)
		}
	}
	if release != nil {
		log.WithField("version", release.Version).Info("loaded release")
		return sources{version: release.Version, names: release.Names(), files: release.DataFiles}, nil
	}

	src := sources{version: "files", files: make(map[string][]byte)}
	for _, name := range c.Args().Slice() {
		data, err := os.ReadFile(name)
		if err != nil {
			return sources{}, err
		}
		src.names = append(src.names, name)
		src.files[name] = data
	}
	return src, nil
}
