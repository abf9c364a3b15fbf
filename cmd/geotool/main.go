// Command geotool is a terminal companion to the map view: it parses and
// copies coordinates, composes map viewports and takes a location fix.
//
//	geotool parse "19.0760, 72.8777"
//	geotool parse -clipboard
//	geotool copy 19.076 72.8777
//	geotool map [-search "lat, lng"] lat,lng ...
//	geotool acquire [-seed N]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samirrijal/fieldproof/internal/adapters/clipboard"
	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/geospatial"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, clipboard.System{}); err != nil {
		fmt.Fprintln(os.Stderr, "geotool:", err)
		os.Exit(1)
	}
}

func usage() error {
	return errors.New("usage: geotool <parse|copy|map|acquire> [args]")
}

func run(args []string, out io.Writer, clip clipboardIO) error {
	if len(args) == 0 {
		return usage()
	}
	cmd, rest := args[0], args[1:]
	svc := usecases.NewClipboardService(clip)

	switch cmd {
	case "parse":
		fs := flag.NewFlagSet("parse", flag.ContinueOnError)
		fromClip := fs.Bool("clipboard", false, "read the coordinate from the clipboard")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var (
			p   domain.GeoPoint
			ok  bool
			err error
		)
		if *fromClip {
			p, ok, err = svc.SearchFromClipboard()
		} else {
			p, ok, err = usecases.ParseCoordinate(strings.Join(fs.Args(), " "))
		}
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no coordinate given")
		}
		fmt.Fprintln(out, p.String())
		return nil

	case "copy":
		if len(rest) != 2 {
			return errors.New("usage: geotool copy <lat> <lng>")
		}
		p, ok, err := usecases.ParseCoordinate(rest[0] + " " + rest[1])
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no coordinate given")
		}
		text, err := svc.CopyCoordinate(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "copied %s\n", text)
		return nil

	case "map":
		fs := flag.NewFlagSet("map", flag.ContinueOnError)
		search := fs.String("search", "", `centre on "lat, lng" instead of the points`)
		base := fs.String("embed", usecases.DefaultEmbedBase, "embed endpoint")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		var points []domain.GeoPoint
		for _, a := range fs.Args() {
			p, ok, err := usecases.ParseCoordinate(a)
			if err != nil {
				return fmt.Errorf("point %q: %w", a, err)
			}
			if ok {
				points = append(points, p)
			}
		}
		var searched *domain.GeoPoint
		if p, ok, err := usecases.ParseCoordinate(*search); err != nil {
			return fmt.Errorf("search: %w", err)
		} else if ok {
			searched = &p
		}
		v := usecases.ComposeMapView(points, searched)
		b := v.BoundingBox
		fmt.Fprintf(out, "source: %s\nmarker: %s\nbbox:   %s .. %s\nspan:   %.0f m\nurl:    %s\n",
			v.Source, v.Marker,
			domain.FormatCoordinate(b.MinLat, b.MinLon), domain.FormatCoordinate(b.MaxLat, b.MaxLon),
			geospatial.Haversine(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon),
			usecases.EmbedURL(*base, v))
		return nil

	case "acquire":
		fs := flag.NewFlagSet("acquire", flag.ContinueOnError)
		seed := fs.String("seed", "0", "synthetic provider seed")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		n, err := strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		c, near := usecases.NewSyntheticLocationProvider(n, nil).AcquireLabeled(context.Background())
		fmt.Fprintf(out, "%s (±%.0f m, near %s)\n", domain.FormatCoordinate(c.Latitude, c.Longitude), c.Accuracy, near)
		return nil
	}
	return usage()
}

type clipboardIO interface {
	ReadText() (string, error)
	WriteText(text string) error
}
