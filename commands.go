package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/routechoices/config"
	"github.com/dave/routechoices/course"
	"github.com/dave/routechoices/document"
	"github.com/dave/routechoices/elevation"
	"github.com/dave/routechoices/export"
	"github.com/dave/routechoices/iofxml"
	"github.com/dave/routechoices/logging"
	"github.com/dave/routechoices/ocadgpx"
	"github.com/dave/routechoices/rerun"
	"github.com/urfave/cli/v2"
)

// settings are resolved once in setup and read by every command.
type settings struct {
	backend   document.Backend
	format    export.Format
	output    string
	elevation config.ElevationConfig
}

const settingsKey = "settings"

var createOutput = func(fpath string) (io.WriteCloser, error) {
	return os.Create(fpath)
}

func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("parser") {
		cfg.Parser = c.String("parser")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	// flags take precedence over the config file and environment
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	s := &settings{output: c.String("output"), elevation: cfg.Elevation}
	if s.backend, err = document.ParseBackend(cfg.Parser); err != nil {
		return err
	}
	if s.format, err = export.ParseFormat(cfg.Output.Format); err != nil {
		return err
	}
	c.App.Metadata = map[string]interface{}{settingsKey: s}
	return nil
}

func getSettings(c *cli.Context) *settings {
	return c.App.Metadata[settingsKey].(*settings)
}

func args(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() != len(names) {
		return nil, fmt.Errorf("%s expects %s", c.Command.Name, strings.Join(names, " "))
	}
	return c.Args().Slice(), nil
}

func listCourses(c *cli.Context) error {
	a, err := args(c, "COURSES.xml")
	if err != nil {
		return err
	}
	doc, err := document.Load(getSettings(c).backend, a[0])
	if err != nil {
		return err
	}
	names, err := iofxml.Courses(doc)
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}
	for i, name := range names {
		fmt.Fprintf(c.App.Writer, "%d\t%s\n", i, name)
	}
	return nil
}

func exportCourse(c *cli.Context) error {
	a, err := args(c, "COURSES.xml")
	if err != nil {
		return err
	}
	s := getSettings(c)
	name, controls, legs, err := loadCourse(s, a[0], c.Int("course"))
	if err != nil {
		return err
	}
	return s.write(c, name, controls, legs)
}

func exportRoutechoices(c *cli.Context) error {
	a, err := args(c, "COURSES.xml", "ROUTECHOICES.gpx")
	if err != nil {
		return err
	}
	s := getSettings(c)
	name, controls, legs, err := loadCourse(s, a[0], c.Int("course"))
	if err != nil {
		return err
	}

	doc, err := document.Load(s.backend, a[1])
	if err != nil {
		return err
	}
	var opts []ocadgpx.Option
	if c.Bool("ele") || s.elevation.Lookup {
		lookup, err := elevation.NewSrtm(&http.Client{Timeout: s.elevation.Timeout})
		if err != nil {
			return err
		}
		opts = append(opts, ocadgpx.WithElevations(lookup))
	}
	legs, err = ocadgpx.ParseRoutechoicesOntoLegs(doc, legs, opts...)
	if err != nil {
		return fmt.Errorf("parsing routechoices %q: %w", a[1], err)
	}
	return s.write(c, name, controls, legs)
}

func exportRerun(c *cli.Context) error {
	a, err := args(c, "EXPORT.json")
	if err != nil {
		return err
	}
	s := getSettings(c)
	exp, err := rerun.Load(a[0])
	if err != nil {
		return err
	}
	controls, legs, err := rerun.ParseTagsExport(exp)
	if err != nil {
		return fmt.Errorf("parsing 2d rerun export %q: %w", a[0], err)
	}
	name := strings.TrimSuffix(filepath.Base(a[0]), filepath.Ext(a[0]))
	return s.write(c, name, controls, legs)
}

func loadCourse(s *settings, fpath string, index int) (string, []course.Control, []course.Leg, error) {
	doc, err := document.Load(s.backend, fpath)
	if err != nil {
		return "", nil, nil, err
	}
	controls, legs, err := iofxml.ParseCourse(doc, index)
	if err != nil {
		return "", nil, nil, fmt.Errorf("parsing course %d of %q: %w", index, fpath, err)
	}
	var name string
	if names, err := iofxml.Courses(doc); err == nil && index < len(names) {
		name = names[index]
	}
	slog.Info("loaded course", "name", name, "controls", len(controls), "legs", len(legs))
	return name, controls, legs, nil
}

func (s *settings) write(c *cli.Context, name string, controls []course.Control, legs []course.Leg) error {
	if s.output == "" {
		return s.encode(c.App.Writer, name, controls, legs)
	}
	f, err := createOutput(s.output)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", s.output, err)
	}
	if err := s.encode(f, name, controls, legs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file %q: %w", s.output, err)
	}
	slog.Debug("wrote course", "format", s.format, "output", s.output)
	return nil
}

func (s *settings) encode(w io.Writer, name string, controls []course.Control, legs []course.Leg) error {
	if err := export.Write(w, s.format, name, controls, legs); err != nil {
		return fmt.Errorf("writing %s: %w", s.format, err)
	}
	return nil
}
