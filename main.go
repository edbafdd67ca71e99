package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const VERSION = "v0.1.0"

func main() {
	if err := Main(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func Main(args []string) error {
	return app().Run(args)
}

func app() *cli.App {
	courseFlag := &cli.IntFlag{
		Name:    "course",
		Aliases: []string{"c"},
		Usage:   "zero-based index of the course in the IOF XML file (see the courses command)",
	}
	return &cli.App{
		Name:    "routechoices",
		Usage:   "Reconcile orienteering courses and routechoices from IOF XML, OCAD GPX and 2D Rerun exports",
		Version: VERSION,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file (default: routechoices.yaml in . or ./configs)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: json, kml or geojson",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "parser",
				Usage: "xml parser: goquery or etree",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "courses",
				Usage:     "List the courses of an IOF XML 3.0 file",
				ArgsUsage: "COURSES.xml",
				Action:    listCourses,
			},
			{
				Name:      "course",
				Usage:     "Export the controls and legs of one course",
				ArgsUsage: "COURSES.xml",
				Flags:     []cli.Flag{courseFlag},
				Action:    exportCourse,
			},
			{
				Name:      "routechoices",
				Usage:     "Attribute the tracks and routes of an OCAD GPX export to the legs of a course",
				ArgsUsage: "COURSES.xml ROUTECHOICES.gpx",
				Flags: []cli.Flag{
					courseFlag,
					&cli.BoolFlag{
						Name:  "ele",
						Usage: "lookup missing elevations from SRTM",
					},
				},
				Action: exportRoutechoices,
			},
			{
				Name:      "rerun",
				Usage:     "Georeference a 2D Rerun export and attribute its tags to legs",
				ArgsUsage: "EXPORT.json",
				Action:    exportRerun,
			},
		},
	}
}
