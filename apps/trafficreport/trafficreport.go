package main

import (
	"flag"
	"fmt"
	"github.com/jeanrmiranda/script-zabbix/config"
	"github.com/jeanrmiranda/script-zabbix/report"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"log"
	"os"
	"time"
)

const (
	kGeneralUsage = `
Usage: trafficreport subcommand flags

sub commands:
  keys: reports interfaces listed per host by name
  labels: reports interfaces whose label contains a pattern
  discover: lists the interfaces and label matches of each host
`
)

type commandType struct {
	fs         *flag.FlagSet
	configFile *string
	windowName *string
	format     *string
	verbose    *bool
}

func newCommand(name string) *commandType {
	result := &commandType{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	result.configFile = result.fs.String(
		"config", "trafficreport.yaml", "path of the configuration file")
	result.windowName = result.fs.String(
		"window",
		"",
		"last30Days or previousMonth; overrides the configuration")
	result.format = result.fs.String(
		"format", report.FormatText, "text or json")
	result.verbose = result.fs.Bool(
		"verbose", false, "log every API call to stderr")
	return result
}

func (c *commandType) reporter(args []string) (*report.Reporter, func()) {
	c.fs.Parse(args)
	logger := log.New(os.Stderr, "", log.LstdFlags)
	var conf config.Config
	if err := config.ReadFromFile(*c.configFile, &conf); err != nil {
		log.Fatal(err)
	}
	if err := conf.SetWindow(*c.windowName); err != nil {
		log.Fatal(err)
	}
	mode, err := conf.WindowMode()
	if err != nil {
		log.Fatal(err)
	}
	reportConfig, err := conf.Report()
	if err != nil {
		log.Fatal(err)
	}
	writer, err := report.NewWriterForFormat(
		*c.format, os.Stdout, conf.Options())
	if err != nil {
		log.Fatal(err)
	}
	var clientLogger *log.Logger
	if *c.verbose {
		clientLogger = logger
	}
	client := zabbix.NewClient(conf.Zabbix(), clientLogger)
	result := report.New(
		client,
		reportConfig,
		window.Compute(time.Now(), mode),
		writer,
		logger)
	cleanup := func() {}
	if conf.Influx != nil {
		sink, err := conf.Influx.NewWriter()
		if err != nil {
			log.Fatal(err)
		}
		result.SetSink(sink)
		cleanup = func() {
			if err := sink.Close(); err != nil {
				logger.Println(err)
			}
		}
	}
	return result, cleanup
}

func run(name string, args []string, runner func(r *report.Reporter) error) {
	reporter, cleanup := newCommand(name).reporter(args)
	defer cleanup()
	if err := runner(reporter); err != nil {
		fmt.Println(report.Describe(err))
	}
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal(kGeneralUsage)
	}
	subCommand := os.Args[1]
	args := os.Args[2:]
	switch subCommand {
	case "keys":
		run(subCommand, args, (*report.Reporter).RunKeys)
	case "labels":
		run(subCommand, args, (*report.Reporter).RunLabels)
	case "discover":
		run(subCommand, args, (*report.Reporter).RunDiscover)
	default:
		log.Fatal(kGeneralUsage)
	}
}
