// Command connectz judges a Connect-Z game file and prints its outcome
// code.
//
//	0 draw               5 illegal row
//	1 player 1 win       6 illegal column
//	2 player 2 win       7 illegal game
//	3 incomplete         8 invalid file
//	4 illegal continue   9 file error
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"connectz/internal/analytics"
	"connectz/internal/judge"

	log "github.com/sirupsen/logrus"
)

const exitUsage = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("connectz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		verbose    = fs.Bool("v", false, "debug logging on stderr")
		exitStatus = fs.Bool("exit", false, "also use the outcome code as the exit status")
	)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "connectz: Provide one input file")
		return exitUsage
	}

	log.SetOutput(stderr)
	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	j := &judge.Judge{}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer := analytics.NewProducer(strings.Split(brokers, ","), getenv("KAFKA_TOPIC", "connectz-results"))
		defer producer.Close()
		j.OnFinish = func(rep judge.Report) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			producer.PublishReport(ctx, rep, "cli")
		}
	}

	rep := j.File(fs.Arg(0))
	fmt.Fprintln(stdout, rep.Outcome.Code())
	if *exitStatus {
		return rep.Outcome.Code()
	}
	return 0
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
