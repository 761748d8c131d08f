package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/nyan233/pagesort"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options] <fileName>\n\n", os.Args[0])
	fmt.Fprint(out, "Options:\n"+
		"\t-n, --bufferCount <value>\n\t\tSet buffer count (min: 3, default: 5)\n\n"+
		"\t-b, --blockingFactor <value>\n\t\tSet blocking factor (min: 1, default: 10)\n\n"+
		"\t-l, --logging\tDisable content logging\n\n"+
		"\t-v, --verbose\tLog page I/O diagnostics\n\n"+
		"Arguments:\n\t<fileName>\tRequired: Path to the file to be sorted\n")
}

func main() {
	var (
		bufferCount    int
		blockingFactor int
		quiet          bool
		verbose        bool
	)
	flag.IntVar(&bufferCount, "n", pagesort.DefaultBufferCount, "buffer count")
	flag.IntVar(&bufferCount, "bufferCount", pagesort.DefaultBufferCount, "buffer count")
	flag.IntVar(&blockingFactor, "b", pagesort.DefaultRecordsPerPage, "blocking factor")
	flag.IntVar(&blockingFactor, "blockingFactor", pagesort.DefaultRecordsPerPage, "blocking factor")
	flag.BoolVar(&quiet, "l", false, "disable content logging")
	flag.BoolVar(&quiet, "logging", false, "disable content logging")
	flag.BoolVar(&verbose, "v", false, "log page I/O diagnostics")
	flag.BoolVar(&verbose, "verbose", false, "log page I/O diagnostics")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: A file name must be provided.")
		flag.Usage()
		os.Exit(2)
	}
	fileName := flag.Arg(0)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var trace io.Writer = os.Stdout
	if quiet {
		trace = nil
	} else {
		fmt.Printf("Starting the script with arguments:\nfileName=%s\nbufferCount=%d\nblockingFactor=%d\n\n",
			fileName, bufferCount, blockingFactor)
	}

	sorter, err := pagesort.NewSorter(pagesort.Config{
		BufferCount:    bufferCount,
		BlockingFactor: blockingFactor,
		Logger:         logger,
		Trace:          trace,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		os.Exit(2)
	}
	if _, err = os.Stat(fileName); err != nil {
		log.Fatal("Failed to open input file: ", err)
	}

	rep, err := sorter.SortFile(fileName)
	if err != nil {
		log.Fatal("Failed to sort file: ", err)
	}

	fmt.Println("\nFinished")
	fmt.Println("Records:", rep.Records)
	fmt.Println("Pages:", rep.Pages)
	fmt.Println("Runs after stage 1:", rep.Runs)
	fmt.Println("Write Count:", rep.Stat.PageWrites)
	fmt.Println("Read Count:", rep.Stat.PageReads)
	fmt.Printf("Phases Needed: %d (theory: %d)\n", rep.Phases, rep.ExpectedPhases)
	fmt.Println("Disk accesses in practice:", rep.Stat.Total())
	fmt.Printf("Disk accesses in theory: %.2f\n", rep.TheoreticalAccesses)
}
