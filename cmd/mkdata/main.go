package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/nyan233/pagesort"
	"github.com/zbh255/gocode/random"
)

type options struct {
	randomCount    int
	numbersOnly    bool
	width          int
	fileName       string
	interactive    bool
	blockingFactor int
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options]\n", os.Args[0])
	fmt.Fprint(out, "Options:\n"+
		"\t-r, --random <count>\tGenerate <count> random records.\n"+
		"\t-n, --numbers-only\tGenerate only numbers (only with -r).\n"+
		"\t-w, --width <digits>\tZero pad numbers to <digits> (only with -n).\n"+
		"\t-f, --file <filename>\tSet output file (default: data/data.bin).\n"+
		"\t-i, --interactive\tEnter interactive mode to write records.\n"+
		"\t-b, --blockingFactor <value>\tRecords per page of the output (default: 10).\n")
}

func parseOptions() (opt options, err error) {
	flag.IntVar(&opt.randomCount, "r", -1, "random record count")
	flag.IntVar(&opt.randomCount, "random", -1, "random record count")
	flag.BoolVar(&opt.numbersOnly, "n", false, "numbers only")
	flag.BoolVar(&opt.numbersOnly, "numbers-only", false, "numbers only")
	flag.IntVar(&opt.width, "w", 0, "zero padded digits")
	flag.IntVar(&opt.width, "width", 0, "zero padded digits")
	flag.StringVar(&opt.fileName, "f", "data/data.bin", "output file")
	flag.StringVar(&opt.fileName, "file", "data/data.bin", "output file")
	flag.BoolVar(&opt.interactive, "i", false, "interactive mode")
	flag.BoolVar(&opt.interactive, "interactive", false, "interactive mode")
	flag.IntVar(&opt.blockingFactor, "b", pagesort.DefaultRecordsPerPage, "blocking factor")
	flag.IntVar(&opt.blockingFactor, "blockingFactor", pagesort.DefaultRecordsPerPage, "blocking factor")
	flag.Usage = usage
	flag.Parse()

	randomMode := opt.randomCount >= 0
	switch {
	case flag.NArg() > 0:
		return opt, fmt.Errorf("unexpected argument '%s'", flag.Arg(0))
	case opt.interactive && randomMode:
		return opt, errors.New("-i (--interactive) and -r (--random) flags are mutually exclusive")
	case !opt.interactive && !randomMode:
		return opt, errors.New("either -i (--interactive) or -r (--random) flag must be provided")
	case opt.numbersOnly && !randomMode:
		return opt, errors.New("-n (--numbers-only) can only be used with -r (--random)")
	case opt.width > pagesort.DefaultRecordSize:
		return opt, fmt.Errorf("width %d exceeds the record size %d", opt.width, pagesort.DefaultRecordSize)
	case opt.blockingFactor < 1:
		return opt, fmt.Errorf("blocking factor %d < 1", opt.blockingFactor)
	}
	return opt, nil
}

// readLines collects records typed on r until "!q" or end of input.
func readLines(r io.Reader, w io.Writer) ([]pagesort.Record, error) {
	fmt.Fprintf(w, "Enter lines of text (up to %d characters). Type '!q' to finish.\n", pagesort.DefaultRecordSize)
	var res []pagesort.Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "!q" {
			break
		}
		if len(line) > pagesort.DefaultRecordSize {
			fmt.Fprintf(w, "Error: String exceeds %d characters. Please try again.\n", pagesort.DefaultRecordSize)
			continue
		}
		if line == "" {
			continue
		}
		res = append(res, pagesort.NewRecord(line))
	}
	return res, scanner.Err()
}

func randomStrings(n int) []pagesort.Record {
	res := make([]pagesort.Record, n)
	for i := range res {
		s := random.GenStringOnAscii(pagesort.DefaultRecordSize)
		res[i] = pagesort.NewRecord(s[:1+rand.IntN(len(s))])
	}
	return res
}

func randomNumbers(n, width int) ([]pagesort.Record, error) {
	limit := uint64(1)
	for i := 0; i < width && limit < 1e18; i++ {
		limit *= 10
	}
	if width == 0 {
		limit = 1e9
	}
	codec := pagesort.DecimalCodec{Width: width}
	res := make([]pagesort.Record, n)
	for i := range res {
		r, err := pagesort.EncodeRecord[uint64](codec, rand.Uint64N(limit))
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}

func save(path string, blockingFactor int, records []pagesort.Record) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f, err := pagesort.OpenPagedFile(path, pagesort.Options{RecordsPerPage: blockingFactor})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for i, r := range records {
		if err = f.Write(i, r); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	opt, err := parseOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		os.Exit(2)
	}

	var records []pagesort.Record
	switch {
	case opt.interactive:
		records, err = readLines(os.Stdin, os.Stdout)
	case opt.numbersOnly:
		records, err = randomNumbers(opt.randomCount, opt.width)
	default:
		records = randomStrings(opt.randomCount)
	}
	if err != nil {
		log.Fatal("Failed to collect records: ", err)
	}

	if err = save(opt.fileName, opt.blockingFactor, records); err != nil {
		log.Fatal("Failed to save records: ", err)
	}
	slog.Info("data saved", "path", opt.fileName, "records", len(records))
}
