package main

import (
	"fmt"
	"github.com/nyan233/pagesort"
	"math/rand/v2"
	"os"
	"path/filepath"
)

func main() {
	// create file with path is dbset/quick_start.bin
	if err := os.MkdirAll("dbset", 0755); err != nil {
		panic(err)
	}
	path := filepath.Join("dbset", "quick_start.bin")
	f, err := pagesort.OpenPagedFile(path, pagesort.Options{RecordsPerPage: 4})
	if err != nil {
		panic(err)
	}
	// write 64 zero padded random numbers, they sort numerically
	codec := pagesort.DecimalCodec{Width: 8}
	for i := 0; i < 64; i++ {
		r, err := pagesort.EncodeRecord[uint64](codec, rand.Uint64N(1e8))
		if err != nil {
			panic(err)
		}
		if err = f.Write(i, r); err != nil {
			panic(err)
		}
	}
	// sort in place with 3 page buffers
	s, err := pagesort.NewSorter(pagesort.Config{BufferCount: 3, BlockingFactor: 4})
	if err != nil {
		panic(err)
	}
	rep, err := s.Sort(f)
	if err != nil {
		panic(fmt.Errorf("sort err:%v", err))
	}
	fmt.Printf("pages=%d runs=%d phases=%d reads=%d writes=%d\n",
		rep.Pages, rep.Runs, rep.Phases, rep.Stat.PageReads, rep.Stat.PageWrites)
	for i := 0; i < 64; i += 16 {
		r, err := f.Read(i)
		if err != nil {
			panic(err)
		}
		v, err := pagesort.DecodeRecord[uint64](codec, r)
		if err != nil {
			panic(err)
		}
		fmt.Printf("file.read index=%d, val=%d\n", i, v)
	}
	// close, flush the resident page
	if err = f.Close(); err != nil {
		panic(fmt.Errorf("close err:%v", err))
	}
}
