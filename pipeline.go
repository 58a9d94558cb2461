package hsgm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const scanWorkers = 4

func isDefinition(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".map", ".hsgm":
		return true
	}
	return false
}

func (h *HSGM) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isDefinition(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (h *HSGM) parseWorker(ctx context.Context, in <-chan string) (<-chan parsedFile, <-chan error, error) {
	out := make(chan parsedFile)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			p, err := readDefinition(file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

func (h *HSGM) storeWorker(ctx context.Context, in <-chan parsedFile) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		// Files arrive in no particular order, so of two files sharing a
		// name the one whose path sorts first wins
		seen := make(map[string]string)
		for p := range in {
			if prev, ok := seen[p.name]; ok {
				kept, dropped := prev, p.file
				if p.file < prev {
					kept, dropped = p.file, prev
				}
				h.logger.Printf("Duplicate definition \"%s\": keeping \"%s\", ignoring \"%s\"\n", p.name, kept, dropped)
				if kept == prev {
					continue
				}
			}
			seen[p.name] = p.file

			id, err := h.catalog.Store(p.name, p.crc, p.def)
			if err != nil {
				errc <- err
				return
			}
			h.logger.Printf("Stored \"%s\" as #%d\n", p.name, id)

			if ctx.Err() != nil {
				return
			}
		}
	}()
	return errc, nil
}

func mergeParsed(ctx context.Context, cs ...<-chan parsedFile) <-chan parsedFile {
	var wg sync.WaitGroup
	out := make(chan parsedFile)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan parsedFile) {
			defer wg.Done()
			for p := range c {
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// waitForPipeline returns the first error from any stage. The remaining
// stages are cancelled and drained before returning.
func waitForPipeline(cancelFunc context.CancelFunc, errs ...<-chan error) error {
	var first error
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil && first == nil {
			first = err
			cancelFunc()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path looking for map definitions and stores each one in the
// catalog. Files are parsed concurrently but stored one at a time. Definitions
// are keyed by base name; where two files share a name the one whose path
// sorts first is kept and the other is logged and ignored.
func (h *HSGM) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := h.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var parsed []<-chan parsedFile
	for i := 0; i < scanWorkers; i++ {
		out, errc, err := h.parseWorker(ctx, files)
		if err != nil {
			return err
		}
		parsed = append(parsed, out)
		errcList = append(errcList, errc)
	}

	errc, err = h.storeWorker(ctx, mergeParsed(ctx, parsed...))
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(cancelFunc, errcList...)
}
