package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/faqtory/core"
	"github.com/poiesic/faqtory/ingestion"
)

// loadDocuments reads every regular file directly under dir. A document's id
// is the file name without its extension, so two files that differ only by
// extension are an error. Hidden files are skipped and the result is ordered
// by file name.
func loadDocuments(dir string, workers int) ([]core.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	owners := make(map[string]string)
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		id := documentID(e.Name())
		if prev, ok := owners[id]; ok {
			return nil, fmt.Errorf("%w: %s and %s both map to %q", ingestion.ErrDuplicateDocumentID, prev, e.Name(), id)
		}
		owners[id] = e.Name()
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return []core.Document{}, nil
	}

	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	docs := make([]core.Document, len(names))
	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				errs[i] = err
				return
			}
			docs[i] = core.Document{
				ID:   documentID(name),
				Text: string(data),
				Metadata: core.DocumentMetadata{
					Source:   core.SourceFile,
					SourceID: path,
				},
			}
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return docs, nil
}

func documentID(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
