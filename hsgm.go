/*
Package hsgm is a library for maintaining a catalog of hsgm map definitions.

Definitions are parsed with the mapfile package and stored in an sqlite
database so that bindings can be looked up across every imported map.
*/
package hsgm

import (
	"log"

	"github.com/bodgit/hsgm/mapfile"
)

type HSGM struct {
	catalog *Catalog
	logger  *log.Logger
}

// New opens the catalog stored in file, creating it if necessary.
func New(file string, logger *log.Logger) (*HSGM, error) {
	c, err := NewCatalog(file)
	if err != nil {
		return nil, err
	}
	return &HSGM{
		catalog: c,
		logger:  logger,
	}, nil
}

func (h *HSGM) Close() error {
	return h.catalog.Close()
}

// Catalog returns the underlying catalog.
func (h *HSGM) Catalog() *Catalog {
	return h.catalog
}

// Import parses and stores each file in turn, stopping at the first error.
func (h *HSGM) Import(files ...string) error {
	for _, file := range files {
		id, err := h.catalog.Import(file)
		if err != nil {
			return err
		}
		h.logger.Printf("Imported \"%s\" as #%d\n", file, id)
	}
	return nil
}

// Lookup returns every value bound to name for kind.
func (h *HSGM) Lookup(kind mapfile.Kind, name string) ([]Match, error) {
	return h.catalog.FindBinding(kind, name)
}
