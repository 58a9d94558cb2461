package hsgm

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/hsgm/mapfile"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a named definition is not in the catalog.
var ErrNotFound = errors.New("hsgm: definition not found")

// Catalog is an sqlite database of imported map definitions.
type Catalog struct {
	db *sql.DB
}

// Match is a binding found by FindBinding.
type Match struct {
	Definition string
	Value      string
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS definition (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, crc TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (definition_id INTEGER NOT NULL, kind INTEGER NOT NULL, key TEXT NOT NULL, value TEXT NOT NULL, UNIQUE(definition_id, kind, key), FOREIGN KEY(definition_id) REFERENCES definition(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS binding (definition_id INTEGER NOT NULL, kind INTEGER NOT NULL, name TEXT NOT NULL, value TEXT NOT NULL, UNIQUE(definition_id, kind, name), FOREIGN KEY(definition_id) REFERENCES definition(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func definitionName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func encodeTuple(t mapfile.Tuple) string {
	s := make([]string, len(t))
	for i, n := range t {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

func decodeTuple(s string) (mapfile.Tuple, error) {
	if s == "" {
		return mapfile.Tuple{}, nil
	}
	fields := strings.Split(s, ",")
	t := make(mapfile.Tuple, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		t[i] = n
	}
	return t, nil
}

type parsedFile struct {
	file string
	name string
	crc  string
	def  *mapfile.Definition
}

func readDefinition(file string) (parsedFile, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return parsedFile{}, err
	}

	def, err := mapfile.Parse(bytes.NewReader(b))
	if err != nil {
		return parsedFile{}, fmt.Errorf("%s: %w", file, err)
	}

	return parsedFile{
		file: file,
		name: definitionName(file),
		crc:  crcBytes(b),
		def:  def,
	}, nil
}

// Import parses file and stores it under its base name without extension.
// If the catalog already holds the same content under that name nothing is
// written and the existing id is returned.
func (c *Catalog) Import(file string) (int64, error) {
	p, err := readDefinition(file)
	if err != nil {
		return 0, err
	}
	return c.Store(p.name, p.crc, p.def)
}

// Store saves def under name, replacing any definition previously stored
// under that name with a different checksum.
func (c *Catalog) Store(name, crc string, def *mapfile.Definition) (int64, error) {
	var id int64
	var existing string
	switch err := c.db.QueryRow("SELECT id, crc FROM definition WHERE name = ?", name).Scan(&id, &existing); err {
	case sql.ErrNoRows:
	case nil:
		if existing == crc {
			return id, nil
		}
	default:
		return 0, err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM definition WHERE name = ?", name); err != nil {
		return 0, err
	}

	result, err := tx.Exec("INSERT INTO definition (name, crc) VALUES (?, ?)", name, crc)
	if err != nil {
		return 0, err
	}
	if id, err = result.LastInsertId(); err != nil {
		return 0, err
	}

	for _, k := range mapfile.Kinds {
		p := def.Palette(k)
		for _, key := range p.Keys() {
			t, _ := p.Lookup(key)
			if _, err = tx.Exec("INSERT INTO palette (definition_id, kind, key, value) VALUES (?, ?, ?, ?)", id, int(k), key, encodeTuple(t)); err != nil {
				return 0, err
			}
		}

		for _, n := range def.Binding().Names(k) {
			if _, err = tx.Exec("INSERT INTO binding (definition_id, kind, name, value) VALUES (?, ?, ?, ?)", id, int(k), n, def.Binding().Get(k, n)); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Catalog) loadPalettes(b *mapfile.Builder, id int64) error {
	rows, err := c.db.Query("SELECT kind, key, value FROM palette WHERE definition_id = ?", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var kind int
		var key, value string
		if err := rows.Scan(&kind, &key, &value); err != nil {
			return err
		}
		t, err := decodeTuple(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		b.Set(mapfile.Kind(kind), key, t)
	}
	return rows.Err()
}

func (c *Catalog) loadBindings(b *mapfile.Builder, id int64) error {
	rows, err := c.db.Query("SELECT kind, name, value FROM binding WHERE definition_id = ?", id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var kind int
		var name, value string
		if err := rows.Scan(&kind, &name, &value); err != nil {
			return err
		}
		b.Bind(mapfile.Kind(kind), name, value)
	}
	return rows.Err()
}

// Load rebuilds the definition stored under name.
func (c *Catalog) Load(name string) (*mapfile.Definition, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM definition WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
	default:
		return nil, err
	}

	b := mapfile.NewBuilder()

	// Each query must be drained before the next as there is only one
	// connection
	if err := c.loadPalettes(b, id); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := c.loadBindings(b, id); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return b.Definition(), nil
}

// Remove deletes the definition stored under name, if any.
func (c *Catalog) Remove(name string) error {
	_, err := c.db.Exec("DELETE FROM definition WHERE name = ?", name)
	return err
}

// Names returns the names of all stored definitions in sorted order.
func (c *Catalog) Names() ([]string, error) {
	rows, err := c.db.Query("SELECT name FROM definition ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// FindBinding returns every value bound to name for kind across all stored
// definitions, ordered by definition name.
func (c *Catalog) FindBinding(kind mapfile.Kind, name string) ([]Match, error) {
	rows, err := c.db.Query("SELECT d.name, b.value FROM binding AS b JOIN definition AS d ON b.definition_id = d.id WHERE b.kind = ? AND b.name = ? ORDER BY d.name", int(kind), name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Definition, &m.Value); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
