package design

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Description is a parsed design document. Keys keep their document order.
// A Description is never mutated after Load returns it.
type Description struct {
	path   string
	root   *yaml.Node
	source []byte
}

var lineRe = regexp.MustCompile(`line (\d+)`)

// Load reads and parses the design document at path. The file is closed
// before Load returns, whatever the parse outcome.
func Load(path string) (*Description, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse builds a Description from raw bytes. The format is chosen from the
// extension of name: .toml is read as TOML, anything else as YAML.
func Parse(name string, data []byte) (*Description, error) {
	var (
		root *yaml.Node
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		root, err = parseTOML(data)
	default:
		root, err = parseYAML(data)
	}
	if err != nil {
		return nil, &ParseError{Path: name, Line: errorLine(err), Err: err}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: name, Line: root.Line, Err: errors.New("top level must be a mapping")}
	}

	src := make([]byte, len(data))
	copy(src, data)
	return &Description{path: name, root: root, source: src}, nil
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty document")
	}
	return doc.Content[0], nil
}

func errorLine(err error) int {
	if m := lineRe.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// Path returns the path the description was loaded from.
func (d *Description) Path() string { return d.path }

// Name returns the document's top-level name, falling back to the file name.
func (d *Description) Name() string {
	if v, ok := d.Get("name"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	base := filepath.Base(d.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Keys returns the top-level keys in document order.
func (d *Description) Keys() []string {
	keys := make([]string, 0, len(d.root.Content)/2)
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		keys = append(keys, d.root.Content[i].Value)
	}
	return keys
}

// Has reports whether a top-level key is present.
func (d *Description) Has(key string) bool {
	return lookup(d.root, key) != nil
}

// Get decodes the value under a top-level key into plain Go values
// (map[string]any, []any, string, int, float64, bool).
func (d *Description) Get(key string) (any, bool) {
	return d.Lookup(key)
}

// Lookup walks nested mappings and returns the value at the given key path.
func (d *Description) Lookup(keys ...string) (any, bool) {
	n := d.root
	for _, k := range keys {
		n = lookup(n, k)
		if n == nil {
			return nil, false
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Decode decodes the whole document into v.
func (d *Description) Decode(v any) error {
	if err := d.root.Decode(v); err != nil {
		return &ParseError{Path: d.path, Line: errorLine(err), Err: err}
	}
	return nil
}

// Digest returns the hex SHA-256 of the source document.
func (d *Description) Digest() string {
	sum := sha256.Sum256(d.source)
	return hex.EncodeToString(sum[:])
}

func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
