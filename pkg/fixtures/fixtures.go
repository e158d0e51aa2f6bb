// Package fixtures loads serialized syntax trees.
//
// A tree is a nested mapping whose "type" key names the node kind; the other
// keys follow the JSON field names of the pkg/ast structs. Temporary handles
// are written as {"id": "..."} (or a bare id string) and every occurrence of
// one id inside a document decodes to the same handle.
package fixtures

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"cytree/writer-go/pkg/ast"
)

// Load reads a tree from path. Files ending in .yml or .yaml are YAML,
// everything else is JSON.
func Load(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	var node ast.Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		node, err = DecodeYAML(data)
	default:
		node, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}

func DecodeJSON(data []byte) (ast.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("fixtures: parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("fixtures: parse json: trailing data after document")
	}
	return decodeDocument(raw)
}

func DecodeYAML(data []byte) (ast.Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fixtures: parse yaml: %w", err)
	}
	return decodeDocument(raw)
}

// EncodeJSON writes tree in the form DecodeJSON reads.
func EncodeJSON(tree ast.Node) ([]byte, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("fixtures: encode json: %w", err)
	}
	return data, nil
}

func decodeDocument(raw any) (ast.Node, error) {
	d := &decoder{temps: make(map[string]*ast.TempHandle)}
	node := d.node(raw, "$")
	if d.err != nil {
		return nil, d.err
	}
	return node, nil
}
