// Package document decodes YAML documents into an ordered tree, edits values by dotted
// path and encodes the tree back.
//
// A full decode/encode round trip keeps every value and the key order, but not comments or
// layout. Input the round trip cannot reproduce, such as multi-document streams or binary and
// timestamp tags, is rejected instead of rewritten. Patch edits a single existing scalar
// through the YAML AST and leaves the rest of the text as written.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
	"github.com/google/go-cmp/cmp"

	"github.com/sap-gg/ftctl/internal"
)

var (
	// ErrEmpty is returned when decoding a document without any content.
	ErrEmpty = errors.New("document is empty")
	// ErrNotMapping is returned when the document root is not a mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
	// ErrMultiDocument is returned for streams holding more than one document.
	ErrMultiDocument = errors.New("multi-document streams are not supported")
	// ErrUnsupportedTag is returned for tagged values that change when encoded again.
	ErrUnsupportedTag = errors.New("unsupported tag")
	// ErrNotPatchable is returned by Patch when the value cannot be edited in place.
	// Callers can fall back to Decode, Set and Encode.
	ErrNotPatchable = errors.New("value cannot be patched in place")
)

// PathError describes a dotted path that cannot be resolved in a document.
type PathError struct {
	Path   string
	Key    string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: key %q %s", e.Path, e.Key, e.Reason)
}

// Document is a decoded YAML document with a mapping root.
type Document struct {
	root yaml.MapSlice
}

// Decode parses data into a Document.
func Decode(ctx context.Context, data []byte) (*Document, error) {
	root, err := decodeRoot(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := checkTags(data); err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

func decodeRoot(ctx context.Context, data []byte) (yaml.MapSlice, error) {
	var root any
	if err := internal.NewYAMLDecoder(bytes.NewReader(data), yaml.UseOrderedMap()).
		DecodeContext(ctx, &root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	if root == nil {
		return nil, ErrEmpty
	}
	m, ok := root.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w (got %T)", ErrNotMapping, root)
	}
	for _, item := range m {
		if item.Key == nil {
			return nil, fmt.Errorf("%w: mapping entry without a key", ErrNotMapping)
		}
	}

	// the decoder stops after the first document
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, err
	}
	if len(bodies(file)) > 1 {
		return nil, ErrMultiDocument
	}
	return m, nil
}

func bodies(file *ast.File) []ast.Node {
	var out []ast.Node
	for _, doc := range file.Docs {
		if doc.Body != nil {
			out = append(out, doc.Body)
		}
	}
	return out
}

// checkTags rejects explicit tags other than !!str, !!map and !!seq. The decoder turns the
// others into values (bytes, times, zeroes) that encode back differently.
func checkTags(data []byte) error {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return err
	}
	v := &tagVisitor{}
	for _, body := range bodies(file) {
		ast.Walk(v, body)
	}
	return v.err
}

type tagVisitor struct {
	err error
}

func (v *tagVisitor) Visit(node ast.Node) ast.Visitor {
	if v.err != nil {
		return nil
	}
	tag, ok := node.(*ast.TagNode)
	if !ok {
		return v
	}
	switch token.ReservedTagKeyword(tag.Start.Value) {
	case token.StringTag, token.MappingTag, token.SequenceTag:
		return v
	}
	v.err = fmt.Errorf("%w %s at line %d", ErrUnsupportedTag, tag.Start.Value, tag.Start.Position.Line)
	return nil
}

// Encode serializes the document.
func (d *Document) Encode(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	enc := internal.NewYAMLEncoder(&buf)
	if err := enc.EncodeContext(ctx, d.root); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Lookup returns the value at the dotted path.
func (d *Document) Lookup(path string) (any, bool) {
	var current any = d.root
	for _, key := range splitPath(path) {
		m, ok := current.(yaml.MapSlice)
		if !ok {
			return nil, false
		}
		i := indexOf(m, key)
		if i < 0 {
			return nil, false
		}
		current = m[i].Value
	}
	return current, true
}

// Set stores value at the dotted path. Every mapping on the way to the leaf must already
// exist; the leaf key is replaced in place or appended to its parent mapping.
func (d *Document) Set(path string, value any) error {
	keys := splitPath(path)
	if len(keys) == 0 {
		return &PathError{Path: path, Reason: "is empty"}
	}
	root, err := set(d.root, path, keys, value)
	if err != nil {
		return err
	}
	d.root = root
	return nil
}

func set(m yaml.MapSlice, path string, keys []string, value any) (yaml.MapSlice, error) {
	key := keys[0]
	i := indexOf(m, key)

	if len(keys) == 1 {
		if i < 0 {
			return append(m, yaml.MapItem{Key: key, Value: value}), nil
		}
		m[i].Value = value
		return m, nil
	}

	if i < 0 {
		return nil, &PathError{Path: path, Key: key, Reason: "does not exist"}
	}
	child, ok := m[i].Value.(yaml.MapSlice)
	if !ok {
		return nil, &PathError{Path: path, Key: key, Reason: "is not a mapping"}
	}
	child, err := set(child, path, keys[1:], value)
	if err != nil {
		return nil, err
	}
	m[i].Value = child
	return m, nil
}

// Patch replaces the existing scalar at the dotted path in src and returns the edited text.
// Comments and formatting outside the replaced value are kept, including a comment on the
// same line. The edited text is decoded again and must hold the same values as src apart
// from the replaced one, otherwise the error wraps ErrNotPatchable and nothing is returned.
func Patch(ctx context.Context, src []byte, path string, value any) ([]byte, error) {
	root, err := decodeRoot(ctx, src)
	if err != nil {
		return nil, err
	}
	want := &Document{root: root}
	if _, ok := want.Lookup(path); !ok {
		return nil, fmt.Errorf("%w: %q does not exist", ErrNotPatchable, path)
	}
	if err := want.Set(path, value); err != nil {
		return nil, err
	}

	file, err := parser.ParseBytes(src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	p, err := yaml.PathString("$." + path)
	if err != nil {
		return nil, fmt.Errorf("build path %q: %w", path, err)
	}
	old, err := p.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPatchable, err)
	}
	comment := old.GetComment()

	replacement, err := yaml.MarshalContext(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("marshal replacement for %q: %w", path, err)
	}
	if err := p.ReplaceWithReader(file, bytes.NewReader(replacement)); err != nil {
		return nil, fmt.Errorf("replace %q: %w", path, err)
	}
	if comment != nil {
		if node, err := p.FilterFile(file); err == nil {
			_ = node.SetComment(comment)
		}
	}

	out := file.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	got, err := decodeRoot(ctx, []byte(out))
	if err != nil {
		return nil, fmt.Errorf("%w: edited text does not decode: %v", ErrNotPatchable, err)
	}
	if !cmp.Equal(got, want.root) {
		return nil, fmt.Errorf("%w: edit of %q changes other values", ErrNotPatchable, path)
	}
	return []byte(out), nil
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func indexOf(m yaml.MapSlice, key string) int {
	for i, item := range m {
		if k, ok := item.Key.(string); ok && k == key {
			return i
		}
	}
	return -1
}
