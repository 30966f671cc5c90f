package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec defines how a collection snapshot is turned into bytes and back.
type Codec interface {
	// Name identifies the codec in configuration ("json", "yaml").
	Name() string
	// Ext is the file extension used by file-oriented backends.
	Ext() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Codecs returns the standard set of codecs keyed by name.
func Codecs() map[string]Codec {
	return map[string]Codec{
		"json": NewJSONCodec(false),
		"yaml": NewYAMLCodec(),
	}
}

// CodecByName resolves a codec name, defaulting to JSON for "".
func CodecByName(name string) (Codec, error) {
	if name == "" {
		name = "json"
	}
	c, ok := Codecs()[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
	return c, nil
}

// --- JSON Codec ---

// JSONCodec writes each collection as a JSON array, the same shape the
// public site kept in browser storage.
type JSONCodec struct {
	// Indent pretty-prints snapshots, useful when the files are edited by hand.
	Indent bool
}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec(indent bool) *JSONCodec {
	return &JSONCodec{Indent: indent}
}

func (c *JSONCodec) Name() string { return "json" }

func (c *JSONCodec) Ext() string { return ".json" }

func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	if c.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func (c *JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// --- YAML Codec ---

// YAMLCodec stores snapshots as YAML sequences.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string { return "yaml" }

func (c *YAMLCodec) Ext() string { return ".yaml" }

func (c *YAMLCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *YAMLCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	return nil
}
