package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/bson"
)

func encodeFlags(flagSet *pflag.FlagSet) func(streams) error {
	var (
		from    string
		ordered bool
	)
	flagSet.StringVarP(&from, "from", "f", "json", "input format: json or yaml")
	flagSet.BoolVar(&ordered, "ordered", false, "write the keys of every document in lexicographic order")
	return func(s streams) error {
		return encode(s, from, ordered)
	}
}

// encode parses every top-level value of the input and appends one BSON
// document per value to the output.
func encode(s streams, from string, ordered bool) error {
	data, err := io.ReadAll(s.in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var docs []any
	switch from {
	case "json":
		docs, err = parseJSON(data)
	case "yaml":
		docs, err = parseYAML(data)
	default:
		return fmt.Errorf("unknown input format %q (want json or yaml)", from)
	}
	if err != nil {
		return err
	}

	w, err := bson.NewWriter(s.out)
	if err != nil {
		return err
	}
	w.WithOrdered(ordered)
	for i, doc := range docs {
		if err := w.Encode(doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		s.logger.Debug("encoded document", "index", i, "size", bson.Size(doc))
	}
	n, err := w.Result()
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.logger.Info("encode finished", "documents", len(docs), "bytes", n)
	return nil
}

// parseJSON reads a sequence of JSON values. Comments and trailing commas are
// stripped first. Object key order is kept, integral numbers become int64 and
// all other numbers float64.
func parseJSON(data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	var docs []any
	for {
		v, err := readJSONValue(dec)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse JSON value %d: %w", len(docs), err)
		}
		docs = append(docs, v)
	}
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := bson.D{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				doc = append(doc, bson.E{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return fromExtended(doc)
		case '[':
			arr := bson.A{}
			for dec.More() {
				v, err := readJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	}
	// string, bool or nil
	return tok, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// parseYAML reads every document of a YAML stream. Mapping order is kept.
func parseYAML(data []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse YAML document %d: %w", len(docs), err)
		}
		v, err := fromYAML(&node)
		if err != nil {
			return nil, fmt.Errorf("YAML document %d: %w", len(docs), err)
		}
		docs = append(docs, v)
	}
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		doc := bson.D{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			doc = append(doc, bson.E{Key: n.Content[i].Value, Value: v})
		}
		return fromExtended(doc)
	case yaml.SequenceNode:
		arr := make(bson.A, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	if i, ok := v.(int); ok {
		return int64(i), nil
	}
	return v, nil
}
