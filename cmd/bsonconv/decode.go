package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/bson"
)

// cborEncMode writes deterministic CBOR. Identifiers and dates implement
// encoding.TextMarshaler and are written as their text form.
var cborEncMode cbor.EncMode

func init() {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encOptions.Time = cbor.TimeRFC3339Nano
	var err error
	cborEncMode, err = encOptions.EncMode()
	if err != nil {
		panic("bsonconv: cbor encoder initialization failed: " + err.Error())
	}
}

func decodeFlags(flagSet *pflag.FlagSet) func(streams) error {
	var (
		to     string
		pretty bool
		utc    bool
	)
	flagSet.StringVarP(&to, "to", "t", "json", "output format: json, yaml or cbor")
	flagSet.BoolVarP(&pretty, "pretty", "p", false, "indent JSON output")
	flagSet.BoolVar(&utc, "utc", false, "keep datetimes as raw millisecond values instead of converting them")
	return func(s streams) error {
		return decode(s, to, pretty, bson.DecodeOptions{PreserveUTC: utc})
	}
}

// docWriter writes one decoded document in an output format.
type docWriter interface {
	write(doc bson.D) error
	close() error
}

// decode prints every document of a BSON stream.
func decode(s streams, to string, pretty bool, opts bson.DecodeOptions) error {
	var out docWriter
	switch to {
	case "json":
		enc := json.NewEncoder(s.out)
		if pretty {
			enc.SetIndent("", "  ")
		}
		out = jsonWriter{enc}
	case "yaml":
		out = yamlWriter{yaml.NewEncoder(s.out)}
	case "cbor":
		out = cborWriter{cborEncMode.NewEncoder(s.out)}
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or cbor)", to)
	}

	r, err := bson.NewReader(s.in)
	if err != nil {
		return err
	}
	r.WithOptions(opts)
	count := 0
	for {
		doc, err := r.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document %d: %w", count, err)
		}
		s.logger.Debug("decoded document", "index", count, "elements", len(doc))
		if err := out.write(doc); err != nil {
			return fmt.Errorf("write document %d: %w", count, err)
		}
		count++
	}
	if err := out.close(); err != nil {
		return err
	}
	s.logger.Info("decode finished", "documents", count, "bytes", r.Count())
	return nil
}

type jsonWriter struct{ enc *json.Encoder }

func (w jsonWriter) write(doc bson.D) error { return w.enc.Encode(toExtended(doc)) }
func (w jsonWriter) close() error           { return nil }

type yamlWriter struct{ enc *yaml.Encoder }

func (w yamlWriter) write(doc bson.D) error {
	node, err := yamlNode(toExtended(doc))
	if err != nil {
		return err
	}
	return w.enc.Encode(node)
}

func (w yamlWriter) close() error { return w.enc.Close() }

// yamlNode builds a node tree so that mappings keep document order.
func yamlNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case bson.D:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range x {
			value, err := yamlNode(e.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
			n.Content = append(n.Content, key, value)
		}
		return n, nil
	case bson.A:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			value, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, value)
		}
		return n, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

type cborWriter struct{ enc *cbor.Encoder }

// write keeps native types: byte strings stay binary and identifiers use their text form.
func (w cborWriter) write(doc bson.D) error { return w.enc.Encode(plain(doc)) }
func (w cborWriter) close() error           { return nil }
