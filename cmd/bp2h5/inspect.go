package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mammefen/bp2h5/bp"
	"github.com/mammefen/bp2h5/bp/ionstream"
)

func newInspectCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Print the decoded record stream as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := ionstream.Open(args[0], nil)
			if err != nil {
				return err
			}
			defer r.Close()

			doc, err := inspect(r)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), doc, query)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath applied to the record list, e.g. $[?(@.kind == 'array')].path")
	return cmd
}

// inspect renders every record of dec as a generic JSON value.
func inspect(dec bp.Decoder) ([]any, error) {
	var out []any
	for i := 0; ; i++ {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, recordJSON(i, rec))
	}
}

func printJSON(w io.Writer, doc []any, query string) error {
	var v any = doc
	if query != "" {
		x, err := jp.ParseString(query)
		if err != nil {
			return fmt.Errorf("invalid jsonpath %q: %w", query, err)
		}
		v = x.Get(doc)
	}
	_, err := fmt.Fprintln(w, oj.JSON(v, 2))
	return err
}

func recordJSON(i int, rec bp.Record) map[string]any {
	m := map[string]any{
		"index": i,
		"kind":  rec.Kind.String(),
		"path":  rec.Target(),
	}
	switch {
	case rec.Variable != nil:
		v := rec.Variable
		m["name"] = v.Name
		m["type"] = v.Type.String()
		m["append"] = v.Append
		dims := make([]any, len(v.Dims))
		for j, d := range v.Dims {
			dims[j] = map[string]any{"global": d.Global, "local": d.Local, "offset": d.Offset}
		}
		m["dims"] = dims
		m["value"] = valueJSON(v.Value)
	case rec.Attribute != nil:
		a := rec.Attribute
		m["name"] = a.Name
		m["owner"] = a.OwnerKind.String()
		m["type"] = a.Type.String()
		m["value"] = valueJSON(a.Value)
	}
	return m
}

// valueJSON lists the elements of v. Complex elements become [re, im].
func valueJSON(v bp.Value) []any {
	if v == nil {
		return nil
	}
	out := make([]any, v.Len())
	for i := range out {
		switch e := bp.Elem(v, i).(type) {
		case complex64:
			out[i] = []any{real(e), imag(e)}
		case complex128:
			out[i] = []any{real(e), imag(e)}
		default:
			out[i] = e
		}
	}
	return out
}
