package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q: must be one of text, json, yaml, cbor", s)
}

var cborMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode writes v in one of the structured formats.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return cborMode.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("format %q is not a structured format", format)
	}
}

// Write renders doc in the given format.
func Write(w io.Writer, doc *Document, format Format) error {
	if format == FormatText {
		return writeText(w, doc)
	}
	return Encode(w, doc, format)
}

func writeText(w io.Writer, doc *Document) error {
	for i, sys := range doc.Systems {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeSystemText(w, sys); err != nil {
			return err
		}
	}
	return nil
}

func writeSystemText(w io.Writer, sys SystemReport) error {
	fmt.Fprintf(w, "system %s", sys.Name)
	switch {
	case sys.Error != "":
		fmt.Fprintf(w, " (error)\n  %s\n", sys.Error)
		return nil
	case !sys.Solved:
		fmt.Fprintf(w, " (compiled, %d nodes)\n", len(sys.Nodes))
	case sys.Completed:
		fmt.Fprintf(w, " (completed in %d rounds)\n", sys.Rounds)
	default:
		fmt.Fprintf(w, " (incomplete after %d rounds)\n", sys.Rounds)
	}
	if sys.Description != "" {
		fmt.Fprintf(w, "  %s\n", sys.Description)
	}
	if len(sys.FreeVariables) > 0 {
		fmt.Fprintf(w, "  free: %s\n", strings.Join(sys.FreeVariables, ", "))
	}
	for _, warn := range sys.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range sys.Nodes {
		if sys.Solved && !n.Important {
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", n.Symbol, n.Kind, describeNode(n, sys.Solved))
	}
	return tw.Flush()
}

func describeNode(n NodeReport, solved bool) string {
	switch {
	case n.Value != nil:
		return n.Value.String()
	case solved && len(n.RequiresInput) > 0:
		return "requires input: " + strings.Join(n.RequiresInput, ", ")
	case solved:
		return "unresolved"
	case n.Calculation != "":
		return n.Calculation
	default:
		return "input"
	}
}
