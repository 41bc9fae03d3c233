package vmt

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
)

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is a tab).
	Indent string
}

func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "\t"}
	}
	out := *o
	if out.Indent == "" {
		out.Indent = "\t"
	}
	return out
}

// Encode writes a Material to w.
func Encode(w io.Writer, m *Material, opt *FormatOptions) error {
	if err := m.Validate(); err != nil {
		return err
	}
	fopt := opt.normalize()
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw, indent: fopt.Indent}
	if err := wr.writeMaterial(m); err != nil {
		return err
	}
	return bw.Flush()
}

// Format renders a Material to bytes.
func Format(m *Material, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeFile writes a Material to a file.
func EncodeFile(path string, m *Material, opt *FormatOptions) error {
	b, err := Format(m, opt)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

type writer struct {
	w      io.Writer
	indent string
	level  int
	err    error
}

// The write helpers latch the first error so block rendering stays linear.

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) line(s string) {
	w.str(strings.Repeat(w.indent, w.level))
	w.str(s)
	w.str("\n")
}

func quote(s string) string {
	return "\"" + s + "\""
}

func (w *writer) writeMaterial(m *Material) error {
	for _, c := range m.Comments {
		w.line("// " + c)
	}
	w.line(quote(m.Shader))
	w.line("{")
	w.level++
	w.writeParams(m.Params)
	if len(m.Proxies) > 0 {
		w.writeBlock(Block{Name: "Proxies", Blocks: m.Proxies})
	}
	w.level--
	w.line("}")
	return w.err
}

func (w *writer) writeParams(params []Param) {
	for _, p := range params {
		w.line(quote(p.Key) + " " + quote(p.Value))
	}
}

func (w *writer) writeBlock(b Block) {
	w.line(quote(b.Name))
	w.line("{")
	w.level++
	w.writeParams(b.Params)
	for _, child := range b.Blocks {
		w.writeBlock(child)
	}
	w.level--
	w.line("}")
}
