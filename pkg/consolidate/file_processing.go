package consolidate

import (
	"bufio"
	"fmt"
	"os"
	"unicode/utf8"
)

// readSource reads a candidate's full contents as UTF-8 text.
func readSource(c FileCandidate) ([]byte, error) {
	content, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceRead, err)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8 text", ErrSourceRead, c.Rel)
	}
	return content, nil
}

// writeHeader writes the header block that opens every output document.
func writeHeader(w *bufio.Writer, header string) error {
	return writeStrings(w, header, "\n\n", rule, "\n\n")
}

// writeFileBlock writes one "File:" block with the content verbatim.
func writeFileBlock(w *bufio.Writer, rel string, content []byte) error {
	if err := writeStrings(w, "File: ", rel, "\n", rule, "\n"); err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		return err
	}
	return writeStrings(w, "\n\n")
}

func writeStrings(w *bufio.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := w.WriteString(p); err != nil {
			return err
		}
	}
	return nil
}
