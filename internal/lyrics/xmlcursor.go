package lyrics

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// nextElement advances the decoder to the next start element at any depth.
// It returns io.EOF once the document is exhausted.
func nextElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// skipSubtree consumes the rest of the element whose start was just read.
func skipSubtree(d *xml.Decoder) error {
	return unexpectedEOF(d.Skip())
}

// readText consumes the rest of the current element and returns all
// character data found in its subtree.
func readText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return b.String(), unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}

// attr returns the trimmed value of the attribute with the given local
// name, regardless of namespace. The flag reports whether the attribute is
// present, even with an empty value.
func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
