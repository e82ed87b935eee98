package lyrics

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"
)

const (
	roleBackground   = "x-bg"
	roleTranslation  = "x-translation"
	roleRomanization = "x-roman"
)

// ParseError reports a structural or timing failure in a strict TTML parse.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ttml: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type timeFunc func(token string) (int64, error)

func lenientTime(token string) (int64, error) {
	return ParseTimeLenient(token), nil
}

// ParseTTML parses a timed-text document into lines in document order.
// It never fails: a broken document yields the lines extracted before the
// failure, and malformed time tokens resolve to zero.
func ParseTTML(doc string) Timeline {
	lines, err := parseTTML(doc, lenientTime, false)
	if err != nil {
		log.WithError(err).WithField("lines", len(lines)).Debug("ttml: truncated document")
	}
	return lines
}

// ParseTTMLStrict is ParseTTML for trusted input: structural errors and
// malformed time tokens are returned as *ParseError.
func ParseTTMLStrict(doc string) (Timeline, error) {
	return parseTTML(doc, ParseTimeExpression, true)
}

func parseTTML(doc string, parseTime timeFunc, strict bool) (Timeline, error) {
	d := xml.NewDecoder(strings.NewReader(doc))
	if !strict {
		d.Strict = false
		d.Entity = xml.HTMLEntity
	}

	var out Timeline
	for {
		se, err := nextElement(d)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, parseError(d, err)
		}

		switch se.Name.Local {
		case "head":
			err = skipSubtree(d)
		case "p":
			var lines []Line
			lines, err = parseParagraph(d, se, parseTime)
			out = append(out, lines...)
		}
		if err != nil {
			return out, parseError(d, err)
		}
	}
}

func parseError(d *xml.Decoder, err error) error {
	line, _ := d.InputPos()
	return &ParseError{Line: line, Err: err}
}

// accumulator collects the syllables of one paragraph. Main and
// background vocals are kept apart so a paragraph can emit two lines.
type accumulator struct {
	startMs, endMs int64
	agent          string

	main       []Syllable
	background []Syllable

	bgStartMs, bgEndMs int64
	bgTimed            bool

	translation  string
	romanization string
}

// parseParagraph reads one <p> element. Paragraphs without begin/end are
// consumed and dropped.
func parseParagraph(d *xml.Decoder, p xml.StartElement, parseTime timeFunc) ([]Line, error) {
	beginAttr, okBegin := attr(p, "begin")
	endAttr, okEnd := attr(p, "end")
	if !okBegin || !okEnd {
		return nil, skipSubtree(d)
	}

	start, err := parseTime(beginAttr)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(endAttr)
	if err != nil {
		return nil, err
	}

	acc := &accumulator{startMs: start, endMs: end}
	acc.agent, _ = attr(p, "agent")
	if err := walkInline(d, acc, parseTime, false); err != nil {
		return nil, err
	}
	return acc.lines(), nil
}

// walkInline consumes inline content up to the end of the current element.
func walkInline(d *xml.Decoder, acc *accumulator, parseTime timeFunc, inBackground bool) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return unexpectedEOF(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.CharData:
			acc.addLooseText(string(t), inBackground)
		case xml.StartElement:
			if err := walkSpan(d, t, acc, parseTime, inBackground); err != nil {
				return err
			}
		}
	}
}

func walkSpan(d *xml.Decoder, span xml.StartElement, acc *accumulator, parseTime timeFunc, inBackground bool) error {
	if span.Name.Local != "span" {
		return skipSubtree(d)
	}

	role, _ := attr(span, "role")
	switch role {
	case roleBackground:
		if err := acc.markBackground(span, parseTime); err != nil {
			return err
		}
		return walkInline(d, acc, parseTime, true)
	case roleTranslation, roleRomanization:
		text, err := readText(d)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if role == roleTranslation && acc.translation == "" {
			acc.translation = text
		} else if role == roleRomanization && acc.romanization == "" {
			acc.romanization = text
		}
		return nil
	}

	beginAttr, okBegin := attr(span, "begin")
	endAttr, okEnd := attr(span, "end")
	if !okBegin || !okEnd {
		return skipSubtree(d)
	}
	start, err := parseTime(beginAttr)
	if err != nil {
		return err
	}
	end, err := parseTime(endAttr)
	if err != nil {
		return err
	}
	text, err := readText(d)
	if err != nil {
		return err
	}
	acc.addSyllable(Syllable{Content: text, StartMs: start, EndMs: end}, inBackground)
	return nil
}

// markBackground records the timing of a background span. Several
// background spans in one paragraph widen the accompaniment line.
func (a *accumulator) markBackground(span xml.StartElement, parseTime timeFunc) error {
	beginAttr, okBegin := attr(span, "begin")
	endAttr, okEnd := attr(span, "end")
	if !okBegin || !okEnd {
		return nil
	}
	start, err := parseTime(beginAttr)
	if err != nil {
		return err
	}
	end, err := parseTime(endAttr)
	if err != nil {
		return err
	}
	if !a.bgTimed {
		a.bgStartMs, a.bgEndMs, a.bgTimed = start, end, true
		return nil
	}
	a.bgStartMs = min(a.bgStartMs, start)
	a.bgEndMs = max(a.bgEndMs, end)
	return nil
}

func (a *accumulator) buffer(inBackground bool) *[]Syllable {
	if inBackground {
		return &a.background
	}
	return &a.main
}

// addSyllable appends a timed syllable. Whitespace-only content becomes
// the trailing word boundary of the previous syllable.
func (a *accumulator) addSyllable(s Syllable, inBackground bool) {
	if s.Content == "" {
		return
	}
	buf := a.buffer(inBackground)
	if strings.TrimSpace(s.Content) == "" {
		if n := len(*buf); n > 0 && !endsInSpace((*buf)[n-1].Content) {
			(*buf)[n-1].Content += s.Content
		}
		return
	}
	*buf = append(*buf, s)
}

// addLooseText handles character data that is not inside a timed span.
// Under the paragraph it is timed with the paragraph itself; under a
// background span it uses that span's timing when known. A whitespace run
// between spans, indentation included, is a single word boundary.
func (a *accumulator) addLooseText(text string, inBackground bool) {
	if strings.TrimSpace(text) == "" {
		a.addSyllable(Syllable{Content: " "}, inBackground)
		return
	}
	if !inBackground {
		a.addSyllable(Syllable{Content: text, StartMs: a.startMs, EndMs: a.endMs}, false)
		return
	}
	if a.bgTimed {
		a.addSyllable(Syllable{Content: text, StartMs: a.bgStartMs, EndMs: a.bgEndMs}, true)
	}
}

func (a *accumulator) lines() []Line {
	var out []Line
	if main := trimLineEnd(a.main); len(main) > 0 {
		out = append(out, &KaraokeLine{
			Syllables:    main,
			StartMs:      a.startMs,
			EndMs:        a.endMs,
			Agent:        a.agent,
			Translation:  a.translation,
			Romanization: a.romanization,
		})
	}

	bg := trimLineEnd(trimParens(a.background))
	if len(bg) > 0 {
		line := &KaraokeLine{
			Syllables:     bg,
			StartMs:       bg[0].StartMs,
			EndMs:         bg[len(bg)-1].EndMs,
			Accompaniment: true,
			Agent:         a.agent,
		}
		if a.bgTimed {
			line.StartMs, line.EndMs = a.bgStartMs, a.bgEndMs
		}
		out = append(out, line)
	}
	return out
}

// trimParens strips the decorative parentheses that usually wrap
// background vocals, dropping syllables left empty.
func trimParens(syllables []Syllable) []Syllable {
	if len(syllables) == 0 {
		return syllables
	}
	first := &syllables[0]
	first.Content = trimPrefixAny(first.Content, "(", "（")
	last := &syllables[len(syllables)-1]
	last.Content = trimSuffixKeepSpace(last.Content, ")", "）")

	out := syllables[:0]
	for _, s := range syllables {
		if strings.TrimSpace(s.Content) != "" {
			out = append(out, s)
		}
	}
	return out
}

func endsInSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}

func trimPrefixAny(s string, prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimPrefix(s, p)
		}
	}
	return s
}

// trimSuffixKeepSpace removes a closing parenthesis that may be followed by
// trailing whitespace, keeping the whitespace.
func trimSuffixKeepSpace(s string, suffixes ...string) string {
	body := strings.TrimRight(s, " \t\r\n")
	space := s[len(body):]
	for _, suf := range suffixes {
		if strings.HasSuffix(body, suf) {
			return strings.TrimSuffix(body, suf) + space
		}
	}
	return s
}
