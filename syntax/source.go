// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "io"

// LineReader is the input interface consumed by a Source, per spec §6: a
// character source that hands back one logical line at a time. io.EOF
// signals end-of-input; any other error aborts parsing with ErrorKind
// IOError.
type LineReader interface {
	ReadLine() (string, error)
}

// stringLineReader adapts a fixed string (or []byte) to LineReader, for
// parsing in-memory source such as command-substitution bodies and tests.
type stringLineReader struct {
	rest string
}

// NewStringReader returns a LineReader over an in-memory string, handing
// back one line (including its trailing newline, if any) per ReadLine
// call.
func NewStringReader(s string) LineReader { return &stringLineReader{rest: s} }

func (r *stringLineReader) ReadLine() (string, error) {
	if r.rest == "" {
		return "", io.EOF
	}
	for i := 0; i < len(r.rest); i++ {
		if r.rest[i] == '\n' {
			line := r.rest[:i+1]
			r.rest = r.rest[i+1:]
			return line, nil
		}
	}
	line := r.rest
	r.rest = ""
	return line, nil
}

// frame is one layer of the Source's input stack. The base frame pulls
// new lines from a LineReader on demand, growing buf as needed (the
// "growable per-line view" of spec §4.1). An alias frame has no reader:
// its buf is fixed text spliced in by push_alias_frame, and once
// exhausted it is popped so reading resumes in the frame beneath it.
type frame struct {
	code   *CodeFragment
	reader LineReader // nil for alias frames
	buf    string
	pos    int // next unread byte offset into buf, also the fragment-relative offset
	eof    bool
}

// fill tries to extend buf with one more line from reader. It returns
// false once the reader is exhausted.
func (fr *frame) fill() (bool, error) {
	if fr.reader == nil || fr.eof {
		return false, nil
	}
	line, err := fr.reader.ReadLine()
	if err == io.EOF {
		fr.eof = true
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fr.buf += line
	return true, nil
}

// Source is the mutable character buffer of spec §4.1: a stack of frames
// presenting a single logical character stream, tagged throughout with
// provenance for Location. Line continuations ("\" + newline) are not
// erased at this layer; the lexer removes them where they appear outside
// single quotes.
type Source struct {
	frames []*frame
}

// NewSource creates a Source whose base frame reads from r, reporting the
// given name and starting line number in Locations.
func NewSource(r LineReader, kind SourceKind, name string) *Source {
	code := &CodeFragment{Kind: kind, Name: name, StartLine: 1}
	return &Source{frames: []*frame{{code: code, reader: r}}}
}

// top returns the current top-of-stack frame, popping exhausted frames
// (and pulling fresh lines into the base frame) until one with unread
// bytes is found, or nil at true end-of-input.
func (s *Source) top() (*frame, error) {
	for len(s.frames) > 0 {
		fr := s.frames[len(s.frames)-1]
		if fr.pos < len(fr.buf) {
			return fr, nil
		}
		if ok, err := fr.fill(); err != nil {
			return nil, err
		} else if ok {
			continue
		}
		if len(s.frames) == 1 {
			// The base frame truly has no more input.
			return nil, nil
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
	return nil, nil
}

// PeekByte returns the next unconsumed byte without advancing, and false
// at end-of-input.
func (s *Source) PeekByte() (byte, bool, error) {
	fr, err := s.top()
	if err != nil || fr == nil {
		return 0, false, err
	}
	return fr.buf[fr.pos], true, nil
}

// PeekByteAt looks ahead n bytes from the current position within the
// current frame only (it does not cross frame boundaries); ok is false if
// that many bytes are not yet buffered in this frame.
func (s *Source) PeekByteAt(n int) (byte, bool) {
	if len(s.frames) == 0 {
		return 0, false
	}
	fr := s.frames[len(s.frames)-1]
	i := fr.pos + n
	if i >= len(fr.buf) {
		return 0, false
	}
	return fr.buf[i], true
}

// ConsumeByte advances one byte and returns it.
func (s *Source) ConsumeByte() (byte, bool, error) {
	fr, err := s.top()
	if err != nil || fr == nil {
		return 0, false, err
	}
	b := fr.buf[fr.pos]
	fr.pos++
	return b, true, nil
}

// Pos returns the current reading position as a Location with Start==End,
// i.e. the position immediately before the next unread byte.
func (s *Source) Pos() Location {
	if len(s.frames) == 0 {
		return Location{}
	}
	fr := s.frames[len(s.frames)-1]
	return Location{Frag: fr.code, Start: fr.pos, End: fr.pos}
}

// Mark is an opaque snapshot returned by Mark and consumed by Rewind.
type Mark struct {
	depth int
	pos   int
}

// Mark saves the current reading position so that Rewind can restore it
// later; the parser uses it to look ahead for the "name ( )" form of a
// function definition and back out when that form is absent.
func (s *Source) Mark() Mark {
	pos := 0
	if len(s.frames) > 0 {
		pos = s.frames[len(s.frames)-1].pos
	}
	return Mark{depth: len(s.frames), pos: pos}
}

// Rewind restores a position saved by Mark. Rewinding also undoes any
// alias frames pushed since the mark was taken, which is the correct
// behavior: token lookahead must not leave permanent side effects when
// abandoned.
func (s *Source) Rewind(m Mark) {
	if m.depth <= len(s.frames) {
		s.frames = s.frames[:m.depth]
	}
	if len(s.frames) > 0 {
		s.frames[len(s.frames)-1].pos = m.pos
	}
}

// PushAliasFrame splices text in as a new top input layer whose
// characters are read before the frames beneath it, but whose Locations
// carry a fresh CodeFragment of SourceAlias pointing back at origin — so
// diagnostics inside the expansion point at the user's call site, not at
// the alias definition. The frame is consumed like any other and pops
// itself once exhausted.
func (s *Source) PushAliasFrame(text string, origin Location) {
	code := &CodeFragment{
		Kind:      SourceAlias,
		Name:      origin.String(),
		StartLine: origin.Frag.StartLine,
		Origin:    &origin,
	}
	s.frames = append(s.frames, &frame{code: code, buf: text})
}

