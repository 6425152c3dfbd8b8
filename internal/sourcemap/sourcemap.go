// Package sourcemap reads, writes and adjusts version 3 source maps.
//
// Generated columns are counted in bytes, which matches the UTF-16 columns of
// the source map format for the ASCII output bundlers produce for styles.
package sourcemap

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/bundletrim/internal/splice"
)

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Segment is one decoded mapping. Source and Name are -1 when absent.
type Segment struct {
	GenCol   int
	Source   int
	OrigLine int
	OrigCol  int
	Name     int
}

// Line holds the segments of one generated line, ordered by GenCol.
type Line []Segment

// Parse decodes a JSON source map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Names == nil {
		m.Names = []string{}
	}
	return json.Marshal(m)
}

// DataURI returns the map as a base64 data URI, for inline sourceMappingURL comments.
func (m *Map) DataURI() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	return "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Decode expands the mappings string.
func (m *Map) Decode() ([]Line, error) {
	if m.Mappings == "" {
		return nil, nil
	}

	var (
		lines                                []Line
		source, origLine, origCol, nameIndex int
	)
	for _, raw := range strings.Split(m.Mappings, ";") {
		var line Line
		genCol := 0
		for _, group := range strings.Split(raw, ",") {
			if group == "" {
				continue
			}
			var fields [5]int
			n, pos := 0, 0
			for pos < len(group) {
				if n == len(fields) {
					return nil, fmt.Errorf("segment %q has too many fields", group)
				}
				v, next, err := readVLQ(group, pos)
				if err != nil {
					return nil, err
				}
				fields[n] = v
				n++
				pos = next
			}

			genCol += fields[0]
			seg := Segment{GenCol: genCol, Source: -1, Name: -1}
			switch n {
			case 1:
			case 4, 5:
				source += fields[1]
				origLine += fields[2]
				origCol += fields[3]
				seg.Source, seg.OrigLine, seg.OrigCol = source, origLine, origCol
				if n == 5 {
					nameIndex += fields[4]
					seg.Name = nameIndex
				}
			default:
				return nil, fmt.Errorf("segment %q has %d fields", group, n)
			}
			line = append(line, seg)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Encode replaces the mappings string with the given lines.
func (m *Map) Encode(lines []Line) {
	var (
		b                                    strings.Builder
		source, origLine, origCol, nameIndex int
	)
	for i, line := range lines {
		if i > 0 {
			b.WriteByte(';')
		}
		genCol := 0
		for j, seg := range line {
			if j > 0 {
				b.WriteByte(',')
			}
			writeVLQ(&b, seg.GenCol-genCol)
			genCol = seg.GenCol
			if seg.Source < 0 {
				continue
			}
			writeVLQ(&b, seg.Source-source)
			writeVLQ(&b, seg.OrigLine-origLine)
			writeVLQ(&b, seg.OrigCol-origCol)
			source, origLine, origCol = seg.Source, seg.OrigLine, seg.OrigCol
			if seg.Name >= 0 {
				writeVLQ(&b, seg.Name-nameIndex)
				nameIndex = seg.Name
			}
		}
	}
	m.Mappings = b.String()
}

// lookup returns the last mapped segment of line at or before col.
func lookup(lines []Line, line, col int) (Segment, bool) {
	if line < 0 || line >= len(lines) {
		return Segment{}, false
	}
	segs := lines[line]
	i := sort.Search(len(segs), func(i int) bool { return segs[i].GenCol > col })
	for i--; i >= 0; i-- {
		if segs[i].Source >= 0 {
			return segs[i], true
		}
	}
	return Segment{}, false
}

// Compose chains outer (which maps into the file inner was generated for) with
// inner, producing a map from outer's generated file to inner's sources.
// Segments of outer that inner cannot resolve are dropped.
func Compose(outer, inner *Map) (*Map, error) {
	outerLines, err := outer.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode outer map: %w", err)
	}
	innerLines, err := inner.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode inner map: %w", err)
	}

	composed := make([]Line, len(outerLines))
	for i, line := range outerLines {
		for _, seg := range line {
			if seg.Source < 0 {
				continue
			}
			orig, ok := lookup(innerLines, seg.OrigLine, seg.OrigCol)
			if !ok {
				continue
			}
			composed[i] = append(composed[i], Segment{
				GenCol:   seg.GenCol,
				Source:   orig.Source,
				OrigLine: orig.OrigLine,
				OrigCol:  orig.OrigCol,
				Name:     orig.Name,
			})
		}
	}

	result := &Map{
		Version:        3,
		File:           outer.File,
		SourceRoot:     inner.SourceRoot,
		Sources:        inner.Sources,
		SourcesContent: inner.SourcesContent,
		Names:          inner.Names,
	}
	result.Encode(composed)
	return result, nil
}

// LineIndex maps byte offsets of a text to zero-based line and column.
type LineIndex []int

// NewLineIndex indexes the line starts of text.
func NewLineIndex(text string) LineIndex {
	starts := LineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Lines returns the number of lines of the indexed text.
func (li LineIndex) Lines() int {
	return len(li)
}

// Start returns the offset of the first byte of line.
func (li LineIndex) Start(line int) int {
	return li[line]
}

// Position returns the line and column of offset.
func (li LineIndex) Position(offset int) (line, col int) {
	line = sort.Search(len(li), func(i int) bool { return li[i] > offset }) - 1
	return line, offset - li[line]
}

// Splice moves the generated positions of m from oldCode to the code obtained by
// applying reps to it. Segments inside a replaced range collapse onto its start.
func (m *Map) Splice(oldCode, newCode string, reps []splice.Replacement) error {
	sorted, err := splice.Sorted(len(oldCode), reps)
	if err != nil {
		return err
	}
	lines, err := m.Decode()
	if err != nil {
		return err
	}

	oldIndex, newIndex := NewLineIndex(oldCode), NewLineIndex(newCode)
	moved := make([]Line, newIndex.Lines())
	for i, line := range lines {
		if i >= oldIndex.Lines() {
			break
		}
		for _, seg := range line {
			offset := oldIndex.Start(i) + seg.GenCol
			if offset > len(oldCode) {
				continue
			}
			newLine, newCol := newIndex.Position(splice.Offset(sorted, offset))
			segs := moved[newLine]
			if n := len(segs); n > 0 && segs[n-1].GenCol == newCol {
				continue
			}
			seg.GenCol = newCol
			moved[newLine] = append(segs, seg)
		}
	}

	for len(moved) > 0 && len(moved[len(moved)-1]) == 0 {
		moved = moved[:len(moved)-1]
	}
	m.Encode(moved)
	return nil
}

// Builder accumulates mappings from a generated file into a single source.
type Builder struct {
	lines []Line
}

// Add maps the generated position (line, col) to (origLine, origCol) of source 0.
func (b *Builder) Add(line, col, origLine, origCol int) {
	for len(b.lines) <= line {
		b.lines = append(b.lines, nil)
	}
	segs := b.lines[line]
	if n := len(segs); n > 0 && segs[n-1].GenCol == col {
		segs[n-1] = Segment{GenCol: col, OrigLine: origLine, OrigCol: origCol, Name: -1}
		return
	}
	b.lines[line] = append(segs, Segment{GenCol: col, OrigLine: origLine, OrigCol: origCol, Name: -1})
}

// Map builds the map for file generated from source.
func (b *Builder) Map(file, source, content string) *Map {
	m := &Map{
		Version: 3,
		File:    file,
		Sources: []string{source},
		Names:   []string{},
	}
	if content != "" {
		m.SourcesContent = []string{content}
	}
	m.Encode(b.lines)
	return m
}
