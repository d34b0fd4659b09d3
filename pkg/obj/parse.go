package obj

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	g3nobj "github.com/g3n/engine/loader/obj"
)

// decoderNoIndex is the value the g3n decoder stores for a missing uv or
// normal reference.
const decoderNoIndex = math.MaxUint32

// Parse decodes OBJ text from r. Material libraries referenced by the
// document are not read; material names are kept only to split geometry
// groups.
//
// The g3n decoder reads the vertex data and the faces. It opens a new object
// on every `g` line, skips `l` and `p` elements and rejects faces with fewer
// than three corners, so those lines are blanked out of its input and read
// here instead.
func Parse(r io.Reader) (set *Set, err error) {
	// The decoder indexes into its own state without bounds checks on some
	// malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			set = nil
			err = fmt.Errorf("obj: decoder panic: %v", rec)
		}
	}()

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	sc, err := scan(string(src))
	if err != nil {
		return nil, err
	}
	dec, err := g3nobj.DecodeReader(strings.NewReader(sc.text), strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return sc.assemble(dec)
}

// element is one primitive in file order. A nil shape stands for the next
// face the decoder produced.
type element struct {
	section  int
	material string
	group    string
	shape    *Shape
}

// section is the run of lines after one `o` line. Section 0 holds whatever
// comes before the first `o` and is only kept if it has elements.
type section struct {
	name  string
	named bool
	used  bool
}

type scanned struct {
	text     string
	sections []section
	elements []element
}

// scan walks the document once, recording object boundaries, groups,
// materials and the primitives the decoder cannot represent.
func scan(src string) (*scanned, error) {
	sc := &scanned{sections: []section{{}}}
	var (
		material, group string
		counts          [3]int // positions, texture coordinates, normals
	)

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cur := len(sc.sections) - 1

		var kind ShapeKind
		switch fields[0] {
		case "o":
			sc.sections = append(sc.sections, section{name: strings.Join(fields[1:], " "), named: true})
			continue
		case "g":
			group = strings.Join(fields[1:], " ")
			lines[i] = ""
			continue
		case "usemtl":
			material = strings.Join(fields[1:], " ")
			continue
		case "v":
			counts[0]++
			continue
		case "vt":
			counts[1]++
			continue
		case "vn":
			counts[2]++
			continue
		case "f":
			if len(fields) > 3 {
				sc.add(element{section: cur, material: material, group: group})
				continue
			}
			kind = ShapeFace
		case "l":
			kind = ShapeLine
		case "p":
			kind = ShapePoint
		default:
			continue
		}

		shape := &Shape{Kind: kind, Group: group}
		for _, ref := range fields[1:] {
			c, err := parseCorner(ref, counts)
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", i+1, err)
			}
			shape.Corners = append(shape.Corners, c)
		}
		sc.add(element{section: cur, material: material, group: group, shape: shape})
		lines[i] = ""
	}

	sc.text = strings.Join(lines, "\n")
	return sc, nil
}

func (sc *scanned) add(e element) {
	sc.sections[e.section].used = true
	sc.elements = append(sc.elements, e)
}

// parseCorner reads a v, v/vt, v//vn or v/vt/vn reference. counts holds the
// number of each array entry seen so far, for negative references.
func parseCorner(ref string, counts [3]int) (Corner, error) {
	c := Corner{Position: NoIndex, TexCoord: NoIndex, Normal: NoIndex}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 || parts[0] == "" {
		return c, fmt.Errorf("bad vertex reference %q", ref)
	}
	dst := [3]*int{&c.Position, &c.TexCoord, &c.Normal}
	for i, part := range parts {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n == 0 {
			return c, fmt.Errorf("bad vertex reference %q", ref)
		}
		if n < 0 {
			n += counts[i] + 1
		}
		if n <= 0 {
			return c, fmt.Errorf("vertex reference %q out of range", ref)
		}
		*dst[i] = n - 1
	}
	return c, nil
}

// assemble merges the decoder's arrays and faces back into file order.
func (sc *scanned) assemble(dec *g3nobj.Decoder) (*Set, error) {
	set := &Set{
		Positions: make([][3]float32, 0, len(dec.Vertices)/3),
		Normals:   make([][3]float32, 0, len(dec.Normals)/3),
		TexCoords: make([][2]float32, 0, len(dec.Uvs)/2),
		Warnings:  append([]string(nil), dec.Warnings...),
	}
	for i := 0; i+2 < len(dec.Vertices); i += 3 {
		set.Positions = append(set.Positions, [3]float32{dec.Vertices[i], dec.Vertices[i+1], dec.Vertices[i+2]})
	}
	for i := 0; i+2 < len(dec.Normals); i += 3 {
		set.Normals = append(set.Normals, [3]float32{dec.Normals[i], dec.Normals[i+1], dec.Normals[i+2]})
	}
	for i := 0; i+1 < len(dec.Uvs); i += 2 {
		set.TexCoords = append(set.TexCoords, [2]float32{dec.Uvs[i], dec.Uvs[i+1]})
	}

	var faces []g3nobj.Face
	for _, o := range dec.Objects {
		faces = append(faces, o.Faces...)
	}

	objects := make([]Object, len(sc.sections))
	next := 0
	for _, e := range sc.elements {
		var shape Shape
		if e.shape != nil {
			shape = *e.shape
		} else {
			if next >= len(faces) {
				return nil, fmt.Errorf("obj: decoder returned %d faces, want more", len(faces))
			}
			shape = convertFace(faces[next])
			shape.Group = e.group
			next++
		}

		// Geometry groups are split at every material change.
		o := &objects[e.section]
		if n := len(o.Geometry); n == 0 || o.Geometry[n-1].Material != e.material {
			o.Geometry = append(o.Geometry, Geometry{Material: e.material})
		}
		g := &o.Geometry[len(o.Geometry)-1]
		g.Shapes = append(g.Shapes, shape)
	}
	if next != len(faces) {
		return nil, fmt.Errorf("obj: decoder returned %d faces for %d face lines", len(faces), next)
	}

	for i, s := range sc.sections {
		if !s.named && !s.used {
			continue
		}
		objects[i].Name = s.name
		set.Objects = append(set.Objects, objects[i])
	}
	return set, nil
}

func convertFace(f g3nobj.Face) Shape {
	corners := make([]Corner, len(f.Vertices))
	for i, v := range f.Vertices {
		corners[i] = Corner{
			Position: v,
			TexCoord: optionalIndex(f.Uvs, i),
			Normal:   optionalIndex(f.Normals, i),
		}
	}
	return Shape{Kind: ShapeFace, Corners: corners}
}

func optionalIndex(idx []int, i int) int {
	if i >= len(idx) {
		return NoIndex
	}
	if v := idx[i]; v >= 0 && int64(v) != decoderNoIndex {
		return v
	}
	return NoIndex
}
