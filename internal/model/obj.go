package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"objraster/internal/raster"
)

type shape struct {
	name     string
	vertices []raster.Vertex
	indices  []uint32
	lookup   map[vertexKey]uint32
}

func newShape(name string) *shape {
	return &shape{name: name, lookup: make(map[vertexKey]uint32)}
}

// decoder accumulates OBJ state. Positions, normals and texcoords are global
// to the file; faces are grouped into shapes by o/g statements.
type decoder struct {
	path string
	dir  string
	line int

	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2

	materials map[string]material
	curMat    string
	faces     int

	shapes   []*shape
	cur      *shape
	warnings []string
}

func newDecoder(path, dir string) *decoder {
	return &decoder{
		path:      path,
		dir:       dir,
		materials: make(map[string]material),
	}
}

// Decode parses OBJ data from r. dir is used to resolve mtllib references.
func Decode(r io.Reader, dir string) (*Model, error) {
	d := newDecoder("<reader>", dir)
	if err := d.decode(r); err != nil {
		return nil, err
	}
	m := New()
	d.fill(m)
	return m, nil
}

// fill replaces m's shapes with the decoded ones, dropping shapes without faces.
func (d *decoder) fill(m *Model) {
	m.vertexBuffers, m.indexBuffers, m.names = nil, nil, nil
	for _, s := range d.shapes {
		if len(s.indices) == 0 {
			continue
		}
		m.vertexBuffers = append(m.vertexBuffers, raster.NewBuffer(s.vertices))
		m.indexBuffers = append(m.indexBuffers, raster.NewBuffer(s.indices))
		m.names = append(m.names, s.name)
	}
	m.Warnings = d.warnings
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	return &LoadError{Path: d.path, Line: d.line, Err: fmt.Errorf(format, args...)}
}

func (d *decoder) decode(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	for sc.Scan() {
		d.line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v mgl32.Vec3
			v, err = d.parseVec3(fields[1:])
			d.positions = append(d.positions, v)
		case "vn":
			var v mgl32.Vec3
			v, err = d.parseVec3(fields[1:])
			d.normals = append(d.normals, v)
		case "vt":
			var v mgl32.Vec2
			v, err = d.parseVec2(fields[1:])
			d.uvs = append(d.uvs, v)
		case "f":
			err = d.parseFace(fields[1:])
		case "o", "g":
			d.startShape(strings.Join(fields[1:], " "))
		case "usemtl":
			d.curMat = strings.Join(fields[1:], " ")
		case "mtllib":
			for _, lib := range fields[1:] {
				d.loadMaterials(filepath.Join(d.dir, lib))
			}
		}
		if err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return &LoadError{Path: d.path, Line: d.line, Err: err}
	}
	return nil
}

func (d *decoder) startShape(name string) {
	if d.cur != nil && len(d.cur.indices) == 0 {
		d.cur.name = name
		return
	}
	d.cur = newShape(name)
	d.shapes = append(d.shapes, d.cur)
}

func (d *decoder) parseFloats(fields []string, want int, out []float32) error {
	if len(fields) < want {
		return d.errorf("expected %d values, got %d", want, len(fields))
	}
	for i := range out {
		if i >= len(fields) {
			break
		}
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return d.errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return nil
}

func (d *decoder) parseVec3(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	err := d.parseFloats(fields, 3, v[:])
	return v, err
}

// Texture coordinates may carry an optional third component, which is ignored.
func (d *decoder) parseVec2(fields []string) (mgl32.Vec2, error) {
	var v mgl32.Vec2
	err := d.parseFloats(fields, 1, v[:])
	return v, err
}

// resolveIndex maps a 1-based or negative (relative) OBJ index to a 0-based one.
func (d *decoder) resolveIndex(tok string, n int, kind string) (int, error) {
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, d.errorf("invalid %s index %q", kind, tok)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, d.errorf("%s index 0 is not allowed", kind)
	}
	if i < 0 || i >= n {
		return 0, d.errorf("%s index %s out of range (%d defined)", kind, tok, n)
	}
	return i, nil
}

type faceVertex struct {
	v, vt, vn int
}

func (d *decoder) parseFaceVertex(tok string) (faceVertex, error) {
	fv := faceVertex{vt: -1, vn: -1}
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return fv, d.errorf("invalid face vertex %q", tok)
	}

	var err error
	if fv.v, err = d.resolveIndex(parts[0], len(d.positions), "vertex"); err != nil {
		return fv, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.vt, err = d.resolveIndex(parts[1], len(d.uvs), "texcoord"); err != nil {
			return fv, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.vn, err = d.resolveIndex(parts[2], len(d.normals), "normal"); err != nil {
			return fv, err
		}
	}
	return fv, nil
}

// parseFace triangulates a polygon as a fan around its first vertex.
func (d *decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return d.errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	fvs := make([]faceVertex, len(fields))
	for i, tok := range fields {
		fv, err := d.parseFaceVertex(tok)
		if err != nil {
			return err
		}
		fvs[i] = fv
	}

	if d.cur == nil {
		d.startShape("default")
	}

	for i := 1; i+1 < len(fvs); i++ {
		tri := [3]faceVertex{fvs[0], fvs[i], fvs[i+1]}
		normal := d.faceNormal(tri)
		d.faces++
		for _, fv := range tri {
			d.cur.indices = append(d.cur.indices, d.vertexIndex(fv, normal))
		}
	}
	return nil
}

func (d *decoder) faceNormal(tri [3]faceVertex) mgl32.Vec3 {
	p0, p1, p2 := d.positions[tri[0].v], d.positions[tri[1].v], d.positions[tri[2].v]
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

func (d *decoder) vertexIndex(fv faceVertex, faceNormal mgl32.Vec3) uint32 {
	key := vertexKey{v: fv.v, vt: fv.vt, vn: fv.vn, mat: d.curMat, face: -1}
	if fv.vn < 0 {
		key.face = d.faces
	}
	if idx, ok := d.cur.lookup[key]; ok {
		return idx
	}

	p := d.positions[fv.v]
	n := faceNormal
	if fv.vn >= 0 {
		n = d.normals[fv.vn]
	}
	mat, ok := d.materials[d.curMat]
	if !ok {
		mat = defaultMaterial
	}

	v := raster.Vertex{
		X: p[0], Y: p[1], Z: p[2],
		NX: n[0], NY: n[1], NZ: n[2],
		Ambient:  mat.ambient,
		Diffuse:  mat.diffuse,
		Emissive: mat.emissive,
	}
	if fv.vt >= 0 {
		v.U, v.V = d.uvs[fv.vt][0], d.uvs[fv.vt][1]
	}

	idx := uint32(len(d.cur.vertices))
	d.cur.vertices = append(d.cur.vertices, v)
	d.cur.lookup[key] = idx
	return idx
}

// loadMaterials reads Ka/Kd/Ke colors from an MTL file. A missing or
// unreadable library is a warning, not a load failure.
func (d *decoder) loadMaterials(path string) {
	f, err := os.Open(path)
	if err != nil {
		d.warnings = append(d.warnings, fmt.Sprintf("mtllib %s: %v", path, err))
		return
	}
	defer f.Close()

	if err := parseMTL(f, d.materials); err != nil {
		d.warnings = append(d.warnings, fmt.Sprintf("mtllib %s: %v", path, err))
	}
}

var errNoMaterial = errors.New("color before newmtl")

func parseMTL(r io.Reader, into map[string]material) error {
	sc := bufio.NewScanner(r)
	var name string
	var cur *material
	flush := func() {
		if cur != nil {
			into[name] = *cur
		}
	}

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var dst *raster.Color
		switch fields[0] {
		case "newmtl":
			flush()
			name = strings.Join(fields[1:], " ")
			m := defaultMaterial
			cur = &m
			continue
		case "Ka":
			if cur != nil {
				dst = &cur.ambient
			}
		case "Kd":
			if cur != nil {
				dst = &cur.diffuse
			}
		case "Ke":
			if cur != nil {
				dst = &cur.emissive
			}
		default:
			continue
		}
		if dst == nil {
			return fmt.Errorf("line %d: %w", line, errNoMaterial)
		}
		if len(fields) < 4 {
			return fmt.Errorf("line %d: expected 3 color components", line)
		}
		var c [3]float32
		for i := range c {
			f, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return fmt.Errorf("line %d: invalid number %q", line, fields[i+1])
			}
			c[i] = float32(f)
		}
		*dst = raster.Color{R: c[0], G: c[1], B: c[2]}
	}
	flush()
	return sc.Err()
}
