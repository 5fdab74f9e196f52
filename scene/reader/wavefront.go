package reader

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/minilight/log"
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/types"
)

type wavefrontMaterial struct {
	Name string

	// Diffuse color. Used as the triangle reflectivity.
	Kd types.Vec3

	// Emissive color and scaler.
	Ke       types.Vec3
	KeScaler float32

	// True if this material is used by at least one face.
	Used bool
}

// Get the emitted radiance for surfaces using this material.
func (wf *wavefrontMaterial) Emissivity() types.Vec3 {
	if wf.KeScaler != 0 {
		return wf.Ke.Mul(wf.KeScaler)
	}
	return wf.Ke
}

type wavefrontSceneReader struct {
	logger log.Logger

	scene *Scene

	// Materials by name. The default material uses the empty name.
	materials   map[string]*wavefrontMaterial
	curMaterial *wavefrontMaterial

	// Vertex list. Only the number of uv and normal coords is tracked so that
	// face indices referencing them can be validated.
	vertexList  []types.Vec3
	uvCount     int
	normalCount int

	// Include frames, outermost first. Appended to errors raised while
	// parsing included files.
	includeStack []string
}

func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:    log.New("wavefront scene reader"),
		scene:     &Scene{},
		materials: make(map[string]*wavefrontMaterial),
	}
}

// Parse a scene and any files it includes.
func (r *wavefrontSceneReader) Read(sceneRes *Resource) (*Scene, error) {
	r.logger.Infof(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	if err := r.parse(sceneRes); err != nil {
		return nil, err
	}

	if !r.scene.EyeDefined {
		r.scene.Eye = sceneCenter(r.scene.Triangles)
		r.logger.Infof("no eye position defined; using scene center %v", r.scene.Eye)
	}

	unused := 0
	for _, mat := range r.materials {
		if !mat.Used {
			unused++
		}
	}
	if unused > 0 {
		r.logger.Infof("%d materials are not referenced by any face", unused)
	}

	r.logger.Infof("parsed %d triangles in %d ms", len(r.scene.Triangles), time.Since(start).Nanoseconds()/1e6)
	return r.scene, nil
}

// Format a parse error followed by the include frames, innermost first.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	var buf strings.Builder
	if file != "" {
		fmt.Fprintf(&buf, "[%s: %d] ", file, line)
	}
	buf.WriteString("error: ")
	fmt.Fprintf(&buf, msgFormat, args...)

	for i := len(r.includeStack) - 1; i >= 0; i-- {
		buf.WriteByte('\n')
		buf.WriteString(r.includeStack[i])
	}
	return errors.New(buf.String())
}

// Lookup a material by name. The default material is created on demand.
func (r *wavefrontSceneReader) material(name string) (*wavefrontMaterial, bool) {
	mat, exists := r.materials[name]
	if !exists && name == "" {
		mat = &wavefrontMaterial{Kd: types.Vec3{0.7, 0.7, 0.7}}
		r.materials[name] = mat
		exists = true
	}
	return mat, exists
}

// Feed the non-empty, non-comment lines of a resource to fn as whitespace
// separated tokens. Errors returned by fn are reported with the resource
// location.
func (r *wavefrontSceneReader) scanLines(res *Resource, fn func(lineNum int, tokens []string) error) error {
	lineNum := 0
	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || tokens[0][0] == '#' {
			continue
		}

		if err := fn(lineNum, tokens); err != nil {
			// Errors from included files are already annotated
			if incErr, ok := err.(includeError); ok {
				return incErr.err
			}
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Wraps an error raised while parsing an included file.
type includeError struct {
	err error
}

func (e includeError) Error() string {
	return e.err.Error()
}

// Parse an object file. Included object files and material libraries are
// parsed recursively.
func (r *wavefrontSceneReader) parse(res *Resource) error {
	// Positive face indices are 1-based and relative to the file that
	// contains the face, so record the coord counts at the start of it.
	vertexBase := len(r.vertexList)
	uvBase := r.uvCount
	normalBase := r.normalCount

	return r.scanLines(res, func(lineNum int, tokens []string) error {
		switch tokens[0] {
		case "call", "mtllib":
			if len(tokens) != 2 {
				return syntaxError(tokens, 1)
			}
			return r.include(res, lineNum, tokens)
		case "usemtl":
			if len(tokens) != 2 {
				return syntaxError(tokens, 1)
			}
			mat, exists := r.material(tokens[1])
			if !exists {
				return fmt.Errorf(`undefined material with name "%s"`, tokens[1])
			}
			r.curMaterial = mat
		case "v":
			v, err := parseVec3(tokens)
			if err != nil {
				return err
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			if _, err := parseVec3(tokens); err != nil {
				return err
			}
			r.normalCount++
		case "vt":
			if _, err := parseVec2(tokens); err != nil {
				return err
			}
			r.uvCount++
		case "f":
			tris, err := r.parseFace(tokens, vertexBase, uvBase, normalBase)
			if err != nil {
				return err
			}
			r.scene.Triangles = append(r.scene.Triangles, tris...)
		case "eye", "camera_eye":
			eye, err := parseVec3(tokens)
			if err != nil {
				return err
			}
			r.scene.Eye = eye
			r.scene.EyeDefined = true
		}
		return nil
	})
}

// Parse an object file or material library referenced by a call or mtllib
// statement. The path is resolved relative to the including resource.
func (r *wavefrontSceneReader) include(res *Resource, lineNum int, tokens []string) error {
	incRes, err := NewResource(tokens[1], res)
	if err != nil {
		return err
	}
	defer incRes.Close()

	r.includeStack = append(r.includeStack, fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, tokens[0]))
	if tokens[0] == "call" {
		err = r.parse(incRes)
	} else {
		err = r.parseMaterials(incRes)
	}
	if err != nil {
		return includeError{err}
	}
	r.includeStack = r.includeStack[:len(r.includeStack)-1]
	return nil
}

// Convert a face statement into triangles. Each vertex argument uses one of
// the formats v, v/vt, v//vn or v/vt/vn; the first argument selects the
// format for the whole face. Indices are 1-based; negative indices count back
// from the end of the coord lists. Polygons are split into a triangle fan
// around their first vertex.
func (r *wavefrontSceneReader) parseFace(tokens []string, vertexBase, uvBase, normalBase int) ([]scene.Triangle, error) {
	if len(tokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(tokens)-1)
	}

	vertices := make([]types.Vec3, len(tokens)-1)
	format := 0
	for arg := range vertices {
		indices := strings.Split(tokens[arg+1], "/")
		switch {
		case arg == 0 && len(indices) > 3:
			return nil, fmt.Errorf("face argument %d contains %d indices; expected at most 3", arg, len(indices))
		case arg == 0:
			format = len(indices)
		case len(indices) != format:
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", format, arg, len(indices))
		}

		if indices[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		at, err := selectFaceCoordIndex(indices[0], len(r.vertexList), vertexBase)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %v", arg, err)
		}
		vertices[arg] = r.vertexList[at]

		// Texture and normal coords are validated but not kept
		if format > 1 && indices[1] != "" {
			if _, err = selectFaceCoordIndex(indices[1], r.uvCount, uvBase); err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %v", arg, err)
			}
		}
		if format > 2 && indices[2] != "" {
			if _, err = selectFaceCoordIndex(indices[2], r.normalCount, normalBase); err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %v", arg, err)
			}
		}
	}

	if r.curMaterial == nil {
		r.curMaterial, _ = r.material("")
	}
	mat := r.curMaterial
	mat.Used = true

	tris := make([]scene.Triangle, 0, len(vertices)-2)
	for k := 1; k < len(vertices)-1; k++ {
		tris = append(tris, scene.NewTriangle(vertices[0], vertices[k], vertices[k+1], mat.Kd, mat.Emissivity()))
	}
	return tris, nil
}

// Parse a material library. Only the properties that affect triangles are
// kept; other properties are ignored.
func (r *wavefrontSceneReader) parseMaterials(res *Resource) error {
	r.logger.Infof(`parsing material library "%s"`, res.Path())

	var mat *wavefrontMaterial
	return r.scanLines(res, func(lineNum int, tokens []string) error {
		if tokens[0] == "newmtl" {
			if len(tokens) != 2 {
				return syntaxError(tokens, 1)
			}
			if _, exists := r.materials[tokens[1]]; exists {
				return fmt.Errorf(`material "%s" already defined`, tokens[1])
			}
			mat = &wavefrontMaterial{Name: tokens[1]}
			r.materials[mat.Name] = mat
			return nil
		}

		if mat == nil {
			return fmt.Errorf(`got "%s" without a "newmtl"`, tokens[0])
		}

		var err error
		switch tokens[0] {
		case "include":
			if len(tokens) < 2 {
				return syntaxError(tokens, 1)
			}
			base, exists := r.materials[tokens[1]]
			if !exists {
				return fmt.Errorf(`could not include unknown material "%s"`, tokens[1])
			}

			// Copy the base properties under our own name
			name := mat.Name
			*mat = *base
			mat.Name = name
			mat.Used = false
		case "Kd":
			mat.Kd, err = parseVec3(tokens)
		case "Ke":
			mat.Ke, err = parseVec3(tokens)
		case "KeScaler":
			mat.KeScaler, err = parseFloat32(tokens)
		default:
			r.logger.Debugf(`ignoring unsupported material property "%s" in %s:%d`, tokens[0], res.Path(), lineNum)
		}
		return err
	})
}

// Get the centre of the bounds of a triangle list. Empty lists are centred
// on the origin.
func sceneCenter(tris []scene.Triangle) types.Vec3 {
	if len(tris) == 0 {
		return types.Zero
	}

	lo, hi := types.MaxVec, types.MinVec
	for i := range tris {
		for _, v := range tris[i].Vertices() {
			lo = types.MinVec3(lo, v)
			hi = types.MaxVec3(hi, v)
		}
	}
	return lo.Add(hi).Mul(0.5)
}

// Map a face coord index token to a position in a coord list of the given
// length. Positive indices are 1-based and relative to base; negative
// indices count back from the end of the list. Zero is invalid.
func selectFaceCoordIndex(token string, listLen int, base int) (int, error) {
	idx, err := strconv.Atoi(token)
	if err != nil {
		return -1, err
	}

	pos := listLen + idx
	if idx > 0 {
		pos = base + idx - 1
	}
	if idx == 0 || pos < 0 || pos >= listLen {
		return -1, errors.New("index out of bounds")
	}
	return pos, nil
}

func syntaxError(tokens []string, expArgs int) error {
	plural := "s"
	if expArgs == 1 {
		plural = ""
	}
	return fmt.Errorf(`unsupported syntax for "%s"; expected %d argument%s; got %d`, tokens[0], expArgs, plural, len(tokens)-1)
}

// Parse the float arguments following a keyword into out.
func parseFloats(tokens []string, out []float32) error {
	if len(tokens) <= len(out) {
		return syntaxError(tokens, len(out))
	}

	for i := range out {
		val, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return err
		}
		out[i] = float32(val)
	}
	return nil
}

func parseFloat32(tokens []string) (float32, error) {
	var v [1]float32
	err := parseFloats(tokens, v[:])
	return v[0], err
}

func parseVec2(tokens []string) ([2]float32, error) {
	var v [2]float32
	err := parseFloats(tokens, v[:])
	return v, err
}

func parseVec3(tokens []string) (types.Vec3, error) {
	var v types.Vec3
	err := parseFloats(tokens, v[:])
	return v, err
}
