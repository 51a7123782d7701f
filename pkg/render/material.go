package render

import (
	"math"
	"sort"
	"sync"

	"github.com/taigrr/lodviz/pkg/math3d"
)

// ColorProperty is the property block entry read by the LOD coloration shader.
const ColorProperty = "_LODColoration"

// LODColorationShaderName is the lookup name of the overlay shader.
const LODColorationShaderName = "Hidden/LODColoration"

// PropertyBlock holds named color overrides applied per renderer on top of a
// shared material. The zero value is an empty, read-only block.
type PropertyBlock map[string]Color

// Get returns the override for name.
func (b PropertyBlock) Get(name string) (Color, bool) {
	c, ok := b[name]
	return c, ok
}

// Set stores an override. b must be non-nil.
func (b PropertyBlock) Set(name string, c Color) {
	b[name] = c
}

// Clone returns an independent copy. Cloning a nil block yields an empty one.
func (b PropertyBlock) Clone() PropertyBlock {
	out := make(PropertyBlock, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// ShadeInput is what a shader sees for one triangle.
type ShadeInput struct {
	Normal   math3d.Vec3 // World-space face normal
	LightDir math3d.Vec3 // Normalized direction to the light
	Base     Color       // Material or renderer base color
	Block    PropertyBlock
}

// Shader computes the flat color of a triangle.
type Shader struct {
	Name  string
	Shade func(in ShadeInput) Color
}

// Material pairs a shader with a base color.
type Material struct {
	Shader *Shader
	Color  Color
}

// NewMaterial creates a white material using s.
func NewMaterial(s *Shader) *Material {
	return &Material{Shader: s, Color: ColorWhite}
}

// Lambert applies two-sided directional lighting with a fixed ambient term.
func Lambert(base Color, normal, lightDir math3d.Vec3) Color {
	intensity := math.Abs(normal.Dot(lightDir))
	intensity = 0.3 + 0.7*intensity // Ambient + diffuse
	return RGBA(
		uint8(float64(base.R)*intensity),
		uint8(float64(base.G)*intensity),
		uint8(float64(base.B)*intensity),
		base.A,
	)
}

// StandardShader paints the base color with lambert lighting.
var StandardShader = &Shader{
	Name: "Standard",
	Shade: func(in ShadeInput) Color {
		return Lambert(in.Base, in.Normal, in.LightDir)
	},
}

// LODColorationShader paints the ColorProperty override, or black when the
// renderer carries none.
var LODColorationShader = &Shader{
	Name: LODColorationShaderName,
	Shade: func(in ShadeInput) Color {
		c, ok := in.Block.Get(ColorProperty)
		if !ok {
			return ColorBlack
		}
		return Lambert(c, in.Normal, in.LightDir)
	},
}

// ShaderLibrary resolves shaders by name.
type ShaderLibrary struct {
	mu      sync.RWMutex
	shaders map[string]*Shader
}

// NewShaderLibrary creates a library holding the given shaders.
func NewShaderLibrary(shaders ...*Shader) *ShaderLibrary {
	l := &ShaderLibrary{shaders: make(map[string]*Shader)}
	for _, s := range shaders {
		l.Register(s)
	}
	return l
}

// DefaultShaderLibrary returns a library with the built-in shaders.
func DefaultShaderLibrary() *ShaderLibrary {
	return NewShaderLibrary(StandardShader, LODColorationShader)
}

// Register adds or replaces a shader.
func (l *ShaderLibrary) Register(s *Shader) {
	if s == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shaders[s.Name] = s
}

// Find returns the shader registered under name.
func (l *ShaderLibrary) Find(name string) (*Shader, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.shaders[name]
	return s, ok
}

// Names lists registered shaders in sorted order.
func (l *ShaderLibrary) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.shaders))
	for n := range l.shaders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
