package shader

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// compiler is the implementation of the Compiler interface.
type compiler struct {
	mu       sync.Mutex
	variants map[string]Shader
}

// Compiler compiles WGSL shader sources into Shader variants and caches them by
// variant key. The same name and define set always yields the same cached
// instance, so passes can request variants every frame without recompiling.
type Compiler interface {
	// Compile returns the cached variant for the given name and defines,
	// compiling it on first request.
	//
	// Parameters:
	//   - name: the base shader name, used as the cache key prefix and module label
	//   - shaderType: the type of shader (vertex, fragment or compute)
	//   - source: the raw WGSL source code, typically from an embedded asset
	//   - defines: the variant defines applied by the pre-processor; may be nil
	//
	// Returns:
	//   - Shader: the compiled (or cached) shader variant
	Compile(name string, shaderType ShaderType, source string, defines map[string]string) Shader

	// VariantCount returns the number of distinct variants currently cached.
	//
	// Returns:
	//   - int: the cached variant count
	VariantCount() int
}

var _ Compiler = &compiler{}

// NewCompiler creates an empty shader variant compiler.
//
// Returns:
//   - Compiler: the new compiler
func NewCompiler() Compiler {
	return &compiler{
		variants: make(map[string]Shader),
	}
}

// VariantKey builds the deterministic cache key for a shader name and define
// set. Defines are sorted by name so insertion order never changes the key.
//
// Parameters:
//   - name: the base shader name
//   - defines: the variant defines; may be nil
//
// Returns:
//   - string: "name" for an empty define set, otherwise "name+k=v,k=v,..."
func VariantKey(name string, defines map[string]string) string {
	if len(defines) == 0 {
		return name
	}
	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('+')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(defines[k])
	}
	return sb.String()
}

func (c *compiler) Compile(name string, shaderType ShaderType, source string, defines map[string]string) Shader {
	key := VariantKey(name, defines)
	// The same variant may be compiled once per stage: vertex and fragment
	// parses of one source differ in visibility and vertex layout handling.
	cacheKey := key + "#" + strconv.Itoa(int(shaderType))

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.variants[cacheKey]; ok {
		return s
	}
	s := NewShader(key, shaderType, source, defines)
	c.variants[cacheKey] = s
	return s
}

func (c *compiler) VariantCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.variants)
}
