// pre_processor.go implements the WGSL shader pre-processor. It expands
// #include directives against a registry of embedded GPU struct sources,
// resolves #ifdef / #else / #endif conditional blocks against the variant
// defines, and interpolates #{NAME} tokens with define values. The directives
// are resolved entirely on the CPU before the source reaches the WGSL
// compiler, so every emitted variant is plain WGSL.
package shader

import (
	"fmt"
	"strings"

	"github.com/kiln3d/kiln/engine/camera"
	"github.com/kiln3d/kiln/engine/light"
	"github.com/kiln3d/kiln/engine/renderer/material"
)

// IncludeKey identifies an embedded WGSL source fragment in the include registry.
type IncludeKey string

const (
	// IncludeCamera is the CameraUniform struct definition.
	IncludeCamera IncludeKey = "camera"

	// IncludePhongLight is the PhongLight struct and PhongLights buffer wrapper.
	IncludePhongLight IncludeKey = "phong_light"

	// IncludePhongMaterial is the PhongMaterial struct definition.
	IncludePhongMaterial IncludeKey = "phong_material"

	// IncludeShadowUniform is the ShadowUniform struct definition.
	IncludeShadowUniform IncludeKey = "shadow_uniform"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includeRegistry maps include keys to embedded WGSL source fragments.
	includeRegistry map[IncludeKey]string
}

// PreProcessor expands pre-processing directives in raw WGSL shader source.
// Three directive forms are supported, each on its own line:
//
//	#include "camera"       injects the registered WGSL fragment
//	#ifdef NAME ... #else ... #endif   keeps one branch based on the defines
//	#{NAME}                 interpolates the define's value into the line
//
// Conditional blocks may nest. A define with any value (including "") counts
// as defined for #ifdef purposes.
type PreProcessor interface {
	// Process expands all directives in the source against the given defines.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing directives
	//   - defines: the variant defines; may be nil
	//
	// Returns:
	//   - string: plain WGSL with all directives resolved
	//   - error: an error if an include key is unknown, a conditional block is
	//     unbalanced, or an interpolation token has no matching define
	Process(source string, defines map[string]string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's embedded GPU struct
// sources pre-registered under their include keys.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		includeRegistry: map[IncludeKey]string{
			IncludeCamera:        camera.GPUCameraUniformSource,
			IncludePhongLight:    light.GPUPhongLightSource,
			IncludePhongMaterial: material.GPUPhongMaterialSource,
			IncludeShadowUniform: light.GPUShadowUniformSource,
		},
	}
}

// condState tracks one open #ifdef block while scanning the source.
type condState struct {
	// active is whether the branch currently being scanned emits lines.
	active bool

	// taken is whether any branch of this block has been emitted, used to
	// reject the #else branch once the #ifdef branch ran.
	taken bool

	// line is the 1-based source line of the opening #ifdef, for error messages.
	line int
}

func (p *preProcessor) Process(source string, defines map[string]string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var stack []condState

	emitting := func() bool {
		for _, c := range stack {
			if !c.active {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "#ifdef"):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#ifdef"))
			if name == "" {
				return "", fmt.Errorf("line %d: #ifdef requires a name", i+1)
			}
			_, defined := defines[name]
			stack = append(stack, condState{active: defined, taken: defined, line: i + 1})
			continue

		case trimmed == "#else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #else without matching #ifdef", i+1)
			}
			top := &stack[len(stack)-1]
			top.active = !top.taken
			top.taken = true
			continue

		case trimmed == "#endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #endif without matching #ifdef", i+1)
			}
			stack = stack[:len(stack)-1]
			continue
		}

		if !emitting() {
			continue
		}

		if strings.HasPrefix(trimmed, "#include") {
			key, err := parseIncludeKey(trimmed, i+1)
			if err != nil {
				return "", err
			}
			fragment, ok := p.includeRegistry[key]
			if !ok {
				return "", fmt.Errorf("line %d: unknown #include key %q", i+1, key)
			}
			out = append(out, strings.TrimRight(fragment, "\n"))
			continue
		}

		expanded, err := interpolateDefines(line, defines, i+1)
		if err != nil {
			return "", err
		}
		out = append(out, expanded)
	}

	if len(stack) != 0 {
		return "", fmt.Errorf("line %d: unterminated #ifdef", stack[len(stack)-1].line)
	}
	return strings.Join(out, "\n"), nil
}

// parseIncludeKey extracts the quoted key from an #include directive line.
func parseIncludeKey(line string, lineNum int) (IncludeKey, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#include"))
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", fmt.Errorf(`line %d: #include expects a quoted key, got %q`, lineNum, rest)
	}
	return IncludeKey(rest[1 : len(rest)-1]), nil
}

// interpolateDefines replaces every #{NAME} token in the line with the
// corresponding define value. Tokens with no matching define are an error so
// variant misconfigurations fail at compile time rather than inside the
// WGSL compiler.
func interpolateDefines(line string, defines map[string]string, lineNum int) (string, error) {
	for {
		start := strings.Index(line, "#{")
		if start < 0 {
			return line, nil
		}
		end := strings.Index(line[start:], "}")
		if end < 0 {
			return "", fmt.Errorf("line %d: unterminated #{ token", lineNum)
		}
		end += start
		name := line[start+2 : end]
		value, ok := defines[name]
		if !ok {
			return "", fmt.Errorf("line %d: no define for token #{%s}", lineNum, name)
		}
		line = line[:start] + value + line[end+1:]
	}
}
