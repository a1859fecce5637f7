package globe

import "github.com/echoflaresat/earthglobe/vectors"

// Uniform names as they appear in the shader sources.
const (
	UniformDayTexture   = "u_day"
	UniformNightTexture = "u_night"
	UniformSunDirection = "u_sun_direction"
)

// Uniforms is the per-frame snapshot the host copies into its shader
// program. The texture fields never change after construction;
// SunDirection is rewritten by every Advance.
type Uniforms struct {
	DayTexture   string
	NightTexture string
	SunDirection vectors.Vec3
}

// Material carries the GLSL sources and uniform values for a GL host. The
// repo never links OpenGL itself; compiling and binding is the host's job.
type Material struct {
	VertexShader   string
	FragmentShader string
	Uniforms       Uniforms
}

func newMaterial(opts Options) *Material {
	return &Material{
		VertexShader:   vertexShaderSource,
		FragmentShader: fragmentShaderSource,
		Uniforms: Uniforms{
			DayTexture:   opts.DayTexture,
			NightTexture: opts.NightTexture,
		},
	}
}

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 in_position;
layout (location = 1) in vec3 in_normal;
layout (location = 2) in vec2 in_uv;

uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;

out vec2 frag_uv;
out vec3 frag_normal;
out vec3 frag_view_pos;

void main() {
    frag_uv = in_uv;
    frag_normal = normalize(mat3(u_model) * in_normal);
    vec4 view_pos = u_view * u_model * vec4(in_position, 1.0);
    frag_view_pos = view_pos.xyz;
    gl_Position = u_projection * view_pos;
}
`

// Fragment stage. Keep in lockstep with Shade in shading.go: same
// constants, same order of operations.
const fragmentShaderSource = `#version 410 core
in vec2 frag_uv;
in vec3 frag_normal;
in vec3 frag_view_pos;

out vec4 fragColor;

uniform sampler2D u_day;
uniform sampler2D u_night;
uniform vec3 u_sun_direction;

void main() {
    vec3 normal = normalize(frag_normal);
    vec3 view_dir = normalize(-frag_view_pos);

    float sun_orientation = dot(normal, u_sun_direction);
    float day_mix = smoothstep(-0.5, 0.5, sun_orientation);

    vec3 day_color = texture(u_day, frag_uv).rgb;
    vec3 night_color = texture(u_night, frag_uv).rgb * 1.5;
    night_color *= 1.0 - smoothstep(-0.1, 0.0, sun_orientation);

    vec3 color = mix(night_color, day_color, day_mix);

    float rim = pow(1.0 - dot(view_dir, normal), 3.0);
    float intensity_factor = 0.5 + 0.5 * day_mix;
    color += vec3(0.4, 0.6, 1.0) * rim * 0.6 * intensity_factor;

    fragColor = vec4(color, 1.0);
}
`
