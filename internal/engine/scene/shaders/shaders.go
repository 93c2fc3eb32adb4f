// Package shaders holds the GLSL sources for the shadow pipeline.
package shaders

// DepthVertexShader transforms caster geometry into light clip space for
// the depth-only pass.
const DepthVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;

uniform mat4 uLightViewProj;
uniform mat4 uModel;

void main() {
    gl_Position = uLightViewProj * uModel * vec4(aPos, 1.0);
}
`

// DepthFragmentShader writes depth only.
const DepthFragmentShader = `#version 410 core
void main() {
}
`

// SolidVertexShader is the receiver-pass vertex stage for extruded solids.
const SolidVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat4 uModel;
uniform mat4 uLightViewProj;

out vec3 vNormal;
out vec4 vLightSpacePos;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vNormal = mat3(uModel) * aNormal;
    vLightSpacePos = uLightViewProj * world;
    gl_Position = uMVP * vec4(aPos, 1.0);
}
`

// SolidFragmentShader shades solids with the directional sun and a 3x3 PCF
// shadow lookup through a comparison sampler.
const SolidFragmentShader = `#version 410 core
in vec3 vNormal;
in vec4 vLightSpacePos;

uniform vec3 uColor;
uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform float uIntensity;
uniform float uAmbient;
uniform int uShadowsEnabled;
uniform sampler2DShadow uShadowMap;

out vec4 fragColor;

float shadowFactor() {
    vec3 proj = vLightSpacePos.xyz / vLightSpacePos.w;
    proj = proj * 0.5 + 0.5;
    if (proj.z > 1.0) {
        return 1.0;
    }

    float bias = max(0.002 * (1.0 - dot(normalize(vNormal), uLightDir)), 0.0005);
    vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));

    float sum = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            sum += texture(uShadowMap, vec3(proj.xy + vec2(x, y) * texel, proj.z - bias));
        }
    }
    return sum / 9.0;
}

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, uLightDir), 0.0) * uIntensity;

    float shadow = 1.0;
    if (uShadowsEnabled == 1) {
        shadow = shadowFactor();
    }

    vec3 lit = uColor * (uAmbient + diffuse * shadow) * uLightColor;
    fragColor = vec4(lit, 1.0);
}
`

// GroundVertexShader positions the overlay ground plane.
const GroundVertexShader = `#version 410 core
layout(location = 0) in vec3 aPos;

uniform mat4 uMVP;
uniform mat4 uModel;
uniform mat4 uLightViewProj;

out vec4 vLightSpacePos;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vLightSpacePos = uLightViewProj * world;
    gl_Position = uMVP * vec4(aPos, 1.0);
}
`

// GroundFragmentShader darkens the basemap where casters block the sun.
// Fully lit fragments come out transparent so the host map shows through.
const GroundFragmentShader = `#version 410 core
in vec4 vLightSpacePos;

uniform float uShadowOpacity;
uniform sampler2DShadow uShadowMap;

out vec4 fragColor;

float shadowFactor() {
    vec3 proj = vLightSpacePos.xyz / vLightSpacePos.w;
    proj = proj * 0.5 + 0.5;
    if (proj.z > 1.0) {
        return 1.0;
    }

    vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
    float sum = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            sum += texture(uShadowMap, vec3(proj.xy + vec2(x, y) * texel, proj.z - 0.0015));
        }
    }
    return sum / 9.0;
}

void main() {
    float lit = shadowFactor();
    fragColor = vec4(0.0, 0.0, 0.05, (1.0 - lit) * uShadowOpacity);
}
`
