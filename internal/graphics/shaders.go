package graphics

// Chunk shaders. Each instance is one greedy quad; the vertex shader places
// the shared unit quad on the plane of its face and scales it by the extents.
// Face ids: 0 +Z, 1 -Z, 2 -X, 3 +X, 4 +Y, 5 -Y.

const chunkVertexShader = `#version 410 core
layout(location = 0) in vec2 aCorner;
layout(location = 1) in vec3 iOrigin;
layout(location = 2) in vec2 iExtent;
layout(location = 3) in float iFace;
layout(location = 4) in float iBlock;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vNormal;
out float vDepth;
flat out int vBlock;

const vec3 NORMALS[6] = vec3[6](
	vec3(0.0, 0.0, 1.0), vec3(0.0, 0.0, -1.0),
	vec3(-1.0, 0.0, 0.0), vec3(1.0, 0.0, 0.0),
	vec3(0.0, 1.0, 0.0), vec3(0.0, -1.0, 0.0)
);

void main() {
	int face = int(iFace + 0.5);
	vec3 uAxis;
	vec3 vAxis;
	if (face <= 1) {
		uAxis = vec3(1.0, 0.0, 0.0);
		vAxis = vec3(0.0, 1.0, 0.0);
	} else if (face <= 3) {
		uAxis = vec3(0.0, 1.0, 0.0);
		vAxis = vec3(0.0, 0.0, 1.0);
	} else {
		uAxis = vec3(1.0, 0.0, 0.0);
		vAxis = vec3(0.0, 0.0, 1.0);
	}

	vec3 local = iOrigin + uAxis * (aCorner.x * iExtent.x) + vAxis * (aCorner.y * iExtent.y);
	vec4 viewPos = uView * uModel * vec4(local, 1.0);

	vNormal = NORMALS[face];
	vBlock = int(iBlock + 0.5);
	vDepth = -viewPos.z;
	gl_Position = uProj * viewPos;
}
`

const chunkFragmentShader = `#version 410 core
in vec3 vNormal;
in float vDepth;
flat in int vBlock;

uniform vec3 uPalette[16];
uniform vec3 uLightDir;
uniform vec3 uFogColor;
uniform float uFogFar;

out vec4 FragColor;

void main() {
	vec3 base = uPalette[clamp(vBlock, 0, 15)];
	float diffuse = max(dot(normalize(vNormal), normalize(uLightDir)), 0.0);
	vec3 color = base * (0.45 + 0.55 * diffuse);
	float fog = clamp(vDepth / uFogFar, 0.0, 1.0);
	FragColor = vec4(mix(color, uFogColor, fog * fog), 1.0);
}
`
