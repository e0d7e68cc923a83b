package graphics

import (
	"mini-voxel/internal/logging"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glCheckError logs the pending GL error, if any, on log
func glCheckError(log *logging.Logger, label string) {
	reportGLError(log, label, gl.GetError())
}

func reportGLError(log *logging.Logger, label string, code uint32) {
	if code != gl.NO_ERROR {
		log.Errorf("%s: 0x%x", label, code)
	}
}
