package texcache

import (
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/waozixyz/iconview/render"
)

// CodeLoadFailure means the base texture could not be read, decoded or
// uploaded.
const CodeLoadFailure platformerrors.ErrorCode = "LOAD_FAILURE"

func loadFailure(err error, texture render.BaseTexture, stage string) error {
	return platformerrors.WrapWithContext(err, CodeLoadFailure, "base texture "+stage+" failed",
		map[string]interface{}{
			"file":    texture.File,
			"texture": texture.Name,
		})
}
