package tripform

import (
	"io/fs"

	"github.com/goliatone/go-tripform/pkg/renderers/vanilla"
)

// RuntimeAssetsFS exposes the stylesheet and banner script served next to the
// booking page.
//
// Typical mount:
//
//	mux.Handle(vanilla.AssetsPath+"/",
//	  http.StripPrefix(vanilla.AssetsPath+"/",
//	    http.FileServerFS(tripform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
