//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"io"
	"io/fs"
)

//go:embed assets/*
var embeddedBundles embed.FS

func openEmbedded(name string) (io.ReadCloser, bool, error) {
	file, err := embeddedBundles.Open("assets/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return file, true, nil
}
