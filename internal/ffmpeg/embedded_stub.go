//go:build !ffmpeg_embedded

package ffmpeg

import "io"

// Builds without the ffmpeg_embedded tag carry no bundled archive.
func openEmbedded(string) (io.ReadCloser, bool, error) {
	return nil, false, nil
}
