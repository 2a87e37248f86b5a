package ffmpeg

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Environment overrides for preinstalled binaries.
const (
	EnvFFmpegPath  = "SUBCAST_FFMPEG_PATH"
	EnvFFprobePath = "SUBCAST_FFPROBE_PATH"
)

const (
	bundleVersion = "6.1"
	bundleBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"
)

// Paths holds resolved binary locations.
type Paths struct {
	FFmpeg  string
	FFprobe string
}

var (
	resolveOnce sync.Once
	resolved    Paths
	resolveErr  error
)

// Resolve locates ffmpeg and ffprobe, preferring in order: the
// SUBCAST_FFMPEG_PATH/SUBCAST_FFPROBE_PATH overrides, the system
// PATH, a previously cached bundle, an embedded bundle, and finally a
// downloaded prebuilt bundle. The result is computed once per
// process.
func Resolve() (Paths, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = resolve()
	})
	return resolved, resolveErr
}

// FFmpegPath returns the resolved ffmpeg binary path.
func FFmpegPath() (string, error) {
	p, err := Resolve()
	if err != nil {
		return "", err
	}
	return p.FFmpeg, nil
}

// FFprobePath returns the resolved ffprobe binary path.
func FFprobePath() (string, error) {
	p, err := Resolve()
	if err != nil {
		return "", err
	}
	return p.FFprobe, nil
}

func resolve() (Paths, error) {
	ffmpegBin := os.Getenv(EnvFFmpegPath)
	ffprobeBin := os.Getenv(EnvFFprobePath)

	if ffmpegBin == "" {
		ffmpegBin, _ = exec.LookPath("ffmpeg")
	}
	if ffprobeBin == "" {
		ffprobeBin, _ = exec.LookPath("ffprobe")
	}
	if ffmpegBin != "" && ffprobeBin != "" {
		return Paths{FFmpeg: ffmpegBin, FFprobe: ffprobeBin}, nil
	}

	asset, err := bundleAsset(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return Paths{}, err
	}

	dir := bundleDir()
	p := Paths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+exeSuffix()),
		FFprobe: filepath.Join(dir, "ffprobe"+exeSuffix()),
	}
	if isFile(p.FFmpeg) && isFile(p.FFprobe) {
		return p, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create ffmpeg cache dir: %w", err)
	}

	fromEmbed, err := unpackEmbedded(asset, dir)
	if err != nil {
		return Paths{}, err
	}
	if !fromEmbed {
		if err := downloadBundle(asset, dir); err != nil {
			return Paths{}, err
		}
	}

	if !isFile(p.FFmpeg) || !isFile(p.FFprobe) {
		return Paths{}, errors.New("ffmpeg bundle missing required binaries")
	}
	if runtime.GOOS != "windows" {
		for _, bin := range []string{p.FFmpeg, p.FFprobe} {
			if err := os.Chmod(bin, 0o755); err != nil {
				return Paths{}, fmt.Errorf("chmod %s: %w", filepath.Base(bin), err)
			}
		}
	}

	return p, nil
}

var bundleFlavors = map[string]string{
	"linux/amd64":   "linux-64",
	"linux/arm64":   "linux-arm-64",
	"darwin/amd64":  "macos-64",
	"windows/amd64": "win-64",
}

func bundleAsset(goos, goarch string) (string, error) {
	flavor, ok := bundleFlavors[goos+"/"+goarch]
	if !ok {
		return "", fmt.Errorf("no prebuilt ffmpeg bundle for %s/%s", goos, goarch)
	}
	return fmt.Sprintf("ffmpeg-%s-%s.zip", bundleVersion, flavor), nil
}

func bundleDir() string {
	cache, err := os.UserCacheDir()
	if err != nil || cache == "" {
		cache = os.TempDir()
	}
	return filepath.Join(
		cache,
		"subcast",
		"ffmpeg",
		bundleVersion,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func downloadBundle(asset, dir string) error {
	url := fmt.Sprintf("%s/v%s/%s", bundleBaseURL, bundleVersion, asset)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffmpeg bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffmpeg bundle: unexpected status %s", resp.Status)
	}

	return unpackZip(resp.Body, dir)
}

func unpackEmbedded(asset, dir string) (bool, error) {
	reader, ok, err := openEmbedded(asset)
	if err != nil || !ok {
		return ok, err
	}
	defer func() { _ = reader.Close() }()

	if err := unpackZip(reader, dir); err != nil {
		return true, err
	}
	return true, nil
}

// unpackZip spools the archive to disk first since zip needs random
// access, then extracts just the two binaries.
func unpackZip(r io.Reader, dir string) error {
	tmp, err := os.CreateTemp("", "subcast-ffmpeg-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	zr, err := zip.OpenReader(name)
	if err != nil {
		return fmt.Errorf("open ffmpeg archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	found := 0
	for _, f := range zr.File {
		var dest string
		switch strings.ToLower(filepath.Base(f.Name)) {
		case "ffmpeg", "ffmpeg.exe":
			dest = filepath.Join(dir, "ffmpeg"+exeSuffix())
		case "ffprobe", "ffprobe.exe":
			dest = filepath.Join(dir, "ffprobe"+exeSuffix())
		default:
			continue
		}
		if err := writeZipEntry(f, dest); err != nil {
			return err
		}
		found++
	}

	if found < 2 {
		return errors.New("ffmpeg archive missing required binaries")
	}
	return nil
}

func writeZipEntry(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry: %w", err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(dest), err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
