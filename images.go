package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxHeroWidth = 1200
	jpegQuality  = 80
	heroSubdir   = "hero"
)

// heroImage is a processed hero image.
type heroImage struct {
	Width  int
	Height int
	Data   []byte
}

// processImage decodes an image from src, resizes it to maxHeroWidth when
// wider and encodes it as JPEG.
func processImage(src io.Reader) (heroImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return heroImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxHeroWidth {
		newH := h * maxHeroWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxHeroWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxHeroWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return heroImage{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return heroImage{Width: w, Height: h, Data: buf.Bytes()}, nil
}

// isRemote reports whether a hero image reference points off-site.
func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "//")
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := path.Ext(name)
	slug := Slugify(strings.TrimSuffix(path.Base(name), ext))
	if slug == "" {
		slug = "image"
	}
	return slug
}

// uniqueFilename appends a counter until name is unused.
func uniqueFilename(base string, used map[string]bool) string {
	candidate := base + ".jpg"
	for counter := 2; used[candidate]; counter++ {
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
	used[candidate] = true
	return candidate
}

// processHeroes scales local hero images wider than maxHeroWidth into
// outDir/hero and returns the rewritten URL for each one it replaced.
// Remote references, narrow images and unreadable files keep their
// original URL.
func (a *App) processHeroes(refs []string, publicDir, outDir string) (map[string]string, int64, error) {
	out := make(map[string]string)
	used := make(map[string]bool)
	var written int64
	for _, ref := range refs {
		if ref == "" || isRemote(ref) || !strings.HasPrefix(ref, "/") {
			continue
		}
		if _, done := out[ref]; done {
			continue
		}
		src := filepath.Join(publicDir, filepath.FromSlash(path.Clean(ref)))
		f, err := os.Open(src)
		if err != nil {
			a.logger.Warnf("hero image %s: %v", ref, err)
			continue
		}
		cfg, _, err := image.DecodeConfig(f)
		if err != nil || cfg.Width <= maxHeroWidth {
			f.Close()
			if err != nil {
				a.logger.Warnf("hero image %s: %v", ref, err)
			}
			continue
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, written, fmt.Errorf("folio: hero image %s: %w", ref, err)
		}
		img, err := processImage(f)
		f.Close()
		if err != nil {
			a.logger.Warnf("hero image %s: %v", ref, err)
			continue
		}

		name := uniqueFilename(slugifyFilename(ref), used)
		dir := filepath.Join(outDir, heroSubdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, written, fmt.Errorf("folio: create hero dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
			return nil, written, fmt.Errorf("folio: write hero image: %w", err)
		}
		written += int64(len(img.Data))
		out[ref] = "/" + heroSubdir + "/" + name
		a.logger.Debugf("hero image %s scaled to %dx%d", ref, img.Width, img.Height)
	}
	return out, written, nil
}
