package earthview

import (
	"context"
	"errors"
	"fmt"
	"github.com/cenkalti/backoff/v5"
	"github.com/fogleman/fauxgl"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

//-----------------------------------------------------------------------------
// PATHS
//-----------------------------------------------------------------------------

// AssetPaths locates the texture images used by the scene.
type AssetPaths struct {
	PlanetDiffuse, PlanetBump, PlanetSpecular string
	CloudDiffuse, CloudAlpha                  string
	Stars                                     string
}

// DefaultAssetPaths returns the conventional file names inside dir.
func DefaultAssetPaths(dir string) AssetPaths {
	return AssetPaths{
		PlanetDiffuse:  filepath.Join(dir, "earth_diffuse.jpg"),
		PlanetBump:     filepath.Join(dir, "earth_bump.jpg"),
		PlanetSpecular: filepath.Join(dir, "earth_specular.jpg"),
		CloudDiffuse:   filepath.Join(dir, "clouds_diffuse.jpg"),
		CloudAlpha:     filepath.Join(dir, "clouds_alpha.jpg"),
		Stars:          filepath.Join(dir, "stars.jpg"),
	}
}

// All lists the non-empty paths.
func (p AssetPaths) All() []string {
	var res []string
	for _, path := range []string{p.PlanetDiffuse, p.PlanetBump, p.PlanetSpecular, p.CloudDiffuse, p.CloudAlpha, p.Stars} {
		if path != "" {
			res = append(res, path)
		}
	}
	return res
}

// Textures holds the decoded textures. Any of them may be nil.
type Textures struct {
	PlanetDiffuse, PlanetBump, PlanetSpecular fauxgl.Texture
	CloudDiffuse, CloudAlpha                  fauxgl.Texture
	Stars                                     fauxgl.Texture
}

//-----------------------------------------------------------------------------
// LOADER
//-----------------------------------------------------------------------------

// AssetLoader decodes texture images, retrying transient failures (e.g. a file being rewritten).
type AssetLoader struct {
	MaxTextureSize int           // Larger images are downscaled to fit (0 disables)
	MaxTries       uint          // Attempts per texture
	RetryInterval  time.Duration // Initial backoff interval
	// OnRetry, if set, is called before each retry of a failed texture.
	OnRetry func(path string, err error)
}

// NewAssetLoader returns a loader with sensible defaults for CPU rendering.
func NewAssetLoader() *AssetLoader {
	return &AssetLoader{MaxTextureSize: 1024, MaxTries: 4, RetryInterval: 50 * time.Millisecond}
}

// Load decodes all the textures in paths. Textures that fail to load are left nil and their errors are joined in the
// returned error, so the result is always usable.
func (l *AssetLoader) Load(ctx context.Context, paths AssetPaths) (*Textures, error) {
	res := &Textures{}
	var errs []error
	for _, entry := range []struct {
		path string
		dst  *fauxgl.Texture
	}{
		{paths.PlanetDiffuse, &res.PlanetDiffuse},
		{paths.PlanetBump, &res.PlanetBump},
		{paths.PlanetSpecular, &res.PlanetSpecular},
		{paths.CloudDiffuse, &res.CloudDiffuse},
		{paths.CloudAlpha, &res.CloudAlpha},
		{paths.Stars, &res.Stars},
	} {
		if entry.path == "" {
			continue
		}
		img, err := l.LoadImage(ctx, entry.path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*entry.dst = fauxgl.NewImageTexture(img)
	}
	return res, errors.Join(errs...)
}

// LoadImage decodes a single image, downscaling it if needed.
func (l *AssetLoader) LoadImage(ctx context.Context, path string) (image.Image, error) {
	b := backoff.NewExponentialBackOff()
	if l.RetryInterval > 0 {
		b.InitialInterval = l.RetryInterval
	}
	tries := l.MaxTries
	if tries == 0 {
		tries = 1
	}
	img, err := backoff.Retry(ctx, func() (image.Image, error) {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(tries), backoff.WithNotify(func(err error, next time.Duration) {
		log.Println("[EarthView] Retrying texture", path, "in", next, "after error:", err)
		if l.OnRetry != nil {
			l.OnRetry(path, err)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return downscale(img, l.MaxTextureSize), nil
}

// downscale shrinks img so that its largest side is at most maxSize, keeping the aspect ratio.
func downscale(img image.Image, maxSize int) image.Image {
	size := img.Bounds().Size()
	if maxSize <= 0 || (size.X <= maxSize && size.Y <= maxSize) {
		return img
	}
	w, h := maxSize, size.Y*maxSize/size.X
	if size.Y > size.X {
		w, h = size.X*maxSize/size.Y, maxSize
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
