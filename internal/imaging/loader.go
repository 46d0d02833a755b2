package imaging

import (
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// DefaultCacheSize is the number of decoded images kept by NewImageCache.
const DefaultCacheSize = 32

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path and holds
// at most a fixed number of them; the least recently used image is evicted when a
// new one is added to a full cache.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use img...
//	cache.Evict("/path/to/image.png") // Optional: free memory
type ImageCache struct {
	images *lru.Cache[string, image.Image]
}

// NewImageCache creates an empty cache holding up to DefaultCacheSize images.
func NewImageCache() *ImageCache {
	return NewImageCacheSize(DefaultCacheSize)
}

// NewImageCacheSize creates an empty cache holding up to size images. Sizes
// below one are treated as one.
func NewImageCacheSize(size int) *ImageCache {
	if size < 1 {
		size = 1
	}
	// lru.New only fails for non-positive sizes.
	images, _ := lru.New[string, image.Image](size)
	return &ImageCache{images: images}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded image. The concrete type depends on the image format
//     and color model (e.g., *image.RGBA, *image.Gray16, *image.YCbCr).
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.images.Get(path); ok {
		cacheHits.Inc()
		return img, nil
	}
	cacheMisses.Inc()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %s", path)
	}

	c.images.Add(path, img)
	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.images.Purge()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.images.Remove(path)
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	return c.images.Len()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// BitDepth is the native bits per channel, 8 or 16. Intensity samples taken
	// from the image are expressed on a 0..2^BitDepth-1 scale.
	BitDepth int `json:"bit_depth"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// Grayscale indicates a single-channel image, for which every channel
	// except alpha yields the same samples.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// # Format Detection
//
// The format is determined by file extension:
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg"
//   - ".gif" -> "gif"
//   - Other extensions -> "unknown"
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	grayscale := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		BitDepth:      NativeBitDepth(img),
		HasAlpha:      hasAlpha,
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// NativeBitDepth returns 16 for 16-bit-per-channel image types and 8 otherwise.
func NativeBitDepth(img image.Image) int {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return 16
	}
	return 8
}
