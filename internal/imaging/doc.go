// Package imaging loads images and turns them into intensity arrays for the
// mutual information estimator.
//
// All pixel coordinates in this package are 0-based with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward. For regions, (x1,y1)
// is inclusive (top-left) and (x2,y2) is exclusive (bottom-right).
//
// # Channels
//
// A Channel picks one intensity per pixel:
//   - gray: BT.601 luma (0.299*R + 0.587*G + 0.114*B), kept at 16 bits for
//     16-bit images
//   - red, green, blue, alpha: a single color component, un-premultiplied
//   - lightness: CIE L* scaled to 0-255
//   - gradient: Sobel gradient magnitude of blurred luminance, scaled to 0-255
//   - binary: luminance thresholded at 128, producing a boolean image
//
// Samples extracted from an image are laid out height×width in row-major order,
// so two images (or regions) of the same dimensions pair up pixel by pixel.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Conversion and comparison functions are
// stateless and can be called concurrently.
//
// # Errors
//
// Functions return errors for regions outside the image bounds, empty regions,
// unknown channels and file I/O or decoding failures. Estimator input errors
// are passed through unchanged and match mutualinfo.ErrInvalidInput.
package imaging
