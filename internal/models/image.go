package models

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// ImageType enumerates accepted cover image formats.
type ImageType string

// Supported image formats.
const (
	ImageTypeGIF  ImageType = "GIF"
	ImageTypeJPG  ImageType = "JPG"
	ImageTypeJPEG ImageType = "JPEG"
	ImageTypePNG  ImageType = "PNG"
	ImageTypeSVG  ImageType = "SVG"
)

// Cover image limits.
const (
	MaxImageSizeKB   int64 = 1024
	MinImageWidth    int64 = 300
	MinImageHeight   int64 = 200
	imageRatioWidth  int64 = 3
	imageRatioHeight int64 = 2
)

// ParseImageType normalises a format name.
func ParseImageType(raw string) (ImageType, error) {
	t := ImageType(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case ImageTypeGIF, ImageTypeJPG, ImageTypeJPEG, ImageTypePNG, ImageTypeSVG:
		return t, nil
	}
	return "", appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unsupported image type %q", raw))
}

// Image is a session cover image.
type Image struct {
	ID        int64     `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	SizeKB    int64     `db:"size_kb" json:"size_kb"`
	Type      ImageType `db:"image_type" json:"image_type"`
	Width     int64     `db:"width" json:"width"`
	Height    int64     `db:"height" json:"height"`
}

// NewImage validates size, format and pixel dimensions.
func NewImage(sizeKB int64, imageType ImageType, width, height int64) (Image, error) {
	if sizeKB <= 0 || sizeKB > MaxImageSizeKB {
		return Image{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("image size must be between 1 and %d KB", MaxImageSizeKB))
	}
	if _, err := ParseImageType(string(imageType)); err != nil {
		return Image{}, err
	}
	if err := validatePixel(width, height); err != nil {
		return Image{}, err
	}
	return Image{SizeKB: sizeKB, Type: imageType, Width: width, Height: height}, nil
}

func validatePixel(width, height int64) error {
	if width < MinImageWidth {
		return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("image width must be at least %d", MinImageWidth))
	}
	if height < MinImageHeight {
		return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("image height must be at least %d", MinImageHeight))
	}
	if width*imageRatioHeight != height*imageRatioWidth {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "image width and height must have a 3:2 ratio")
	}
	return nil
}
