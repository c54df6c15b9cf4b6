// Package util holds small helpers shared by the web and bot surfaces.
package util

import (
	"path/filepath"
	"strings"
)

// allowedImageExts mirrors the upload policy: PNG, JPG, JPEG only.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// AllowedImageFile reports whether the filename carries a supported image
// extension.
func AllowedImageFile(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

// SniffMimeHTTP detects the image MIME type from magic bytes.
func SniffMimeHTTP(b []byte) string {
	// JPEG: FF D8
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	// PNG
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	return "application/octet-stream"
}
