package storage

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Magic byte signatures for allowed upload types, keyed by lowercase
// extension.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}}, // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
}

// ValidateResume accepts PDF résumés only.
func ValidateResume(filename string, data []byte) error {
	return validateUpload(filename, data, map[string]bool{".pdf": true})
}

// ValidateImage accepts common web image formats for project uploads.
func ValidateImage(filename string, data []byte) error {
	return validateUpload(filename, data, map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	})
}

// validateUpload checks the extension whitelist and verifies the content
// actually matches it via magic bytes, so a renamed executable can't
// slip through as a document.
func validateUpload(filename string, data []byte, allowed map[string]bool) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file has no extension")
	}
	if !allowed[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}

	signatures, ok := magicBytes[ext]
	if !ok {
		return fmt.Errorf("file type %s is not allowed", ext)
	}
	for _, sig := range signatures {
		if len(data) >= len(sig) && bytes.HasPrefix(data, sig) {
			return nil
		}
	}
	return fmt.Errorf("file content does not match its %s extension", ext)
}
