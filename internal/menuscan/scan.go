// Package menuscan extracts item candidates from a photographed or scanned
// menu via Tesseract OCR.
package menuscan

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const minOCRWidth = 1000

// Scanner runs OCR over menu images. One Scanner is safe for concurrent use;
// each Extract call owns its own Tesseract client.
type Scanner struct {
	languages []string
}

func NewScanner(languages []string) *Scanner {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Scanner{languages: languages}
}

// Extract preprocesses the image at path and returns the parsed candidates.
func (s *Scanner) Extract(path string) ([]Candidate, error) {
	prepared, err := preprocess(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess menu image: %w", err)
	}
	defer os.Remove(prepared)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.languages...); err != nil {
		return nil, fmt.Errorf("set ocr language: %w", err)
	}

	if err := client.SetImage(prepared); err != nil {
		return nil, fmt.Errorf("set ocr image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("run ocr: %w", err)
	}

	return ParseLines(text), nil
}

// preprocess grayscales, upscales small images and sharpens, writing the
// result next to the original as a temp PNG.
func preprocess(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	img = imaging.Grayscale(img)
	if img.Bounds().Dx() < minOCRWidth {
		img = imaging.Resize(img, minOCRWidth, 0, imaging.Lanczos)
	}
	img = imaging.Sharpen(img, 1.0)

	out, err := os.CreateTemp(filepath.Dir(path), "menuscan-*.png")
	if err != nil {
		return "", err
	}
	name := out.Name()
	if err := out.Close(); err != nil {
		return "", err
	}

	if err := saveImage(img, name); err != nil {
		os.Remove(name)
		return "", err
	}

	return name, nil
}

func saveImage(img image.Image, path string) error {
	if !strings.HasSuffix(path, ".png") {
		return fmt.Errorf("unexpected temp image path %q", path)
	}
	return imaging.Save(img, path)
}
