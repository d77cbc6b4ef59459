package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Madhav-Gupta-28/market-mate-backend-go/models"
)

var (
	ErrNotAnImage    = errors.New("only image uploads are allowed")
	ErrImageTooLarge = errors.New("image exceeds the upload size limit")
)

// ReadImage loads an uploaded file into memory. The content type comes from the part
// header, falling back to sniffing the bytes, and must be image/*.
func ReadImage(fh *multipart.FileHeader, maxBytes int64) (*models.Image, error) {
	if fh.Size > maxBytes {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrImageTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrImageTooLarge)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrNotAnImage)
	}

	return &models.Image{Data: data, ContentType: contentType}, nil
}

// ReadImages reads every file under field, in upload order.
func ReadImages(form *multipart.Form, field string, maxBytes int64) ([]models.Image, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File[field]
	images := make([]models.Image, 0, len(files))
	for _, fh := range files {
		img, err := ReadImage(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		images = append(images, *img)
	}
	return images, nil
}
