package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// DetectContentType returns the MIME type of input and a new reader
// containing the whole data from input.
func DetectContentType(input io.Reader) (string, io.Reader, error) {
	// header will store the bytes mimetype uses for detection.
	header := bytes.NewBuffer(nil)

	mtype, err := mimetype.DetectReader(io.TeeReader(input, header))
	if err != nil {
		return "", nil, err
	}

	return mtype.String(), io.MultiReader(header, input), nil
}

// OpenFile opens path for upload. The caller closes the returned file once
// the upload has finished.
func OpenFile(path string) (File, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("open %s: %w", path, err)
	}

	contentType, content, err := DetectContentType(f)
	if err != nil {
		_ = f.Close()
		return File{}, nil, fmt.Errorf("detect content type of %s: %w", path, err)
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	}, f, nil
}
