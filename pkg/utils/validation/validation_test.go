package validation

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a one-file form.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(fileHeader(t, "photo.PNG", pngBytes(t))))

	assert.ErrorIs(t, ValidateImage(nil), ErrFileRequired)
	assert.ErrorIs(t, ValidateImage(fileHeader(t, "photo.tiff", pngBytes(t))), ErrFileType)
	assert.ErrorIs(t, ValidateImage(fileHeader(t, "fake.jpg", []byte("%PDF-1.4\n"))), ErrFileContent)

	big := fileHeader(t, "big.png", pngBytes(t))
	big.Size = MaxImageSize + 1
	assert.ErrorIs(t, ValidateImage(big), ErrFileSize)
}

func TestValidateDocument(t *testing.T) {
	mime, err := ValidateDocument(fileHeader(t, "brochure.pdf", []byte("%PDF-1.4\n%x\n")))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	_, err = ValidateDocument(fileHeader(t, "run.exe", []byte("MZ")))
	assert.ErrorIs(t, err, ErrFileType)
}

func TestStruct(t *testing.T) {
	type input struct {
		Title string  `validate:"required"`
		Price float64 `validate:"gte=0"`
	}

	assert.Nil(t, Struct(input{Title: "Tower A", Price: 10}))

	errs := Struct(input{Price: -1})
	require.Len(t, errs, 2)
	assert.Equal(t, FieldError{Field: "title", Rule: "required"}, errs[0])
	assert.Equal(t, FieldError{Field: "price", Rule: "gte", Param: "0"}, errs[1])
}
