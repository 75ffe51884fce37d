package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"appnity/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfBody() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
}

func newStore(t *testing.T, max int64) *ResumeStore {
	s := NewResumeStore(t.TempDir(), max)
	s.now = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSave_PDF(t *testing.T) {
	s := newStore(t, 1<<20)
	body := pdfBody()

	key, err := s.Save(Upload{Filename: "CV.PDF", ContentType: "application/pdf", Size: int64(len(body)), Body: bytes.NewReader(body)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "resumes/2025/03/"), key)
	assert.Equal(t, ".pdf", filepath.Ext(key))

	f, err := s.Open(key)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestSave_UniqueKeys(t *testing.T) {
	s := newStore(t, 1<<20)
	k1, err := s.Save(Upload{Filename: "a.pdf", Size: 10, Body: bytes.NewReader(pdfBody())})
	require.NoError(t, err)
	k2, err := s.Save(Upload{Filename: "a.pdf", Size: 10, Body: bytes.NewReader(pdfBody())})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestSave_Rejects(t *testing.T) {
	s := newStore(t, 64)

	cases := map[string]Upload{
		"extension":     {Filename: "cv.exe", Size: 10, Body: bytes.NewReader(pdfBody())},
		"declared type": {Filename: "cv.pdf", ContentType: "image/png", Size: 10, Body: bytes.NewReader(pdfBody())},
		"sniffed type":  {Filename: "cv.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("just some text pretending")},
		"size header":   {Filename: "cv.pdf", Size: 65, Body: bytes.NewReader(pdfBody())},
		"empty":         {Filename: "cv.pdf", Size: 0, Body: bytes.NewReader(nil)},
	}
	for name, up := range cases {
		_, err := s.Save(up)
		require.Error(t, err, name)
		ae := apperr.As(err)
		assert.Equal(t, apperr.KindValidation, ae.Kind, name)
		assert.Contains(t, ae.Fields, "resume", name)
	}
}

func TestSave_WordFormats(t *testing.T) {
	s := newStore(t, 1<<20)
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, bytes.Repeat([]byte{0}, 504)...)
	zip := append([]byte("PK\x03\x04\x14\x00\x06\x00"), bytes.Repeat([]byte{0}, 64)...)
	blob := bytes.Repeat([]byte{0x00, 0x01, 0xFE, 0x7F}, 64)

	_, err := s.Save(Upload{Filename: "cv.doc", ContentType: "application/msword", Size: int64(len(ole)), Body: bytes.NewReader(ole)})
	require.NoError(t, err)
	_, err = s.Save(Upload{Filename: "cv.docx", ContentType: "application/octet-stream", Size: int64(len(zip)), Body: bytes.NewReader(zip)})
	require.NoError(t, err)

	// произвольные байты с расширением doc/docx не проходят
	cases := map[string]Upload{
		"blob as doc":  {Filename: "cv.doc", ContentType: "application/msword", Size: int64(len(blob)), Body: bytes.NewReader(blob)},
		"blob as docx": {Filename: "cv.docx", ContentType: "application/octet-stream", Size: int64(len(blob)), Body: bytes.NewReader(blob)},
		"zip as doc":   {Filename: "cv.doc", Size: int64(len(zip)), Body: bytes.NewReader(zip)},
		"ole as docx":  {Filename: "cv.docx", Size: int64(len(ole)), Body: bytes.NewReader(ole)},
	}
	for name, up := range cases {
		_, err := s.Save(up)
		require.Error(t, err, name)
		assert.Equal(t, "File content does not match its extension.", apperr.As(err).Fields["resume"], name)
	}
}

func TestSave_LyingSize(t *testing.T) {
	s := newStore(t, 64)
	body := append(pdfBody(), bytes.Repeat([]byte("x"), 100)...)

	_, err := s.Save(Upload{Filename: "cv.pdf", Size: 10, Body: bytes.NewReader(body)})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// файл не должен остаться на диске
	var files []string
	_ = filepath.Walk(s.root, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	assert.Empty(t, files)
}

func TestOpen_Traversal(t *testing.T) {
	s := newStore(t, 64)
	_, err := s.Open("../../etc/passwd")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("resumes/2025/03/x.pdf"))
	assert.Equal(t, "application/msword", ContentTypeFor("x.doc"))
}
