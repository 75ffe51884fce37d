// Package storage: сохранение загруженных файлов (резюме) на диск.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"appnity/internal/apperr"

	"github.com/google/uuid"
)

// Разрешённые типы резюме: расширение -> допустимые MIME.
var resumeTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

// doc хранится в OLE-контейнере (Compound File Binary).
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// contentMatches сверяет первые байты файла с расширением.
// docx это zip-архив.
func contentMatches(ext string, head []byte) bool {
	switch ext {
	case ".pdf":
		return baseMIME(http.DetectContentType(head)) == "application/pdf"
	case ".doc":
		return bytes.HasPrefix(head, oleMagic)
	case ".docx":
		return baseMIME(http.DetectContentType(head)) == "application/zip"
	}
	return false
}

type ResumeStore struct {
	root     string
	maxBytes int64
	now      func() time.Time
}

func NewResumeStore(mediaRoot string, maxBytes int64) *ResumeStore {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &ResumeStore{root: mediaRoot, maxBytes: maxBytes, now: time.Now}
}

func (s *ResumeStore) MaxBytes() int64 { return s.maxBytes }

// Upload: входной файл резюме из multipart-формы.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Save проверяет тип и размер и пишет файл в resumes/YYYY/MM/<uuid><ext>.
// Возвращает относительный путь (ключ), который хранится в БД.
func (s *ResumeStore) Save(up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	allowed, ok := resumeTypes[ext]
	if !ok {
		return "", apperr.Field("resume", "Only PDF, DOC, and DOCX files are allowed.")
	}
	if up.Size > s.maxBytes {
		return "", apperr.Field("resume", fmt.Sprintf("File size cannot exceed %dMB.", s.maxBytes>>20))
	}
	if declared := baseMIME(up.ContentType); declared != "" && declared != "application/octet-stream" && !contains(allowed, declared) {
		return "", apperr.Field("resume", "Only PDF, DOC, and DOCX files are allowed.")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", apperr.Internal(fmt.Errorf("read resume: %w", err))
	}
	head = head[:n]
	if n == 0 {
		return "", apperr.Field("resume", "The submitted file is empty.")
	}
	if !contentMatches(ext, head) {
		return "", apperr.Field("resume", "File content does not match its extension.")
	}

	now := s.now()
	key := filepath.ToSlash(filepath.Join("resumes", now.Format("2006"), now.Format("01"), uuid.NewString()+ext))
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", apperr.Internal(fmt.Errorf("mkdir: %w", err))
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("create resume file: %w", err))
	}
	// +1 байт, чтобы заметить превышение при неверном Size
	written, err := io.Copy(f, io.LimitReader(io.MultiReader(bytes.NewReader(head), up.Body), s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", apperr.Internal(fmt.Errorf("write resume file: %w", err))
	}
	if written > s.maxBytes {
		_ = os.Remove(full)
		return "", apperr.Field("resume", fmt.Sprintf("File size cannot exceed %dMB.", s.maxBytes>>20))
	}
	return key, nil
}

// Open открывает сохранённый файл по ключу.
func (s *ResumeStore) Open(key string) (*os.File, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, apperr.NotFound("resume not found")
	}
	f, err := os.Open(filepath.Join(s.root, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound("resume not found")
		}
		return nil, apperr.Internal(err)
	}
	return f, nil
}

// Delete удаляет файл; используется для отката, если запись в БД не удалась.
func (s *ResumeStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.Clean(filepath.FromSlash(key))))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ContentTypeFor: MIME для отдачи файла по расширению ключа.
func ContentTypeFor(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if types, ok := resumeTypes[ext]; ok {
		return types[0]
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func baseMIME(ct string) string {
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
