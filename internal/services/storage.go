package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService keeps uploaded CVs and interview media on local disk.
type StorageService interface {
	SaveFile(file *multipart.FileHeader, prefix string) (string, string, error)
	SaveBytes(data []byte, prefix, ext string) (string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

var ErrInvalidFileType = errors.New("only PDF files are allowed")

type storageService struct {
	uploadPath string
	mediaPath  string
}

func NewStorageService(uploadPath, mediaPath string) StorageService {
	if mediaPath == "" {
		mediaPath = filepath.Join(uploadPath, "media")
	}
	return &storageService{
		uploadPath: uploadPath,
		mediaPath:  mediaPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	for _, dir := range []string{s.uploadPath, s.mediaPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return nil
}

// SaveFile stores an uploaded PDF and returns its generated name and full path.
func (s *storageService) SaveFile(file *multipart.FileHeader, prefix string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidFileType, ext)
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

// SaveBytes writes a media clip and returns its path.
func (s *storageService) SaveBytes(data []byte, prefix, ext string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoAudio
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	filePath := filepath.Join(s.mediaPath, fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save media: %w", err)
	}

	return filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
