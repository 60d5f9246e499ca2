package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/HSouheill/webinar_backend/logging"
)

// Upload kinds
const (
	KindImage    = "image"
	KindVideo    = "video"
	KindDocument = "document"
)

const (
	// Maximum file size (100MB, webinar recordings included)
	maxFileSize = 100 * 1024 * 1024
	thumbWidth  = 320
)

var allowedExts = map[string]string{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".webm": KindVideo,
	".pdf":  KindDocument,
}

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedFileExt = errors.New("unsupported file type")
)

// UploadResult describes a stored upload
type UploadResult struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	Kind         string `json:"kind"`
	Size         int64  `json:"size"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// FileStorage saves uploads into a public directory served under BaseURL
type FileStorage struct {
	Dir     string
	BaseURL string
	now     func() time.Time
}

func NewFileStorage(dir, baseURL string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &FileStorage{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/"), now: time.Now}, nil
}

// FileKind returns the upload kind for filename's extension
func FileKind(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := allowedExts[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileExt, ext)
	}
	return kind, nil
}

// Save stores the file as <unix millis><ext>. Thumbnails are best effort: a
// failure is logged and leaves ThumbnailURL empty.
func (s *FileStorage) Save(header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > maxFileSize {
		return nil, fmt.Errorf("%w: maximum size is %d bytes", ErrFileTooLarge, maxFileSize)
	}

	kind, err := FileKind(header.Filename)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, filename, err := s.createUnique(ext)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, maxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > maxFileSize {
		err = fmt.Errorf("%w: maximum size is %d bytes", ErrFileTooLarge, maxFileSize)
	}
	if err != nil {
		os.Remove(filepath.Join(s.Dir, filename))
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	result := &UploadResult{
		Filename: filename,
		URL:      s.BaseURL + "/" + filename,
		Kind:     kind,
		Size:     written,
	}

	var thumbErr error
	switch {
	case kind == KindImage:
		result.ThumbnailURL, thumbErr = s.imageThumbnail(filename)
	case kind == KindVideo:
		result.ThumbnailURL, thumbErr = s.videoPoster(filename)
	}

	if thumbErr != nil {
		logging.Warn("Thumbnail generation failed", "file", filename, "error", thumbErr)
	}

	return result, nil
}

// createUnique opens a new file named after the current millisecond, moving
// forward one millisecond on collision.
func (s *FileStorage) createUnique(ext string) (*os.File, string, error) {
	stamp := s.now().UnixMilli()
	for i := 0; i < 100; i++ {
		filename := strconv.FormatInt(stamp+int64(i), 10) + ext
		f, err := os.OpenFile(filepath.Join(s.Dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, filename, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create upload file: %w", err)
		}
	}
	return nil, "", errors.New("failed to pick a unique upload filename")
}

func (s *FileStorage) imageThumbnail(filename string) (string, error) {
	img, err := imaging.Open(filepath.Join(s.Dir, filename), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return s.writeJPEG("thumb_"+strings.TrimSuffix(filename, filepath.Ext(filename))+".jpg", thumb)
}

func (s *FileStorage) videoPoster(filename string) (string, error) {
	framePath := filepath.Join(os.TempDir(), "poster_"+filename+".jpg")
	defer os.Remove(framePath)

	err := ffmpeg.Input(filepath.Join(s.Dir, filename)).
		Output(framePath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to extract poster frame: %w", err)
	}

	img, err := imaging.Open(framePath)
	if err != nil {
		return "", fmt.Errorf("failed to decode poster frame: %w", err)
	}

	poster := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return s.writeJPEG("poster_"+strings.TrimSuffix(filename, filepath.Ext(filename))+".jpg", poster)
}

func (s *FileStorage) writeJPEG(name string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return s.BaseURL + "/" + name, nil
}
