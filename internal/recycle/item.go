package recycle

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Item represents one soft-deleted node. Records are immutable: created at
// deletion, destroyed by restore or purge, never mutated in place.
type Item struct {
	ID           string    `json:"id"`
	OriginalPath string    `json:"original_path"`
	OriginalName string    `json:"original_name"`
	RecyclePath  string    `json:"recycle_path"`
	DeletedAt    time.Time `json:"deleted_at"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
}

// Item type labels.
const (
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeDocument = "document"
	TypeArchive  = "archive"
	TypeOther    = "other"
)

var extTypes = map[string]string{
	".jpg": TypeImage, ".jpeg": TypeImage, ".png": TypeImage, ".gif": TypeImage,
	".webp": TypeImage, ".bmp": TypeImage, ".heic": TypeImage, ".svg": TypeImage,
	".mp4": TypeVideo, ".mkv": TypeVideo, ".avi": TypeVideo, ".mov": TypeVideo,
	".webm": TypeVideo, ".3gp": TypeVideo,
	".mp3": TypeAudio, ".wav": TypeAudio, ".ogg": TypeAudio, ".flac": TypeAudio,
	".m4a": TypeAudio, ".opus": TypeAudio,
	".pdf": TypeDocument, ".doc": TypeDocument, ".docx": TypeDocument,
	".txt": TypeDocument, ".md": TypeDocument, ".xls": TypeDocument,
	".xlsx": TypeDocument, ".ppt": TypeDocument, ".pptx": TypeDocument,
	".zip": TypeArchive, ".tar": TypeArchive, ".gz": TypeArchive,
	".rar": TypeArchive, ".7z": TypeArchive,
}

// classifyType derives the item type from the extension, sniffing content
// for unknown extensions.
func classifyType(path string) string {
	if t, ok := extTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return TypeOther
	}
	switch strings.SplitN(mt.String(), "/", 2)[0] {
	case "image":
		return TypeImage
	case "video":
		return TypeVideo
	case "audio":
		return TypeAudio
	case "text":
		return TypeDocument
	default:
		return TypeOther
	}
}

// recycleName encodes the uniqueness token into the holding-area filename,
// so two identically-named originals never collide.
func recycleName(token, originalName string) string {
	return token + "_" + originalName
}

// parseRecycleName splits a holding-area filename back into token and
// original name. Token layout is "rcy_<ULID>", so the original name starts
// after the second underscore.
func parseRecycleName(name string) (token, originalName string, ok bool) {
	parts := strings.SplitN(name, "_", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0] + "_" + parts[1], parts[2], true
}
