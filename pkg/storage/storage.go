// Package storage is the blob store behind uploaded delivery, correction and
// resource files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
)

// ErrUnknownProvider storage.provider is neither oss nor memory.
var ErrUnknownProvider = errors.New("storage: unknown provider")

// UploadInput one object to store.
type UploadInput struct {
	Folder      string // already sanitized, see Folder
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object a stored blob.
type Object struct {
	ID  string // object key, used for deletion
	URL string
}

// Store uploads and deletes blobs. Delete of a missing object succeeds.
type Store interface {
	Upload(ctx context.Context, in UploadInput) (*Object, error)
	Delete(ctx context.Context, id string) error
}

// New builds the store selected by cfg.Provider.
func New(cfg *config.StorageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Provider {
	case "oss":
		return NewOSSStore(cfg, logger)
	case "memory", "":
		logger.Warn("using in-memory blob store, files are lost on restart")
		return NewMemoryStore(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	invalidRe = regexp.MustCompile(`[^a-zA-Z0-9._\-]`)
)

const maxNameLen = 80

// SanitizeName keeps ASCII letters, digits, dot, underscore and dash;
// whitespace runs become a single underscore.
func SanitizeName(name string) string {
	s := spaceRe.ReplaceAllString(name, "_")
	s = invalidRe.ReplaceAllString(s, "")
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	return s
}

// Folder returns "<CCT> - <school>/<program>" with both segments sanitized.
func Folder(cct, schoolName, programName string) string {
	return SanitizeName(cct+" - "+schoolName) + "/" + SanitizeName(programName)
}

// CorrectionsFolder nests correction attachments under the delivery folder.
func CorrectionsFolder(folder string) string {
	return folder + "/_correcciones"
}

func objectKey(prefix, folder, name string, now time.Time) string {
	name = SanitizeName(name)
	if name == "" {
		name = "archivo"
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.Trim(prefix, "/"), strings.Trim(folder, "/")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("%d_%s", now.UnixMilli(), name))
	return strings.Join(parts, "/")
}
