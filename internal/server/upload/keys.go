package upload

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumeshot/lumeshot/internal/common"
)

// MIME types accepted for upload.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with an
// underscore. The sanitized name goes into the storage key; the true
// original name is preserved separately as metadata.
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// ValidateFile checks one file's declared metadata and returns the
// sanitized filename. Failures are per-file: they land in that file's
// descriptor and never abort sibling files.
func ValidateFile(f FileMeta, maxSize int64) (string, error) {
	if f.Name == "" || f.Type == "" {
		return "", common.ErrMissingField
	}
	if _, ok := allowedMimeTypes[f.Type]; !ok {
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedType, f.Type)
	}
	if f.Size > maxSize {
		return "", fmt.Errorf("%w: %s", common.ErrFileTooLarge, f.Name)
	}
	return SanitizeFileName(f.Name), nil
}

// NewSessionNamespace generates the batch-level namespace token, created
// once per upload session: "<unix-millis>_<uuid prefix>".
func NewSessionNamespace(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

// ProjectRoot derives the per-project folder name under uploads/.
func ProjectRoot(projectName, contact string) string {
	return strings.TrimSpace(projectName) + "_" + contact
}

// BuildKey derives the storage key for one file of a batch.
//
// The key preserves the client-side folder nesting under the session
// namespace:
//
//	uploads/<projectRoot>/<sessionNS>/<subfolders>/<base>_<unixms>_<idx><ext>
//
// The unique filename embeds the creation timestamp and the file's position
// index, so two files with colliding basenames in one batch still get
// distinct keys. Returns the key, the original directory path ("" for root
// files) and the folder portion of the key.
func BuildKey(projectRoot, sessionNS, relativePath, sanitizedName string, index int, now time.Time, preserveFolders bool) (key, originalPath, folderPath string) {
	if preserveFolders && strings.Contains(relativePath, "/") {
		originalPath = path.Dir(relativePath)
	}

	folderPath = fmt.Sprintf("uploads/%s/%s", projectRoot, sessionNS)
	if originalPath != "" && originalPath != "." {
		folderPath = folderPath + "/" + originalPath
	}

	ext := path.Ext(sanitizedName)
	base := strings.TrimSuffix(sanitizedName, ext)
	uniqueFileName := fmt.Sprintf("%s_%d_%d%s", base, now.UnixMilli(), index, ext)

	return folderPath + "/" + uniqueFileName, originalPath, folderPath
}
