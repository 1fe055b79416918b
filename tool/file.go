package tool

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/moyoez/progress-uploader/types"
)

const defaultMimeType = "application/octet-stream"

// DescribeFile builds a file descriptor for a local file. The MIME type comes
// from the extension, like a browser file picker reports it, unless sniff is
// set, in which case the content is inspected.
func DescribeFile(filePath string, sniff bool) (types.FileDescriptor, error) {
	filePath, err := ResolveFilePath(filePath)
	if err != nil {
		return types.FileDescriptor{}, err
	}
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return types.FileDescriptor{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.IsDir() {
		return types.FileDescriptor{}, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	fileType, err := DetectMimeType(filePath, sniff)
	if err != nil {
		return types.FileDescriptor{}, err
	}

	return types.FileDescriptor{
		Name:     filepath.Base(filePath),
		Size:     fileInfo.Size(),
		MimeType: fileType,
		Path:     filePath,
		Open: func() (io.ReadCloser, error) {
			return os.Open(filePath)
		},
	}, nil
}

// DetectMimeType returns the media type of a local file without parameters.
func DetectMimeType(filePath string, sniff bool) (string, error) {
	if sniff {
		mtype, err := mimetype.DetectFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to detect file type: %w", err)
		}
		return baseMediaType(mtype.String()), nil
	}
	fileType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filePath)))
	if fileType == "" {
		return defaultMimeType, nil
	}
	return baseMediaType(fileType), nil
}

func baseMediaType(v string) string {
	if mediaType, _, err := mime.ParseMediaType(v); err == nil {
		return mediaType
	}
	return v
}

// ResolveFilePath accepts a plain path or a file:// URL.
func ResolveFilePath(raw string) (string, error) {
	if !strings.HasPrefix(raw, "file://") {
		return raw, nil
	}
	parsedUrl, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid file url: %w", err)
	}
	if parsedUrl.Path == "" {
		return "", fmt.Errorf("file url has no path: %s", raw)
	}
	return parsedUrl.Path, nil
}

// CollectFiles expands folders in paths into the regular files they contain,
// keeping the order of the arguments. Files inside one folder are sorted by name.
func CollectFiles(paths []string, recursive bool) ([]string, error) {
	var out []string
	for _, p := range paths {
		resolved, err := ResolveFilePath(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", resolved, err)
		}
		if !info.IsDir() {
			out = append(out, resolved)
			continue
		}
		files, err := collectFolder(resolved, recursive)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func collectFolder(dir string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk folder %s: %w", dir, err)
		}
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FileSizeHuman formats a byte count the way the upload page preview does.
func FileSizeHuman(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dbytes", n)
	case n < 1048576:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/1048576)
	}
}

// PreviewLine describes one selected file before upload.
func PreviewLine(file types.FileDescriptor) string {
	return fmt.Sprintf("File name %q, file size %s.", file.Name, FileSizeHuman(file.Size))
}
