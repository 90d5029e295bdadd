package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/dustin/go-humanize"
	"google.golang.org/api/iterator"

	"photo-gallery/pkg/config"
	"photo-gallery/pkg/logger"
)

// LocalFile is a gallery file that may need uploading
type LocalFile struct {
	Path   string
	Object string
	Size   int64
	MD5    []byte
}

// RemoteObject is what the bucket already holds under an object name
type RemoteObject struct {
	Size int64
	MD5  []byte
}

// PublishResult counts what a publish run did
type PublishResult struct {
	Uploaded int
	Skipped  int
	Errors   int
	Bytes    int64
}

// ObjectName maps a local gallery path to its bucket object name
func ObjectName(prefix, localPath string) string {
	name := strings.TrimPrefix(path.Clean(filepath.ToSlash(localPath)), "/")
	if prefix == "" {
		return name
	}
	return path.Join(strings.Trim(prefix, "/"), name)
}

// CollectPublishFiles gathers the source images, both derivative folders and
// the manifest
func (s *Service) CollectPublishFiles() ([]LocalFile, error) {
	var files []LocalFile

	add := func(p string) error {
		sum, size, err := md5File(p)
		if err != nil {
			return err
		}
		files = append(files, LocalFile{
			Path:   p,
			Object: ObjectName(s.config.BucketPrefix, p),
			Size:   size,
			MD5:    sum,
		})
		return nil
	}

	for _, dir := range []string{s.config.SourceDir, s.config.ThumbDir, s.config.OptimizedDir} {
		sources, err := s.listSources(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Nothing to publish in missing folder", "dir", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, src := range sources {
			if err := add(filepath.Join(dir, src.Name)); err != nil {
				return nil, err
			}
		}
	}

	if err := add(s.config.ManifestPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Warn("No manifest to publish", "path", s.config.ManifestPath)
	}

	return files, nil
}

// PlanUploads drops files the bucket already holds with the same size and
// checksum
func PlanUploads(local []LocalFile, remote map[string]RemoteObject) []LocalFile {
	var pending []LocalFile
	for _, f := range local {
		if obj, ok := remote[f.Object]; ok && obj.Size == f.Size && bytes.Equal(obj.MD5, f.MD5) {
			continue
		}
		pending = append(pending, f)
	}
	return pending
}

// Publish uploads the gallery to the configured bucket, skipping unchanged
// objects
func (s *Service) Publish(ctx context.Context) (*PublishResult, error) {
	if s.config.BucketName == "" {
		return nil, config.ErrBucketNameNotSet
	}

	local, err := s.CollectPublishFiles()
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("Error closing storage client", "error", err)
		}
	}()

	bucket := client.Bucket(s.config.BucketName)

	remote, err := listRemote(ctx, bucket, s.config.BucketPrefix)
	if err != nil {
		return nil, err
	}

	pending := PlanUploads(local, remote)
	result := &PublishResult{Skipped: len(local) - len(pending)}

	fmt.Fprintf(s.out, "Publishing %d of %d files to gs://%s\n", len(pending), len(local), s.config.BucketName)

	for _, f := range pending {
		fmt.Fprintf(s.out, "    Uploading %s (%s)... ", f.Object, humanize.Bytes(uint64(f.Size)))
		if err := uploadFile(ctx, bucket, f.Path, f.Object); err != nil {
			fmt.Fprintln(s.out, "Failed")
			logger.Warn("Error uploading file", "file", f.Path, "error", err)
			result.Errors++
			continue
		}
		fmt.Fprintln(s.out, "Done")
		result.Uploaded++
		result.Bytes += f.Size
	}

	fmt.Fprintf(s.out, "\nSummary:\n")
	fmt.Fprintf(s.out, "  Uploaded: %d (%s)\n", result.Uploaded, humanize.Bytes(uint64(result.Bytes)))
	fmt.Fprintf(s.out, "  Unchanged: %d\n", result.Skipped)
	fmt.Fprintf(s.out, "  Errors: %d\n", result.Errors)

	return result, nil
}

// listRemote indexes the objects under prefix by name
func listRemote(ctx context.Context, bucket *storage.BucketHandle, prefix string) (map[string]RemoteObject, error) {
	remote := make(map[string]RemoteObject)
	query := &storage.Query{Prefix: strings.Trim(prefix, "/")}

	it := bucket.Objects(ctx, query)
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating objects: %w", err)
		}
		remote[obj.Name] = RemoteObject{Size: obj.Size, MD5: obj.MD5}
	}
	return remote, nil
}

// uploadFile uploads a file to GCS bucket
func uploadFile(ctx context.Context, bucket *storage.BucketHandle, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	writer := bucket.Object(dst).NewWriter(ctx)
	writer.ContentType = contentType(dst)

	if _, err := io.Copy(writer, f); err != nil {
		writer.Close()
		return fmt.Errorf("Writer.Write: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}

// contentType guesses the MIME type from the object extension
func contentType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func md5File(p string) ([]byte, int64, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	h := md5.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to hash %s: %w", p, err)
	}
	return h.Sum(nil), n, nil
}
