package audio

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
)

// fileCache stores synthesized audio on disk, keyed by an md5 of the text
// and the provider settings that affect the audio.
type fileCache struct {
	dir     string
	enabled bool
}

func newFileCache(dir string, enabled bool) (*fileCache, error) {
	c := &fileCache{dir: dir, enabled: enabled && dir != ""}
	if c.enabled {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// path returns the cache file for the given key parts
func (c *fileCache) path(ext string, parts ...string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	hash := hex.EncodeToString(h.Sum(nil))

	// Use first 2 chars as subdirectory for better file system performance
	return filepath.Join(c.dir, hash[:2], hash[2:]+ext)
}

// restore copies a cached file to outputFile and reports whether it was cached
func (c *fileCache) restore(outputFile string, ext string, parts ...string) bool {
	if !c.enabled {
		return false
	}
	cacheFile := c.path(ext, parts...)
	if _, err := os.Stat(cacheFile); err != nil {
		return false
	}
	return copyFile(cacheFile, outputFile) == nil
}

// store copies outputFile into the cache, ignoring errors
func (c *fileCache) store(outputFile string, ext string, parts ...string) {
	if !c.enabled {
		return
	}
	_ = copyFile(outputFile, c.path(ext, parts...))
}

// clear removes all cached audio files
func (c *fileCache) clear() error {
	if c.dir == "" {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// stats returns the number and total size of cached files
func (c *fileCache) stats() (fileCount int, totalSize int64, err error) {
	if !c.enabled {
		return 0, 0, nil
	}

	err = filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
			totalSize += info.Size()
		}
		return nil
	})

	return fileCount, totalSize, err
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	if err := ensureDir(dst); err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}

// ensureDir creates the parent directory of file
func ensureDir(file string) error {
	dir := filepath.Dir(file)
	if dir != "" && dir != "." {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
