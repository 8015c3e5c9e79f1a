package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveOutput moves the generated audio directory into a timestamped
// folder under "archive" next to it and returns the new path.
func ArchiveOutput(outputDir string) (string, error) {
	return archiveAt(outputDir, time.Now())
}

func archiveAt(outputDir string, now time.Time) (string, error) {
	info, err := os.Stat(outputDir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("output directory does not exist: %s", outputDir)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", outputDir)
	}

	parentDir := filepath.Dir(outputDir)
	archiveDir := filepath.Join(parentDir, "archive")

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(outputDir)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format("20060102-150405")))

	// Add microseconds to make it unique
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", base, now.Format("20060102-150405.000000")))
	}

	if err := os.Rename(outputDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output directory: %w", err)
	}

	return archivePath, nil
}
