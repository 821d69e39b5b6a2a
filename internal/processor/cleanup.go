package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// moveToProcessing moves a job file from the inbox to the processing folder
func (p *implProcessor) moveToProcessing(ctx context.Context, jobPath string) (string, error) {
	destPath, err := p.moveTo(ctx, jobPath, p.cfg.Paths.Processing)
	if err != nil {
		return "", fmt.Errorf("move to processing: %w", err)
	}
	return destPath, nil
}

// moveToFailed moves a job to the failed folder and records the cause in a
// sibling .error file.
func (p *implProcessor) moveToFailed(ctx context.Context, jobPath string, cause error) error {
	destPath, err := p.moveTo(ctx, jobPath, p.cfg.Paths.Failed)
	if err != nil {
		return err
	}
	p.writeNote(ctx, destPath+".error", cause.Error())
	return nil
}

// writeNote records text next to a moved job file.
func (p *implProcessor) writeNote(ctx context.Context, path, text string) {
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		p.logger.Warn(ctx, "Failed to write %s: %v", path, err)
	}
}

// moveTo moves path into dir, creating dir when needed.
func (p *implProcessor) moveTo(ctx context.Context, path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, filepath.Base(path))

	p.logger.Debug(ctx, "Moving %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}
