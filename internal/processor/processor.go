package processor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/tube-digest/internal/transcript"
)

// Process moves the job file to the processing folder, summarizes the video
// it names, writes the exports and archives the job. A failed job is moved
// to the failed folder next to a .error file describing the cause.
func (p *implProcessor) Process(ctx context.Context, jobPath string) error {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting job: %s", jobPath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Claim the job
	workPath, err := p.moveToProcessing(ctx, jobPath)
	if err != nil {
		return err
	}

	err = p.run(ctx, workPath, startTime)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		// Leave the job in processing; it was interrupted, not rejected.
		return err
	}
	if moveErr := p.moveToFailed(ctx, workPath, err); moveErr != nil {
		p.logger.Warn(ctx, "Failed to move job to failed folder: %v", moveErr)
	}
	return err
}

func (p *implProcessor) run(ctx context.Context, workPath string, startTime time.Time) error {
	// Step 2: Read the URL
	videoURL, err := readJobURL(workPath)
	if err != nil {
		return err
	}

	// Step 3: Fetch and summarize
	outcome, err := p.Summarize(ctx, videoURL)
	if err != nil {
		return err
	}

	// Step 4: Export
	written, err := p.Export(ctx, outcome)
	if err != nil {
		return err
	}

	// Step 5: Archive the job
	archived, err := p.moveTo(ctx, workPath, p.cfg.Paths.Archived)
	if err != nil {
		p.logger.Warn(ctx, "Failed to move job to archived folder: %v", err)
	} else if notes := outcome.Notes(); len(notes) > 0 {
		p.writeNote(ctx, archived+".warning", strings.Join(notes, "\n"))
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Job completed successfully!")
	for _, path := range written {
		p.logger.Info(ctx, "Output: %s", path)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")
	return nil
}

// Summarize resolves the video ID, fetches the transcript and runs the
// summarization pipeline.
func (p *implProcessor) Summarize(ctx context.Context, videoURL string) (*Outcome, error) {
	videoID, err := transcript.ParseVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Fetching transcript for %s", videoID)
	text, err := p.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	res, err := p.controller.Run(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", videoID, err)
	}
	if res.Warning != nil {
		p.logger.Warn(ctx, "Summary of %s is partial: %v", videoID, res.Warning)
	}
	return &Outcome{VideoID: videoID, URL: strings.TrimSpace(videoURL), Result: res}, nil
}

// readJobURL returns the first line of a job file that is neither blank nor
// a # comment.
func readJobURL(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open job: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Windows .url shortcut files carry the target as URL=...
		if after, ok := strings.CutPrefix(line, "URL="); ok {
			return strings.TrimSpace(after), nil
		}
		if strings.HasPrefix(line, "[") {
			continue
		}
		return line, nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read job: %w", err)
	}
	return "", fmt.Errorf("job %s contains no URL", filepath.Base(path))
}
