package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/tube-digest/internal/export"
	"github.com/nguyentantai21042004/tube-digest/internal/merger"
)

// Notes describes every way the summary in o is degraded: chunks dropped
// after failing and an executive summary built without the reduce pass.
func (o *Outcome) Notes() []string {
	if o == nil || o.Result == nil {
		return nil
	}
	res := o.Result

	var notes []string
	if w := res.Warning; w != nil && len(w.FailedChunks) > 0 {
		idx := make([]string, len(w.FailedChunks))
		for i, c := range w.FailedChunks {
			idx[i] = strconv.Itoa(c)
		}
		notes = append(notes, fmt.Sprintf("Partial summary: %d of %d chunks could not be summarized and are missing (chunk index %s).",
			len(w.FailedChunks), res.Chunks, strings.Join(idx, ", ")))
	}
	if res.MergeFallback {
		if errors.Is(res.MergeFallbackReason, merger.ErrReduceDisabled) {
			notes = append(notes, "Executive summary was assembled from the chunk summaries without a final merge pass.")
		} else {
			notes = append(notes, fmt.Sprintf("Final merge pass failed (%v); executive summary was assembled from the chunk summaries.",
				res.MergeFallbackReason))
		}
	}
	return notes
}

// Export renders o in every configured format into the output folder.
func (p *implProcessor) Export(ctx context.Context, o *Outcome) ([]string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	meta := export.Meta{VideoID: o.VideoID, Notes: o.Notes()}
	written := make([]string, 0, len(p.cfg.Output.Formats))
	for _, name := range p.cfg.Output.Formats {
		format, err := export.ParseFormat(name)
		if err != nil {
			return written, err
		}
		data, err := export.Render(o.Result.Summary, format, meta)
		if err != nil {
			return written, fmt.Errorf("export %s: %w", format, err)
		}

		path := filepath.Join(p.cfg.Paths.Output, export.Filename(o.VideoID, format))
		if err := writeFileAtomic(path, data); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		p.logger.Debug(ctx, "Wrote %s (%d bytes)", path, len(data))
		written = append(written, path)
	}
	return written, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
