package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/reqsnip/internal/emitter/rsemitter"
	"github.com/mark3labs/reqsnip/internal/logging"
	"github.com/mark3labs/reqsnip/internal/naming"
	"github.com/mark3labs/reqsnip/internal/spec"
)

// Report is the document written by generate.
type Report struct {
	Title      string            `json:"title" yaml:"title"`
	Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
	BasePath   string            `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Mode       string            `json:"mode" yaml:"mode"`
	Operations []OperationReport `json:"operations" yaml:"operations"`

	failures []error
}

// OperationReport holds the fragments of one operation, or the reason it
// could not be emitted.
type OperationReport struct {
	rsemitter.OperationSnippets `yaml:",inline"`
	Error                       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// buildReport emits every operation of sm. Operations are emitted
// concurrently and reported in document order. A template error only fails
// its own operation.
func buildReport(ctx context.Context, em *rsemitter.Emitter, sm *spec.ServiceModel, mode rsemitter.Mode, log logging.Logger) (*Report, error) {
	report := &Report{
		Title:      sm.Title,
		Version:    sm.Version,
		Mode:       mode.String(),
		Operations: make([]OperationReport, len(sm.Operations)),
	}
	if len(sm.Servers) > 0 {
		report.BasePath = rsemitter.URLPath(sm.Servers[0].URL)
	}

	errs := make([]error, len(sm.Operations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, op := range sm.Operations {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snip, err := em.Operation(op, mode)
			if err != nil {
				if !errors.Is(err, rsemitter.ErrTemplateResolution) {
					return fmt.Errorf("operation %s: %w", op.ID, err)
				}
				log.Warn("operation skipped", "operation", op.ID, "error", err)
				errs[i] = fmt.Errorf("operation %s: %w", op.ID, err)
				report.Operations[i] = OperationReport{
					OperationSnippets: rsemitter.OperationSnippets{ID: op.ID, Method: op.Method, Path: op.Path, Mode: mode.String()},
					Error:             err.Error(),
				}
				return nil
			}
			report.Operations[i] = OperationReport{OperationSnippets: *snip}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			report.failures = append(report.failures, err)
		}
	}
	return report, nil
}

// err reports the operations that could not be emitted, if any.
func (r *Report) err() error {
	if len(r.failures) == 0 {
		return nil
	}
	return fmt.Errorf("generate: %d of %d operations could not be emitted: %w",
		len(r.failures), len(r.Operations), errors.Join(r.failures...))
}

func (r *Report) encode(format string) ([]byte, error) {
	if format == formatJSON {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// reportFileName derives the report file name used when --out is a directory.
func reportFileName(title, format string) string {
	if title == "" {
		title = "operations"
	}
	return naming.FileName(title + "." + format)
}

// writeReport places data at out, or at out/name when out is an existing
// directory, and returns the final path. The file is written to a temp file
// and renamed into place.
func writeReport(out, name string, data []byte) (string, error) {
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() {
		abs = filepath.Join(abs, name)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	tmp := abs + ".tmp-" + time.Now().Format("20060102150405")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename: %w", err)
	}
	return abs, nil
}
