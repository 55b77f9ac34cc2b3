package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dusk-indust/parsedescribe/internal/config"
	"github.com/dusk-indust/parsedescribe/internal/engine"
)

// Extension is appended to a source path to name its document.
const Extension = ".describe"

// Collect expands roots into jobs. A file root is always included, using the
// fallback language when its extension is unknown. A directory root is walked
// for files with a known extension, skipping directories cfg excludes.
// Documents are placed under outDir, mirroring each file's path relative to
// its root. Jobs are sorted by source path. Two distinct files mapping to the
// same document are an error.
func Collect(roots []string, outDir string, cfg *config.ProjectConfig) ([]Job, error) {
	extra, err := cfg.ExtensionMap()
	if err != nil {
		return nil, err
	}

	var jobs []Job
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", root, err)
		}

		if !info.IsDir() {
			lang, ok := engine.LanguageForPath(root, extra)
			if !ok {
				lang = cfg.DefaultLanguage()
			}
			jobs = append(jobs, Job{
				Path:     root,
				Language: lang,
				Output:   filepath.Join(outDir, filepath.Base(root)+Extension),
			})
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible paths
			}
			if d.IsDir() {
				if path != root && cfg.Excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			lang, ok := engine.LanguageForPath(path, extra)
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			jobs = append(jobs, Job{
				Path:     path,
				Language: lang,
				Output:   filepath.Join(outDir, rel+Extension),
			})
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Path < jobs[j].Path })
	return dedupe(jobs)
}

// dedupe drops repeated jobs for the same source file and rejects two
// different files that would write the same document.
func dedupe(jobs []Job) ([]Job, error) {
	owner := make(map[string]string, len(jobs))
	out := jobs[:0]
	for _, j := range jobs {
		if prev, ok := owner[j.Output]; ok {
			if prev == j.Path {
				continue
			}
			return nil, fmt.Errorf("%s and %s would both write %s", prev, j.Path, j.Output)
		}
		owner[j.Output] = j.Path
		out = append(out, j)
	}
	return out, nil
}
