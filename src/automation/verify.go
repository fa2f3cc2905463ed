package automation

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"pbix-converter/src/poll"
)

// artifactSnapshot records which expected output paths already existed, and
// with what modification time, before the external process launched. A
// pre-existing artifact from an unrelated prior run only counts as success
// evidence if its mtime advances past the snapshot.
type artifactSnapshot struct {
	existing map[string]time.Time
}

// snapshotArtifacts captures the pre-launch state of the expected outputs.
func (e *Engine) snapshotArtifacts(outputDir, name string) artifactSnapshot {
	snap := artifactSnapshot{existing: make(map[string]time.Time)}
	for _, c := range e.artifactCandidates(outputDir, name) {
		if st, err := os.Stat(c.path); err == nil {
			snap.existing[c.path] = st.ModTime()
		}
	}
	return snap
}

func (s artifactSnapshot) fresh(path string, modTime time.Time) bool {
	prior, existed := s.existing[path]
	if !existed {
		return true
	}
	return modTime.After(prior)
}

type artifactCandidate struct {
	path string
	dir  bool
}

func (e *Engine) artifactCandidates(outputDir, name string) []artifactCandidate {
	return []artifactCandidate{
		{path: filepath.Join(outputDir, name+e.cfg.ProjectExtension), dir: false},
		{path: filepath.Join(outputDir, name+e.cfg.ReportSuffix), dir: true},
		{path: filepath.Join(outputDir, name+e.cfg.SemanticModelSuffix), dir: true},
	}
}

// awaitArtifacts polls the filesystem for conversion evidence: either the
// single project file or one of the two companion directories. Directory
// evidence gets an extra grace delay so sibling files can finish writing.
// This polling-on-side-effects is the only correctness oracle available; the
// external process exposes no completion event.
func (e *Engine) awaitArtifacts(outputDir, name string, snap artifactSnapshot) error {
	candidates := e.artifactCandidates(outputDir, name)
	var matched artifactCandidate

	err := poll.Until(e.cfg.SavePollInterval, e.cfg.SaveTimeout, func() (bool, error) {
		for _, c := range candidates {
			st, err := os.Stat(c.path)
			if err != nil {
				continue
			}
			if st.IsDir() != c.dir {
				continue
			}
			if !snap.fresh(c.path, st.ModTime()) {
				continue
			}
			matched = c
			return true, nil
		}
		return false, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		return failf(KindSaveTimeout,
			"save produced no output: expected %s%s or the %s/%s folders in %s within %s",
			name, e.cfg.ProjectExtension, name+e.cfg.ReportSuffix,
			name+e.cfg.SemanticModelSuffix, outputDir, e.cfg.SaveTimeout)
	}
	if err != nil {
		return &Failure{Kind: KindUnexpected, Msg: "artifact poll aborted", Err: err}
	}

	if matched.dir {
		// Folder appeared but sibling files may still be streaming out.
		time.Sleep(e.cfg.ArtifactGraceDelay)
	}
	log.Printf("Output artifact observed: %s", matched.path)
	return nil
}
