package pipeline

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Artifact file names written between stages.
const (
	InterestsFile = "interests.json"
	FilteredFile  = "filtered.csv"
	ScoredFile    = "final.csv"
	PlanFile      = "plan.json"
	ItineraryFile = "itinerary.json"
)

// WriteAtomic writes path through a temporary file in the same directory and
// renames it into place, so readers never see a partial artifact. On error
// the previous file, if any, is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "pipeline: create temp for %s", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()        //nolint:errcheck
			os.Remove(tmpName) //nolint:errcheck
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return eris.Wrapf(err, "pipeline: flush %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return eris.Wrapf(err, "pipeline: sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "pipeline: close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrapf(err, "pipeline: chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "pipeline: rename %s", path)
	}
	committed = true
	return nil
}
