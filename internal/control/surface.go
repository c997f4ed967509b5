package control

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Surface publishes the contents of a control file to a parameter store.
type Surface struct {
	path  string
	store *dynamics.ParamStore
	log   *logrus.Entry
}

// NewSurface binds the control file at path to store. A nil logger selects
// the logrus standard logger.
func NewSurface(path string, store *dynamics.ParamStore, logger *logrus.Logger) *Surface {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Surface{
		path:  filepath.Clean(path),
		store: store,
		log:   logger.WithFields(logrus.Fields{"component": "control", "file": path}),
	}
}

// Apply reads the control file and stores the resulting parameters. Knobs
// missing from the file keep their current values. On error the store is
// left untouched.
func (s *Surface) Apply() (dynamics.Parameters, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return dynamics.Parameters{}, fmt.Errorf("control: %w", err)
	}

	values, err := Parse(data)
	if err != nil {
		return dynamics.Parameters{}, err
	}

	p, err := values.Parameters(s.store.Snapshot())
	if err != nil {
		return dynamics.Parameters{}, err
	}

	s.store.Store(p)

	s.log.WithFields(logrus.Fields{
		"input_gain_db":  p.InputGainDB,
		"output_gain_db": p.OutputGainDB,
		"threshold_db":   p.ThresholdDB,
		"ratio":          p.Ratio,
		"attack_s":       p.AttackSec,
		"release_s":      p.ReleaseSec,
		"detector":       p.DetectorMode.String(),
	}).Info("parameters applied")

	return p, nil
}

// Watch re-applies the control file whenever it is written or replaced,
// until ctx is done. The parent directory is watched so editors that save
// by rename are seen too. Apply errors are logged and watching continues.
func (s *Surface) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("control: create watcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("control: watch %s: %w", filepath.Dir(s.path), err)
	}

	s.log.Debug("watching control file")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("stopped watching control file")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != s.path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			_, err := s.Apply()
			if err != nil {
				s.log.WithError(err).Warn("control file rejected")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			s.log.WithError(err).Error("watcher error")
		}
	}
}
