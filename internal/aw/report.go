package aw

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"aw-go/internal/model"
)

// reportName is the bundle entry holding the full run result document.
const reportName = "report.json"

// archiveRun stages the run report plus a blob per captured file content,
// encrypts each entry, uploads the complete bundle and records the
// archive key. The bundle is discarded on any fault so the archive only
// ever sees complete uploads of staged bundles.
func (s *AWService) archiveRun(runID string, result *model.RunResult, records []model.ChangeRecord) error {
	if s.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	bundle, err := s.staging.Begin(runID)
	if err != nil {
		return fmt.Errorf("opening staging bundle: %w", err)
	}
	defer bundle.Discard()

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	if err := s.stageBlob(bundle, reportName, bytes.NewReader(data)); err != nil {
		return err
	}
	for i, rec := range records {
		if rec.Content == nil {
			continue
		}
		if err := s.stageBlob(bundle, contentBlobName(i, rec.Filename), strings.NewReader(*rec.Content)); err != nil {
			return err
		}
	}

	key := archiveKeyForRun(runID)
	for _, name := range bundle.Names() {
		if err := s.uploadBlob(bundle, key, name); err != nil {
			return err
		}
	}
	if err := s.database.SetRunArchiveKey(runID, key); err != nil {
		return fmt.Errorf("recording archive key: %w", err)
	}
	s.logger.Info("run report archived", "run_id", runID, "key", key)
	return nil
}

func (s *AWService) stageBlob(bundle StagedBundle, name string, r io.Reader) error {
	var buf bytes.Buffer
	if err := s.encryptor.Encrypt(r, &buf); err != nil {
		return fmt.Errorf("encrypting %s: %w", name, err)
	}
	if err := bundle.Add(name, &buf); err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	return nil
}

func (s *AWService) uploadBlob(bundle StagedBundle, key, name string) error {
	r, err := bundle.Open(name)
	if err != nil {
		return fmt.Errorf("reading staged %s: %w", name, err)
	}
	defer r.Close()
	if err := s.archive.Store(path.Join(key, name), r); err != nil {
		return fmt.Errorf("storing %s: %w", name, err)
	}
	return nil
}

// ShowReport loads, decrypts and returns the archived report document
// for one run.
func (s *AWService) ShowReport(runID string) ([]byte, error) {
	run, err := s.database.GetRun(runID)
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if run.ArchiveKey == nil {
		return nil, fmt.Errorf("run %s was not archived", runID)
	}
	if s.archive == nil {
		return nil, fmt.Errorf("no archive configured")
	}

	rc, err := s.archive.Retrieve(path.Join(*run.ArchiveKey, reportName))
	if err != nil {
		return nil, fmt.Errorf("retrieving run report: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if err := s.encryptor.Decrypt(rc, &buf); err != nil {
		return nil, fmt.Errorf("decrypting run report: %w", err)
	}
	return buf.Bytes(), nil
}

func archiveKeyForRun(runID string) string {
	return path.Join("runs", runID)
}

// contentBlobName names a staged content blob. The index prefix keeps
// same-named files from different directories apart.
func contentBlobName(i int, filename string) string {
	return fmt.Sprintf("files/%03d_%s", i, filepath.Base(filename))
}
