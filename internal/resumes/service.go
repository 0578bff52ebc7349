package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"intellihire-backend/internal/extract"
	"intellihire-backend/internal/llm"
	"intellihire-backend/internal/shared/metrics"
	"intellihire-backend/internal/shared/storage/object"
	"intellihire-backend/internal/shared/telemetry"
)

// Service implements the resume lifecycle: upload and analysis, edits,
// re-analysis, selection and deletion.
type Service struct {
	repo        Repo
	store       object.ObjectStore
	model       llm.Client
	now         func() time.Time
	extractText func(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, error)
}

func NewService(repo Repo, store object.ObjectStore, model llm.Client) *Service {
	return &Service{
		repo:        repo,
		store:       store,
		model:       model,
		now:         func() time.Time { return time.Now().UTC() },
		extractText: extract.Text,
	}
}

// UploadInput carries one submission. Preview is optional.
type UploadInput struct {
	UserID         string
	FileName       string
	File           io.Reader
	PreviewName    string
	Preview        io.Reader
	CompanyName    string
	JobTitle       string
	JobDescription string
	CandidateName  string
	CandidateEmail string
}

// ViewResult is a derived collection view plus its stats.
type ViewResult struct {
	Items    []Resume
	Selected []Resume
	Stats    Stats
}

// Upload stores the file, persists a placeholder record so the upload
// survives analysis failures, runs the analysis and overwrites the
// record with normalized feedback. On analysis failure the placeholder
// record is returned together with the error.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return Resume{}, fmt.Errorf("%w: resume file is required", ErrInvalidInput)
	}

	resumeKey, _, _, err := s.store.Save(ctx, in.UserID, in.FileName, in.File)
	if err != nil {
		return Resume{}, fmt.Errorf("store resume file: %w", err)
	}

	var imageKey string
	if in.Preview != nil {
		name := in.PreviewName
		if name == "" {
			name = "preview.png"
		}
		imageKey, _, _, err = s.store.Save(ctx, in.UserID, name, in.Preview)
		if err != nil {
			return Resume{}, fmt.Errorf("store preview image: %w", err)
		}
	}

	now := s.now()
	rec := Resume{
		ID:             uuid.NewString(),
		CompanyName:    strings.TrimSpace(in.CompanyName),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		JobDescription: strings.TrimSpace(in.JobDescription),
		ImagePath:      imageKey,
		ResumePath:     resumeKey,
		CandidateName:  strings.TrimSpace(in.CandidateName),
		CandidateEmail: strings.TrimSpace(in.CandidateEmail),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return Resume{}, err
	}

	fb, err := s.analyze(ctx, rec)
	if err != nil {
		return rec, err
	}
	rec.Feedback = fb
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// List returns the collection view for q and the selected partition.
func (s *Service) List(ctx context.Context, q Query) (ViewResult, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return ViewResult{}, err
	}
	items := View(all, q)
	selected, _ := Partition(all)
	return ViewResult{
		Items:    items,
		Selected: selected,
		Stats:    Aggregate(all, items),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (Resume, error) {
	return s.repo.Get(ctx, id)
}

// EditInput carries the mutable job context of a record. Nil fields are
// left untouched.
type EditInput struct {
	CompanyName    *string
	JobTitle       *string
	JobDescription *string
	CandidateName  *string
	CandidateEmail *string
}

// Edit updates the job context of a record without touching its
// feedback or stored files.
func (s *Service) Edit(ctx context.Context, id string, in EditInput) (Resume, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&rec.CompanyName, in.CompanyName)
	apply(&rec.JobTitle, in.JobTitle)
	apply(&rec.JobDescription, in.JobDescription)
	apply(&rec.CandidateName, in.CandidateName)
	apply(&rec.CandidateEmail, in.CandidateEmail)
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return Resume{}, err
	}
	return rec, nil
}

// Reanalyze re-runs the analysis against the stored file, optionally
// with an updated job context, and replaces the feedback wholesale.
func (s *Service) Reanalyze(ctx context.Context, id string, in EditInput) (Resume, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if in.CompanyName != nil {
		rec.CompanyName = strings.TrimSpace(*in.CompanyName)
	}
	if in.JobTitle != nil {
		rec.JobTitle = strings.TrimSpace(*in.JobTitle)
	}
	if in.JobDescription != nil {
		rec.JobDescription = strings.TrimSpace(*in.JobDescription)
	}
	fb, err := s.analyze(ctx, rec)
	if err != nil {
		return rec, err
	}
	rec.Feedback = fb
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return Resume{}, err
	}
	return rec, nil
}

// ToggleSelection flips the shortlist flag on a record.
func (s *Service) ToggleSelection(ctx context.Context, id string) (Resume, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	rec.IsSelected = !rec.IsSelected
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return Resume{}, err
	}
	return rec, nil
}

// Delete removes the record. Blob deletes are best effort: a missing or
// failing file delete is logged and swallowed, the record delete is
// surfaced.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	keys := []string{rec.ResumePath, rec.ImagePath}
	if rec.ResumePath != "" {
		keys = append(keys, rec.ResumePath+extract.ExtractedSuffix)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			telemetry.Error("resumes.blob_delete_failed", map[string]any{
				"resumeId": id,
				"key":      key,
				"error":    err.Error(),
			})
		}
	}
	return s.repo.Delete(ctx, id)
}

// OpenFile streams the stored resume document.
func (s *Service) OpenFile(ctx context.Context, id string) (io.ReadCloser, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.ResumePath == "" {
		return nil, ErrNotFound
	}
	return s.store.Open(ctx, rec.ResumePath)
}

// OpenPreview streams the stored preview image.
func (s *Service) OpenPreview(ctx context.Context, id string) (io.ReadCloser, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.ImagePath == "" {
		return nil, ErrNotFound
	}
	return s.store.Open(ctx, rec.ImagePath)
}

// AnalyzeStrengths runs the candidate-strength analysis for one record.
// The record must carry a job title and description.
func (s *Service) AnalyzeStrengths(ctx context.Context, id string) (Resume, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if rec.JobTitle == "" || rec.JobDescription == "" {
		return Resume{}, ErrMissingJobContext
	}
	text, err := s.resumeText(ctx, rec)
	if err != nil {
		return Resume{}, err
	}
	raw, err := s.model.Feedback(ctx, llm.FeedbackInput{
		ResumeText:   text,
		Instructions: llm.StrengthsInstructions(rec.JobTitle, rec.JobDescription),
	})
	if err != nil {
		return Resume{}, fmt.Errorf("strengths analysis: %w", err)
	}
	payload, err := llm.CleanJSONPayload(raw)
	if err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	var parsed struct {
		Strengths []CandidateStrength `json:"strengths"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	rec.Strengths = parsed.Strengths
	rec.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return Resume{}, err
	}
	return rec, nil
}

func (s *Service) analyze(ctx context.Context, rec Resume) (*Feedback, error) {
	metrics.IncAnalysisStarted()
	start := time.Now()

	fb, err := s.runAnalysis(ctx, rec)
	if err != nil {
		metrics.IncAnalysisFailed()
		return nil, err
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start) / time.Millisecond))
	return fb, nil
}

func (s *Service) runAnalysis(ctx context.Context, rec Resume) (*Feedback, error) {
	text, err := s.resumeText(ctx, rec)
	if err != nil {
		return nil, err
	}
	raw, err := s.model.Feedback(ctx, llm.FeedbackInput{
		ResumeText:   text,
		Instructions: llm.AnalysisInstructions(rec.JobTitle, rec.JobDescription),
	})
	if err != nil {
		return nil, fmt.Errorf("resume analysis: %w", err)
	}
	payload, err := llm.CleanJSONPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	var fb Feedback
	if err := json.Unmarshal([]byte(payload), &fb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	fb.ATS.Score = float64(NormalizeATSScore(fb.ATS.Score, SupportingScores(&fb)))
	return &fb, nil
}

func (s *Service) resumeText(ctx context.Context, rec Resume) (string, error) {
	if rec.ResumePath == "" {
		return "", ErrNotFound
	}
	return s.extractText(ctx, s.store, rec.ResumePath, "application/pdf", path.Base(rec.ResumePath))
}
