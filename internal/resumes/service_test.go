package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"intellihire-backend/internal/extract"
	"intellihire-backend/internal/llm"
	"intellihire-backend/internal/shared/storage/kv"
	"intellihire-backend/internal/shared/storage/object"
)

// fakeObjectStore keeps blobs in memory and records deletes.
type fakeObjectStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
	failDel bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{blobs: map[string][]byte{}}
}

func (f *fakeObjectStore) Save(_ context.Context, userId, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s/%d-%s", userId, len(f.blobs), fileName)
	f.blobs[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (f *fakeObjectStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.failDel {
		return errors.New("delete refused")
	}
	delete(f.blobs, key)
	return nil
}

var _ object.ObjectStore = (*fakeObjectStore)(nil)

// stubModel replays canned replies, one per call.
type stubModel struct {
	replies []string
	err     error
	calls   []llm.FeedbackInput
}

func (s *stubModel) Feedback(_ context.Context, in llm.FeedbackInput) (string, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", llm.ErrEmptyResponse
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

const feedbackReply = `{
	"overallScore": 78,
	"ATS": {"score": 30, "tips": [{"type": "improve", "tip": "Add keywords"}]},
	"toneAndStyle": {"score": 85, "tips": []},
	"content": {"score": 80, "tips": []},
	"structure": {"score": 82, "tips": []},
	"skills": {"score": 81, "tips": []}
}`

func newTestService(model llm.Client) (*Service, *KVRepo, *fakeObjectStore) {
	repo := NewKVRepo(kv.NewMemoryStore())
	store := newFakeObjectStore()
	svc := NewService(repo, store, model)
	svc.extractText = func(_ context.Context, _ object.ObjectStore, _, _, _ string) (string, error) {
		return "resume text", nil
	}
	return svc, repo, store
}

func TestUploadAnalyzesAndNormalizes(t *testing.T) {
	model := &stubModel{replies: []string{"```json\n" + feedbackReply + "\n```"}}
	svc, repo, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:         "u1",
		FileName:       "resume.pdf",
		File:           strings.NewReader("%PDF-1.4 fake"),
		CompanyName:    "Acme",
		JobTitle:       "Engineer",
		JobDescription: "Builds APIs",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if rec.Feedback == nil {
		t.Fatal("expected feedback on the returned record")
	}
	// Supporting average 82 lifts the reported ATS 30 to a floor of 77.
	if got := rec.Feedback.ATS.Score; got != 77 {
		t.Fatalf("ATS score = %v, want 77", got)
	}
	if rec.Feedback.OverallScore != 78 {
		t.Fatalf("overallScore = %v, want 78", rec.Feedback.OverallScore)
	}

	stored, err := repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get after upload: %v", err)
	}
	if stored.Feedback == nil || stored.Feedback.ATS.Score != 77 {
		t.Fatalf("stored record not updated: %+v", stored.Feedback)
	}
	if len(model.calls) != 1 || !strings.Contains(model.calls[0].Instructions, "Engineer") {
		t.Fatalf("analysis instructions missing job context: %+v", model.calls)
	}
}

func TestUploadKeepsPlaceholderOnAnalysisFailure(t *testing.T) {
	model := &stubModel{err: errors.New("provider down")}
	svc, repo, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if rec.ID == "" {
		t.Fatal("expected the placeholder record back")
	}

	stored, err := repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("placeholder not persisted: %v", err)
	}
	if stored.Feedback != nil {
		t.Fatalf("placeholder should have no feedback, got %+v", stored.Feedback)
	}
	if stored.ResumePath == "" {
		t.Fatal("placeholder should reference the stored file")
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	svc, _, _ := newTestService(&stubModel{})
	_, err := svc.Upload(context.Background(), UploadInput{UserID: "u1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUploadRejectsGarbageReply(t *testing.T) {
	model := &stubModel{replies: []string{"sorry, I cannot help with that"}}
	svc, _, _ := newTestService(model)

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if !errors.Is(err, ErrInvalidFeedback) {
		t.Fatalf("err = %v, want ErrInvalidFeedback", err)
	}
}

func TestEditBumpsUpdatedAtOnly(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, _, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:      "u1",
		FileName:    "resume.pdf",
		File:        strings.NewReader("%PDF-1.4 fake"),
		CompanyName: "Acme",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	later := rec.UpdatedAt.Add(time.Minute)
	svc.now = func() time.Time { return later }

	company := "Globex"
	got, err := svc.Edit(context.Background(), rec.ID, EditInput{CompanyName: &company})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.CompanyName != "Globex" {
		t.Fatalf("companyName = %q", got.CompanyName)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt = %v, want %v", got.UpdatedAt, later)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatal("createdAt must not change on edit")
	}
	if got.Feedback == nil || got.Feedback.OverallScore != rec.Feedback.OverallScore {
		t.Fatal("feedback must survive an edit")
	}
	// Untouched fields stay as they were.
	if got.ResumePath != rec.ResumePath {
		t.Fatal("resumePath must not change on edit")
	}
}

func TestReanalyzeReplacesFeedback(t *testing.T) {
	second := strings.Replace(feedbackReply, `"overallScore": 78`, `"overallScore": 91`, 1)
	model := &stubModel{replies: []string{feedbackReply, second}}
	svc, _, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
		JobTitle: "Engineer",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	title := "Staff Engineer"
	got, err := svc.Reanalyze(context.Background(), rec.ID, EditInput{JobTitle: &title})
	if err != nil {
		t.Fatalf("Reanalyze: %v", err)
	}
	if got.Feedback.OverallScore != 91 {
		t.Fatalf("overallScore = %v, want 91", got.Feedback.OverallScore)
	}
	if got.JobTitle != "Staff Engineer" {
		t.Fatalf("jobTitle = %q", got.JobTitle)
	}
	if !strings.Contains(model.calls[1].Instructions, "Staff Engineer") {
		t.Fatal("reanalysis must use the updated job context")
	}
}

func TestToggleSelection(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, _, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := svc.ToggleSelection(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("ToggleSelection: %v", err)
	}
	if !got.IsSelected {
		t.Fatal("expected record selected")
	}
	got, err = svc.ToggleSelection(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("ToggleSelection: %v", err)
	}
	if got.IsSelected {
		t.Fatal("expected record deselected")
	}
}

func TestToggleSelectionLeavesOtherRecordsUntouched(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, _, _ := newTestService(model)

	first, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume-a.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	second, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume-b.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.ToggleSelection(context.Background(), first.ID); err != nil {
		t.Fatalf("ToggleSelection: %v", err)
	}

	got, err := svc.Get(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsSelected {
		t.Fatal("expected other record to stay unselected")
	}
	if !got.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("other record updatedAt changed: %v -> %v", second.UpdatedAt, got.UpdatedAt)
	}
}

func TestDeleteRemovesDerivedTextBlob(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, _, store := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := rec.ResumePath + extract.ExtractedSuffix
	found := false
	for _, key := range store.deleted {
		if key == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected delete of %s, got %v", want, store.deleted)
	}
}

func TestDeleteSwallowsBlobFailures(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, repo, store := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	store.failDel = true
	if err := svc.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) == 0 {
		t.Fatal("expected a blob delete attempt")
	}
	if _, err := repo.Get(context.Background(), rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record still present after delete: %v", err)
	}
}

func TestDeleteUnknownRecord(t *testing.T) {
	svc, _, _ := newTestService(&stubModel{})
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeStrengths(t *testing.T) {
	strengthsReply := "```json\n" + `{"strengths": [{"category": "Technical Skills", "score": 88, "points": ["Go", "Postgres"]}]}` + "\n```"
	model := &stubModel{replies: []string{feedbackReply, strengthsReply}}
	svc, _, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:         "u1",
		FileName:       "resume.pdf",
		File:           strings.NewReader("%PDF-1.4 fake"),
		JobTitle:       "Engineer",
		JobDescription: "Builds APIs",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := svc.AnalyzeStrengths(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("AnalyzeStrengths: %v", err)
	}
	if len(got.Strengths) != 1 || got.Strengths[0].Category != "Technical Skills" {
		t.Fatalf("strengths = %+v", got.Strengths)
	}
	if !got.UpdatedAt.After(rec.CreatedAt) && !got.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Fatal("updatedAt must be bumped by a strengths analysis")
	}
}

func TestAnalyzeStrengthsRequiresJobContext(t *testing.T) {
	model := &stubModel{replies: []string{feedbackReply}}
	svc, _, _ := newTestService(model)

	rec, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "u1",
		FileName: "resume.pdf",
		File:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.AnalyzeStrengths(context.Background(), rec.ID); !errors.Is(err, ErrMissingJobContext) {
		t.Fatalf("err = %v, want ErrMissingJobContext", err)
	}
}
