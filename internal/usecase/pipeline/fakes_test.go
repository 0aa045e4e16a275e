package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	usecaseErrors "github.com/FizzahNasir/FYP-Synkro/internal/usecase/errors"
)

type fakeStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func (s *fakeStore) put(ref string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = data
}

func (s *fakeStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, usecaseErrors.ErrArtifactNotFound
	}
	return data, nil
}

type fakeTranscriber struct {
	calls atomic.Int32
	fn    func(ctx context.Context, audio []byte) (*entities.Transcription, error)
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, _ entities.TranscribeOptions) (*entities.Transcription, error) {
	f.calls.Add(1)
	return f.fn(ctx, audio)
}

func textTranscriber(text string) *fakeTranscriber {
	return &fakeTranscriber{fn: func(context.Context, []byte) (*entities.Transcription, error) {
		return &entities.Transcription{
			Text:     text,
			Segments: []entities.Segment{{Start: 0, End: 4.2, Text: text}},
		}, nil
	}}
}

type fakeSummarizer struct {
	calls      atomic.Int32
	mu         sync.Mutex
	transcript string
	fn         func(ctx context.Context, transcript, title string) (*entities.SummaryResult, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript, title string) (*entities.SummaryResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.transcript = transcript
	f.mu.Unlock()
	return f.fn(ctx, transcript, title)
}

func (f *fakeSummarizer) lastTranscript() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript
}

func resultSummarizer(result *entities.SummaryResult) *fakeSummarizer {
	return &fakeSummarizer{fn: func(context.Context, string, string) (*entities.SummaryResult, error) {
		return result, nil
	}}
}

type fakeProber struct {
	duration float64
	err      error
}

func (p fakeProber) ProbeDuration(context.Context, []byte) (float64, error) {
	return p.duration, p.err
}

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []entities.PipelineJob
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job entities.PipelineJob) error {
	if d.err != nil {
		return d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return nil
}
