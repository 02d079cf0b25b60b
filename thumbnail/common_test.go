package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hairizuanbinnoorazman/wise-institute/media"
)

// fakeStore is an in-memory ContentStore that records calls.
type fakeStore struct {
	mu        sync.Mutex
	records   map[string]*media.Record
	assets    map[string][]byte
	assetURL  string
	uploads   int
	updates   int
	getErr    error
	uploadErr error
	updateErr error
}

func newFakeStore(records ...*media.Record) *fakeStore {
	s := &fakeStore{
		records:  make(map[string]*media.Record),
		assets:   make(map[string][]byte),
		assetURL: "//images.example.com/%s/%s",
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *fakeStore) GetRecord(ctx context.Context, id string) (*media.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[id]
	if !ok {
		return nil, media.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) UploadImage(ctx context.Context, data []byte, fileName string) (*media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	id := fmt.Sprintf("asset-%d", s.uploads)
	s.assets[id] = data
	return &media.Asset{
		ID:       id,
		FileName: fileName,
		Size:     int64(len(data)),
		URL:      fmt.Sprintf(s.assetURL, id, fileName),
	}, nil
}

func (s *fakeStore) UpdateAndPublish(ctx context.Context, rec *media.Record) (*media.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if _, ok := s.records[rec.ID]; !ok {
		return nil, media.ErrRecordNotFound
	}
	cp := *rec
	cp.Version++
	cp.PublishedVersion = cp.Version
	s.records[rec.ID] = &cp
	out := cp
	return &out, nil
}

func (s *fakeStore) record(id string) *media.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[id]
}

var errUpstream = errors.New("upstream unavailable")
