package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
)

var errDecode = errors.New("frame tainted")

// fakeFrames serves a solid frame of the configured size.
type fakeFrames struct {
	meta       Metadata
	frame      image.Image
	metaErr    error
	frameErr   error
	metaCalls  int
	frameCalls int
	mu         sync.Mutex
}

func newFakeFrames(width, height int) *fakeFrames {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return &fakeFrames{
		meta:  Metadata{Width: width, Height: height, Duration: 12.5},
		frame: img,
	}
}

func (f *fakeFrames) LoadMetadata(ctx context.Context, src string) (Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaCalls++
	return f.meta, f.metaErr
}

func (f *fakeFrames) FirstFrame(ctx context.Context, src string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frameCalls++
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	return f.frame, nil
}

type saveCall struct {
	recordID string
	image    string
	poster   string
}

// fakeSaver records saves and answers with the queued errors in order.
type fakeSaver struct {
	mu    sync.Mutex
	agent *Agent
	calls []saveCall
	errs  []error
}

func (s *fakeSaver) SaveThumbnail(ctx context.Context, recordID, imageBase64 string) (*SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := saveCall{recordID: recordID, image: imageBase64}
	if s.agent != nil {
		call.poster = s.agent.PosterURL()
	}
	s.calls = append(s.calls, call)

	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &SaveResult{Success: true, AssetID: "asset-1", ThumbnailURL: "https://images.example.com/asset-1.jpg"}, nil
}

func (s *fakeSaver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
