package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/sirupsen/logrus"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/storage"
)

const mediaFolder = "catalog"

// Limit how much of a remote image we are willing to buffer.
const maxImageBytes = 20 << 20

// MediaService is the asset pipeline: it downloads a remote image,
// transcodes it to JPEG, persists it to the selected backend and
// registers it in the media registry.
//
// Every failure is returned as an error that callers record in the run's
// imagesFailed counter; image failures never abort a product or a run.
type MediaService struct {
	httpClient *http.Client
	selector   *storage.Selector
	media      MediaStore
	logger     *logrus.Logger
}

// NewMediaService creates a new media service
func NewMediaService(selector *storage.Selector, media MediaStore, logger *logrus.Logger) *MediaService {
	return &MediaService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		selector:   selector,
		media:      media,
		logger:     logger,
	}
}

// StoreRemoteImage runs the pipeline for one remote image and returns the
// registered media row on success.
func (s *MediaService) StoreRemoteImage(ctx context.Context, imageURL, filename string, pref storage.Preference) (*models.Media, error) {
	data, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	transcoded, err := storage.TranscodeJPEG(data)
	if err != nil {
		return nil, fmt.Errorf("failed to transcode %s: %w", imageURL, err)
	}

	backend := s.selector.Select(pref)
	url, err := backend.Store(ctx, mediaFolder, filename, transcoded.Data, transcoded.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", filename, err)
	}

	media := &models.Media{
		Filename:     filename,
		OriginalName: path.Base(imageURL),
		MimeType:     transcoded.MimeType,
		Size:         int64(len(transcoded.Data)),
		URL:          url,
		Folder:       mediaFolder,
		Provider:     models.StorageProvider(backend.Provider()),
		Width:        &transcoded.Width,
		Height:       &transcoded.Height,
	}
	if err := s.media.Create(ctx, media); err != nil {
		return nil, fmt.Errorf("failed to register media %s: %w", filename, err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename": filename,
		"provider": media.Provider,
		"size":     media.Size,
	}).Debug("Stored remote image")

	return media, nil
}

func (s *MediaService) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image download returned status %d: %s", resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}
