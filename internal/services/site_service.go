package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/repository"
	"catalog-sync-service/internal/secrets"
)

// SiteService manages remote storefront registrations
type SiteService struct {
	sites     *repository.SiteRepository
	newClient ClientFactory
	secrets   *secrets.GCPSecretManager
	logger    *logrus.Logger
}

// NewSiteService creates a new SiteService. sm may be nil when no secret
// backend is configured.
func NewSiteService(sites *repository.SiteRepository, newClient ClientFactory, sm *secrets.GCPSecretManager, logger *logrus.Logger) *SiteService {
	return &SiteService{
		sites:     sites,
		newClient: newClient,
		secrets:   sm,
		logger:    logger,
	}
}

// CreateSiteRequest is the payload for registering a site
type CreateSiteRequest struct {
	Name              string `json:"name" binding:"required"`
	URL               string `json:"url" binding:"required"`
	ConsumerKey       string `json:"consumerKey"`
	ConsumerSecret    string `json:"consumerSecret"`
	CredentialsSecret string `json:"credentialsSecret"`
}

// UpdateSiteRequest is the payload for patching a site; nil fields are
// left unchanged.
type UpdateSiteRequest struct {
	Name              *string `json:"name"`
	URL               *string `json:"url"`
	ConsumerKey       *string `json:"consumerKey"`
	ConsumerSecret    *string `json:"consumerSecret"`
	CredentialsSecret *string `json:"credentialsSecret"`
}

// Create registers a new site
func (s *SiteService) Create(ctx context.Context, req *CreateSiteRequest) (*models.Site, error) {
	siteURL := strings.TrimRight(req.URL, "/")
	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}
	if req.CredentialsSecret == "" && (req.ConsumerKey == "" || req.ConsumerSecret == "") {
		return nil, fmt.Errorf("either inline credentials or a credentials secret is required")
	}

	site := &models.Site{
		Name:              req.Name,
		URL:               siteURL,
		ConsumerKey:       req.ConsumerKey,
		ConsumerSecret:    req.ConsumerSecret,
		CredentialsSecret: req.CredentialsSecret,
		Status:            models.SitePending,
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("creating site: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"site_id": site.ID,
		"url":     site.URL,
	}).Info("Site registered")
	return site, nil
}

// List returns all registered sites
func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	return s.sites.List(ctx)
}

// GetByID returns one site
func (s *SiteService) GetByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	return s.sites.GetByID(ctx, id)
}

// Update patches a site's settings
func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req *UpdateSiteRequest) (*models.Site, error) {
	site, err := s.sites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.URL != nil {
		siteURL := strings.TrimRight(*req.URL, "/")
		if err := validateSiteURL(siteURL); err != nil {
			return nil, err
		}
		site.URL = siteURL
	}
	if req.ConsumerKey != nil {
		site.ConsumerKey = *req.ConsumerKey
	}
	if req.ConsumerSecret != nil {
		site.ConsumerSecret = *req.ConsumerSecret
	}
	if req.CredentialsSecret != nil && *req.CredentialsSecret != site.CredentialsSecret {
		if s.secrets != nil && site.CredentialsSecret != "" {
			s.secrets.InvalidateCache(site.CredentialsSecret)
		}
		site.CredentialsSecret = *req.CredentialsSecret
	}

	if err := s.sites.Update(ctx, site); err != nil {
		return nil, fmt.Errorf("updating site: %w", err)
	}
	return site, nil
}

// TestConnection verifies the site's API credentials with a minimal
// remote fetch and records the outcome on the site row.
func (s *SiteService) TestConnection(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	site, err := s.sites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.newClient(ctx, site)
	if err == nil {
		err = client.Ping(ctx)
	}

	if err != nil {
		if statusErr := s.sites.UpdateStatus(ctx, id, models.SiteError, err.Error()); statusErr != nil {
			s.logger.WithError(statusErr).WithField("site_id", id).Error("Failed to record site status")
		}
		site.Status = models.SiteError
		site.LastError = err.Error()
		return site, nil
	}

	if err := s.sites.UpdateStatus(ctx, id, models.SiteConnected, ""); err != nil {
		return nil, fmt.Errorf("recording site status: %w", err)
	}
	site.Status = models.SiteConnected
	site.LastError = ""
	return site, nil
}

func validateSiteURL(siteURL string) error {
	u, err := url.Parse(siteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid site url %q", siteURL)
	}
	return nil
}
