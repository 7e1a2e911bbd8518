package services

import (
	"context"
	"fmt"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/clients/woocommerce"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/secrets"
)

// NewWooClientFactory returns a ClientFactory producing storefront API
// clients. When a site names a credentials secret, the key pair is
// resolved through Secret Manager; otherwise the inline credentials are
// used. sm may be nil when no secret backend is configured.
func NewWooClientFactory(sm *secrets.GCPSecretManager) ClientFactory {
	return func(ctx context.Context, site *models.Site) (clients.CatalogClient, error) {
		consumerKey := site.ConsumerKey
		consumerSecret := site.ConsumerSecret

		if site.CredentialsSecret != "" {
			if sm == nil {
				return nil, fmt.Errorf("site %s references secret %q but no secret manager is configured", site.ID, site.CredentialsSecret)
			}
			secret, err := sm.GetSecret(ctx, site.CredentialsSecret)
			if err != nil {
				return nil, fmt.Errorf("resolving credentials for site %s: %w", site.ID, err)
			}
			consumerKey = secret.ConsumerKey
			consumerSecret = secret.ConsumerSecret
		}

		if consumerKey == "" || consumerSecret == "" {
			return nil, fmt.Errorf("site %s has no API credentials", site.ID)
		}
		return woocommerce.NewClient(site.URL, consumerKey, consumerSecret), nil
	}
}
