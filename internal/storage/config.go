package storage

import "github.com/devfolio/devfolio/internal/config"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// MinIOConfigFrom maps the application storage settings. It returns nil when
// no endpoint is configured.
func MinIOConfigFrom(cfg config.StorageConfig) *MinIOConfig {
	if cfg.Endpoint == "" {
		return nil
	}
	return &MinIOConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
	}
}
