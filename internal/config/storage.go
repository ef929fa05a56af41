package config

import "strings"

// StorageConfig describes the S3-compatible bucket that stores anexos
// (attachments).  When Bucket is empty the anexo endpoints are disabled and
// respond 503; everything else in the API keeps working.
type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO or another S3-compatible server
	PathStyle bool
}

// LoadStorageConfig reads the anexo storage settings from the environment:
//
//	ANEXOS_S3_BUCKET     – bucket name (empty disables anexos)
//	ANEXOS_S3_REGION     – region (default us-east-1)
//	ANEXOS_S3_ENDPOINT   – custom endpoint, e.g. a local MinIO
//	ANEXOS_S3_PATH_STYLE – "true" to force path-style addressing
//
// Credentials come from the default AWS chain (env vars, shared config).
func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Bucket:    getenv("ANEXOS_S3_BUCKET", ""),
		Region:    getenv("ANEXOS_S3_REGION", "us-east-1"),
		Endpoint:  getenv("ANEXOS_S3_ENDPOINT", ""),
		PathStyle: strings.EqualFold(getenv("ANEXOS_S3_PATH_STYLE", "false"), "true"),
	}
}

// Enabled reports whether anexo storage is configured.
func (c StorageConfig) Enabled() bool { return c.Bucket != "" }
