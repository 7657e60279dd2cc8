// Package config centralizes the environment-backed settings. Load is
// the only place the process environment is read; every component
// receives an explicit Config instead of touching globals.
package config

import (
	"os"
	"strconv"
)

// Documented defaults for the vendor integration.
const (
	DefaultEndpoint       = "http://webcorpem.no-ip.info:37560/scripts/mh.dll/wc"
	DefaultToken          = "6cnc3"
	DefaultOperatorTaxID  = "07876967000180"
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB
)

// Config is the full configuration surface.
type Config struct {
	// Endpoint is the WMS endpoint URL.
	Endpoint string
	// Token is the static TOKEN_CP authentication value.
	Token string
	// OperatorTaxID is the CNPJ of the WMS operator owning the
	// product catalog.
	OperatorTaxID string
	// ForceInvoiceKey, when set, replaces the dynamically resolved
	// access key. Debugging override only.
	ForceInvoiceKey string
	// Addr is the HTTP listen address.
	Addr string
	// MaxUploadBytes caps the accepted XML upload size.
	MaxUploadBytes int64
	// UploadDir receives transient uploads; empty means the system
	// temp directory.
	UploadDir string
	// Debug enables verbose request logging.
	Debug bool
}

// Load builds a Config from the environment, falling back to the
// documented defaults.
func Load() Config {
	return Config{
		Endpoint:        getenv("CORPEM_ENDPOINT", DefaultEndpoint),
		Token:           getenv("TOKEN_CP", DefaultToken),
		OperatorTaxID:   getenv("CNPJ_CLIENTE_WMS_OPERADOR", DefaultOperatorTaxID),
		ForceInvoiceKey: os.Getenv("FORCE_NFE_KEY"),
		Addr:            listenAddr(),
		MaxUploadBytes:  maxUpload(),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func listenAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return DefaultAddr
}

func maxUpload() int64 {
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxUploadBytes
}
