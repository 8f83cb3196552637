package server

import (
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"

	"github.com/neckcare/neckscan/internal/logging"
)

// NewTLSConfig loads a certificate and key for serving HTTPS and WSS
func NewTLSConfig(certPath, keyPath string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	logging.Info("TLS configuration created from files",
		zap.String("cert", certPath),
		zap.String("key", keyPath),
	)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// tlsEnabled reports whether both halves of a key pair were configured
func (c *Config) tlsEnabled() bool {
	return c.CertPath != "" && c.KeyPath != ""
}
