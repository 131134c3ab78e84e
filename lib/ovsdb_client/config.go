package ovsdbclient

import (
	"crypto/tls"
)

// Config db client config
type Config struct {
	Db        string
	Addr      string
	TLSConfig *tls.Config
}

// NewOvsdbC returns an unconnected client for cfg.
func NewOvsdbC(cfg Config) *OvsdbC {
	return &OvsdbC{
		Db:        cfg.Db,
		Addr:      cfg.Addr,
		TLSConfig: cfg.TLSConfig,
	}
}
