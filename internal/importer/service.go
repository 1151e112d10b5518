package importer

import (
	"github.com/orderpulse-lab/orderpulse/internal/core/config"
	"github.com/orderpulse-lab/orderpulse/internal/core/storage"
)

// Service handles order ingestion: CSV bulk import and the single-record
// HTTP upsert endpoint.
type Service struct {
	store            storage.OrderStore
	maxBodySizeBytes int
	onRowError       string
}

func NewService(store storage.OrderStore, maxBodySizeMB int, onRowError string) *Service {
	if store == nil {
		panic("importer: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	if onRowError == "" {
		onRowError = config.OnRowErrorAbort
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		onRowError:       onRowError,
	}
}
