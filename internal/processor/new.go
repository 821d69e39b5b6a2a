package processor

import (
	"github.com/nguyentantai21042004/tube-digest/internal/config"
	"github.com/nguyentantai21042004/tube-digest/internal/logger"
	"github.com/nguyentantai21042004/tube-digest/internal/pipeline"
	"github.com/nguyentantai21042004/tube-digest/internal/transcript"
)

type implProcessor struct {
	cfg        *config.Config
	fetcher    transcript.Fetcher
	controller pipeline.Controller
	logger     logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, fetcher transcript.Fetcher, controller pipeline.Controller, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		fetcher:    fetcher,
		controller: controller,
		logger:     log,
	}
}
