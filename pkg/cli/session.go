package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dshills/canvasharness/pkg/apipanel"
	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/fixtures"
	"github.com/dshills/canvasharness/pkg/properties"
)

// sessionOptions selects what a session loads. Empty names skip loading.
type sessionOptions struct {
	fixturesDir string
	diagram     string
	palette     string
	messageOpts []apipanel.MessageOption
}

// session is one harness instance: a canvas, its API panel and settings
type session struct {
	loader   *fixtures.Loader
	canvas   *canvas.MemoryController
	messages *apipanel.MessageBuilder
	settings *properties.MemoryController
	panel    *apipanel.Panel
}

func openSession(ctx context.Context, cfg *FileConfig, opts sessionOptions) (*session, error) {
	s := &session{}

	flow := canvas.PipelineFlow{}
	var palette []canvas.PaletteCategory

	if opts.diagram != "" || opts.palette != "" {
		loader, err := fixtures.NewLoader(opts.fixturesDir)
		if err != nil {
			return nil, err
		}
		if err := loader.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to index fixtures: %w", err)
		}
		s.loader = loader

		if opts.diagram != "" {
			if flow, err = loader.LoadDiagram(ctx, opts.diagram); err != nil {
				s.Close()
				return nil, err
			}
		}
		if opts.palette != "" {
			if palette, err = loader.LoadPalette(ctx, opts.palette); err != nil {
				s.Close()
				return nil, err
			}
		}
	}

	ctrl, err := canvas.NewMemoryController(flow, cfg.CanvasViewport())
	if err != nil {
		s.Close()
		return nil, err
	}
	ctrl.SetPaletteData(palette)
	s.canvas = ctrl

	settings, err := properties.NewSettingsController()
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := cfg.ApplySettings(settings); err != nil {
		s.Close()
		return nil, err
	}
	s.settings = settings

	s.messages = apipanel.NewMessageBuilder(opts.messageOpts...)
	s.messages.ApplySettings(properties.ReadSettings(settings))
	s.panel = apipanel.NewPanel(ctrl, s.messages)

	log.Printf("cli: session opened diagram=%q palette=%q", opts.diagram, opts.palette)
	return s, nil
}

// Close unmounts the panel and releases the fixture index
func (s *session) Close() {
	if s.panel != nil {
		s.panel.Unmount()
	}
	if s.loader != nil {
		if err := s.loader.Dispose(); err != nil {
			log.Printf("cli: dispose fixtures: %v", err)
		}
	}
}
