package cli

import (
	"log"
	"path/filepath"

	"github.com/dshills/canvasharness/pkg/tui"
	"github.com/spf13/cobra"
)

// NewPanelCommand creates the interactive panel command
func NewPanelCommand() *cobra.Command {
	var opts sessionFlags

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Open the API panel in the terminal",
		Long: `Open the interactive API panel against an in-memory canvas.

Views (Tab cycles):
  panel     pick an operation, fill in its form, submit with s
  canvas    current pipeline flow, zoom, palette, messages, last diff
  settings  harness settings (palette layout, zoom offsets, message link)

Press ? in any view for its keys.

Examples:
  harness panel
  harness panel --diagram etl --palette default
  harness panel --empty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stderr belongs to the terminal UI
			if GlobalConfig.Debug && GlobalConfig.LogFile == "" {
				log.SetOutput(newRotatingLog(filepath.Join(GetConfigDir(), "harness.log")))
			}

			sess, err := openSession(cmd.Context(), GlobalConfig.File, opts.resolve(GlobalConfig.File))
			if err != nil {
				return err
			}
			defer sess.Close()

			app, err := tui.NewApp(tui.Deps{
				Canvas:   sess.canvas,
				Panel:    sess.panel,
				Messages: sess.messages,
				Settings: sess.settings,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					log.Printf("cli: close terminal: %v", err)
				}
			}()

			return app.Run()
		},
	}

	opts.register(cmd)
	return cmd
}

// sessionFlags are the canvas source flags shared by panel and run
type sessionFlags struct {
	fixturesDir string
	diagram     string
	palette     string
	empty       bool
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fixturesDir, "fixtures", "", "Fixtures directory (default from config.yaml)")
	cmd.Flags().StringVar(&f.diagram, "diagram", "", "Diagram fixture to load (default from config.yaml)")
	cmd.Flags().StringVar(&f.palette, "palette", "", "Palette fixture to load (default from config.yaml)")
	cmd.Flags().BoolVar(&f.empty, "empty", false, "Start with an empty canvas and palette")
}

func (f *sessionFlags) resolve(cfg *FileConfig) sessionOptions {
	opts := sessionOptions{
		fixturesDir: cfg.FixturesDir,
		diagram:     cfg.DefaultDiagram,
		palette:     cfg.DefaultPalette,
	}
	if f.fixturesDir != "" {
		opts.fixturesDir = f.fixturesDir
	}
	if f.diagram != "" {
		opts.diagram = f.diagram
	}
	if f.palette != "" {
		opts.palette = f.palette
	}
	if f.empty {
		opts.diagram = ""
		opts.palette = ""
	}
	return opts
}
