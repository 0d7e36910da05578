package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dshills/canvasharness/pkg/apipanel"
	harnesserrors "github.com/dshills/canvasharness/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Script is a headless panel session read from YAML
type Script struct {
	Diagram string `yaml:"diagram,omitempty"`
	Palette string `yaml:"palette,omitempty"`
	Steps   []Step `yaml:"steps"`
}

// Step is one group of panel events. Keys present in a step are applied in
// the order the fields are declared here.
type Step struct {
	Select        string            `yaml:"select,omitempty"`
	Node          string            `yaml:"node,omitempty"`
	Port          string            `yaml:"port,omitempty"`
	Link          string            `yaml:"link,omitempty"`
	Label         *string           `yaml:"label,omitempty"`
	Decorations   *string           `yaml:"decorations,omitempty"`
	Flow          *string           `yaml:"flow,omitempty"`
	RefreshFlow   bool              `yaml:"refresh_flow,omitempty"`
	PaletteItem   *string           `yaml:"palette_item,omitempty"`
	CategoryID    *string           `yaml:"category_id,omitempty"`
	CategoryName  *string           `yaml:"category_name,omitempty"`
	Message       map[string]string `yaml:"message,omitempty"`
	Toggle        map[string]bool   `yaml:"toggle,omitempty"`
	XOffset       *string           `yaml:"x_offset,omitempty"`
	YOffset       *string           `yaml:"y_offset,omitempty"`
	Zoom          *string           `yaml:"zoom,omitempty"`
	Submit        bool              `yaml:"submit,omitempty"`
	ClearMessages bool              `yaml:"clear_messages,omitempty"`

	ExpectReady *bool `yaml:"expect_ready,omitempty"`
	ExpectError bool  `yaml:"expect_error,omitempty"`
}

// ParseScript decodes and checks a script
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	for i, step := range script.Steps {
		events, err := step.Events()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if len(events) == 0 && step.ExpectReady == nil {
			return nil, fmt.Errorf("step %d: no events or expectations", i+1)
		}
	}
	return &script, nil
}

// Events converts the step into panel events
func (s Step) Events() ([]apipanel.Event, error) {
	var events []apipanel.Event
	add := func(ev apipanel.Event) { events = append(events, ev) }

	if s.Select != "" {
		op, err := apipanel.ParseOperation(s.Select)
		if err != nil {
			return nil, err
		}
		add(apipanel.SelectOperation{Operation: op})
	}
	if s.Node != "" {
		add(apipanel.SelectNode{NodeID: s.Node})
	}
	if s.Port != "" {
		add(apipanel.SelectPort{PortID: s.Port})
	}
	if s.Link != "" {
		add(apipanel.SelectLink{LinkID: s.Link})
	}
	if s.Label != nil {
		add(apipanel.EditLabel{Text: *s.Label})
	}
	if s.Decorations != nil {
		add(apipanel.EditDecorations{Text: *s.Decorations})
	}
	if s.Flow != nil {
		add(apipanel.EditPipelineFlow{Text: *s.Flow})
	}
	if s.RefreshFlow {
		add(apipanel.RefreshPipelineFlow{})
	}
	if s.PaletteItem != nil {
		add(apipanel.EditPaletteItem{Text: *s.PaletteItem})
	}
	if s.CategoryID != nil {
		add(apipanel.EditCategoryID{Text: *s.CategoryID})
	}
	if s.CategoryName != nil {
		add(apipanel.EditCategoryName{Text: *s.CategoryName})
	}
	for _, field := range sortedKeys(s.Message) {
		add(apipanel.EditMessage{Field: apipanel.MessageField(field), Text: s.Message[field]})
	}
	for _, flag := range sortedKeys(s.Toggle) {
		add(apipanel.ToggleMessage{Flag: apipanel.MessageFlag(flag), On: s.Toggle[flag]})
	}
	if s.XOffset != nil {
		add(apipanel.EditZoomOffset{Axis: apipanel.AxisX, Text: *s.XOffset})
	}
	if s.YOffset != nil {
		add(apipanel.EditZoomOffset{Axis: apipanel.AxisY, Text: *s.YOffset})
	}
	if s.Zoom != nil {
		add(apipanel.EditZoomObject{Text: *s.Zoom})
	}
	if s.Submit {
		add(apipanel.SubmitPressed{})
	}
	if s.ClearMessages {
		add(apipanel.ClearMessages{})
	}
	return events, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunReport summarizes a script run
type RunReport struct {
	Steps      int
	Dispatches int
}

// runScript applies the script to the panel, printing every dispatch and
// its flow diff to w. The first unexpected failure stops the run.
func runScript(w io.Writer, panel *apipanel.Panel, script *Script) (RunReport, error) {
	report := RunReport{}

	for i, step := range script.Steps {
		n := i + 1
		events, err := step.Events()
		if err != nil {
			return report, fmt.Errorf("step %d: %w", n, err)
		}

		var stepErr error
		for _, ev := range events {
			if stepErr = panel.Dispatch(ev); stepErr != nil {
				break
			}
			if _, ok := ev.(apipanel.SubmitPressed); ok {
				report.Dispatches++
				printEntry(w, n, panel.Journal())
			}
		}

		switch {
		case stepErr != nil && step.ExpectError:
			_, _ = fmt.Fprintf(w, "✓ step %d failed as expected: %s\n", n, harnesserrors.Describe(stepErr))
		case stepErr != nil:
			return report, fmt.Errorf("step %d: %w", n, stepErr)
		case step.ExpectError:
			return report, fmt.Errorf("step %d: expected an error", n)
		}

		if step.ExpectReady != nil && panel.Ready() != *step.ExpectReady {
			return report, fmt.Errorf("step %d: submit ready = %v, want %v", n, panel.Ready(), *step.ExpectReady)
		}
		report.Steps++
	}
	return report, nil
}

func printEntry(w io.Writer, step int, journal []apipanel.JournalEntry) {
	entry := journal[len(journal)-1]
	_, _ = fmt.Fprintf(w, "✓ step %d: %s", step, entry.Operation)
	if entry.Target != "" {
		_, _ = fmt.Fprintf(w, " %s", entry.Target)
	}
	_, _ = fmt.Fprintln(w)

	for _, line := range strings.SplitAfter(entry.FlowDiff, "\n") {
		if line != "" {
			_, _ = fmt.Fprint(w, "    "+line)
		}
	}
}

// NewRunCommand creates the headless script command
func NewRunCommand() *cobra.Command {
	var (
		opts      sessionFlags
		printFlow bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a panel event script against a canvas",
		Long: `Replay a YAML event script through the API panel without a terminal UI.

Each step may select an operation, pick a node, port or link, edit fields
and submit. Every submit prints the operation and the pipeline flow diff.

Example script:
  diagram: etl
  steps:
    - select: setNodeLabel
      node: filter
      label: Keep matching rows
      submit: true
    - select: addNotificationMessage
      message: {content: done, type: success}
      expect_ready: true

Examples:
  harness run scripts/demo.yaml
  harness run scripts/demo.yaml --print-flow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}
			script, err := ParseScript(data)
			if err != nil {
				return err
			}

			resolved := opts.resolve(GlobalConfig.File)
			if script.Diagram != "" && opts.diagram == "" && !opts.empty {
				resolved.diagram = script.Diagram
			}
			if script.Palette != "" && opts.palette == "" && !opts.empty {
				resolved.palette = script.Palette
			}

			sess, err := openSession(cmd.Context(), GlobalConfig.File, resolved)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			report, err := runScript(out, sess.panel, script)
			if err != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStderr(), "✗ %s\n", harnesserrors.Describe(err))
				return err
			}
			_, _ = fmt.Fprintf(out, "%d steps, %d dispatches\n", report.Steps, report.Dispatches)

			if printFlow {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sess.canvas.GetPipelineFlow())
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&printFlow, "print-flow", false, "Print the final pipeline flow as JSON")
	return cmd
}
