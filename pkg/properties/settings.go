package properties

import (
	_ "embed"
	"fmt"
	"strconv"
)

//go:embed schemas/harness-settings.json
var harnessSettingsDef []byte

// Harness setting ids
const (
	SettingPaletteLayout   = "palette_layout"
	SettingUseZoomOffsets  = "use_zoom_offsets"
	SettingZoomXOffset     = "zoom_x_offset"
	SettingZoomYOffset     = "zoom_y_offset"
	SettingTimestampLayout = "timestamp_layout"
	SettingLinkURL         = "message_link_url"
	SettingLinkText        = "message_link_text"
)

// Settings is the typed view of the harness settings panel
type Settings struct {
	PaletteLayout   string
	UseZoomOffsets  bool
	ZoomXOffset     float64
	ZoomYOffset     float64
	TimestampLayout string
	LinkURL         string
	LinkText        string
}

// ZoomOffsets returns the offsets as panel input text, or blanks when the
// offsets are switched off.
func (s Settings) ZoomOffsets() (string, string) {
	if !s.UseZoomOffsets {
		return "", ""
	}
	return strconv.FormatFloat(s.ZoomXOffset, 'f', -1, 64), strconv.FormatFloat(s.ZoomYOffset, 'f', -1, 64)
}

// NewSettingsController creates a controller for the embedded harness
// settings definition
func NewSettingsController() (*MemoryController, error) {
	def, err := ParseParameterDef(harnessSettingsDef)
	if err != nil {
		return nil, fmt.Errorf("harness settings: %w", err)
	}
	return NewMemoryController(def)
}

// ReadSettings reads the harness settings out of a controller
func ReadSettings(c Controller) Settings {
	values := c.GetPropertyValues()

	str := func(id string) string {
		s, _ := values[id].(string)
		return s
	}
	num := func(id string) float64 {
		f, _ := values[id].(float64)
		return f
	}
	flag, _ := values[SettingUseZoomOffsets].(bool)

	return Settings{
		PaletteLayout:   str(SettingPaletteLayout),
		UseZoomOffsets:  flag,
		ZoomXOffset:     num(SettingZoomXOffset),
		ZoomYOffset:     num(SettingZoomYOffset),
		TimestampLayout: str(SettingTimestampLayout),
		LinkURL:         str(SettingLinkURL),
		LinkText:        str(SettingLinkText),
	}
}
