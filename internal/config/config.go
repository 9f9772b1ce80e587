package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSettings = errors.New("config: invalid settings")

// DefaultBackground is the color reserved for pixels no shape covers.
func DefaultBackground() [3]uint8 {
	return [3]uint8{159, 43, 104}
}

// Settings holds everything needed to render one frame.
type Settings struct {
	// Frame
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`

	// Paths
	ModelPath  string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ResultPath string `json:"result_path" yaml:"result_path" toml:"result_path"`

	// Camera. Angles are in degrees.
	CameraPosition    [3]float32 `json:"camera_position" yaml:"camera_position" toml:"camera_position"`
	CameraTheta       float32    `json:"camera_theta" yaml:"camera_theta" toml:"camera_theta"`
	CameraPhi         float32    `json:"camera_phi" yaml:"camera_phi" toml:"camera_phi"`
	CameraAngleOfView float32    `json:"camera_angle_of_view" yaml:"camera_angle_of_view" toml:"camera_angle_of_view"`
	CameraZNear       float32    `json:"camera_z_near" yaml:"camera_z_near" toml:"camera_z_near"`
	CameraZFar        float32    `json:"camera_z_far" yaml:"camera_z_far" toml:"camera_z_far"`

	// Optional extras. Zero values mean "unset".
	BackgroundColor  *[3]uint8 `json:"background_color,omitempty" yaml:"background_color,omitempty" toml:"background_color,omitempty"`
	ModelTranslation [3]float32 `json:"model_translation" yaml:"model_translation" toml:"model_translation"`
	ModelRotation    [3]float32 `json:"model_rotation" yaml:"model_rotation" toml:"model_rotation"`
	ModelScale       float32    `json:"model_scale" yaml:"model_scale" toml:"model_scale"`
}

// Load reads a settings file. The format is picked from the extension:
// .json, .yaml/.yml or .toml. Fields not set in the file keep their zero values,
// except result_path, which defaults to the settings file name with a .png
// extension so that files rendered together never share an output.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var s Settings
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Relative model/result paths are resolved against the settings file.
	dir := filepath.Dir(path)
	if s.ModelPath != "" && !filepath.IsAbs(s.ModelPath) {
		s.ModelPath = filepath.Join(dir, s.ModelPath)
	}
	switch {
	case s.ResultPath == "":
		s.ResultPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	case !filepath.IsAbs(s.ResultPath):
		s.ResultPath = filepath.Join(dir, s.ResultPath)
	}
	return s, nil
}

// Validate reports the first configuration error, wrapped in ErrInvalidSettings.
func (s Settings) Validate() error {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, args...))
	}

	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fail("frame size %dx%d must be positive", s.Width, s.Height)
	case s.ModelPath == "":
		return fail("model_path is empty")
	case s.ResultPath == "":
		return fail("result_path is empty")
	}

	for _, f := range []float32{
		s.CameraPosition[0], s.CameraPosition[1], s.CameraPosition[2],
		s.CameraTheta, s.CameraPhi, s.CameraAngleOfView, s.CameraZNear, s.CameraZFar,
		s.ModelTranslation[0], s.ModelTranslation[1], s.ModelTranslation[2],
		s.ModelRotation[0], s.ModelRotation[1], s.ModelRotation[2],
		s.ModelScale,
	} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return fail("camera and model values must be finite")
		}
	}

	switch {
	case s.CameraZNear <= 0:
		return fail("camera_z_near %g must be positive", s.CameraZNear)
	case s.CameraZFar <= s.CameraZNear:
		return fail("camera_z_far %g must exceed camera_z_near %g", s.CameraZFar, s.CameraZNear)
	case s.CameraAngleOfView <= 0 || s.CameraAngleOfView >= 180:
		return fail("camera_angle_of_view %g must be in (0, 180)", s.CameraAngleOfView)
	case s.ModelScale < 0:
		return fail("model_scale %g must not be negative", s.ModelScale)
	}
	return nil
}

// Background returns the clear color, falling back to DefaultBackground.
func (s Settings) Background() [3]uint8 {
	if s.BackgroundColor != nil {
		return *s.BackgroundColor
	}
	return DefaultBackground()
}

// Resolve applies CLI overrides, then fills unset fields with defaults.
// Negative or otherwise invalid explicit values are left for Validate.
func (s *Settings) Resolve(flags Flags) {
	// CLI flags override the settings file
	if flags.Width > 0 {
		s.Width = flags.Width
	}
	if flags.Height > 0 {
		s.Height = flags.Height
	}
	if flags.ModelPath != "" {
		s.ModelPath = flags.ModelPath
	}
	if flags.ResultPath != "" {
		s.ResultPath = flags.ResultPath
	}

	if s.Width == 0 {
		s.Width = 1920
	}
	if s.Height == 0 {
		s.Height = 1080
	}
	if s.CameraAngleOfView == 0 {
		s.CameraAngleOfView = 60
	}
	if s.CameraZNear == 0 {
		s.CameraZNear = 0.01
	}
	if s.CameraZFar == 0 {
		s.CameraZFar = 100
	}
	if s.ResultPath == "" {
		s.ResultPath = "result.png"
	}
}

// Flags holds CLI flag values that override settings file values.
type Flags struct {
	Width      int
	Height     int
	ModelPath  string
	ResultPath string
}
