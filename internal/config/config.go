package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Tools locates the external binaries the pipeline shells out to. Values
// come from SCENESNAP_* environment variables (a .env file is loaded
// best-effort at startup) and can be overridden by an optional YAML file.
type Tools struct {
	FFmpeg          string `envconfig:"FFMPEG" default:"ffmpeg" yaml:"ffmpeg"`
	FFprobe         string `envconfig:"FFPROBE" default:"ffprobe" yaml:"ffprobe"`
	SceneDetect     string `envconfig:"SCENEDETECT" default:"scenedetect" yaml:"scenedetect"`
	WhisperBin      string `envconfig:"WHISPER_BIN" default:"whisper-cli" yaml:"whisper_bin"`
	WhisperModelDir string `envconfig:"WHISPER_MODEL_DIR" default:".cache/models" yaml:"whisper_model_dir"`
	CacheDir        string `envconfig:"CACHE_DIR" default:".cache" yaml:"cache_dir"`
}

// Load resolves tool paths from the environment and, when yamlPath is not
// empty, overlays non-empty values from that file on top.
func Load(yamlPath string) (Tools, error) {
	var t Tools
	if err := envconfig.Process("scenesnap", &t); err != nil {
		return Tools{}, fmt.Errorf("read environment: %w", err)
	}
	if yamlPath == "" {
		return t, nil
	}

	b, err := os.ReadFile(yamlPath)
	if err != nil {
		return Tools{}, fmt.Errorf("read config file: %w", err)
	}
	var overlay Tools
	if err := yaml.Unmarshal(b, &overlay); err != nil {
		return Tools{}, fmt.Errorf("parse config file %s: %w", yamlPath, err)
	}
	t.merge(overlay)
	return t, nil
}

func (t *Tools) merge(o Tools) {
	if o.FFmpeg != "" {
		t.FFmpeg = o.FFmpeg
	}
	if o.FFprobe != "" {
		t.FFprobe = o.FFprobe
	}
	if o.SceneDetect != "" {
		t.SceneDetect = o.SceneDetect
	}
	if o.WhisperBin != "" {
		t.WhisperBin = o.WhisperBin
	}
	if o.WhisperModelDir != "" {
		t.WhisperModelDir = o.WhisperModelDir
	}
	if o.CacheDir != "" {
		t.CacheDir = o.CacheDir
	}
}
