package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artummeti/lc-vid-generator/internal/ports"
)

// Policy holds the fixed rendering and pacing constants of a batch.
type Policy struct {
	Count      int           `yaml:"count"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	FontSize   int           `yaml:"font_size"`
	FontFile   string        `yaml:"font_file"`
	TextColor  string        `yaml:"text_color"`
	Background string        `yaml:"background"`
	FPS        int           `yaml:"fps"`
	Lang       string        `yaml:"lang"`
	Delay      time.Duration `yaml:"delay"`
}

func DefaultPolicy() Policy {
	return Policy{
		Count:      2,
		Width:      1280,
		Height:     720,
		FontSize:   50,
		TextColor:  "white",
		Background: "black",
		FPS:        24,
		Lang:       "en",
		Delay:      5 * time.Second,
	}
}

// LoadPolicy overlays a YAML file onto DefaultPolicy. Keys absent from the
// file keep their defaults; unknown keys are an error.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.Count <= 0 {
		return errors.New("count must be > 0")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.New("canvas size must be > 0")
	}
	// yuv420p needs even dimensions.
	if p.Width%2 != 0 || p.Height%2 != 0 {
		return fmt.Errorf("canvas size %dx%d must be even", p.Width, p.Height)
	}
	if p.FontSize <= 0 {
		return errors.New("font size must be > 0")
	}
	if p.FPS <= 0 {
		return errors.New("fps must be > 0")
	}
	if strings.TrimSpace(p.TextColor) == "" || strings.TrimSpace(p.Background) == "" {
		return errors.New("text color and background are required")
	}
	if strings.TrimSpace(p.Lang) == "" {
		return errors.New("lang is required")
	}
	if p.Delay < 0 {
		return errors.New("delay must be >= 0")
	}
	if p.FontFile != "" {
		if _, err := os.Stat(p.FontFile); err != nil {
			return fmt.Errorf("stat font file: %w", err)
		}
	}
	return nil
}

func (p Policy) TextStyle() ports.TextStyle {
	return ports.TextStyle{
		Width:      p.Width,
		Height:     p.Height,
		FontSize:   p.FontSize,
		FontFile:   p.FontFile,
		Color:      p.TextColor,
		Background: p.Background,
		FPS:        p.FPS,
	}
}
