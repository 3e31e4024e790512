package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-word-flock/pkg/flocking"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "https://github.com/lao-tseu-is-alive/go-word-flock/config.schema.json"

var compileConfigSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, bytes.NewReader(configSchemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	sch, err := c.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
})

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population, one label per agent
	NumAgents int    `json:"numAgents" toml:"numAgents"`
	WordsFile string `json:"wordsFile" toml:"wordsFile"`

	// Physics
	MaxSpeed float64 `json:"maxSpeed" toml:"maxSpeed"`
	MaxForce float64 `json:"maxForce" toml:"maxForce"`

	// Interaction Radii
	DesiredSeparation float64 `json:"desiredSeparation" toml:"desiredSeparation"`
	NeighborDist      float64 `json:"neighborDist" toml:"neighborDist"`

	// Rule weights
	SeparationWeight float64 `json:"separationWeight" toml:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" toml:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" toml:"cohesionWeight"`

	BorderSoftening float64 `json:"borderSoftening" toml:"borderSoftening"`
	TrailDistance   float64 `json:"trailDistance" toml:"trailDistance"`

	// Engine
	UpdateMode string `json:"updateMode" toml:"updateMode"` // "synchronous" or "staggered"
	Workers    int    `json:"workers" toml:"workers"`       // steering goroutines, synchronous mode only

	// Presentation
	TPS       int     `json:"tps" toml:"tps"`
	FontScale float64 `json:"fontScale" toml:"fontScale"`

	// GIF recording, started with the s key
	CaptureSeconds float64 `json:"captureSeconds" toml:"captureSeconds"`
	CaptureFPS     int     `json:"captureFPS" toml:"captureFPS"`
}

func DefaultConfig() *Config {
	s := flocking.DefaultSettings(720, 576)
	return &Config{
		WorldWidth:        s.Width,
		WorldHeight:       s.Height,
		NumAgents:         93,
		WordsFile:         "configs/words.txt",
		MaxSpeed:          s.MaxSpeed,
		MaxForce:          s.MaxForce,
		DesiredSeparation: s.DesiredSeparation,
		NeighborDist:      s.NeighborDist,
		SeparationWeight:  s.SeparationWeight,
		AlignmentWeight:   s.AlignmentWeight,
		CohesionWeight:    s.CohesionWeight,
		BorderSoftening:   s.BorderSoftening,
		TrailDistance:     s.TrailDistance,
		UpdateMode:        flocking.UpdateSynchronous.String(),
		Workers:           1,
		TPS:               60,
		FontScale:         2,
		CaptureSeconds:    15,
		CaptureFPS:        20,
	}
}

// LoadConfig loads configuration from a JSON or TOML file over the defaults
// and validates the result against the embedded schema.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".toml":
		md, err := toml.DecodeFile(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config keys in %s: %v", configFile, undecoded)
		}
	case ".json":
		b, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q, want .json or .toml", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against the embedded JSON schema.
func (c *Config) Validate() error {
	sch, err := compileConfigSchema()
	if err != nil {
		return err
	}

	// the schema validates generic JSON values, not Go structs
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Settings returns the flocking settings described by the config.
func (c *Config) Settings() flocking.Settings {
	return flocking.Settings{
		MaxSpeed:          c.MaxSpeed,
		MaxForce:          c.MaxForce,
		DesiredSeparation: c.DesiredSeparation,
		NeighborDist:      c.NeighborDist,
		SeparationWeight:  c.SeparationWeight,
		AlignmentWeight:   c.AlignmentWeight,
		CohesionWeight:    c.CohesionWeight,
		BorderSoftening:   c.BorderSoftening,
		TrailDistance:     c.TrailDistance,
		Width:             c.WorldWidth,
		Height:            c.WorldHeight,
	}
}

// Mode parses UpdateMode.
func (c *Config) Mode() (flocking.UpdateMode, error) {
	return flocking.ParseUpdateMode(c.UpdateMode)
}
