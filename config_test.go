package polyevo

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"seehuhn.de/go/polyevo/render"
)

func TestDefaultConfigValid(t *testing.T) {
	conf := NewConfig()
	if err := conf.Validate(); err != nil {
		t.Fatal(err)
	}
	if conf.FillRule() != render.EvenOdd {
		t.Errorf("default fill rule is %s", conf.FillRule())
	}
	if conf.Background != render.DefaultBackground {
		t.Errorf("default background is %v", conf.Background)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"no polygons", func(c *Config) { c.NumPolygons = 0 }},
		{"two vertices", func(c *Config) { c.NumVertices = 2 }},
		{"negative margin", func(c *Config) { c.Margin = -0.1 }},
		{"negative sigma", func(c *Config) { c.SigmaColor = -1 }},
		{"z range", func(c *Config) { c.MinZ, c.MaxZ = 10, 5 }},
		{"alpha range", func(c *Config) { c.MinAlpha, c.MaxAlpha = 200, 100 }},
		{"no candidates", func(c *Config) { c.Candidates = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf := NewConfig()
			tc.modify(conf)
			if err := conf.Validate(); !errors.Is(err, ErrConfig) {
				t.Errorf("got %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	conf, err := LoadConfig(strings.NewReader(`{"num_polygons": 50, "sigma_z": 0, "even_odd": false}`))
	if err != nil {
		t.Fatal(err)
	}
	if conf.NumPolygons != 50 || conf.SigmaZ != 0 || conf.FillRule() != render.NonZero {
		t.Errorf("values not loaded: %+v", conf)
	}
	if conf.NumVertices != 3 || conf.SigmaVertex != 5 {
		t.Errorf("defaults lost: %+v", conf)
	}

	for _, in := range []string{
		`{"num_polgons": 50}`,
		`{"num_polygons": -1}`,
		`{"num_polygons": `,
	} {
		if _, err := LoadConfig(strings.NewReader(in)); !errors.Is(err, ErrConfig) {
			t.Errorf("%s: got %v, want ErrConfig", in, err)
		}
	}
}

func TestConfigSaveLoad(t *testing.T) {
	conf := NewConfig()
	conf.Seed = 1234
	conf.MaxAlpha = 200
	conf.Background.R = 10

	buf := &bytes.Buffer{}
	if err := conf.Save(buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(buf)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *conf {
		t.Errorf("got %+v, want %+v", loaded, conf)
	}
}
