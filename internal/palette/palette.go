// internal/palette/palette.go
//
// Liquid palette management.
//
// Responsibilities:
//   - Load the palette from a YAML file, or fall back to the embedded default.
//   - Validate names and colors; derive missing surface/fresnel shades.
//   - Expose the loaded palette in file order plus name lookups.
//
// File format:
//
//	liquids:
//	  - name: red
//	    body: "#e53935"
//	    surface: "#ef5350"   # optional
//	    fresnel: "#ffcdd2"   # optional
//
// Initialization runs once (sync.Once); later Init calls return the first
// result.

package palette

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/liquidsort/apps/go-server/assets"
	"github.com/robalobadob/liquidsort/apps/go-server/internal/game"
)

// Blend weights toward white for derived shades.
const (
	surfaceBlend = 0.35
	fresnelBlend = 0.7
)

var white = colorful.Color{R: 1, G: 1, B: 1}

type fileEntry struct {
	Name    string `yaml:"name"`
	Body    string `yaml:"body"`
	Surface string `yaml:"surface"`
	Fresnel string `yaml:"fresnel"`
}

type file struct {
	Liquids []fileEntry `yaml:"liquids"`
}

var (
	initOnce   sync.Once
	liquids    []*game.LiquidType
	byName     map[string]*game.LiquidType
	initialErr error
)

// Init loads the palette exactly once. An empty path selects the embedded
// default.
func Init(path string) error {
	initOnce.Do(func() {
		var (
			data []byte
			err  error
		)
		if path != "" {
			data, err = os.ReadFile(path)
		} else {
			data, err = assets.DefaultPalette()
		}
		if err != nil {
			initialErr = fmt.Errorf("reading palette: %w", err)
			return
		}
		list, err := Parse(data)
		if err != nil {
			initialErr = err
			return
		}
		liquids = list
		byName = make(map[string]*game.LiquidType, len(list))
		for _, lt := range list {
			byName[lt.Name] = lt
		}
	})
	return initialErr
}

// Parse decodes palette YAML into liquid types.
func Parse(data []byte) ([]*game.LiquidType, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing palette YAML: %w", err)
	}
	if len(f.Liquids) == 0 {
		return nil, errors.New("palette: no liquids defined")
	}

	seen := make(map[string]struct{}, len(f.Liquids))
	out := make([]*game.LiquidType, 0, len(f.Liquids))
	for i, e := range f.Liquids {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			return nil, fmt.Errorf("palette: liquid %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("palette: duplicate liquid %q", name)
		}
		seen[name] = struct{}{}

		body, err := colorful.Hex(strings.TrimSpace(e.Body))
		if err != nil {
			return nil, fmt.Errorf("palette: %s body: %w", name, err)
		}
		surface, err := shade(e.Surface, body, surfaceBlend)
		if err != nil {
			return nil, fmt.Errorf("palette: %s surface: %w", name, err)
		}
		fresnel, err := shade(e.Fresnel, body, fresnelBlend)
		if err != nil {
			return nil, fmt.Errorf("palette: %s fresnel: %w", name, err)
		}

		out = append(out, &game.LiquidType{
			Name:    name,
			Body:    body.Hex(),
			Surface: surface.Hex(),
			Fresnel: fresnel.Hex(),
		})
	}
	return out, nil
}

// shade parses an explicit color or derives one from body.
func shade(hex string, body colorful.Color, blend float64) (colorful.Color, error) {
	if hex = strings.TrimSpace(hex); hex != "" {
		return colorful.Hex(hex)
	}
	return body.BlendLab(white, blend).Clamped(), nil
}

// All returns the loaded palette in file order.
func All() []*game.LiquidType { return liquids }

// Lookup returns the liquid with the given name.
func Lookup(name string) (*game.LiquidType, bool) {
	lt, ok := byName[strings.ToLower(name)]
	return lt, ok
}

// Stats returns the number of loaded liquids.
func Stats() int { return len(liquids) }
