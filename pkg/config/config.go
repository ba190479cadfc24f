// Package config builds a browser from a TOML description.
//
// A config file has one [browser] block for the figure geometry and an
// ordered list of [[tracks]] blocks, each with a type field naming the
// track factory and type-specific options:
//
//	[browser]
//	width = 800
//	row_height = 25
//
//	[[tracks]]
//	type = "interactions"
//	store = "my5c_folder"
//	path = "/data/my5c"
//	log = true
//
//	[[tracks]]
//	type = "scalebar"
//
// Track and store lookup goes through explicit registries passed in by the
// caller, so tests and embedders can swap implementations without touching
// package state.
package config

import (
	"math"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/trackstack/pkg/browser"
	"github.com/matzehuels/trackstack/pkg/errors"
	"github.com/matzehuels/trackstack/pkg/store"
	"github.com/matzehuels/trackstack/pkg/store/bed"
	"github.com/matzehuels/trackstack/pkg/store/bedgraph"
	"github.com/matzehuels/trackstack/pkg/store/bundle"
	"github.com/matzehuels/trackstack/pkg/store/interdb"
	"github.com/matzehuels/trackstack/pkg/store/my5c"
	"github.com/matzehuels/trackstack/pkg/track"
)

// TrackFactory builds one track from its [[tracks]] block. The block is
// handed over undecoded so each factory can define its own option schema.
type TrackFactory func(md *toml.MetaData, prim toml.Primitive, stores store.Registry) (track.Track, error)

// TrackRegistry maps a track type string to its factory.
type TrackRegistry map[string]TrackFactory

// DefaultStores returns the built-in matrix store backends.
func DefaultStores() store.Registry {
	return store.Registry{
		"my5c_folder":    my5c.Open,
		"bundle_folder":  bundle.Open,
		"interaction_db": interdb.Open,
	}
}

// DefaultTracks returns the built-in track types.
func DefaultTracks() TrackRegistry {
	return TrackRegistry{
		"interactions": interactionsFactory,
		"signal":       signalFactory,
		"genes":        genesFactory,
		"intervals":    intervalsFactory,
		"scalebar":     scalebarFactory,
		"location":     locationFactory,
	}
}

type file struct {
	Browser browserBlock     `toml:"browser"`
	Tracks  []toml.Primitive `toml:"tracks"`
}

type browserBlock struct {
	Width     float64 `toml:"width"`
	RowHeight float64 `toml:"row_height"`
}

// Load reads the TOML file at path and assembles the browser it describes.
func Load(path string, tracks TrackRegistry, stores store.Registry) (*browser.Browser, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config %s", path)
	}
	return assemble(&md, f, tracks, stores)
}

// Parse assembles a browser from TOML source, mainly for tests and
// embedders that hold the config in memory.
func Parse(data string, tracks TrackRegistry, stores store.Registry) (*browser.Browser, error) {
	var f file
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config")
	}
	return assemble(&md, f, tracks, stores)
}

func assemble(md *toml.MetaData, f file, tracks TrackRegistry, stores store.Registry) (*browser.Browser, error) {
	built := make([]track.Track, 0, len(f.Tracks))
	for i, prim := range f.Tracks {
		var head struct {
			Type string `toml:"type"`
		}
		if err := md.PrimitiveDecode(prim, &head); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "track block %d", i)
		}
		if head.Type == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "track block %d has no type", i)
		}
		factory, ok := tracks[head.Type]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"track block %d: unknown track type %q", i, head.Type)
		}
		tr, err := factory(md, prim, stores)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "track block %d (%s)", i, head.Type)
		}
		built = append(built, tr)
	}

	b := browser.New(built...)
	if f.Browser.Width > 0 {
		b.Width = f.Browser.Width
	}
	if f.Browser.RowHeight > 0 {
		b.RowHeight = f.Browser.RowHeight
	}
	return b, nil
}

func interactionsFactory(md *toml.MetaData, prim toml.Primitive, stores store.Registry) (track.Track, error) {
	var c struct {
		Name           string   `toml:"name"`
		Store          string   `toml:"store"`
		Path           string   `toml:"path"`
		Flip           bool     `toml:"flip"`
		Log            bool     `toml:"log"`
		Rotate         *bool    `toml:"rotate"`
		ClipPercentile *float64 `toml:"clip_percentile"`
		HardFloor      *float64 `toml:"hard_floor"`
		Colormap       string   `toml:"colormap"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "interactions options")
	}
	if c.Store == "" || c.Path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"interactions track needs store and path")
	}
	st, err := stores.Open(c.Store, c.Path)
	if err != nil {
		return nil, err
	}

	opts := track.DefaultInteractionsOptions()
	opts.StoreType = c.Store
	opts.Flip = c.Flip
	opts.Log = c.Log
	// clip_percentile = 0 disables clipping; an absent key keeps the
	// default 1% clip.
	if c.ClipPercentile != nil {
		opts.ClipPercentile = *c.ClipPercentile
	}
	if c.Name != "" {
		opts.Name = c.Name
	}
	if c.Rotate != nil {
		opts.Rotate = *c.Rotate
	}
	if c.HardFloor != nil {
		opts.HardFloor = *c.HardFloor
	} else {
		opts.HardFloor = math.NaN()
	}
	if c.Colormap != "" {
		opts.Colormap = c.Colormap
	}
	return track.NewInteractions(st, opts)
}

func signalFactory(md *toml.MetaData, prim toml.Primitive, _ store.Registry) (track.Track, error) {
	var c struct {
		Name string  `toml:"name"`
		File string  `toml:"file"`
		Bins int     `toml:"bins"`
		Fill string  `toml:"color"`
		YMax float64 `toml:"y_max"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "signal options")
	}
	if c.File == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "signal track needs file")
	}
	f, err := bedgraph.Open(c.File)
	if err != nil {
		return nil, err
	}
	return track.NewSignal(f, track.SignalOptions{
		Name: c.Name,
		Bins: c.Bins,
		Fill: c.Fill,
		YMax: c.YMax,
	})
}

func genesFactory(md *toml.MetaData, prim toml.Primitive, _ store.Registry) (track.Track, error) {
	var c struct {
		Name string `toml:"name"`
		File string `toml:"file"`
		Fill string `toml:"color"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "genes options")
	}
	if c.File == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "genes track needs file")
	}
	f, err := bed.Open(c.File)
	if err != nil {
		return nil, err
	}
	return track.NewGenes(f, track.GenesOptions{Name: c.Name, Fill: c.Fill})
}

func intervalsFactory(md *toml.MetaData, prim toml.Primitive, _ store.Registry) (track.Track, error) {
	var c struct {
		Name   string  `toml:"name"`
		File   string  `toml:"file"`
		Stroke string  `toml:"color"`
		Jitter float64 `toml:"jitter"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "intervals options")
	}
	if c.File == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "intervals track needs file")
	}
	f, err := bed.Open(c.File)
	if err != nil {
		return nil, err
	}
	return track.NewIntervals(f, track.IntervalsOptions{
		Name:   c.Name,
		Stroke: c.Stroke,
		Jitter: c.Jitter,
	})
}

func scalebarFactory(md *toml.MetaData, prim toml.Primitive, _ store.Registry) (track.Track, error) {
	var c struct {
		Name   string `toml:"name"`
		Stroke string `toml:"color"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scalebar options")
	}
	return track.NewScaleBar(track.ScaleBarOptions{Name: c.Name, Stroke: c.Stroke}), nil
}

func locationFactory(md *toml.MetaData, prim toml.Primitive, _ store.Registry) (track.Track, error) {
	var c struct {
		Stroke string `toml:"color"`
	}
	if err := md.PrimitiveDecode(prim, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "location options")
	}
	return track.NewLocation(track.LocationOptions{Stroke: c.Stroke}), nil
}
