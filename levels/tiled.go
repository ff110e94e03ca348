// Package levels loads Tiled JSON maps.
package levels

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"sort"
	"strconv"
)

var (
	ErrLayerNotFound   = errors.New("levels: layer not found")
	ErrObjectNotFound  = errors.New("levels: object not found")
	ErrTilesetNotFound = errors.New("levels: no tileset for gid")
	ErrUnsupported     = errors.New("levels: unsupported map feature")
)

const (
	LayerTypeTile   = "tilelayer"
	LayerTypeObject = "objectgroup"
	LayerTypeGroup  = "group"
	LayerTypeImage  = "imagelayer"
)

// Tiled stores flip and rotation flags in the high bits of every gid.
const (
	flippedHorizontally uint32 = 0x80000000
	flippedVertically   uint32 = 0x40000000
	flippedDiagonally   uint32 = 0x20000000
	rotatedHexagonal120 uint32 = 0x10000000

	gidMask = ^(flippedHorizontally | flippedVertically | flippedDiagonally | rotatedHexagonal120)
)

// GID strips the flip flags from a raw tile id.
func GID(raw uint32) uint32 {
	return raw & gidMask
}

type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type Properties []Property

// Get returns the raw value of a property.
func (p Properties) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Bool reports whether a property is true. String values "true" count.
func (p Properties) Bool(name string) bool {
	v, ok := p.Get(name)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	}
	return false
}

type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Class      string     `json:"class"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation"`
	Point      bool       `json:"point"`
	Visible    bool       `json:"visible"`
	Properties Properties `json:"properties"`
}

type Layer struct {
	ID         int
	Name       string
	Type       string
	Width      int
	Height     int
	OffsetX    float64
	OffsetY    float64
	Opacity    float64
	Visible    bool
	Properties Properties
	// Data holds raw gids, row-major, flags included.
	Data    []uint32
	Objects []Object
}

// TileAt returns the flag-free gid at a cell, 0 when empty or outside.
func (l *Layer) TileAt(col, row int) uint32 {
	if l == nil || col < 0 || row < 0 || col >= l.Width || row >= l.Height {
		return 0
	}
	idx := row*l.Width + col
	if idx >= len(l.Data) {
		return 0
	}
	return GID(l.Data[idx])
}

type TileDef struct {
	ID         int        `json:"id"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
}

type Tileset struct {
	FirstGID    uint32    `json:"firstgid"`
	Source      string    `json:"source"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	ImageWidth  int       `json:"imagewidth"`
	ImageHeight int       `json:"imageheight"`
	TileWidth   int       `json:"tilewidth"`
	TileHeight  int       `json:"tileheight"`
	Columns     int       `json:"columns"`
	TileCount   int       `json:"tilecount"`
	Margin      int       `json:"margin"`
	Spacing     int       `json:"spacing"`
	Tiles       []TileDef `json:"tiles"`
	// LegacyProperties is the pre-1.2 "tileproperties" object keyed by local id.
	LegacyProperties map[string]map[string]any `json:"tileproperties"`
}

func (ts *Tileset) columns() int {
	if ts.Columns > 0 {
		return ts.Columns
	}
	step := ts.TileWidth + ts.Spacing
	if step <= 0 {
		return 0
	}
	return (ts.ImageWidth - 2*ts.Margin + ts.Spacing) / step
}

// SourceRect returns the tileset image rectangle of gid.
func (ts *Tileset) SourceRect(gid uint32) image.Rectangle {
	cols := ts.columns()
	gid = GID(gid)
	if cols <= 0 || gid < ts.FirstGID {
		return image.Rectangle{}
	}
	local := int(gid - ts.FirstGID)
	x := ts.Margin + (local%cols)*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + (local/cols)*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// TileProperties returns the properties of a tile by local id.
func (ts *Tileset) TileProperties(local int) Properties {
	for _, t := range ts.Tiles {
		if t.ID == local {
			return t.Properties
		}
	}
	legacy, ok := ts.LegacyProperties[strconv.Itoa(local)]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(legacy))
	for name := range legacy {
		names = append(names, name)
	}
	sort.Strings(names)
	props := make(Properties, 0, len(names))
	for _, name := range names {
		props = append(props, Property{Name: name, Value: legacy[name]})
	}
	return props
}

type Map struct {
	Width       int
	Height      int
	TileWidth   int
	TileHeight  int
	Orientation string
	Properties  Properties
	// Layers is flattened in draw order; group layers are expanded.
	Layers   []Layer
	Tilesets []Tileset
}

// WidthInPixels returns the map width in pixels.
func (m *Map) WidthInPixels() int {
	return m.Width * m.TileWidth
}

// HeightInPixels returns the map height in pixels.
func (m *Map) HeightInPixels() int {
	return m.Height * m.TileHeight
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (*Layer, error) {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
}

// TileLayer returns the named layer, which must hold tiles.
func (m *Map) TileLayer(name string) (*Layer, error) {
	l, err := m.Layer(name)
	if err != nil {
		return nil, err
	}
	if l.Type != LayerTypeTile {
		return nil, fmt.Errorf("%w: %q is a %s", ErrLayerNotFound, name, l.Type)
	}
	return l, nil
}

// FindObject returns the first object of an object layer matching pred.
func (m *Map) FindObject(layer string, pred func(Object) bool) (Object, error) {
	l, err := m.Layer(layer)
	if err != nil {
		return Object{}, err
	}
	for _, obj := range l.Objects {
		if pred(obj) {
			return obj, nil
		}
	}
	return Object{}, fmt.Errorf("%w in layer %q", ErrObjectNotFound, layer)
}

// TilesetFor returns the tileset a gid belongs to.
func (m *Map) TilesetFor(gid uint32) (*Tileset, error) {
	gid = GID(gid)
	var found *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if ts.FirstGID <= gid && (found == nil || ts.FirstGID > found.FirstGID) {
			found = ts
		}
	}
	if gid == 0 || found == nil {
		return nil, fmt.Errorf("%w %d", ErrTilesetNotFound, gid)
	}
	return found, nil
}

// TileProperties returns the properties of a gid, nil when it has none.
func (m *Map) TileProperties(gid uint32) Properties {
	ts, err := m.TilesetFor(gid)
	if err != nil {
		return nil
	}
	return ts.TileProperties(int(GID(gid) - ts.FirstGID))
}

// TilePos is a non-empty cell of a tile layer.
type TilePos struct {
	Col int
	Row int
	GID uint32
}

// CollidingTiles lists the cells of a tile layer whose tile has the boolean
// property set, in row-major order.
func (m *Map) CollidingTiles(layer, property string) ([]TilePos, error) {
	l, err := m.TileLayer(layer)
	if err != nil {
		return nil, err
	}
	cache := make(map[uint32]bool)
	var out []TilePos
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			gid := l.TileAt(col, row)
			if gid == 0 {
				continue
			}
			collides, ok := cache[gid]
			if !ok {
				collides = m.TileProperties(gid).Bool(property)
				cache[gid] = collides
			}
			if collides {
				out = append(out, TilePos{Col: col, Row: row, GID: gid})
			}
		}
	}
	return out, nil
}

type jsonLayer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	OffsetX     float64         `json:"offsetx"`
	OffsetY     float64         `json:"offsety"`
	Opacity     *float64        `json:"opacity"`
	Visible     *bool           `json:"visible"`
	Properties  Properties      `json:"properties"`
	Data        json.RawMessage `json:"data"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`
	Objects     []Object        `json:"objects"`
	Layers      []jsonLayer     `json:"layers"`
}

type jsonMap struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TileWidth   int         `json:"tilewidth"`
	TileHeight  int         `json:"tileheight"`
	Orientation string      `json:"orientation"`
	Infinite    bool        `json:"infinite"`
	Properties  Properties  `json:"properties"`
	Layers      []jsonLayer `json:"layers"`
	Tilesets    []Tileset   `json:"tilesets"`
}

// Parse decodes an orthogonal, finite Tiled JSON map with embedded tilesets.
func Parse(data []byte) (*Map, error) {
	var raw jsonMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("levels: unmarshal map: %w", err)
	}
	if raw.Orientation != "" && raw.Orientation != "orthogonal" {
		return nil, fmt.Errorf("%w: %s orientation", ErrUnsupported, raw.Orientation)
	}
	if raw.Infinite {
		return nil, fmt.Errorf("%w: infinite maps", ErrUnsupported)
	}
	if raw.Width <= 0 || raw.Height <= 0 || raw.TileWidth <= 0 || raw.TileHeight <= 0 {
		return nil, fmt.Errorf("levels: invalid map size %dx%d tiles of %dx%d", raw.Width, raw.Height, raw.TileWidth, raw.TileHeight)
	}
	for _, ts := range raw.Tilesets {
		if ts.Source != "" {
			return nil, fmt.Errorf("%w: external tileset %q", ErrUnsupported, ts.Source)
		}
	}

	m := &Map{
		Width:       raw.Width,
		Height:      raw.Height,
		TileWidth:   raw.TileWidth,
		TileHeight:  raw.TileHeight,
		Orientation: raw.Orientation,
		Properties:  raw.Properties,
		Tilesets:    raw.Tilesets,
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool { return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID })

	if err := m.appendLayers(raw.Layers, 0, 0); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Map) appendLayers(layers []jsonLayer, offX, offY float64) error {
	for _, jl := range layers {
		l := Layer{
			ID:         jl.ID,
			Name:       jl.Name,
			Type:       jl.Type,
			Width:      jl.Width,
			Height:     jl.Height,
			OffsetX:    offX + jl.OffsetX,
			OffsetY:    offY + jl.OffsetY,
			Opacity:    1,
			Visible:    true,
			Properties: jl.Properties,
			Objects:    jl.Objects,
		}
		if jl.Opacity != nil {
			l.Opacity = *jl.Opacity
		}
		if jl.Visible != nil {
			l.Visible = *jl.Visible
		}

		switch jl.Type {
		case LayerTypeGroup:
			if err := m.appendLayers(jl.Layers, l.OffsetX, l.OffsetY); err != nil {
				return err
			}
			continue
		case LayerTypeTile:
			if l.Width == 0 && l.Height == 0 {
				l.Width, l.Height = m.Width, m.Height
			}
			gids, err := decodeLayerData(jl)
			if err != nil {
				return fmt.Errorf("levels: layer %q: %w", jl.Name, err)
			}
			if len(gids) != l.Width*l.Height {
				return fmt.Errorf("levels: layer %q has %d tiles, want %d", jl.Name, len(gids), l.Width*l.Height)
			}
			l.Data = gids
		}
		m.Layers = append(m.Layers, l)
	}
	return nil
}

func decodeLayerData(jl jsonLayer) ([]uint32, error) {
	switch jl.Encoding {
	case "", "csv":
		var gids []uint32
		if err := json.Unmarshal(jl.Data, &gids); err != nil {
			return nil, fmt.Errorf("decode csv data: %w", err)
		}
		return gids, nil
	case "base64":
		var encoded string
		if err := json.Unmarshal(jl.Data, &encoded); err != nil {
			return nil, fmt.Errorf("decode base64 data: %w", err)
		}
		b, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode base64 data: %w", err)
		}
		b, err = decompress(b, jl.Compression)
		if err != nil {
			return nil, err
		}
		if len(b)%4 != 0 {
			return nil, fmt.Errorf("tile data length %d is not a multiple of 4", len(b))
		}
		gids := make([]uint32, len(b)/4)
		for i := range gids {
			gids[i] = binary.LittleEndian.Uint32(b[i*4:])
		}
		return gids, nil
	}
	return nil, fmt.Errorf("%w: %q encoding", ErrUnsupported, jl.Encoding)
}

func decompress(b []byte, compression string) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch compression {
	case "":
		return b, nil
	case "zlib":
		r, err = zlib.NewReader(bytes.NewReader(b))
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(b))
	default:
		return nil, fmt.Errorf("%w: %q compression", ErrUnsupported, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s data: %w", compression, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s data: %w", compression, err)
	}
	return out, nil
}
