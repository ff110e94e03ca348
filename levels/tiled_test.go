package levels

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"testing"
)

const smallMap = `{
  "width": 3, "height": 2, "tilewidth": 16, "tileheight": 16,
  "orientation": "orthogonal",
  "layers": [
    {"name": "lower", "type": "tilelayer", "width": 3, "height": 2, "data": [1, 1, 1, 1, 1, 1]},
    {"name": "main", "type": "tilelayer", "width": 3, "height": 2, "data": [0, 3, 2147483651, 0, 2, 5]},
    {"name": "Objects", "type": "objectgroup", "objects": [
      {"id": 1, "name": "chest", "x": 4, "y": 4},
      {"id": 2, "name": "spawn", "x": 24, "y": 8, "point": true}
    ]}
  ],
  "tilesets": [
    {"firstgid": 5, "name": "extra", "image": "extra.png", "imagewidth": 32, "imageheight": 16, "tilewidth": 16, "tileheight": 16, "columns": 2,
     "tileproperties": {"0": {"collides": "true"}}},
    {"firstgid": 1, "name": "spritesheet_map", "image": "../assets/spritesheet_map.png", "imagewidth": 64, "imageheight": 16, "tilewidth": 16, "tileheight": 16, "columns": 4,
     "tiles": [{"id": 2, "properties": [{"name": "collides", "type": "bool", "value": true}]}]}
  ]
}`

func mustParse(t *testing.T, data string) *Map {
	t.Helper()
	m, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestParseBasics(t *testing.T) {
	m := mustParse(t, smallMap)
	if m.WidthInPixels() != 48 || m.HeightInPixels() != 32 {
		t.Fatalf("pixel size = %dx%d", m.WidthInPixels(), m.HeightInPixels())
	}
	if len(m.Layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(m.Layers))
	}
	if m.Tilesets[0].Name != "spritesheet_map" {
		t.Fatalf("tilesets not sorted by firstgid: %q first", m.Tilesets[0].Name)
	}
	main, err := m.TileLayer("main")
	if err != nil {
		t.Fatalf("TileLayer: %v", err)
	}
	if got := main.TileAt(2, 0); got != 3 {
		t.Fatalf("flip flags not stripped: gid %d", got)
	}
	if got := main.TileAt(5, 5); got != 0 {
		t.Fatalf("out of range cell = %d", got)
	}
}

func TestLayerLookupErrors(t *testing.T) {
	m := mustParse(t, smallMap)
	if _, err := m.Layer("missing"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
	if _, err := m.TileLayer("Objects"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("object layer accepted as tile layer: %v", err)
	}
}

func TestFindObject(t *testing.T) {
	m := mustParse(t, smallMap)
	spawn, err := m.FindObject("Objects", func(o Object) bool { return o.Name == "spawn" })
	if err != nil {
		t.Fatalf("FindObject: %v", err)
	}
	if spawn.X != 24 || spawn.Y != 8 || !spawn.Point {
		t.Fatalf("unexpected spawn %+v", spawn)
	}
	_, err = m.FindObject("Objects", func(o Object) bool { return o.Name == "exit" })
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	_, err = m.FindObject("Nope", func(Object) bool { return true })
	if !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
}

func TestCollidingTiles(t *testing.T) {
	m := mustParse(t, smallMap)
	tiles, err := m.CollidingTiles("main", "collides")
	if err != nil {
		t.Fatalf("CollidingTiles: %v", err)
	}
	want := []TilePos{
		{Col: 1, Row: 0, GID: 3},
		{Col: 2, Row: 0, GID: 3},
		{Col: 2, Row: 1, GID: 5},
	}
	if len(tiles) != len(want) {
		t.Fatalf("got %v, want %v", tiles, want)
	}
	for i := range want {
		if tiles[i] != want[i] {
			t.Fatalf("tile %d = %+v, want %+v", i, tiles[i], want[i])
		}
	}
}

func TestTilesetSourceRect(t *testing.T) {
	cases := []struct {
		name string
		ts   Tileset
		gid  uint32
		want image.Rectangle
	}{
		{
			name: "plain",
			ts:   Tileset{FirstGID: 1, TileWidth: 16, TileHeight: 16, Columns: 4},
			gid:  6,
			want: image.Rect(16, 16, 32, 32),
		},
		{
			name: "margin_and_spacing_without_columns",
			ts:   Tileset{FirstGID: 1, TileWidth: 16, TileHeight: 16, ImageWidth: 54, Margin: 1, Spacing: 2},
			gid:  5,
			want: image.Rect(19, 19, 35, 35),
		},
		{
			name: "gid_below_first",
			ts:   Tileset{FirstGID: 10, TileWidth: 16, TileHeight: 16, Columns: 4},
			gid:  3,
			want: image.Rectangle{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.ts.SourceRect(c.gid); got != c.want {
				t.Fatalf("SourceRect(%d) = %v, want %v", c.gid, got, c.want)
			}
		})
	}
}

func TestTilesetFor(t *testing.T) {
	m := mustParse(t, smallMap)
	ts, err := m.TilesetFor(6)
	if err != nil || ts.Name != "extra" {
		t.Fatalf("TilesetFor(6) = %v, %v", ts, err)
	}
	if _, err := m.TilesetFor(0); !errors.Is(err, ErrTilesetNotFound) {
		t.Fatalf("expected ErrTilesetNotFound for gid 0, got %v", err)
	}
}

func TestParseBase64Zlib(t *testing.T) {
	gids := []uint32{1, 2, 0, 4}
	var raw bytes.Buffer
	for _, g := range gids {
		_ = binary.Write(&raw, binary.LittleEndian, g)
	}
	var packed bytes.Buffer
	zw := zlib.NewWriter(&packed)
	_, _ = zw.Write(raw.Bytes())
	_ = zw.Close()
	encoded := base64.StdEncoding.EncodeToString(packed.Bytes())

	data := fmt.Sprintf(`{"width": 2, "height": 2, "tilewidth": 8, "tileheight": 8,
	  "layers": [{"name": "main", "type": "tilelayer", "width": 2, "height": 2,
	    "encoding": "base64", "compression": "zlib", "data": %q}],
	  "tilesets": []}`, encoded)

	m := mustParse(t, data)
	l, err := m.TileLayer("main")
	if err != nil {
		t.Fatalf("TileLayer: %v", err)
	}
	for i, g := range gids {
		if l.Data[i] != g {
			t.Fatalf("gid %d = %d, want %d", i, l.Data[i], g)
		}
	}
}

func TestParseGroupLayers(t *testing.T) {
	m := mustParse(t, `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8,
	  "layers": [{"name": "g", "type": "group", "offsetx": 4, "layers": [
	    {"name": "inner", "type": "tilelayer", "width": 1, "height": 1, "offsetx": 1, "data": [0], "visible": false}
	  ]}]}`)
	l, err := m.TileLayer("inner")
	if err != nil {
		t.Fatalf("TileLayer: %v", err)
	}
	if l.OffsetX != 5 || l.Visible {
		t.Fatalf("unexpected inner layer %+v", l)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"isometric", `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8, "orientation": "isometric"}`},
		{"infinite", `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8, "infinite": true}`},
		{"external_tileset", `{"width": 1, "height": 1, "tilewidth": 8, "tileheight": 8, "tilesets": [{"firstgid": 1, "source": "a.tsx"}]}`},
		{"short_data", `{"width": 2, "height": 1, "tilewidth": 8, "tileheight": 8, "layers": [{"name": "a", "type": "tilelayer", "width": 2, "height": 1, "data": [1]}]}`},
		{"zero_size", `{"width": 0, "height": 1, "tilewidth": 8, "tileheight": 8}`},
		{"not_json", `{`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadEmbeddedMap(t *testing.T) {
	m, err := Load("map")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{"lower", "main", "top"} {
		if _, err := m.TileLayer(name); err != nil {
			t.Fatalf("missing layer %q: %v", name, err)
		}
	}
	if _, err := m.FindObject("Objects", func(o Object) bool { return o.Name == "spawn" }); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	tiles, err := m.CollidingTiles("main", "collides")
	if err != nil || len(tiles) == 0 {
		t.Fatalf("expected colliding tiles, got %d, %v", len(tiles), err)
	}
}

func TestCleanLevelName(t *testing.T) {
	cases := map[string]string{
		"":                "map.json",
		"map":             "map.json",
		"map.json":        "map.json",
		"levels/map.json": "map.json",
	}
	for in, want := range cases {
		if got := cleanLevelName(in); got != want {
			t.Fatalf("cleanLevelName(%q) = %q, want %q", in, got, want)
		}
	}
}
