package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

const helpText = "Arrow keys to move\nPress \"D\" to show hitboxes"

// HelpUI is the fixed help panel in the top-left corner of the screen.
type HelpUI struct {
	ui *ebitenui.UI
}

// NewHelpUI builds a white panel with black monospace text, drawn in screen
// space above the world.
func NewHelpUI(label string) (*HelpUI, error) {
	src, err := ebtext.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, err
	}
	var face ebtext.Face = &ebtext.GoTextFace{Source: src, Size: 18}

	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	text := widget.NewText(
		widget.TextOpts.Text(label, &face, color.NRGBA{A: 0xff}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 20, Right: 20}),
		)),
	)
	panel.AddChild(text)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Left: 16}),
		)),
	)
	root.AddChild(panel)

	return &HelpUI{ui: &ebitenui.UI{Container: root}}, nil
}

func (h *HelpUI) Update() {
	if h == nil {
		return
	}
	h.ui.Update()
}

func (h *HelpUI) Draw(screen *ebiten.Image) {
	if h == nil {
		return
	}
	h.ui.Draw(screen)
}
