package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/shouni/go-collage-kit/pkg/layout"
	"github.com/shouni/go-collage-kit/pkg/panel"
)

// キャンバスの既定配色です。
var (
	DefaultBackground  = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	DefaultArrowColor  = color.NRGBA{R: 148, G: 163, B: 184, A: 255} // ソフトなスレート
	DefaultLetterColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// 矢印の形状パラメータです。先端の三角と重ならないよう軸線は手前で止めます。
const (
	arrowHeadSize   = 6.0
	arrowHeadGap    = 1.2  // 軸線を先端から head * gap だけ引っ込める
	arrowHeadSpread = 0.35 // 三角の開き角（ラジアン）
	arrowLineWidth  = 1.0
)

// Renderer はレイアウト計画に従ってパネル・ラベル・矢印を1枚のキャンバスに描画します。
type Renderer struct {
	Background  color.NRGBA
	ArrowColor  color.NRGBA
	LetterColor color.NRGBA

	face font.Face
}

// NewRenderer は指定のフォントフェイスで描画する Renderer を生成します。
func NewRenderer(face font.Face) *Renderer {
	return &Renderer{
		Background:  DefaultBackground,
		ArrowColor:  DefaultArrowColor,
		LetterColor: DefaultLetterColor,
		face:        face,
	}
}

// Compose は準備済みパネル列とレイアウト計画からコラージュ画像を合成します。
// panels は計画の絶対ステップ順（Step-1 がインデックス）と一致している必要があります。
func (r *Renderer) Compose(panels []*panel.Panel, plan layout.Plan) (image.Image, error) {
	dc := gg.NewContext(plan.CanvasWidth, plan.CanvasHeight)
	dc.SetColor(r.Background)
	dc.Clear()
	dc.SetFontFace(r.face)

	for _, row := range plan.Rows {
		centerY := row.Y + plan.Spec.PanelHeight/2
		for _, slot := range row.Slots {
			p := panels[slot.Step-1]
			if p.Width() != slot.Width {
				return nil, fmt.Errorf("パネル幅が計画と一致しません %s: got %d, want %d", p.Path, p.Width(), slot.Width)
			}

			r.drawStepLetter(dc, slot.LetterX, centerY, plan.Spec.LetterWidth, slot.Step)
			dc.DrawImage(flattenOnWhite(p.Image), slot.PanelX, row.Y)

			if slot.HasArrow {
				r.drawArrow(dc,
					float64(slot.ArrowX), float64(centerY),
					float64(slot.ArrowX+plan.Spec.ArrowWidth), float64(centerY))
			}
		}
	}
	return dc.Image(), nil
}

// drawStepLetter はガター中央にステップラベルを描画します。
func (r *Renderer) drawStepLetter(dc *gg.Context, x, centerY, gutterWidth, step int) {
	dc.SetColor(r.LetterColor)
	dc.DrawStringAnchored(StepLabel(step),
		float64(x)+float64(gutterWidth)/2, float64(centerY), 0.5, 0.5)
}

// drawArrow は (x1,y1) から (x2,y2) への矢印を描画します。
// 軸線は先端の三角に食い込まないよう手前で止めます。
func (r *Renderer) drawArrow(dc *gg.Context, x1, y1, x2, y2 float64) {
	angle := math.Atan2(y2-y1, x2-x1)

	stopX := x2 - arrowHeadSize*arrowHeadGap*math.Cos(angle)
	stopY := y2 - arrowHeadSize*arrowHeadGap*math.Sin(angle)

	dc.SetColor(r.ArrowColor)
	dc.SetLineWidth(arrowLineWidth)
	dc.DrawLine(x1, y1, stopX, stopY)
	dc.Stroke()

	ax1 := x2 - arrowHeadSize*math.Cos(angle-arrowHeadSpread)
	ay1 := y2 - arrowHeadSize*math.Sin(angle-arrowHeadSpread)
	ax2 := x2 - arrowHeadSize*math.Cos(angle+arrowHeadSpread)
	ay2 := y2 - arrowHeadSize*math.Sin(angle+arrowHeadSpread)

	dc.MoveTo(x2, y2)
	dc.LineTo(ax1, ay1)
	dc.LineTo(ax2, ay2)
	dc.ClosePath()
	dc.Fill()
}

// StepLabel は絶対ステップ番号（1始まり）のラベル文字列を返します。
// A〜Z を使い切ったら番号そのままの数字表記になります。
func StepLabel(step int) string {
	if step >= 1 && step <= 26 {
		return string(rune('A' + step - 1))
	}
	return strconv.Itoa(step)
}

// flattenOnWhite は透過を持つパネルを白背景に合成して不透明化します。
// 不透明な画像に対しては見た目の変化はありません。
func flattenOnWhite(img *image.NRGBA) *image.NRGBA {
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
