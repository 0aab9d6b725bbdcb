package render

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/shouni/go-collage-kit/pkg/layout"
	"github.com/shouni/go-collage-kit/pkg/panel"
)

var testSpec = layout.Spec{
	PanelHeight: 40,
	LetterWidth: 18,
	ArrowWidth:  10,
	Padding:     12,
	RowGap:      20,
	RowCapacity: 3,
}

// solidPanel は単色のテストパネルを生成するヘルパーです。
func solidPanel(w, h int, c color.NRGBA) *panel.Panel {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return &panel.Panel{Image: img}
}

func newTestRenderer() *Renderer {
	// フォント探索に依存しないよう、組み込みフェイスで固定します
	return NewRenderer(basicfont.Face7x13)
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestStepLabel(t *testing.T) {
	cases := []struct {
		step int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{5, "E"},
		{26, "Z"},
		{27, "27"},
		{30, "30"},
	}

	for _, tc := range cases {
		if got := StepLabel(tc.step); got != tc.want {
			t.Errorf("ステップ%dのラベルが違うのだ。期待: %q, 実際: %q", tc.step, tc.want, got)
		}
	}
}

func TestRenderer_Compose(t *testing.T) {
	t.Run("キャンバスは計画どおりの寸法になるのだ", func(t *testing.T) {
		panels := []*panel.Panel{
			solidPanel(60, 40, color.NRGBA{R: 255, A: 255}),
			solidPanel(80, 40, color.NRGBA{G: 255, A: 255}),
		}
		plan := layout.BuildPlan([]int{60, 80}, testSpec)

		canvas, err := newTestRenderer().Compose(panels, plan)
		if err != nil {
			t.Fatalf("合成に失敗したのだ: %v", err)
		}

		b := canvas.Bounds()
		if b.Dx() != plan.CanvasWidth || b.Dy() != plan.CanvasHeight {
			t.Errorf("キャンバス寸法が違うのだ。期待: %dx%d, 実際: %dx%d",
				plan.CanvasWidth, plan.CanvasHeight, b.Dx(), b.Dy())
		}
	})

	t.Run("背景・パネル・矢印がそれぞれの位置に描かれるのだ", func(t *testing.T) {
		red := color.NRGBA{R: 255, A: 255}
		green := color.NRGBA{G: 255, A: 255}
		panels := []*panel.Panel{
			solidPanel(60, 40, red),
			solidPanel(80, 40, green),
		}
		plan := layout.BuildPlan([]int{60, 80}, testSpec)

		canvas, err := newTestRenderer().Compose(panels, plan)
		if err != nil {
			t.Fatalf("合成に失敗したのだ: %v", err)
		}

		// 左上隅は背景色のまま
		if got := nrgbaAt(canvas, 0, 0); got != DefaultBackground {
			t.Errorf("背景色が違うのだ。期待: %v, 実際: %v", DefaultBackground, got)
		}

		// 各パネルの中心はパネルの色
		row := plan.Rows[0]
		centerY := row.Y + testSpec.PanelHeight/2
		slot1, slot2 := row.Slots[0], row.Slots[1]
		if got := nrgbaAt(canvas, slot1.PanelX+30, centerY); got != red {
			t.Errorf("1枚目パネルの色が違うのだ。期待: %v, 実際: %v", red, got)
		}
		if got := nrgbaAt(canvas, slot2.PanelX+40, centerY); got != green {
			t.Errorf("2枚目パネルの色が違うのだ。期待: %v, 実際: %v", green, got)
		}

		// 矢印の軸線上は背景色ではない
		if got := nrgbaAt(canvas, slot1.ArrowX+2, centerY); got == DefaultBackground {
			t.Error("矢印が描かれていないのだ")
		}
	})

	t.Run("透過パネルは白背景に合成されるのだ", func(t *testing.T) {
		transparent := solidPanel(40, 40, color.NRGBA{})
		plan := layout.BuildPlan([]int{40}, testSpec)

		canvas, err := newTestRenderer().Compose([]*panel.Panel{transparent}, plan)
		if err != nil {
			t.Fatalf("合成に失敗したのだ: %v", err)
		}

		slot := plan.Rows[0].Slots[0]
		want := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if got := nrgbaAt(canvas, slot.PanelX+20, plan.Rows[0].Y+20); got != want {
			t.Errorf("透過部分が白くなっていないのだ。期待: %v, 実際: %v", want, got)
		}
	})

	t.Run("パネル幅が計画と食い違っていたらエラーなのだ", func(t *testing.T) {
		panels := []*panel.Panel{solidPanel(60, 40, color.NRGBA{A: 255})}
		plan := layout.BuildPlan([]int{99}, testSpec)

		if _, err := newTestRenderer().Compose(panels, plan); err == nil {
			t.Error("エラーが返るべきなのだ")
		}
	})
}
