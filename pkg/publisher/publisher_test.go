package publisher

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solidCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 250, 250, 250, 255
	}
	return img
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("出力は指定倍率に拡大されたPNGになるのだ", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "nested", "pipeline.png")

		p := NewPublisher(LocalWriter{}, 2, 144)
		if err := p.Publish(solidCanvas(100, 60), out); err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		f, err := os.Open(out)
		if err != nil {
			t.Fatalf("出力ファイルが無いのだ: %v", err)
		}
		defer f.Close()

		decoded, err := png.Decode(f)
		if err != nil {
			t.Fatalf("出力がPNGとしてデコードできないのだ: %v", err)
		}
		if b := decoded.Bounds(); b.Dx() != 200 || b.Dy() != 120 {
			t.Errorf("出力寸法が違うのだ。期待: 200x120, 実際: %dx%d", b.Dx(), b.Dy())
		}
	})

	t.Run("pHYsチャンクで144DPIが記録されるのだ", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "pipeline.png")

		p := NewPublisher(LocalWriter{}, 1, 144)
		if err := p.Publish(solidCanvas(10, 10), out); err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}

		idx := bytes.Index(data, []byte("pHYs"))
		if idx < 0 {
			t.Fatal("pHYsチャンクが無いのだ")
		}

		ppmX := binary.BigEndian.Uint32(data[idx+4:])
		ppmY := binary.BigEndian.Uint32(data[idx+8:])
		// 144 DPI = round(144 / 0.0254) = 5669 ピクセル/メートル
		if ppmX != 5669 || ppmY != 5669 {
			t.Errorf("解像度メタデータが違うのだ。期待: 5669/5669, 実際: %d/%d", ppmX, ppmY)
		}
		if unit := data[idx+12]; unit != 1 {
			t.Errorf("単位フラグはメートル指定(1)であるべきなのだ: %d", unit)
		}
	})

	t.Run("既存ファイルは無条件に上書きされるのだ", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "pipeline.png")
		if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
			t.Fatal(err)
		}

		p := NewPublisher(LocalWriter{}, 1, 144)
		if err := p.Publish(solidCanvas(10, 10), out); err != nil {
			t.Fatalf("保存に失敗したのだ: %v", err)
		}

		f, err := os.Open(out)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		if _, err := png.Decode(f); err != nil {
			t.Errorf("上書き後の内容がPNGではないのだ: %v", err)
		}
	})

	t.Run("同じ入力からは同じ画素の出力が得られるのだ", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "a.png")
		second := filepath.Join(dir, "b.png")

		canvas := solidCanvas(30, 20)
		canvas.Set(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

		p := NewPublisher(LocalWriter{}, 2, 144)
		if err := p.Publish(canvas, first); err != nil {
			t.Fatal(err)
		}
		if err := p.Publish(canvas, second); err != nil {
			t.Fatal(err)
		}

		a, err := os.ReadFile(first)
		if err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(second)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Error("同一入力からの出力が一致しないのだ")
		}
	})
}

func TestInjectPhys(t *testing.T) {
	t.Run("短すぎるデータや無効なDPIはそのまま返すのだ", func(t *testing.T) {
		short := []byte{1, 2, 3}
		if got := injectPhys(short, 144); !bytes.Equal(got, short) {
			t.Error("短いデータは変更せず返すべきなのだ")
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, solidCanvas(4, 4)); err != nil {
			t.Fatal(err)
		}
		if got := injectPhys(buf.Bytes(), 0); !bytes.Equal(got, buf.Bytes()) {
			t.Error("DPI 0 では変更せず返すべきなのだ")
		}
	})

	t.Run("挿入後もPNGとしてデコードできるのだ", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, solidCanvas(4, 4)); err != nil {
			t.Fatal(err)
		}

		out := injectPhys(buf.Bytes(), 144)
		if _, err := png.Decode(bytes.NewReader(out)); err != nil {
			t.Errorf("pHYs挿入後にデコードできないのだ: %v", err)
		}
	})
}
