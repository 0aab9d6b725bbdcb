package publisher

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// pngHeaderEnd は PNG シグネチャ + IHDR チャンクの終端オフセットです。
// IHDR のデータ長は常に13バイトなので、先頭チャンクの終わりは固定位置になります。
const pngHeaderEnd = 8 + 4 + 4 + 13 + 4

// metersPerInch は DPI からメートル毎ピクセル密度への換算係数です。
const metersPerInch = 0.0254

// OutputWriter はデータを出力先に保存するためのインターフェースです。
type OutputWriter interface {
	Write(path string, data []byte) error
}

// LocalWriter は親ディレクトリを作成しつつローカルファイルへ書き込む OutputWriter 実装です。
// 既存ファイルは無条件に上書きします。
type LocalWriter struct{}

// Write はディレクトリを必要に応じて作成し、data を path に保存します。
func (LocalWriter) Write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ファイルの書き込みに失敗しました %s: %w", path, err)
	}
	return nil
}

// Publisher は合成済みキャンバスの最終出力を担います。
// 高品質リサンプリングでの拡大、PNG エンコード、解像度メタデータの付与までが責務です。
type Publisher struct {
	writer OutputWriter
	scale  int
	dpi    int
}

// NewPublisher は Publisher を生成します。scale は整数の拡大倍率、
// dpi は出力 PNG に記録する解像度です。
func NewPublisher(writer OutputWriter, scale, dpi int) *Publisher {
	return &Publisher{
		writer: writer,
		scale:  scale,
		dpi:    dpi,
	}
}

// Publish はキャンバスを scale 倍に拡大し、PNG として outputPath に保存します。
// キャンバスは不透明なので、エンコード結果はアルファ無しの RGB になります。
func (p *Publisher) Publish(canvas image.Image, outputPath string) error {
	bounds := canvas.Bounds()
	final := imaging.Resize(canvas, bounds.Dx()*p.scale, bounds.Dy()*p.scale, imaging.Lanczos)

	data, err := p.encode(final)
	if err != nil {
		return err
	}

	if err := p.writer.Write(outputPath, data); err != nil {
		return fmt.Errorf("コラージュの保存に失敗しました: %w", err)
	}
	return nil
}

// encode は最高圧縮で PNG エンコードし、pHYs チャンクで DPI を埋め込みます。
func (p *Publisher) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNGエンコードに失敗しました: %w", err)
	}
	return injectPhys(buf.Bytes(), p.dpi), nil
}

// injectPhys は IHDR 直後に pHYs チャンクを挿入します。
// 標準の png パッケージは解像度メタデータを書けないため、ここで直接継ぎ足します。
func injectPhys(data []byte, dpi int) []byte {
	if dpi <= 0 || len(data) < pngHeaderEnd {
		return data
	}

	ppm := uint32(math.Round(float64(dpi) / metersPerInch))

	// データ部: X方向ppm(4) + Y方向ppm(4) + 単位フラグ(1, 1=メートル)
	chunk := make([]byte, 0, 4+4+9+4)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, 'p', 'H', 'Y', 's')
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:pngHeaderEnd]...)
	out = append(out, chunk...)
	out = append(out, data[pngHeaderEnd:]...)
	return out
}
