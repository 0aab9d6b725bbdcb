package panel

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/disintegration/imaging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// sharpnessFactor はロード時に適用するシャープネス強調の係数です。
	// 1.0 が無加工、1.15 で +15% の強調になります（内容は変えず輪郭だけ立てます）。
	sharpnessFactor = 1.15
	// blurSigma はシャープネス計算の基準となる平滑化コピーのぼかし量です。
	blurSigma = 1.0

	cacheExpiration = 30 * time.Minute
	cacheCleanup    = 10 * time.Minute
)

// Panel はコラージュに配置される、準備済みの1枚のパネル画像です。
type Panel struct {
	Image *image.NRGBA
	Path  string
}

// Width はパネルの現在のピクセル幅を返します。
func (p *Panel) Width() int {
	return p.Image.Bounds().Dx()
}

// Height はパネルの現在のピクセル高さを返します。
func (p *Panel) Height() int {
	return p.Image.Bounds().Dy()
}

// Preparer は入力画像のデコード・シャープネス強調・リサイズを担います。
// 同一パスへの準備結果は内部キャッシュで再利用され、並行呼び出しは
// singleflight で1回の処理に集約されます。
type Preparer struct {
	targetHeight int
	cache        *cache.Cache
	group        singleflight.Group
}

// NewPreparer は指定の目標高さでパネルを準備する Preparer を生成します。
func NewPreparer(targetHeight int) *Preparer {
	return &Preparer{
		targetHeight: targetHeight,
		cache:        cache.New(cacheExpiration, cacheCleanup),
	}
}

// TargetHeight は準備後のパネルが揃えられる高さを返します。
func (p *Preparer) TargetHeight() int {
	return p.targetHeight
}

// Prepare は1枚の画像を読み込み、シャープネス強調とリサイズを施したパネルを返します。
// 入力ファイルは1回の実行中は不変とみなし、パスをキーに結果をキャッシュします。
func (p *Preparer) Prepare(ctx context.Context, path string) (*Panel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if v, ok := p.cache.Get(path); ok {
		return v.(*Panel), nil
	}

	val, err, _ := p.group.Do(path, func() (interface{}, error) {
		// singleflight で待機中に他のゴルーチンが準備を終えている可能性があるため、
		// コールバック内で再度キャッシュを確認
		if v, ok := p.cache.Get(path); ok {
			return v, nil
		}

		prepared, err := p.load(path)
		if err != nil {
			return nil, err
		}

		p.cache.Set(path, prepared, cache.DefaultExpiration)
		return prepared, nil
	})
	if err != nil {
		return nil, err
	}

	prepared, ok := val.(*Panel)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return prepared, nil
}

// PrepareAll は複数パスのパネル準備を並列に実行し、入力と同じ順序で結果を返します。
func (p *Preparer) PrepareAll(ctx context.Context, paths []string) ([]*Panel, error) {
	panels := make([]*Panel, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			prepared, err := p.Prepare(egCtx, path)
			if err != nil {
				return fmt.Errorf("パネルの準備に失敗しました %s: %w", path, err)
			}
			panels[i] = prepared
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return panels, nil
}

// load はデコードから高さ揃えまでの実処理です（非公開メソッド）。
func (p *Preparer) load(path string) (*Panel, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	img := enhanceSharpness(imaging.Clone(src), sharpnessFactor)
	img = resizeToHeight(img, p.targetHeight)

	return &Panel{Image: img, Path: path}, nil
}

// enhanceSharpness は平滑化コピーから元画像方向へ factor 倍だけ外挿することで
// シャープネスを強調します。factor 1.0 で元画像のまま、1.0 超で輪郭が強調されます。
func enhanceSharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	blurred := imaging.Blur(img, blurSigma)

	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			oi := img.PixOffset(x, y)
			bi := blurred.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				o := float64(img.Pix[oi+c])
				b := float64(blurred.Pix[bi+c])
				out.Pix[oi+c] = clampByte(b + (o-b)*factor)
			}
		}
	}
	return out
}

// resizeToHeight はアスペクト比を保ったまま高さを targetH に揃えます。
// 幅は比例計算して最近傍の整数ピクセルに丸めます。
func resizeToHeight(img *image.NRGBA, targetH int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if h == targetH || h == 0 {
		return img
	}
	newW := int(math.Round(float64(w) * float64(targetH) / float64(h)))
	return imaging.Resize(img, newW, targetH, imaging.Lanczos)
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
