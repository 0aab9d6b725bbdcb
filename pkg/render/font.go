package render

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// fontCandidates はラベル描画に使う TrueType フォントの探索先です。
// 環境差があるため順に試し、どれも無ければ組み込みフォントに落とします。
var fontCandidates = []string{
	"arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// ResolveFontFace は候補から最初に読み込めた TrueType フェイスを返します。
// 1つも見つからない場合は低解像度の組み込みフェイスを返し、第2戻り値が真になります。
// あくまで見た目の保険であり、描画自体はどちらのフェイスでも成立します。
func ResolveFontFace(points float64) (font.Face, bool) {
	for _, path := range fontCandidates {
		if face, err := gg.LoadFontFace(path, points); err == nil {
			return face, false
		}
	}
	return basicfont.Face7x13, true
}
