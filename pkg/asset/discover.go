package asset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// 探索フェーズで発生しうる失敗の種別です。呼び出し側は errors.Is で判別できます。
var (
	// ErrAssetsDirMissing はアセットディレクトリ自体が存在しない場合に返されます。
	ErrAssetsDirMissing = errors.New("assets directory not found")
	// ErrNoMatchingImages はディレクトリは存在するがパターンに一致する画像が無い場合に返されます。
	ErrNoMatchingImages = errors.New("no matching images")
)

// 数値でない接尾辞を持つファイルは、数値付きのファイル全てより後ろに並べます。
const nonNumericRank = math.MaxInt

// Discover は dir 内で pattern に一致する画像ファイルを探索し、
// ステップ順に安定ソートしたパスのリストを返します。
//
// 並び順は (1) ファイル名から抽出した数値インデックスの昇順、(2) 名前の辞書順です。
// ベース名そのもの（接尾辞なし）はインデックス 0 として先頭に来ます。
// 例: GA_image.png, GA_image1.png, GA_image2.png, ..., GA_imagefinal.png
func Discover(dir, pattern string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetsDirMissing, dir)
		}
		return nil, fmt.Errorf("アセットディレクトリの確認に失敗しました %s: %w", dir, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("パターンが不正です %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoMatchingImages, pattern, dir)
	}

	prefix := patternPrefix(pattern)
	sort.SliceStable(matches, func(i, j int) bool {
		ri, ni := sortKey(matches[i], prefix)
		rj, nj := sortKey(matches[j], prefix)
		if ri != rj {
			return ri < rj
		}
		return ni < nj
	})
	return matches, nil
}

// patternPrefix はグロブパターンから固定のベース名部分を取り出します。
// 例: "GA_image*.png" -> "GA_image"
func patternPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		return pattern[:i]
	}
	return strings.TrimSuffix(pattern, filepath.Ext(pattern))
}

// sortKey はパスから (数値ランク, 比較用ファイル名) を導出します。
// 接尾辞なしは 0、数値接尾辞はその値、それ以外は nonNumericRank です。
func sortKey(path, prefix string) (int, string) {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	suffix := strings.TrimPrefix(stem, prefix)
	if suffix == "" {
		return 0, stem
	}
	if n, err := strconv.Atoi(suffix); err == nil {
		return n, stem
	}
	return nonNumericRank, stem
}
