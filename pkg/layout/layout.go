package layout

// Spec はコラージュの幾何パラメータをまとめた値オブジェクトです。
// すべてピクセル単位で、レンダリング側と共有されます。
type Spec struct {
	PanelHeight int // 全パネルが揃えられる高さ
	LetterWidth int // パネル左のラベル用ガター幅
	ArrowWidth  int // 連続するパネル間の矢印が占める幅
	Padding     int // キャンバス外周の余白
	RowGap      int // 1段目と2段目の間の隙間
	RowCapacity int // 1段目に置けるパネルの最大数
}

// Slot は1枚のパネルの配置位置を表します。座標はキャンバス原点基準です。
type Slot struct {
	Step     int  // 両段を通した絶対ステップ番号（1始まり、ラベルの元になる）
	LetterX  int  // ラベル用ガターの左端
	PanelX   int  // パネル画像の左端
	Width    int  // パネル幅
	HasArrow bool // このパネルの直後に矢印を描くか
	ArrowX   int  // 矢印の開始 x 座標（HasArrow が真のときのみ有効）
}

// Row は1段分のスロット列です。段同士を繋ぐコネクタはありません。
type Row struct {
	Y     int // 段の上端
	Width int // ガター・パネル・矢印を合計した段の幅
	Slots []Slot
}

// Plan は描画に必要な座標をすべて事前計算したレイアウト計画です。
type Plan struct {
	Spec         Spec
	CanvasWidth  int
	CanvasHeight int
	Rows         []Row
}

// RowWidth は指定のパネル幅列を1段に並べたときの段全体の幅を返します。
// 各パネルがガター幅を伴い、パネル間ごとに矢印幅が加わります。
func RowWidth(widths []int, spec Spec) int {
	total := 0
	for _, w := range widths {
		total += spec.LetterWidth + w
	}
	if n := len(widths); n > 1 {
		total += spec.ArrowWidth * (n - 1)
	}
	return total
}

// BuildPlan はパネル幅の列からレイアウト計画を構築します。
// 先頭 min(RowCapacity, N) 枚が1段目、残りが2段目になります。
// 2段目は1段目の幅に対して水平センタリングされます。
func BuildPlan(widths []int, spec Spec) Plan {
	n := len(widths)
	split := spec.RowCapacity
	if split > n {
		split = n
	}
	row1 := widths[:split]
	row2 := widths[split:]

	w1 := RowWidth(row1, spec)
	w2 := 0
	if len(row2) > 0 {
		w2 = RowWidth(row2, spec)
	}

	plan := Plan{
		Spec:        spec,
		CanvasWidth: max(w1, w2) + spec.Padding*2,
	}
	if len(row2) > 0 {
		plan.CanvasHeight = spec.PanelHeight*2 + spec.RowGap + spec.Padding*2
	} else {
		plan.CanvasHeight = spec.PanelHeight + spec.Padding*2
	}

	plan.Rows = append(plan.Rows, buildRow(row1, spec, spec.Padding, spec.Padding, 1, w1))
	if len(row2) > 0 {
		startX := spec.Padding + max(0, (w1-w2)/2)
		startY := spec.Padding + spec.PanelHeight + spec.RowGap
		plan.Rows = append(plan.Rows, buildRow(row2, spec, startX, startY, split+1, w2))
	}
	return plan
}

// buildRow は1段分のスロット座標をカーソル走査で割り付けます。
func buildRow(widths []int, spec Spec, startX, startY, stepStart, rowWidth int) Row {
	row := Row{Y: startY, Width: rowWidth, Slots: make([]Slot, 0, len(widths))}

	x := startX
	for i, w := range widths {
		slot := Slot{
			Step:    stepStart + i,
			LetterX: x,
			PanelX:  x + spec.LetterWidth,
			Width:   w,
		}
		x += spec.LetterWidth + w
		if i < len(widths)-1 {
			slot.HasArrow = true
			slot.ArrowX = x
			x += spec.ArrowWidth
		}
		row.Slots = append(row.Slots, slot)
	}
	return row
}
