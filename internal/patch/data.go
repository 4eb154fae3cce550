package patch

// rawPatchRow is the literal per-patch catalogue data, transcribed exactly
// from the original game's patch_manager.rs generate_patches! table: id 0 is
// the starting patch, ids 1-32 are the normal (shuffled) patches, ids 33-37
// are the special (single-tile) patches awarded at track positions
// {26,32,38,44,50} respectively.
type rawPatchRow struct {
	id                                uint8
	buttonCost, timeCost, buttonIncome uint8
	tiles                             [][]bool
}

func row(tiles ...string) [][]bool {
	out := make([][]bool, len(tiles))
	for i, line := range tiles {
		r := make([]bool, len(line))
		for j, ch := range line {
			r[j] = ch == '1'
		}
		out[i] = r
	}
	return out
}

func rawPatchData() []rawPatchRow {
	return []rawPatchRow{
		{0, 2, 1, 0, row("11")},
		{1, 10, 4, 3, row("100", "110", "011")},
		{2, 5, 3, 1, row("01110", "11111", "01110")},
		{3, 8, 6, 3, row("011", "011", "110")},
		{4, 7, 6, 3, row("011", "110")},
		{5, 4, 2, 0, row("10", "11", "11", "01")},
		{6, 2, 1, 0, row("010", "011", "110", "010")},
		{7, 2, 3, 0, row("101", "111", "101")},
		{8, 2, 2, 0, row("10", "11", "11")},
		{9, 6, 5, 2, row("11", "11")},
		{10, 2, 3, 1, row("01", "01", "11", "10")},
		{11, 1, 2, 0, row("0001", "1111", "1000")},
		{12, 10, 5, 3, row("11", "11", "01", "01")},
		{13, 7, 2, 2, row("010", "010", "010", "111")},
		{14, 4, 6, 2, row("01", "01", "11")},
		{15, 7, 4, 2, row("0110", "1111")},
		{16, 1, 5, 1, row("11", "01", "01", "11")},
		{17, 5, 4, 2, row("010", "111", "010")},
		{18, 10, 3, 2, row("1000", "1111")},
		{19, 4, 2, 1, row("001", "111")},
		{20, 1, 4, 1, row("00100", "11111", "00100")},
		{21, 1, 3, 0, row("01", "11")},
		{22, 1, 2, 0, row("101", "111")},
		{23, 3, 1, 0, row("01", "11")},
		{24, 2, 2, 0, row("01", "11", "01")},
		{25, 2, 2, 0, row("111")},
		{26, 3, 2, 1, row("01", "11", "10")},
		{27, 7, 1, 1, row("11111")},
		{28, 3, 3, 1, row("1111")},
		{29, 5, 5, 2, row("010", "010", "111")},
		{30, 3, 6, 2, row("010", "111", "101")},
		{31, 3, 4, 1, row("0010", "1111")},
		{32, 0, 3, 1, row("0100", "1111", "0100")},
		{33, 0, 0, 0, row("1")},
		{34, 0, 0, 0, row("1")},
		{35, 0, 0, 0, row("1")},
		{36, 0, 0, 0, row("1")},
		{37, 0, 0, 0, row("1")},
	}
}
