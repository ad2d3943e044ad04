package food

import (
	"sort"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// dateLabelRank は表示時の日付ラベルの並び順。
// 日付なしは最後に並べる。
var dateLabelRank = map[model.DateLabel]int{
	model.DateToday:    0,
	model.DateTomorrow: 1,
	model.Date2Days:    2,
	model.Date3Days:    3,
	model.Date4Days:    4,
	model.Date5Days:    5,
	model.Date6Days:    6,
	model.DateNone:     7,
}

// RankOf は日付ラベルの並び順を返す。定義されていないラベルはok=falseを返す。
func RankOf(label model.DateLabel) (rank int, ok bool) {
	rank, ok = dateLabelRank[label]
	return rank, ok
}

// ListFiltered は年中の行と、filterに該当するフェアの行を返す。
// filterが全て表示の場合は年中以外の全行を含める。
// 結果は年中の行、フェアの行の順で、それぞれテーブル内の順序を保つ。
func ListFiltered(items []model.FoodItem, filter string) []model.FoodEntry {
	yearRound := make([]model.FoodEntry, 0, len(items))
	fair := make([]model.FoodEntry, 0, len(items))

	for i, item := range items {
		entry := model.FoodEntry{Position: i, FoodItem: item}
		if item.Category == model.CategoryYearRound {
			yearRound = append(yearRound, entry)
			continue
		}
		if filter == model.FilterShowAll || item.Category == filter {
			fair = append(fair, entry)
		}
	}

	return append(yearRound, fair...)
}

// FilterOptions はテーブルに含まれる年中以外のカテゴリを辞書順に並べ、
// 先頭に全て表示を加えた絞り込み選択肢を返す。
func FilterOptions(items []model.FoodItem) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, item := range items {
		if item.Category == model.CategoryYearRound {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)

	return append([]string{model.FilterShowAll}, categories...)
}

// SortForDisplay は日付ラベルの並び順、同順位はカテゴリの辞書順で安定ソートした新しいスライスを返す。
// 並び順が定義されていないラベルが含まれる場合はUNKNOWN_DATE_LABELエラーを返す。
func SortForDisplay(entries []model.FoodEntry) ([]model.FoodEntry, error) {
	for _, e := range entries {
		if _, ok := RankOf(e.DateLabel); !ok {
			return nil, model.NewUnknownDateLabelError(string(e.DateLabel))
		}
	}

	sorted := make([]model.FoodEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri := dateLabelRank[sorted[i].DateLabel]
		rj := dateLabelRank[sorted[j].DateLabel]
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Category < sorted[j].Category
	})

	return sorted, nil
}
