package model

// DateLabel は食材の使用期限を表す相対ラベル。カレンダー日付ではない。
type DateLabel string

// 日付ラベルの定義
const (
	DateNone     DateLabel = "日付なし"
	DateToday    DateLabel = "当日"
	DateTomorrow DateLabel = "翌日"
	Date2Days    DateLabel = "2日後"
	Date3Days    DateLabel = "3日後"
	Date4Days    DateLabel = "4日後"
	Date5Days    DateLabel = "5日後"
	Date6Days    DateLabel = "6日後"
)

// DateLabelOptions は登録フォームで選択できる日付ラベルを表示順に返す。
func DateLabelOptions() []DateLabel {
	return []DateLabel{
		DateNone, DateToday, DateTomorrow,
		Date2Days, Date3Days, Date4Days, Date5Days, Date6Days,
	}
}

// Valid は日付ラベルが定義済みの値かどうかを判定する。
func (d DateLabel) Valid() bool {
	for _, l := range DateLabelOptions() {
		if d == l {
			return true
		}
	}
	return false
}

// CategoryYearRound は常に表示される年中カテゴリ。
const CategoryYearRound = "年中"

// FilterShowAll はフェアの絞り込みで全カテゴリを表示する選択肢。
const FilterShowAll = "全て表示"

// FoodCategoryOptions は登録フォームで提示するカテゴリ。
// 保存済みデータにはこれ以外の値も含まれうる。
func FoodCategoryOptions() []string {
	return []string{CategoryYearRound, "フェア9月〜", "フェア10月〜", "フェア11月〜", "その他"}
}

// FoodItem は日付管理の対象となる食材を表す。
// 明示的な主キーは持たず、テーブル内の位置で識別する。
type FoodItem struct {
	Name      string    `json:"name"`
	DateLabel DateLabel `json:"date_label"`
	Category  string    `json:"category"`
}

// FoodEntry はテーブル内の位置を付与した食材。
type FoodEntry struct {
	Position int `json:"position"`
	FoodItem
}
