package model

import "time"

// Page はメニューから遷移できるページを表す。
type Page string

// ページの定義
const (
	PageHome       Page = "home"
	PageFoodDate   Page = "food_date"
	PageDishGuide  Page = "dish_guide"
	PageBulletin   Page = "bulletin"
	PageKitchenMap Page = "kitchen_map"
	PageDeleteTool Page = "delete_tool"
)

// Pages は全ページをメニューの表示順に返す。
func Pages() []Page {
	return []Page{PageHome, PageFoodDate, PageDishGuide, PageBulletin, PageKitchenMap, PageDeleteTool}
}

// MapOverview は厨房マップの全体図を表示中であることを示すサブビュー値。
const MapOverview = ""

// AuthSession は閲覧者1人分のセッション状態を表す。
// 永続化はせず、プロセス内でのみ保持する。
type AuthSession struct {
	ID            string
	Authenticated bool
	IsEditor      bool

	// 画面遷移の状態
	Page         Page
	MapView      string // MapOverview または表示中のエリアID
	SelectedDish string // 空文字は食器一覧を表示中

	CreatedAt time.Time
	ExpiresAt time.Time
}

var pageLabels = map[Page]string{
	PageHome:       "トップへ",
	PageFoodDate:   "食材の日付",
	PageDishGuide:  "食器ガイド",
	PageBulletin:   "掲示板",
	PageKitchenMap: "厨房マップ",
	PageDeleteTool: "登録データ削除",
}

// Label はメニューに表示するページ名を返す。
func (p Page) Label() string {
	return pageLabels[p]
}
