package model

// BulletinTimestampLayout は投稿日時の書式（YYYY/MM/DD HH:MM）。
// 固定幅のため文字列の辞書順が時系列順と一致する。
const BulletinTimestampLayout = "2006/01/02 15:04"

// BulletinAllCategories は掲示板の絞り込みで全カテゴリーを表示する選択肢。
const BulletinAllCategories = "全てのカテゴリー"

// BulletinCategoryOptions は掲示板の投稿カテゴリー。
func BulletinCategoryOptions() []string {
	return []string{"煮焼", "天フ", "デザート", "バック", "張物", "キッチン共通", "その他"}
}

// IsBulletinCategory はカテゴリーが投稿カテゴリーの一つかどうかを判定する。
func IsBulletinCategory(category string) bool {
	for _, c := range BulletinCategoryOptions() {
		if c == category {
			return true
		}
	}
	return false
}

// BulletinPost は掲示板の投稿を表す。追記のみで更新・削除はしない。
type BulletinPost struct {
	Timestamp string `json:"timestamp"`
	Category  string `json:"category"`
	Content   string `json:"content"`
}
