package guide

import (
	"os"
	"path/filepath"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// ImageRef は画面に表示する画像1枚分の参照。
// 画像が見つからない場合もレスポンス全体は失敗させず、Errorに理由を載せる。
type ImageRef struct {
	Path      string          `json:"path"`
	Caption   string          `json:"caption,omitempty"`
	Available bool            `json:"available"`
	Error     *model.APIError `json:"error,omitempty"`
}

// AssetResolver は画像ファイルの存在をassetディレクトリ基準で確認する。
type AssetResolver struct {
	dir string
}

// NewAssetResolver はAssetResolverを生成する。dirが空の場合はカレントディレクトリを使う。
func NewAssetResolver(dir string) *AssetResolver {
	if dir == "" {
		dir = "."
	}
	return &AssetResolver{dir: dir}
}

// Dir は画像の配置ディレクトリを返す。
func (r *AssetResolver) Dir() string {
	return r.dir
}

// Resolve は画像の存在を確認してImageRefを返す。
func (r *AssetResolver) Resolve(name, caption string) ImageRef {
	ref := ImageRef{Path: name, Caption: caption}

	info, err := os.Stat(filepath.Join(r.dir, filepath.FromSlash(name)))
	if err != nil || info.IsDir() {
		ref.Error = model.NewAssetNotFoundError(name)
		return ref
	}
	ref.Available = true
	return ref
}
