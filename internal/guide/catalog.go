// Package guide は食器の定位置ガイドと厨房マップのカタログを提供する。
package guide

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dish は食器1種類分のガイド情報。
type Dish struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Photo     string   `yaml:"photo"`
	Locations []string `yaml:"locations"`
}

// Area は厨房マップのエリア1つ分の情報。
type Area struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Photo string `yaml:"photo"`
}

// Catalog は食器ガイドと厨房マップの定義をまとめたもの。
// Dishes と Areas は表示順に並ぶ。
type Catalog struct {
	Dishes   []Dish `yaml:"dishes"`
	MapImage string `yaml:"map_image"`
	Areas    []Area `yaml:"areas"`
}

// DefaultCatalog は組み込みのカタログを返す。
func DefaultCatalog() *Catalog {
	return &Catalog{
		Dishes: []Dish{
			{ID: "dish_01", Name: "小鉢", Photo: "kobachi.png", Locations: []string{"kobachi_1.png"}},
			{ID: "dish_02", Name: "とんすい", Photo: "tonsui.png", Locations: []string{"tonsui_1.png", "tonsui_2.png"}},
			{ID: "dish_03", Name: "茶碗蒸し", Photo: "chawanmushi.png", Locations: []string{"chawanmushi_1.png"}},
		},
		MapImage: "map.png",
		Areas: []Area{
			{ID: "tare", Name: "タレ", Photo: "tare_area.png"},
			{ID: "haizen", Name: "配膳", Photo: "haizen_area.png"},
			{ID: "kome_men", Name: "米・麺", Photo: "kome_men_area.png"},
			{ID: "niyaki", Name: "煮焼", Photo: "niyaki_area.png"},
			{ID: "tenhu", Name: "天フ", Photo: "tenhu_area.png"},
			{ID: "funa", Name: "舟", Photo: "funa_area.png"},
			{ID: "dessert", Name: "デザート", Photo: "dessert_area.png"},
			{ID: "back", Name: "バック", Photo: "back_area.png"},
			{ID: "harimono", Name: "張物", Photo: "harimono_area.png"},
			{ID: "iriguchi", Name: "入口", Photo: "iriguchi_area.png"},
		},
	}
}

// Load はYAMLファイルからカタログを読み込む。
// pathが空の場合は組み込みのカタログを返す。
func Load(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guide catalog %s: %w", path, err)
	}

	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parse guide catalog %s: %w", path, err)
	}
	if err := cat.validate(); err != nil {
		return nil, fmt.Errorf("invalid guide catalog %s: %w", path, err)
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	if c.MapImage == "" {
		return fmt.Errorf("map_image is required")
	}
	seen := make(map[string]bool)
	for _, d := range c.Dishes {
		if d.ID == "" || d.Name == "" {
			return fmt.Errorf("dish id and name are required")
		}
		if seen["dish:"+d.ID] {
			return fmt.Errorf("duplicate dish id %q", d.ID)
		}
		seen["dish:"+d.ID] = true
	}
	for _, a := range c.Areas {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("area id and name are required")
		}
		if seen["area:"+a.ID] {
			return fmt.Errorf("duplicate area id %q", a.ID)
		}
		seen["area:"+a.ID] = true
	}
	return nil
}

// Dish は指定IDの食器を返す。
func (c *Catalog) Dish(id string) (Dish, bool) {
	for _, d := range c.Dishes {
		if d.ID == id {
			return d, true
		}
	}
	return Dish{}, false
}

// Area は指定IDのエリアを返す。
func (c *Catalog) Area(id string) (Area, bool) {
	for _, a := range c.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}
