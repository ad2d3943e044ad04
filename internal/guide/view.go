package guide

import (
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// DishSummary は食器一覧の1行分。
type DishSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Photo ImageRef `json:"photo"`
}

// DishDetail は選択中の食器の定位置表示。
type DishDetail struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Locations []ImageRef `json:"locations"`
}

// DishGuideView は食器ガイド画面の表示内容。
// Selected が nil の場合は一覧を表示する。
type DishGuideView struct {
	Dishes   []DishSummary `json:"dishes"`
	Selected *DishDetail   `json:"selected,omitempty"`
}

// AreaButton は厨房マップのエリア選択ボタン。
type AreaButton struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MapView は厨房マップ画面の表示内容。
// Area が空の場合は全体図を表示する。
type MapView struct {
	Area  string       `json:"area,omitempty"`
	Image ImageRef     `json:"image"`
	Areas []AreaButton `json:"areas,omitempty"`
}

// Service はカタログとセッションのサブビューから画面表示を組み立てる。
type Service struct {
	catalog  *Catalog
	resolver *AssetResolver
}

// NewService はServiceを生成する。
func NewService(catalog *Catalog, resolver *AssetResolver) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if resolver == nil {
		resolver = NewAssetResolver("")
	}
	return &Service{catalog: catalog, resolver: resolver}
}

// Catalog はカタログを返す。
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// DishGuide は食器ガイドの表示内容を返す。
// selectedがカタログにないIDの場合は一覧表示に戻す。
func (s *Service) DishGuide(selected string) DishGuideView {
	view := DishGuideView{Dishes: make([]DishSummary, 0, len(s.catalog.Dishes))}
	for _, d := range s.catalog.Dishes {
		view.Dishes = append(view.Dishes, DishSummary{
			ID:    d.ID,
			Name:  d.Name,
			Photo: s.resolver.Resolve(d.Photo, d.Name),
		})
	}

	if selected == "" {
		return view
	}
	d, ok := s.catalog.Dish(selected)
	if !ok {
		return view
	}

	detail := &DishDetail{ID: d.ID, Name: d.Name, Locations: make([]ImageRef, 0, len(d.Locations))}
	for _, loc := range d.Locations {
		detail.Locations = append(detail.Locations, s.resolver.Resolve(loc, d.Name+"の保管場所"))
	}
	view.Selected = detail
	return view
}

// KitchenMap は厨房マップの表示内容を返す。
// mapViewが全体図またはカタログにないIDの場合は全体図とエリアボタンを返す。
func (s *Service) KitchenMap(mapView string) MapView {
	if mapView != model.MapOverview {
		if a, ok := s.catalog.Area(mapView); ok {
			return MapView{
				Area:  a.ID,
				Image: s.resolver.Resolve(a.Photo, a.Name),
			}
		}
	}

	buttons := make([]AreaButton, 0, len(s.catalog.Areas))
	for _, a := range s.catalog.Areas {
		buttons = append(buttons, AreaButton{ID: a.ID, Name: a.Name})
	}
	return MapView{
		Image: s.resolver.Resolve(s.catalog.MapImage, "厨房の全体図"),
		Areas: buttons,
	}
}
