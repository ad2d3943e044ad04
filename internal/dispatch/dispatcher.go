// Package dispatch はメニューによるページ遷移と、ページ内のサブビュー切り替えを扱う。
package dispatch

import (
	"github.com/hitoshi/kitchenmanual/internal/guide"
	"github.com/hitoshi/kitchenmanual/internal/model"
)

// Dispatcher はセッションの表示状態を遷移させる。
// すべての操作はアクセス認証済みのセッションでのみ行える。
type Dispatcher struct {
	catalog *guide.Catalog
}

// NewDispatcher はDispatcherを生成する。catalogがnilの場合は組み込みのカタログを使う。
func NewDispatcher(catalog *guide.Catalog) *Dispatcher {
	if catalog == nil {
		catalog = guide.DefaultCatalog()
	}
	return &Dispatcher{catalog: catalog}
}

// Navigate は表示ページを切り替え、厨房マップを全体図に戻す。
// 選択中の食器は保持する。
func (d *Dispatcher) Navigate(s *model.AuthSession, page string) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	p, ok := parsePage(page)
	if !ok {
		return model.NewUnknownPageError(page)
	}
	s.Page = p
	s.MapView = model.MapOverview
	return nil
}

// SelectMapArea は厨房マップで指定エリアの詳細表示に切り替える。
func (d *Dispatcher) SelectMapArea(s *model.AuthSession, areaID string) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	if _, ok := d.catalog.Area(areaID); !ok {
		return model.NewNotFoundError("エリア", areaID)
	}
	s.Page = model.PageKitchenMap
	s.MapView = areaID
	return nil
}

// BackToMap は厨房マップを全体図に戻す。
func (d *Dispatcher) BackToMap(s *model.AuthSession) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	s.Page = model.PageKitchenMap
	s.MapView = model.MapOverview
	return nil
}

// SelectDish は食器ガイドで指定食器の定位置表示に切り替える。
func (d *Dispatcher) SelectDish(s *model.AuthSession, dishID string) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	if _, ok := d.catalog.Dish(dishID); !ok {
		return model.NewNotFoundError("食器", dishID)
	}
	s.Page = model.PageDishGuide
	s.SelectedDish = dishID
	return nil
}

// BackToDishList は食器ガイドを一覧表示に戻す。
func (d *Dispatcher) BackToDishList(s *model.AuthSession) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	s.Page = model.PageDishGuide
	s.SelectedDish = ""
	return nil
}

func parsePage(name string) (model.Page, bool) {
	for _, p := range model.Pages() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}
