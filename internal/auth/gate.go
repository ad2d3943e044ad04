// Package auth は閲覧用・編集用の共有パスワードによるアクセス認証と、
// セッションの発行を提供する。
package auth

import (
	"crypto/subtle"

	"github.com/hitoshi/kitchenmanual/internal/model"
)

// Gate は2つの共有パスワードとセッションのフラグを突き合わせる。
// パスワードは平文のまま比較する。ロックアウトは行わない。
type Gate struct {
	viewerSecret string
	editorSecret string
}

// NewGate はGateを生成する。
func NewGate(viewerSecret, editorSecret string) *Gate {
	return &Gate{
		viewerSecret: viewerSecret,
		editorSecret: editorSecret,
	}
}

// CheckViewer は閲覧用パスワードを検証する。
// 一致した場合は認証済みにし、編集権限は必ず解除する。
// 一致しない場合はセッションを変更せずAUTH_FAILEDを返す。
func (g *Gate) CheckViewer(s *model.AuthSession, input string) error {
	if !secretEqual(input, g.viewerSecret) {
		return model.NewAuthFailedError()
	}
	s.Authenticated = true
	s.IsEditor = false
	return nil
}

// CheckEditor は編集用パスワードを検証する。
// 未認証のセッションでは比較自体を行わずUNAUTHENTICATEDを返す。
func (g *Gate) CheckEditor(s *model.AuthSession, input string) error {
	if !s.Authenticated {
		return model.NewUnauthenticatedError()
	}
	if !secretEqual(input, g.editorSecret) {
		return model.NewAuthFailedError()
	}
	s.IsEditor = true
	return nil
}

// Logout は編集権限のみを解除する。閲覧認証は維持する。
func (g *Gate) Logout(s *model.AuthSession) {
	s.IsEditor = false
}

func secretEqual(input, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(input), []byte(secret)) == 1
}
