// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は掲示板への投稿内容からHTMLマークアップを取り除き、
// 表示側がどのように描画してもスクリプトが実行されないプレーンテキストにする。
// bluemondayのStrictPolicyで全タグを除去した後、エスケープされた文字を元に戻す。
// 元に戻した結果に新たなタグが現れなくなるまで繰り返す。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService は投稿内容のサニタイズ機能のインターフェースを定義する。
type ContentSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
	// script, styleタグは中身ごと除去される。
	// 前後の空白は取り除く。空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// maxSanitizePasses はタグ除去と復元を繰り返す上限回数。
const maxSanitizePasses = 8

// Sanitize は投稿内容をプレーンテキストに変換する。
// "&lt;script&gt;"のように実体参照で書かれたタグも、復元後の再除去で取り除く。
// 上限回数で収まらない入力からは山括弧をすべて取り除く。
func (s *contentSanitizer) Sanitize(raw string) string {
	text := raw
	for range maxSanitizePasses {
		next := html.UnescapeString(s.policy.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(text))
}

var _ ContentSanitizerService = (*contentSanitizer)(nil)
