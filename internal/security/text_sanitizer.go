// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は予約フォームの自由入力欄（氏名、説明、ペット名など）から
// HTMLタグを除去し、プレーンテキストとして保存できる形に正規化する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は自由入力テキストのサニタイズを行うインターフェース。
type TextSanitizer interface {
	// Sanitize はタグを除去し、連続する空白を1つにまとめ、前後の空白を取り除く。
	// script・style要素は中身ごと除去する。同一入力に対して常に同一出力を返す。
	Sanitize(raw string) string
}

// textSanitizer はbluemondayのStrictPolicyを使ったTextSanitizerの実装。
// ポリシーはスレッドセーフに共有できる。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	// StrictPolicyはテキストをHTMLエスケープして返すため、プレーンテキストに戻す
	stripped := html.UnescapeString(s.policy.Sanitize(raw))
	return strings.Join(strings.Fields(stripped), " ")
}
