package ident

import "github.com/google/uuid"

const (
	// DefaultKeyLength はキー切り詰めのデフォルト長
	// 複数ユーザーのキーが同じ狭いキー空間に収まる
	DefaultKeyLength = 4

	// CanonicalLength はハイフン区切りUUID文字列の長さ
	CanonicalLength = 36
)

// Generator はUUIDベースの識別子を生成する
type Generator struct {
	keyLength int
	source    func() string
}

// NewGenerator は指定したキー長のGeneratorを作成する
// keyLength が0以下の場合はDefaultKeyLengthを使用
func NewGenerator(keyLength int) *Generator {
	return NewGeneratorWithSource(keyLength, uuid.NewString)
}

// NewGeneratorWithSource は識別子の生成関数を差し替え可能なGeneratorを作成する
func NewGeneratorWithSource(keyLength int, source func() string) *Generator {
	if keyLength <= 0 {
		keyLength = DefaultKeyLength
	}
	return &Generator{
		keyLength: keyLength,
		source:    source,
	}
}

// New は新しい識別子を返す
func (g *Generator) New() string {
	return g.source()
}

// ShortKey は識別子の先頭keyLength文字を返す
func (g *Generator) ShortKey(id string) string {
	if len(id) <= g.keyLength {
		return id
	}
	return id[:g.keyLength]
}

// Pair は書き込み用のキーと値を返す
// キーは新しい識別子の先頭keyLength文字、値は識別子全体
func (g *Generator) Pair() (key, value string) {
	id := g.New()
	return g.ShortKey(id), id
}

// Key は読み取り用の短いキーを返す
func (g *Generator) Key() string {
	return g.ShortKey(g.New())
}

// KeyLength は設定されたキー長を返す
func (g *Generator) KeyLength() int {
	return g.keyLength
}
