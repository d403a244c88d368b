package tagging

import (
	"crypto/sha256"
	"encoding/hex"
)

const anonPrefix = "talent-"

// AnonymizeName は実名から保存用の匿名名を作る
// SHA-256 の16進表記の先頭10文字を使う
func AnonymizeName(realName string) string {
	sum := sha256.Sum256([]byte(realName))
	return anonPrefix + hex.EncodeToString(sum[:])[:10]
}
