package profile

import "strings"

// AliasTable は会社名の別名から正式名称への対応表
type AliasTable struct {
	// Exact は完全一致で置換する
	Exact map[string]string
	// Folded は小文字化した名前で照合する（キーは小文字）
	Folded map[string]string
}

// DefaultAliasTable は既定の別名テーブルを返す
func DefaultAliasTable() AliasTable {
	return AliasTable{
		Exact: map[string]string{
			"토스": "비바리퍼블리카",
		},
		Folded: map[string]string{
			"kasa": "카사코리아",
		},
	}
}

// Merge は other のエントリで上書きした新しいテーブルを返す
func (t AliasTable) Merge(other AliasTable) AliasTable {
	merged := AliasTable{
		Exact:  make(map[string]string, len(t.Exact)+len(other.Exact)),
		Folded: make(map[string]string, len(t.Folded)+len(other.Folded)),
	}
	for k, v := range t.Exact {
		merged.Exact[k] = v
	}
	for k, v := range other.Exact {
		merged.Exact[k] = v
	}
	for k, v := range t.Folded {
		merged.Folded[strings.ToLower(k)] = v
	}
	for k, v := range other.Folded {
		merged.Folded[strings.ToLower(k)] = v
	}
	return merged
}

// Canonical は正式名称を返す。対応が無ければ入力をそのまま返す
func (t AliasTable) Canonical(name string) string {
	if v, ok := t.Exact[name]; ok {
		return v
	}
	if v, ok := t.Folded[strings.ToLower(name)]; ok {
		return v
	}
	return name
}
