package spec

import (
	"bytes"

	"github.com/zintix-labs/matchlab/errs"
	"gopkg.in/yaml.v3"
)

// DecodeFixed 會把 bs.Fixed 由 map[string]any 轉成你要的型別 T。
// T 應該是 struct 指標，例如 *MyRuleFixed。
//
// 規則模組（rule builder）用它取出自己專屬的設定段落。
func DecodeFixed[T any](bs *BoardSetting, out *T) error {
	// 先把 map[string]any -> YAML bytes
	b, err := yaml.Marshal(bs.Fixed)
	if err != nil {
		return errs.Wrap(err, "spec.fixed_decoder : marshal failed")
	}
	// 再把 YAML bytes -> 自定義的型別
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err = dec.Decode(out); err != nil {
		return errs.Wrap(err, "spec.fixed_decoder : decode failed")
	}
	return nil
}
