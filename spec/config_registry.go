package spec

import (
	"encoding/json"

	"github.com/zintix-labs/matchlab/errs"
	"gopkg.in/yaml.v3"
)

// GetBoardSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetBoardSettingByYAML(data []byte) (*BoardSetting, error) {
	bs := &BoardSetting{}
	if err := yaml.Unmarshal(data, bs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := bs.init(); err != nil {
		return nil, errs.Wrap(err, "board setting initialized err")
	}

	return bs, nil
}

// GetBoardSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetBoardSettingByJSON(data []byte) (*BoardSetting, error) {
	bs := &BoardSetting{}
	if err := json.Unmarshal(data, bs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := bs.init(); err != nil {
		return nil, errs.Wrap(err, "board setting initialized err")
	}

	return bs, nil
}
