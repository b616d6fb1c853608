// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs 提供全專案統一的錯誤型別與分級。
//
// 分級讓最上層（server、cmd）決定怎麼收場：Fatal 代表設定或程式
// 錯誤，流程必須中止；Warn 是可預期、可回報給呼叫端的失敗；
// Log 只需記錄。包裝（Wrap）沿用下層的分級，來路不明的錯誤一律
// 當 Fatal 處理。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel 是錯誤嚴重度。
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (lv ErrLevel) String() string {
	switch lv {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	}
	return ""
}

// ErrLv 回傳分級名稱字串。
func ErrLv(lv ErrLevel) string { return lv.String() }

// E 是統一的錯誤型別。Message 是主訊息，Extra 是呼叫端追加的
// 上下文，Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	s := "errlv=" + e.ErrLv.String() + " " + e.Message
	if e.Extra != "" {
		s += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return s
}

// Unwrap 讓 errors.Is / errors.As 能向下展開。
func (e *E) Unwrap() error { return e.Cause }

// IsFatal 回傳 err（或其包裝鏈中任一層）是否為 Fatal 級。
// 非本包錯誤一律視為 Fatal。
func IsFatal(err error) bool {
	e, ok := AsErr(err)
	if !ok {
		return err != nil
	}
	return e.ErrLv == Fatal
}

// New 建立指定分級的錯誤。
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func NewLog(msg string) *E { return New(Log, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，另外附上不影響主訊息的上下文。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 用新的訊息包住 cause。
//
// 分級規則：cause 是 *E 就沿用它的分級；否則（標準庫或三方錯誤）
// 一律視為 Fatal。可預期又可處理的情境不要 Wrap，直接用 New 系列
// 自行指定分級。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause), msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 同 Wrap，另外附上上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := NewWithExtra(levelOf(cause), msg, extra)
	r.Cause = cause
	return r
}

func levelOf(cause error) ErrLevel {
	var e *E
	if errors.As(cause, &e) {
		return e.ErrLv
	}
	return Fatal
}

// AsErr 嘗試把 err 還原成 *E。
func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}
