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

// Package index 提供服務主頁：列出可用的 endpoints，方便人工巡檢。
package index

import "net/http"

const indexHTML = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <title>Matchlab</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 720px; margin: 48px auto; padding: 20px 24px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 12px; font-size: 22px; }
    code { background:#0b1224; border:1px solid #1f2738; border-radius:6px; padding:2px 6px; }
    li { margin: 6px 0; }
    a { color:#38bdf8; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>Matchlab</h1>
    <ul>
      <li><a href="/dev">/dev</a> — dev panel</li>
      <li><code>GET/POST /v1/play</code> — 單次換位</li>
      <li><code>GET/POST /v1/sim</code> — 盤面統計模擬</li>
      <li><code>GET/POST /v1/simplayer</code> — 玩家歷程模擬</li>
      <li><code>POST /v1/simbycfg</code> — 以 JSON 設定直接模擬</li>
      <li><code>POST /v1/stat</code> — 離線紀錄重算報表</li>
    </ul>
  </div>
</body>
</html>`

func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
