// Copyright (C) 2020 The exreport Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package render

import (
	"html/template"
)

var reportTmpl = template.Must(
	template.New("report").Funcs(template.FuncMap{
		// Variable values are escaped once during extraction, so bypass the
		// automatic escaping to avoid a double pass.
		"preescaped": func(s string) template.HTML { return template.HTML(s) },
	}).Parse(reportTmplText),
)

const reportTmplText = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{if .ExceptionType}}{{.ExceptionType}}: {{.ExceptionValue}}{{else}}Report{{end}}</title>
  <style>
    html * { padding: 0; margin: 0; }
    body * { padding: 10px 20px; }
    body * * { padding: 0; }
    body { font-family: sans-serif; background-color: #fff; color: #000; }
    body > div { border-bottom: 1px solid #ddd; }
    h1 { font-weight: normal; }
    h2 { margin-bottom: .8em; }
    h3 { margin: 1em 0 .5em 0; }
    table { border: 1px solid #ccc; border-collapse: collapse; width: 100%; background: white; }
    tbody td, tbody th { vertical-align: top; padding: 2px 3px; }
    thead th { padding: 1px 6px 1px 3px; background: #fefefe; text-align: left; font-weight: normal; font-size: 11px; border: 1px solid #ddd; }
    tbody th { width: 12em; text-align: right; color: #666; padding-right: .5em; }
    table.vars { margin: 5px 0 2px 40px; }
    table.vars td, table.req td { font-family: monospace; }
    table td { font-family: monospace; white-space: pre-wrap; }
    #summary { background: #ffc; }
    #summary h2 { font-weight: normal; color: #666; }
    #traceback { background: #eee; }
    #summary table { border: none; background: transparent; }
    .traceback-frames { margin-left: 10px; }
    .traceback-frames li.frame { padding-bottom: 1em; color: #666; list-style-type: none; }
    .traceback-frames li.frame.user { background-color: #e0ebff; }
    .traceback-frames code.fname { color: #000; }
    .cause { margin: 1em 0; padding: 5px 10px; background: #ffc; border: 1px solid #ddd; font-style: italic; }
    div.context { padding: 10px 0; overflow: hidden; }
    div.context ol { padding-left: 30px; margin: 0 10px; list-style-position: inside; }
    div.context ol li { font-family: monospace; white-space: pre; color: #777; }
    div.context ol li.current-line { color: #000; background-color: #ccc; }
    #unicode-hint { background: #eee; }
    #unicode-hint pre { margin: 5px 0; font-family: monospace; white-space: pre-wrap; }
  </style>
</head>
<body>

<div id="summary">
  <h1>{{if .ExceptionType}}{{.ExceptionType}}{{else}}Report{{end}}</h1>
  {{if .ExceptionValue}}<pre class="exception_value">{{.ExceptionValue}}</pre>{{end}}
  <table class="meta">
    <tr><th>Executable:</th><td>{{.Executable}}</td></tr>
    <tr><th>Runtime:</th><td>go {{.RuntimeVersion}} ({{.GOOS}}/{{.GOARCH}})</td></tr>
    <tr><th>Source dirs:</th><td>{{range .SrcDirs}}{{.}} {{end}}</td></tr>
    <tr><th>Server time:</th><td>{{.ServerTime}}</td></tr>
    {{if .LastFrame}}<tr><th>Raised in:</th><td>{{.LastFrame.Func}}, {{.LastFrame.File}}:{{.LastFrame.Line}}</td></tr>{{end}}
  </table>
</div>

{{if .UnicodeHint}}
<div id="unicode-hint">
  <h3>Unicode error hint</h3>
  <p>The string that could not be decoded was:</p>
  <pre>{{.UnicodeHint}}</pre>
</div>
{{end}}

<div id="traceback">
  <h2>Traceback <span>(innermost cause first)</span></h2>
  <ul class="traceback-frames">
    {{$prevCause := ""}}
    {{range .Frames}}
      {{if and .CauseSummary (ne .CauseSummary $prevCause)}}
        <li class="cause">
          {{if .CauseExplicit}}
            The above exception ({{.CauseSummary}}) was the direct cause of the following exception:
          {{else}}
            During handling of the above exception ({{.CauseSummary}}), another exception occurred:
          {{end}}
        </li>
      {{end}}
      {{$prevCause = .CauseSummary}}
      <li class="frame {{.Kind}}">
        <code class="fname">{{.File}}</code> in <code>{{.Func}}</code>

        <div class="context">
          <ol start="{{.Context.PreStart}}">
            {{range .Context.PreLines}}<li>{{.}}</li>
            {{end}}
            <li class="current-line">{{.Context.Line}}</li>
            {{range .Context.PostLines}}<li>{{.}}</li>
            {{end}}
          </ol>
        </div>

        {{if .Vars}}
        <h3>Local vars</h3>
        <table class="vars">
          <thead><tr><th>Variable</th><th>Value</th></tr></thead>
          <tbody>
            {{range .Vars}}
            <tr><td>{{.Name}}</td><td>{{preescaped .Value}}</td></tr>
            {{end}}
          </tbody>
        </table>
        {{end}}
      </li>
    {{end}}
  </ul>
</div>

</body>
</html>
`
