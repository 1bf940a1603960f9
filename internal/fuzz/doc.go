// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (parser JSON -> ast.Tree -> walker -> resolver). They guard against panics
// and broken scope invariants on arbitrary parser output and source text.
//
// Назначение: подавать произвольные байты в astjson.Decode, lint.Analyze и
// построчный сканер, проверяя инварианты через testkit.
//
// Не делает: запуск внешнего парсера, запись файлов, выполнение CLI.
//
// Зависимости: internal/astjson, internal/lint, internal/source,
// internal/testkit.

package fuzztests
