// Package fuzztests houses Go fuzz harnesses that exercise the expansion
// pipeline (source -> lexer -> qualifier parser -> expand). Its goal is to
// smoke test robustness and guard against panics or broken edits on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, разбор спецификаций и раскрытие аннотаций.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/qualifier,
// internal/expand, internal/testkit.
package fuzztests
