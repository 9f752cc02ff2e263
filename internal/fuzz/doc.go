// Package fuzztests houses Go fuzz harnesses for the trivia scanner and the
// text span algebra. They check that arbitrary input never panics and that
// reported ranges keep their structural invariants.
//
// Назначение: прогонять произвольные байты через IterateCommentRanges во всех
// режимах и сверять результаты с internal/testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/lexer, internal/source, internal/testkit, internal/token.
package fuzztests
