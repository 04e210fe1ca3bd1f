// Package fuzztests houses Go fuzz harnesses over the declaration front end
// and the union pipeline (source -> lexer -> parser -> validate -> extract ->
// compose). The goal is to catch panics, hangs and broken span invariants
// on arbitrary input.
//
// Назначение: прогонять произвольные байты через весь конвейер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
