// Package compiler provides the DummyC front-end: a line-oriented lexer, a
// backtracking recursive-descent parser with an embedded symbol table, and
// the AST it produces for an external lowering stage.
//
// Pipeline: DummyC source → Lex → TokenStream → Parse → TranslationUnit
package compiler
