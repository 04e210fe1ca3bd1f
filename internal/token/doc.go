// Package token defines the tokens of the declaration language read by the
// generator: type declarations, namespaces, using directives and attributes.
// Member bodies are tokenized too but only skipped by the parser.
package token
