// Package extract derives Java API metadata from jar archives.
//
// # Modes
//
// In primary mode the extractor selects .class entries and looks for the
// matching .java entry in the sources sidecar; a class without source text
// becomes a stub (name, package, "public"). In sources mode it selects .java
// entries and scans them directly. Both modes skip directories, META-INF,
// nested types (names containing '$'), package-info and module-info.
//
// With a javadoc sidecar, the class description is read from
// <package dirs>/<Name>.html: the first <div class="block">, or the first <p>.
//
// # Lexical Scanner
//
// [LexicalScanner] is a bounded pattern scanner, not a Java grammar. Comments
// and literals are masked first, then the type body is cut into member
// declarations at brace depth one. Recognised shapes:
//
//	[/** doc */] [mods] class|interface|enum|record Name [<T>] [extends A] [implements B, C] {
//	[/** doc */] [@Ann] [mods] [<T>] Type name(Type a, Type b) [throws X] { | ;
//	[/** doc */] [@Ann] [mods] Name(Type a)                              (constructor)
//	[/** doc */] [@Ann] [mods] Type name [= init];
//
// Generic arguments may nest and signatures may span lines. Only the first
// declarator of "int a, b;" is kept. Doc blocks contribute the description,
// @param texts (attached to parameters by name) and <pre>/{@code} examples.
//
// [TreeSitterScanner] covers the same model with a real parser.
package extract
