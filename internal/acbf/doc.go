// Package acbf reads, edits and writes Advanced Comic Book Format documents.
//
// Parse accepts the 1.0, 1.1 and 1.2 namespaces and any charset the XML
// prolog declares. Elements and attributes the model does not name are kept
// and written back in place, so a document that is parsed and written again
// without edits comes out unchanged. Save normalises the document first;
// Write encodes it as held.
package acbf
