// Package inbox reads PNLD batch files and watches a directory for new ones.
//
// A batch file is JSON of the form
//
//	{"records": [{"SourceFileID": "...", "BatchID": "...", "UploadedBy": "...",
//	              "CJSCode": "...", "fields": {"pnldref": "...", ...}}]}
//
// Field values may be strings, numbers, booleans or null. Non-string values
// are rendered as text; null stays absent.
package inbox
