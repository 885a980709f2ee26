// Package notes provides the mock notes application.
//
// Note text is persisted per window instance under
// "notes-app-content-<instanceID>" through the session adapter. Previews are
// reduced to plain text with bluemonday before truncation.
package notes
