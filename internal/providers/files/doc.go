// Package files provides the mock file explorer application.
//
// Every explorer window browses the same static tree rooted at "This PC".
// Navigation (breadcrumb path and grid/list view mode) is kept per window
// instance. File sizes and MIME types are derived from the mock content.
//
// Tools:
//   - files.list, files.open, files.breadcrumb, files.sidebar
//   - files.view: toggle grid/list
//   - files.search: doublestar glob over root-relative paths
package files
